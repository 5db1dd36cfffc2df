// Package export maps a rendered test case onto the interchange XML layout.
package export

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/frherrer/GoE2E-CaseDoc/internal/casedoc"
	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
)

// ContentType controls how rendered HTML fragments are embedded.
type ContentType int

const (
	// ContentRaw embeds the HTML verbatim.
	ContentRaw ContentType = iota
	// ContentCDATA wraps the HTML in a CDATA section.
	ContentCDATA
	// ContentPlain flattens the HTML to its text.
	ContentPlain
)

var contentTypeNames = map[ContentType]string{
	ContentRaw:   "raw",
	ContentCDATA: "cdata",
	ContentPlain: "plaintext",
}

func (c ContentType) String() string {
	if name, ok := contentTypeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ContentType(%d)", int(c))
}

// ParseContentType parses "raw", "cdata" or "plaintext".
func ParseContentType(s string) (ContentType, error) {
	for c, name := range contentTypeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return c, nil
		}
	}
	return 0, &domain.DocumentStructureError{Message: fmt.Sprintf("unsupported content type %q", s)}
}

// Sections returns the catalogue sections carried by an export.
func Sections() []casedoc.Section {
	return []casedoc.Section{casedoc.Description, casedoc.Setup, casedoc.Teardown}
}

// Field is one metadata entry.
type Field struct {
	Name  string
	Value string
}

// Document is a test case ready for XML serialisation. Content strings are
// HTML fragments, except in ContentPlain mode where they are text.
type Document struct {
	ID    string
	Title string

	contentType ContentType
	metadata    []Field
	sections    map[casedoc.Section]string
	actions     *casedoc.ActionRegistry[string]
}

// NewDocument creates an empty export document.
func NewDocument(ct ContentType) (*Document, error) {
	if _, ok := contentTypeNames[ct]; !ok {
		return nil, &domain.DocumentStructureError{Message: fmt.Sprintf("unsupported content type %v", ct)}
	}
	return &Document{
		contentType: ct,
		sections:    make(map[casedoc.Section]string),
		actions:     casedoc.NewActionRegistry[string](),
	}, nil
}

// ContentType returns the embedding mode.
func (d *Document) ContentType() ContentType {
	return d.contentType
}

// SetMetadata sets a metadata value. A new name is appended; an existing
// name keeps its position and takes the new value.
func (d *Document) SetMetadata(name, value string) {
	for i := range d.metadata {
		if d.metadata[i].Name == name {
			d.metadata[i].Value = value
			return
		}
	}
	d.metadata = append(d.metadata, Field{Name: name, Value: value})
}

// Metadata returns the metadata in insertion order.
func (d *Document) Metadata() []Field {
	return append([]Field(nil), d.metadata...)
}

// AddSection stores content for one of Sections().
func (d *Document) AddSection(s casedoc.Section, content string) error {
	for _, allowed := range Sections() {
		if s == allowed {
			d.sections[s] = content
			return nil
		}
	}
	return &domain.DocumentStructureError{Message: fmt.Sprintf("section %q is not exported", s)}
}

// Section returns the stored content of s.
func (d *Document) Section(s casedoc.Section) (string, bool) {
	c, ok := d.sections[s]
	return c, ok
}

// AddAction stores a step or result payload.
func (d *Document) AddAction(kind, content string, id int) (int, error) {
	return d.actions.Add(kind, content, id)
}

// Actions returns the stored actions in id order.
func (d *Document) Actions() []casedoc.Action[string] {
	return d.actions.Actions()
}

type xmlContent struct {
	Raw   string `xml:",innerxml"`
	CDATA string `xml:",cdata"`
	Text  string `xml:",chardata"`
}

type xmlField struct {
	Name string `xml:"name,attr"`
	xmlContent
}

type xmlColumn struct {
	ID string `xml:"id,attr"`
	xmlContent
}

type xmlStep struct {
	Columns []xmlColumn `xml:"test-step-column"`
}

type xmlMetadata struct {
	Fields []xmlField `xml:"field"`
}

type xmlSteps struct {
	Steps []xmlStep `xml:"test-step"`
}

type xmlTestCase struct {
	XMLName     xml.Name     `xml:"testcase"`
	ID          string       `xml:"id,attr,omitempty"`
	Title       string       `xml:"title,omitempty"`
	Metadata    *xmlMetadata `xml:"metadata"`
	Description *xmlContent  `xml:"description"`
	Setup       *xmlContent  `xml:"setup"`
	Teardown    *xmlContent  `xml:"teardown"`
	Steps       *xmlSteps    `xml:"test-steps"`
}

// XML serialises the document, starting with the XML header.
func (d *Document) XML() ([]byte, error) {
	tc := xmlTestCase{ID: d.ID, Title: d.Title}

	if len(d.metadata) > 0 {
		fields := make([]xmlField, 0, len(d.metadata))
		for _, f := range d.metadata {
			fields = append(fields, xmlField{Name: f.Name, xmlContent: d.wrap(f.Value)})
		}
		tc.Metadata = &xmlMetadata{Fields: fields}
	}
	tc.Description = d.sectionContent(casedoc.Description)
	tc.Setup = d.sectionContent(casedoc.Setup)
	tc.Teardown = d.sectionContent(casedoc.Teardown)

	if actions := d.actions.Actions(); len(actions) > 0 {
		tc.Steps = &xmlSteps{}
		for _, a := range actions {
			tc.Steps.Steps = append(tc.Steps.Steps, xmlStep{Columns: []xmlColumn{
				{ID: "step", xmlContent: d.wrap(a.Step)},
				{ID: "expectedResult", xmlContent: d.wrap(a.Result)},
			}})
		}
	}

	out, err := xml.MarshalIndent(tc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal test case: %w", err)
	}
	return append(append([]byte(xml.Header), out...), '\n'), nil
}

func (d *Document) sectionContent(s casedoc.Section) *xmlContent {
	c, ok := d.sections[s]
	if !ok {
		return nil
	}
	w := d.wrap(c)
	return &w
}

func (d *Document) wrap(content string) xmlContent {
	switch d.contentType {
	case ContentCDATA:
		return xmlContent{CDATA: content}
	case ContentPlain:
		return xmlContent{Text: content}
	default:
		return xmlContent{Raw: content}
	}
}
