package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/frherrer/GoE2E-CaseDoc/internal/casedoc"
	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
)

const headings = "h1, h2, h3, h4, h5, h6"

// Builder reads the HTML rendering of a test case into a Document.
type Builder struct {
	contentType ContentType
	idField     string
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithIDField names the metadata field promoted to the document id.
// The default is "id".
func WithIDField(name string) BuilderOption {
	return func(b *Builder) { b.idField = name }
}

// NewBuilder creates a builder embedding content as ct.
func NewBuilder(ct ContentType, opts ...BuilderOption) *Builder {
	b := &Builder{contentType: ct, idField: "id"}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build maps rendered HTML onto an export document. The HTML must contain a
// div.document element as produced by the markup engine.
func (b *Builder) Build(html string) (*Document, error) {
	out, err := NewDocument(b.contentType)
	if err != nil {
		return nil, err
	}
	page, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("read rendered html: %w", err)
	}
	root := page.Find("div.document").First()
	if root.Length() == 0 {
		return nil, &domain.DocumentStructureError{Message: "rendered html has no document element"}
	}

	out.Title = strings.TrimSpace(root.ChildrenFiltered("h1.title").First().Text())
	if err := b.metadata(out, root); err != nil {
		return nil, err
	}
	if err := b.sections(out, root); err != nil {
		return nil, err
	}
	if err := b.actions(out, root); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Builder) metadata(out *Document, root *goquery.Selection) error {
	var err error
	root.ChildrenFiltered("dl.field-list").First().ChildrenFiltered("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		name := strings.TrimSpace(dt.Text())
		dd := dt.NextFiltered("dd")
		if name == b.idField {
			out.ID = strings.TrimSpace(dd.Text())
			return true
		}
		var value string
		if value, err = b.content(unwrapParagraph(dd)); err != nil {
			return false
		}
		out.SetMetadata(name, value)
		return true
	})
	return err
}

func (b *Builder) sections(out *Document, root *goquery.Selection) error {
	for _, s := range Sections() {
		sel := root.Find("div.section#" + s.ID()).First()
		if sel.Length() > 0 {
			sel = sel.Clone()
			sel.ChildrenFiltered(headings).Remove()
		} else if out.Title == s.Title() {
			// the section heading was promoted to the document title
			sel = root.Clone()
			sel.ChildrenFiltered("h1.title, dl.field-list").Remove()
		} else {
			continue
		}
		content, err := b.content(sel)
		if err != nil {
			return err
		}
		if err := out.AddSection(s, content); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) actions(out *Document, root *goquery.Selection) error {
	var err error
	for _, kind := range []string{casedoc.ActionStep, casedoc.ActionResult} {
		selector := "." + strings.ReplaceAll(kind, "_", "-") + "[data-action-id]"
		root.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			var id int
			id, err = strconv.Atoi(s.AttrOr("data-action-id", ""))
			if err != nil {
				err = &domain.DocumentStructureError{Message: fmt.Sprintf("invalid action id on %s element", kind)}
				return false
			}
			var content string
			if content, err = b.content(s); err != nil {
				return false
			}
			if content == "" {
				return true
			}
			_, err = out.AddAction(kind, content, id)
			return err == nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// content renders the inside of sel according to the content type.
func (b *Builder) content(sel *goquery.Selection) (string, error) {
	switch b.contentType {
	case ContentPlain:
		return strings.Join(strings.Fields(sel.Text()), " "), nil
	case ContentRaw, ContentCDATA:
		h, err := sel.Html()
		if err != nil {
			return "", fmt.Errorf("render html fragment: %w", err)
		}
		return strings.TrimSpace(h), nil
	default:
		return "", &domain.DocumentStructureError{Message: fmt.Sprintf("unsupported content type %v", b.contentType)}
	}
}

// unwrapParagraph returns the lone paragraph of sel, or sel itself.
func unwrapParagraph(sel *goquery.Selection) *goquery.Selection {
	if kids := sel.Children(); kids.Length() == 1 && kids.Is("p") {
		return kids
	}
	return sel
}
