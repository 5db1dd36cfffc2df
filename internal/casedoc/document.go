package casedoc

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
	"github.com/frherrer/GoE2E-CaseDoc/internal/markup"
)

type sectionEntry struct {
	content   string
	line      int
	inherited bool // copied from a default document; overriding it is not a duplicate
}

// Document is the in-memory model of one test case: per-section content and
// the action registry. It is not safe for concurrent use.
type Document struct {
	sections map[Section]sectionEntry
	actions  *ActionRegistry[string]
	issues   []domain.Issue
}

// NewDocument creates an empty document. Options configure its registry.
func NewDocument(opts ...RegistryOption) *Document {
	return &Document{
		sections: make(map[Section]sectionEntry),
		actions:  NewActionRegistry[string](opts...),
	}
}

// AddSection stores content for s, replacing earlier content. Redefining a
// section is recorded as an issue at line; line may be 0 when unknown.
func (d *Document) AddSection(s Section, content string, line int) {
	if prev, ok := d.sections[s]; ok && !prev.inherited {
		msg := fmt.Sprintf("section %q is defined more than once", s)
		if prev.line > 0 {
			msg += fmt.Sprintf(" (previous definition at line %d)", prev.line)
		}
		d.record(line, msg)
	}
	d.sections[s] = sectionEntry{content: content, line: line}
}

// AddTestAction adds an action payload. id 0 requests auto-assignment.
func (d *Document) AddTestAction(kind, content string, id int) (int, error) {
	return d.actions.Add(kind, content, id)
}

// IsEmpty reports whether nothing was ever added.
func (d *Document) IsEmpty() bool {
	return len(d.sections) == 0 && d.actions.Len() == 0
}

// Sections returns the sections holding content, in catalogue order.
func (d *Document) Sections() []Section {
	var out []Section
	for _, s := range Catalogue() {
		if _, ok := d.sections[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// MissingSections returns the catalogue sections without content.
func (d *Document) MissingSections() []Section {
	var out []Section
	for _, s := range Catalogue() {
		if _, ok := d.sections[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// GetSection returns the stored content of s.
func (d *Document) GetSection(s Section) (string, error) {
	e, ok := d.sections[s]
	if !ok {
		return "", &domain.DocumentStructureError{Message: fmt.Sprintf("section %q is not defined", s)}
	}
	return e.content, nil
}

// Actions returns the registered actions in id order.
func (d *Document) Actions() []Action[string] {
	return d.actions.Actions()
}

// BuildRST regenerates canonical markup in catalogue order. Each section is
// emitted as stored, without leading or trailing blank lines, and sections
// are separated by one blank line. When actions exist the Test Steps
// section is generated from them and any stored Test Steps text is dropped.
func (d *Document) BuildRST() string {
	var chunks []string
	for _, s := range Catalogue() {
		if s == Steps && d.actions.Len() > 0 {
			var parts []string
			for _, c := range d.actions.Contents() {
				if t := trimBlankLines(c); t != "" {
					parts = append(parts, t)
				}
			}
			chunks = append(chunks, markup.Heading(Steps.Title(), '=')+"\n"+strings.Join(parts, "\n"))
			continue
		}
		e, ok := d.sections[s]
		if !ok {
			continue
		}
		if t := trimBlankLines(e.content); t != "" {
			chunks = append(chunks, t)
		}
	}
	return strings.Join(chunks, "\n")
}

// Issues returns the soft validation problems, ordered by line.
// Document-level issues have line 0.
func (d *Document) Issues() []domain.Issue {
	out := slices.Clone(d.issues)
	hasActions := d.actions.Len() > 0
	for _, s := range MandatorySections() {
		if s == Steps && hasActions {
			continue
		}
		if _, ok := d.sections[s]; !ok {
			out = append(out, domain.Issue{Message: fmt.Sprintf("missing mandatory section %q", s)})
		}
	}
	if e, ok := d.sections[Steps]; ok && hasActions {
		out = append(out, domain.Issue{
			Line:    e.line,
			Message: "Test Steps content discarded in favour of test actions",
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

// Equal reports whether both documents hold the same section content and
// the same actions.
func (d *Document) Equal(other *Document) bool {
	if len(d.sections) != len(other.sections) {
		return false
	}
	for s, e := range d.sections {
		o, ok := other.sections[s]
		if !ok || o.content != e.content {
			return false
		}
	}
	return slices.Equal(d.Actions(), other.Actions())
}

func (d *Document) record(line int, msg string) {
	d.issues = append(d.issues, domain.Issue{Line: line, Message: msg})
}

// markInherited flags every stored section as coming from a default
// document.
func (d *Document) markInherited() {
	for s, e := range d.sections {
		e.inherited = true
		d.sections[s] = e
	}
}

// trimBlankLines strips leading and trailing blank lines and terminates the
// result with a single newline. Blank input yields "".
func trimBlankLines(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
