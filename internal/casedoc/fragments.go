package casedoc

import (
	"fmt"
	"strings"

	"github.com/frherrer/GoE2E-CaseDoc/internal/markup"
)

type fragment struct {
	line int
	text string
}

// at maps a line inside the fragment to the line reported in issues. A
// fragment stored at line 0 is a whole file, so its own lines are file lines.
func (fr fragment) at(line int) int {
	if fr.line == 0 {
		return line
	}
	return fr.line
}

// Fragments accumulates the markup fragments of one logical document,
// keyed by source line. An optional default accumulator supplies the base
// content; it is read but never modified.
type Fragments struct {
	fragments []fragment
	def       *Fragments
	locator   *Locator
}

// FragmentsOption configures Fragments.
type FragmentsOption func(*Fragments)

// WithLocator replaces the package default locator.
func WithLocator(l *Locator) FragmentsOption {
	return func(f *Fragments) { f.locator = l }
}

// NewFragments creates an empty accumulator.
func NewFragments(opts ...FragmentsOption) *Fragments {
	f := &Fragments{locator: defaultLocator}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddFragment stores text found at line. A fragment already stored at the
// same line is replaced in place.
func (f *Fragments) AddFragment(text string, line int) {
	for i := range f.fragments {
		if f.fragments[i].line == line {
			f.fragments[i].text = text
			return
		}
	}
	f.fragments = append(f.fragments, fragment{line: line, text: text})
}

// Len returns the number of stored fragments.
func (f *Fragments) Len() int {
	return len(f.fragments)
}

// Default returns the default accumulator, or nil.
func (f *Fragments) Default() *Fragments {
	return f.def
}

// SetDefault sets the accumulator whose document is used as the base.
func (f *Fragments) SetDefault(def *Fragments) {
	f.def = def
}

// BuildDoc builds a fresh document: the default's document first, then
// every own fragment in insertion order. Sections matched by title override
// the base; action directives are added to the registry. Repeated calls on
// the same state return equal documents.
func (f *Fragments) BuildDoc() *Document {
	var doc *Document
	if f.def != nil {
		doc = f.def.BuildDoc()
		doc.markInherited()
	} else {
		doc = NewDocument()
	}

	for _, fr := range f.fragments {
		loc := f.locator.Locate(fr.text)
		if len(loc.Sections) == 0 && len(loc.Actions) == 0 && strings.TrimSpace(fr.text) != "" {
			doc.record(fr.line, "fragment holds no section or test action")
		}
		for _, m := range loc.Messages {
			if m.Severity < markup.SeverityWarning {
				continue
			}
			doc.record(fr.at(m.Line), m.Text)
		}

		for _, span := range loc.Sections {
			s, ok := span.Section()
			if !ok {
				doc.record(fr.at(span.Start), fmt.Sprintf("unknown section %q ignored", span.Title))
				continue
			}
			if s == Steps && containsAction(span, loc.Actions) {
				if hasProse(fr.text, span, loc.Actions) {
					doc.record(fr.at(span.Start), "Test Steps content discarded in favour of test actions")
				}
				continue
			}
			doc.AddSection(s, SliceLines(fr.text, span.Start, span.End), fr.at(span.Start))
		}

		for _, a := range loc.Actions {
			kind, id := a.Kind, a.ID
			if kind == ActionUnified {
				kind, id = ActionStep, 0
			}
			if _, err := doc.AddTestAction(kind, SliceLines(fr.text, a.Start, a.End), id); err != nil {
				doc.record(fr.at(a.Start), err.Error())
			}
		}
	}
	return doc
}

func containsAction(span RstSection, actions []RstTestAction) bool {
	for _, a := range actions {
		if a.Start >= span.Start && a.Start <= span.End {
			return true
		}
	}
	return false
}

// hasProse reports whether the section span holds non-blank lines outside
// its heading and its action spans.
func hasProse(text string, span RstSection, actions []RstTestAction) bool {
	body := span.Start + 2
	if markup.IsAdornment(strings.TrimSpace(SliceLines(text, span.Start, span.Start))) {
		body++
	}
	for line := body; line <= span.End; line++ {
		inAction := false
		for _, a := range actions {
			if line >= a.Start && line <= a.End {
				inAction = true
				break
			}
		}
		if !inAction && strings.TrimSpace(SliceLines(text, line, line)) != "" {
			return true
		}
	}
	return false
}
