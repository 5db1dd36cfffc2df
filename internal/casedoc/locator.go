package casedoc

import (
	"strconv"
	"strings"

	"github.com/frherrer/GoE2E-CaseDoc/internal/markup"
)

// RstSection is the line span of one top-level section. Lines are 1-based
// and inclusive; Title is empty for the header pseudo-section.
type RstSection struct {
	Title string
	Start int
	End   int
}

// Section resolves the span to a catalogue section.
func (s RstSection) Section() (Section, bool) {
	return SectionByTitle(s.Title)
}

// RstTestAction is the line span of one action directive. ID is 0 for a
// test_action directive.
type RstTestAction struct {
	ID    int
	Kind  string
	Start int
	End   int
}

// Location is the structural scan of one markup text.
type Location struct {
	Sections []RstSection
	Actions  []RstTestAction
	Messages []markup.Message
}

// Locator finds section and action boundaries by position in the parse tree.
// It only parses; transforms are never applied.
type Locator struct {
	engine *markup.Engine
}

// NewLocator creates a locator parsing with engine, which must have the
// action directives registered.
func NewLocator(engine *markup.Engine) *Locator {
	return &Locator{engine: engine}
}

var defaultLocator = NewLocator(NewEngine(DisplayTable))

// FindSections locates sections with the package default locator.
func FindSections(text string) []RstSection {
	return defaultLocator.FindSections(text)
}

// FindActions locates actions with the package default locator.
func FindActions(text string) []RstTestAction {
	return defaultLocator.FindActions(text)
}

// FindSections returns the top-level section spans of text.
func (l *Locator) FindSections(text string) []RstSection {
	return l.Locate(text).Sections
}

// FindActions returns the action directive spans of text.
func (l *Locator) FindActions(text string) []RstTestAction {
	return l.Locate(text).Actions
}

// Locate parses text once and returns its sections, actions and parse
// messages.
func (l *Locator) Locate(text string) Location {
	root := l.engine.Parse(text)
	last := LastLineNum(text)
	return Location{
		Sections: sectionSpans(root, last),
		Actions:  actionSpans(root, last),
		Messages: root.Messages,
	}
}

func sectionSpans(root *markup.Node, last int) []RstSection {
	var (
		sections []*markup.Node
		title    *markup.Node
		fields   *markup.Node
	)
	for _, c := range root.Children {
		switch {
		case c.Kind == markup.KindSection:
			sections = append(sections, c)
		case c.Kind == markup.KindTitle && title == nil:
			title = c
		case c.Kind == markup.KindFieldList && fields == nil && len(sections) == 0:
			fields = c
		}
	}

	var out []RstSection
	switch {
	case fields != nil:
		out = append(out, RstSection{Start: 1, End: fields.EndLine})
	case title != nil && len(sections) == 0:
		return []RstSection{{Title: title.Text, Start: 1, End: last}}
	case title != nil:
		out = append(out, RstSection{Start: 1, End: title.EndLine})
	}

	for i, s := range sections {
		end := last
		if i+1 < len(sections) {
			end = sections[i+1].Line - 1
		}
		out = append(out, RstSection{Title: s.Title(), Start: s.Line, End: end})
	}
	return out
}

func actionSpans(root *markup.Node, last int) []RstTestAction {
	var headings []int
	root.Walk(func(n *markup.Node) bool {
		if n.Kind == markup.KindSection {
			headings = append(headings, n.Line)
		}
		return true
	})

	placeholders := root.Find(IsActionPlaceholder)
	out := make([]RstTestAction, 0, len(placeholders))
	for i, p := range placeholders {
		end := last
		if i+1 < len(placeholders) {
			end = min(end, placeholders[i+1].Line-1)
		}
		for _, h := range headings {
			if h > p.Line {
				end = min(end, h-1)
				break
			}
		}
		id, _ := strconv.Atoi(p.Attr(attrActionID))
		out = append(out, RstTestAction{
			ID:    id,
			Kind:  p.Attr(attrActionName),
			Start: p.Line,
			End:   end,
		})
	}
	return out
}

// LastLineNum returns the number of the last line of text. A trailing
// newline does not start a new line; the empty string has no lines.
func LastLineNum(text string) int {
	n := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

// SliceLines returns lines start through end of text, 1-based and
// inclusive, each terminated by a newline.
func SliceLines(text string, start, end int) string {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	start = max(start, 1)
	end = min(end, len(lines))
	if start > end {
		return ""
	}
	out := strings.Join(lines[start-1:end], "")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}
