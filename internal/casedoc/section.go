package casedoc

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/frherrer/GoE2E-CaseDoc/internal/markup"
)

// Section is one member of the fixed test-case section catalogue. Two
// sections are equal iff their titles are equal.
type Section struct {
	title string
}

var (
	// Header is the untitled leading span holding the document title and
	// its metadata field list.
	Header      = Section{}
	Description = Section{title: "Description"}
	Setup       = Section{title: "Setup"}
	Steps       = Section{title: "Test Steps"}
	Teardown    = Section{title: "Teardown"}
)

// Catalogue returns every section in canonical output order.
func Catalogue() []Section {
	return []Section{Header, Description, Setup, Steps, Teardown}
}

// MandatorySections returns the sections every test case must define.
func MandatorySections() []Section {
	return []Section{Description, Setup, Steps, Teardown}
}

// Title returns the heading text; empty for Header.
func (s Section) Title() string {
	return s.title
}

// ID returns the lowercase anchor used for the section in rendered output.
func (s Section) ID() string {
	if s == Header {
		return "header"
	}
	return markup.Anchor(s.title)
}

func (s Section) String() string {
	if s == Header {
		return "header"
	}
	return s.title
}

// SectionByTitle looks up a catalogue section by its heading text. Matching
// is case-sensitive on the NFC form of the trimmed title. The empty title
// resolves to Header.
func SectionByTitle(title string) (Section, bool) {
	title = norm.NFC.String(strings.TrimSpace(title))
	for _, s := range Catalogue() {
		if s.title == title {
			return s, true
		}
	}
	return Section{}, false
}
