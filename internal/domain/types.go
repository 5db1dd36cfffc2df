package domain

import "fmt"

// Issue is a soft validation problem. It never stops regeneration.
type Issue struct {
	Line    int // 0 for document-level issues
	Message string
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s", i.Line, i.Message)
	}
	return i.Message
}

// CaseSource is one logical test-case document ready to be rendered.
type CaseSource struct {
	FilePath string
	FileType string // "rst", "go", "markdown"
	DocID    string // empty when the source holds a single unnamed document
	Content  string // canonical reStructuredText
	Issues   []Issue
}

// Output is one rendered representation of a CaseSource.
type Output struct {
	Format  string // "rst", "html", "pseudoxml", "xml"
	Content []byte
}
