package parser

import (
	"github.com/frherrer/GoE2E-CaseDoc/internal/casedoc"
	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
)

// RstReader reads a reStructuredText test case. The file is kept as
// written; the document model is only built to validate it.
type RstReader struct{}

// NewRstReader creates a new RstReader.
func NewRstReader() *RstReader {
	return &RstReader{}
}

// SupportedExtensions returns the file extensions this reader handles.
func (r *RstReader) SupportedExtensions() []string {
	return []string{".rst", ".txt"}
}

// Read returns the file as a single source.
func (r *RstReader) Read(filePath string, content []byte) ([]domain.CaseSource, error) {
	frags := casedoc.NewFragments()
	frags.AddFragment(string(content), 0)
	doc := frags.BuildDoc()

	return []domain.CaseSource{{
		FilePath: filePath,
		FileType: "rst",
		Content:  string(content),
		Issues:   doc.Issues(),
	}}, nil
}
