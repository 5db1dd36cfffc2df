package parser

import (
	"sort"

	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
	"github.com/frherrer/GoE2E-CaseDoc/internal/source"
)

// GoSourceReader reads test cases written as marked comments in Go code.
type GoSourceReader struct{}

// NewGoSourceReader creates a new GoSourceReader.
func NewGoSourceReader() *GoSourceReader {
	return &GoSourceReader{}
}

// SupportedExtensions returns the file extensions this reader handles.
func (r *GoSourceReader) SupportedExtensions() []string {
	return []string{".go"}
}

// Read returns one source per document id found in the file, ordered by id.
// Files without marked comments yield no sources.
func (r *GoSourceReader) Read(filePath string, content []byte) ([]domain.CaseSource, error) {
	groups, err := source.ExtractDocFragments(string(content))
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("read", filePath, 0,
			"failed to parse go source",
			"the file must compile as Go syntax before its comments can be extracted",
			err)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sources []domain.CaseSource
	for _, id := range ids {
		doc := groups[id].BuildDoc()
		if doc.IsEmpty() {
			continue
		}
		sources = append(sources, domain.CaseSource{
			FilePath: filePath,
			FileType: "go",
			DocID:    id,
			Content:  doc.BuildRST(),
			Issues:   doc.Issues(),
		})
	}
	return sources, nil
}
