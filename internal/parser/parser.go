package parser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
)

// Reader turns one input file into test-case sources.
type Reader interface {
	Read(filePath string, content []byte) ([]domain.CaseSource, error)
	SupportedExtensions() []string
}

// ReaderRegistry maps file extensions to readers.
type ReaderRegistry interface {
	Register(reader Reader)
	ReaderFor(extension string) (Reader, error)
}

// DefaultRegistry is a thread-safe reader registry with fallback support.
type DefaultRegistry struct {
	mu       sync.RWMutex
	readers  map[string]Reader
	fallback Reader
}

// NewRegistry creates a new, empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		readers: make(map[string]Reader),
	}
}

// NewDefaultRegistry returns a registry with the reStructuredText, Go and
// Markdown readers registered. Unknown extensions fall back to the
// reStructuredText reader.
func NewDefaultRegistry() *DefaultRegistry {
	r := NewRegistry()
	rst := NewRstReader()
	r.Register(rst)
	r.Register(NewGoSourceReader())
	r.Register(NewMarkdownReader())
	r.SetFallback(rst)
	return r
}

// Register adds a reader to the registry for each of its supported extensions.
func (r *DefaultRegistry) Register(rd Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range rd.SupportedExtensions() {
		ext = strings.TrimPrefix(ext, ".")
		r.readers[ext] = rd
	}
}

// SetFallback sets the fallback reader for unregistered extensions.
func (r *DefaultRegistry) SetFallback(rd Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = rd
}

// ReaderFor returns the reader registered for the given file extension.
// If no reader is found, it returns the fallback reader if set.
func (r *DefaultRegistry) ReaderFor(extension string) (Reader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := strings.TrimPrefix(extension, ".")
	if rd, ok := r.readers[ext]; ok {
		return rd, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("no reader registered for extension %q", extension)
}
