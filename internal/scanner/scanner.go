package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
)

// Scanner discovers test-case source files under one or more roots.
type Scanner interface {
	Scan(roots []string, patterns []string, excludes []string) ([]string, error)
}

// FileScanner implements Scanner using filepath.WalkDir. Hidden directories
// are never entered.
type FileScanner struct {
	Recursive bool
}

// NewScanner creates a new FileScanner.
func NewScanner(recursive bool) *FileScanner {
	return &FileScanner{Recursive: recursive}
}

// Scan walks every root and returns the sorted, de-duplicated paths of files
// matching any include pattern and no exclude pattern. Patterns are matched
// against the path relative to its root.
func (s *FileScanner) Scan(roots []string, patterns []string, excludes []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, root := range roots {
		found, err := s.scanRoot(root, patterns, excludes)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func (s *FileScanner) scanRoot(rootDir string, patterns []string, excludes []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			relPath = path
		}

		if d.IsDir() {
			if relPath == "." {
				return nil
			}
			if !s.Recursive || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			for _, exc := range excludes {
				if matchGlob(relPath, exc) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		for _, exc := range excludes {
			if matchGlob(relPath, exc) {
				return nil
			}
		}
		for _, pattern := range patterns {
			if matchGlob(relPath, pattern) {
				files = append(files, filepath.Clean(path))
				return nil
			}
		}
		return nil
	})

	if err != nil {
		return nil, domain.NewErrorWithSuggestion("scan", rootDir, 0, "failed to scan directory",
			"check input.directories in the configuration", err)
	}
	return files, nil
}

// matchGlob matches a path against a glob pattern, supporting ** for recursive matching.
func matchGlob(path, pattern string) bool {
	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		prefix := strings.TrimSuffix(parts[0], string(filepath.Separator))
		suffix := strings.TrimPrefix(parts[1], string(filepath.Separator))

		if prefix != "" {
			if path != prefix && !strings.HasPrefix(path, prefix+string(filepath.Separator)) {
				return false
			}
			path = strings.TrimPrefix(strings.TrimPrefix(path, prefix), string(filepath.Separator))
		}
		if suffix == "" {
			return true
		}

		// try the suffix against every trailing subpath
		pathParts := strings.Split(path, string(filepath.Separator))
		for i := range pathParts {
			subPath := strings.Join(pathParts[i:], string(filepath.Separator))
			if matched, _ := filepath.Match(suffix, subPath); matched {
				return true
			}
		}
		return false
	}

	if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
		return true
	}
	matched, _ := filepath.Match(pattern, path)
	return matched
}
