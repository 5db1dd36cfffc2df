// Package source extracts test-case fragments from the comments of Go
// source files.
package source

import (
	"fmt"
	"go/parser"
	"go/token"
	"strings"

	"github.com/frherrer/GoE2E-CaseDoc/internal/casedoc"
)

// Marker opens a test-case fragment. It must be the first token of the
// comment's first line.
const Marker = "@casedoc"

// DefaultID routes a fragment to the default document shared by every
// identified document of the file.
const DefaultID = "default"

// Literal is the text of one comment group.
type Literal struct {
	Content string
	Line    int // line of the group's last line
}

// ClassifyFragment reports whether text starts with Marker and returns the
// identifiers following it and the remaining text, indentation untouched.
func ClassifyFragment(text string) (bool, []string, string) {
	first, payload, _ := strings.Cut(text, "\n")
	fields := strings.Fields(first)
	if len(fields) == 0 || fields[0] != Marker {
		return false, nil, ""
	}
	return true, fields[1:], payload
}

// Literals returns every comment group of a Go source file, in source
// order, with common indentation removed.
func Literals(src string) ([]Literal, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse go source: %w", err)
	}
	out := make([]Literal, 0, len(f.Comments))
	for _, cg := range f.Comments {
		out = append(out, Literal{
			Content: dedent(cg.Text()),
			Line:    fset.Position(cg.End()).Line,
		})
	}
	return out, nil
}

// ExtractDocFragments groups the marked comments of src by document id. A
// fragment without ids goes under "". Fragments tagged DefaultID become the
// default of every identified group; the default group is dropped once it
// has been attached to at least one.
func ExtractDocFragments(src string, opts ...casedoc.FragmentsOption) (map[string]*casedoc.Fragments, error) {
	literals, err := Literals(src)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*casedoc.Fragments)
	group := func(id string) *casedoc.Fragments {
		g, ok := groups[id]
		if !ok {
			g = casedoc.NewFragments(opts...)
			groups[id] = g
		}
		return g
	}

	for _, lit := range literals {
		ok, ids, payload := ClassifyFragment(lit.Content)
		if !ok {
			continue
		}
		if len(ids) == 0 {
			group("").AddFragment(payload, lit.Line)
			continue
		}
		for _, id := range ids {
			group(id).AddFragment(payload, lit.Line)
		}
	}

	def, ok := groups[DefaultID]
	if !ok {
		return groups, nil
	}
	attached := false
	for id, g := range groups {
		if id == DefaultID || id == "" || g.Default() != nil {
			continue
		}
		g.SetDefault(def)
		attached = true
	}
	if attached {
		delete(groups, DefaultID)
	}
	return groups, nil
}

// dedent removes the longest whitespace prefix shared by all non-blank lines.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	prefix := ""
	first := true
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		ws := l[:len(l)-len(strings.TrimLeft(l, " \t"))]
		if first {
			prefix, first = ws, false
			continue
		}
		for !strings.HasPrefix(ws, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	if prefix == "" {
		return text
	}
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(l, prefix)
	}
	return strings.Join(lines, "\n")
}
