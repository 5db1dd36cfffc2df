package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/frherrer/GoE2E-CaseDoc/internal/casedoc"
	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
	"github.com/frherrer/GoE2E-CaseDoc/internal/markup"
)

// MarkdownReader imports Markdown test cases using goldmark. YAML front
// matter becomes the metadata field list, the level-one heading the document
// title and level-two headings the catalogue sections. Fenced blocks tagged
// test-step or test-result become test actions.
type MarkdownReader struct {
	md goldmark.Markdown
}

// NewMarkdownReader creates a new MarkdownReader.
func NewMarkdownReader() *MarkdownReader {
	return &MarkdownReader{md: goldmark.New()}
}

// SupportedExtensions returns the file extensions this reader handles.
func (r *MarkdownReader) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Read converts the Markdown file into one reStructuredText source.
func (r *MarkdownReader) Read(filePath string, content []byte) ([]domain.CaseSource, error) {
	fields, body, offset, err := splitFrontMatter(content)
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("read", filePath, 1,
			"invalid front matter",
			"front matter must be a YAML mapping between two --- lines",
			err)
	}

	c := &mdConverter{
		source: body,
		offset: offset,
		doc:    casedoc.NewDocument(),
	}
	c.convert(r.md.Parser().Parse(text.NewReader(body)), fields)

	return []domain.CaseSource{{
		FilePath: filePath,
		FileType: "markdown",
		Content:  c.doc.BuildRST(),
		Issues:   append(c.issues, c.doc.Issues()...),
	}}, nil
}

type mdField struct {
	name  string
	value string
}

// splitFrontMatter separates a leading "---" delimited YAML mapping from
// the body. offset is the number of lines removed.
func splitFrontMatter(content []byte) ([]mdField, []byte, int, error) {
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, content, 0, nil
	}
	rest := normalized[4:]
	end := bytes.Index(rest, []byte("\n---\n"))
	var front, body []byte
	switch {
	case end >= 0:
		front, body = rest[:end+1], rest[end+5:]
	case bytes.HasSuffix(rest, []byte("\n---")):
		front, body = rest[:len(rest)-3], nil
	default:
		return nil, content, 0, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(front, &node); err != nil {
		return nil, nil, 0, err
	}
	var fields []mdField
	if len(node.Content) > 0 {
		m := node.Content[0]
		if m.Kind != yaml.MappingNode {
			return nil, nil, 0, fmt.Errorf("front matter is not a mapping")
		}
		for i := 0; i+1 < len(m.Content); i += 2 {
			k, v := m.Content[i], m.Content[i+1]
			if v.Kind != yaml.ScalarNode {
				return nil, nil, 0, fmt.Errorf("front matter field %q must be a scalar", k.Value)
			}
			fields = append(fields, mdField{name: k.Value, value: v.Value})
		}
	}
	offset := bytes.Count(normalized[:len(normalized)-len(body)], []byte("\n"))
	return fields, body, offset, nil
}

type mdConverter struct {
	source []byte
	offset int
	doc    *casedoc.Document
	issues []domain.Issue

	maxID int
}

type mdChunk struct {
	section casedoc.Section
	line    int
	title   string
	blocks  []string
	known   bool
}

func (c *mdConverter) convert(root ast.Node, fields []mdField) {
	header := &mdChunk{section: casedoc.Header, line: 1, known: true}
	if len(fields) > 0 {
		var b strings.Builder
		for _, f := range fields {
			fmt.Fprintf(&b, ":%s: %s\n", f.name, strings.ReplaceAll(f.value, "\n", " "))
		}
		header.blocks = append(header.blocks, b.String())
	}
	chunks := []*mdChunk{header}
	current := header

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level <= 2 {
			title := c.inline(h)
			if h.Level == 1 && current == header && header.title == "" {
				header.title = title
				continue
			}
			s, known := casedoc.SectionByTitle(title)
			if !known || s == casedoc.Header {
				c.issue(c.line(h), fmt.Sprintf("unknown section %q ignored", title))
			}
			current = &mdChunk{section: s, line: c.line(h), title: title, known: known && s != casedoc.Header}
			chunks = append(chunks, current)
			continue
		}

		if fence, ok := n.(*ast.FencedCodeBlock); ok && c.action(fence) {
			continue
		}
		if block := c.block(n, 0); block != "" {
			current.blocks = append(current.blocks, block)
		}
	}

	for _, ch := range chunks {
		// Test Steps made only of actions is generated from the registry
		if !ch.known || (ch.section == casedoc.Steps && len(ch.blocks) == 0) {
			continue
		}
		var b strings.Builder
		if ch.section == casedoc.Header {
			if ch.title != "" {
				bar := strings.Repeat("=", markup.DisplayWidth(ch.title))
				b.WriteString(bar + "\n" + ch.title + "\n" + bar + "\n")
			}
		} else {
			b.WriteString(markup.Heading(ch.title, '='))
		}
		for _, block := range ch.blocks {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(strings.TrimRight(block, "\n") + "\n")
		}
		if b.Len() == 0 {
			continue
		}
		c.doc.AddSection(ch.section, b.String(), ch.line)
	}
}

// action converts a fenced block tagged with an action kind. It reports
// false for any other fenced block.
func (c *mdConverter) action(n *ast.FencedCodeBlock) bool {
	var info string
	if n.Info != nil {
		info = string(n.Info.Segment.Value(c.source))
	}
	parts := parseInfoString(info)
	kind := strings.ReplaceAll(parts["_tag"], "-", "_")
	if kind != casedoc.ActionStep && kind != casedoc.ActionResult {
		return false
	}

	id := 0
	if raw, ok := parts["id"]; ok {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.issue(c.line(n), fmt.Sprintf("invalid action id %q", raw))
			return true
		}
		id = v
	}
	if id == 0 {
		id = c.maxID + 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, ".. %s:: %d\n\n", kind, id)
	for _, line := range strings.Split(strings.TrimRight(c.lines(n), "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString("    " + line + "\n")
	}
	if _, err := c.doc.AddTestAction(kind, b.String(), id); err != nil {
		c.issue(c.line(n), err.Error())
		return true
	}
	c.maxID = max(c.maxID, id)
	return true
}

// block renders one Markdown block as reStructuredText.
func (c *mdConverter) block(n ast.Node, depth int) string {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return c.inline(node)
	case *ast.Heading:
		title := c.inline(node)
		adornment := byte('-')
		if node.Level > 3 {
			adornment = '~'
		}
		return strings.TrimRight(markup.Heading(title, adornment), "\n")
	case *ast.FencedCodeBlock:
		lang := string(node.Language(c.source))
		head := ".. code-block::"
		if lang != "" {
			head += " " + lang
		}
		return head + "\n\n" + indent(c.lines(node), "    ")
	case *ast.CodeBlock:
		return "::\n\n" + indent(c.lines(node), "    ")
	case *ast.Blockquote:
		return indent(c.children(node, depth), "    ")
	case *ast.List:
		return c.list(node, depth)
	case *ast.ThematicBreak:
		return "----"
	default:
		return ""
	}
}

func (c *mdConverter) children(n ast.Node, depth int) string {
	var parts []string
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if s := c.block(child, depth); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (c *mdConverter) list(n *ast.List, depth int) string {
	var items []string
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "- "
		if n.IsOrdered() {
			marker = "#. "
		}
		body := c.children(item, depth+1)
		pad := strings.Repeat(" ", len(marker))
		lines := strings.Split(body, "\n")
		for i := range lines {
			switch {
			case i == 0:
				lines[i] = marker + lines[i]
			case lines[i] != "":
				lines[i] = pad + lines[i]
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	sep := "\n"
	if !n.IsTight {
		sep = "\n\n"
	}
	return strings.Join(items, sep)
}

// inline renders the inline children of n as reStructuredText.
func (c *mdConverter) inline(n ast.Node) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(c.source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeSpan:
			b.WriteString("``" + c.plain(node) + "``")
		case *ast.Emphasis:
			mark := strings.Repeat("*", node.Level)
			b.WriteString(mark + c.inline(node) + mark)
		case *ast.Link:
			fmt.Fprintf(&b, "`%s <%s>`_", c.inline(node), node.Destination)
		case *ast.AutoLink:
			b.Write(node.URL(c.source))
		case *ast.Image:
			b.WriteString(c.plain(node))
		default:
			b.WriteString(c.inline(node))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// plain returns the raw text of the Text descendants of n.
func (c *mdConverter) plain(n ast.Node) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			b.Write(t.Segment.Value(c.source))
			continue
		}
		b.WriteString(c.plain(child))
	}
	return b.String()
}

func (c *mdConverter) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(c.source))
	}
	return buf.String()
}

// line returns the 1-based line of n in the original file.
func (c *mdConverter) line(n ast.Node) int {
	if n.Lines().Len() > 0 {
		return lineNumber(c.source, n.Lines().At(0).Start) + c.offset
	}
	if first, ok := n.FirstChild().(*ast.Text); ok {
		return lineNumber(c.source, first.Segment.Start) + c.offset
	}
	return c.offset + 1
}

func (c *mdConverter) issue(line int, msg string) {
	c.issues = append(c.issues, domain.Issue{Line: line, Message: msg})
}

func indent(s, pad string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lines[i] = pad + l
		} else {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

// parseInfoString parses a fenced code block info string like:
//
//	"test-step id=3"
//
// Returns map with _tag for the language tag and other key-value pairs.
func parseInfoString(info string) map[string]string {
	result := make(map[string]string)
	info = strings.TrimSpace(info)
	if info == "" {
		return result
	}

	// First token is the language tag
	parts := splitInfoString(info)
	if len(parts) == 0 {
		return result
	}

	result["_tag"] = parts[0]

	// Remaining tokens are key=value pairs
	for _, part := range parts[1:] {
		if idx := strings.Index(part, "="); idx > 0 {
			key := part[:idx]
			val := part[idx+1:]
			// Remove surrounding quotes
			val = strings.Trim(val, "\"'")
			result[key] = val
		}
	}

	return result
}

// splitInfoString splits the info string respecting quoted values.
func splitInfoString(s string) []string {
	var parts []string
	var current strings.Builder
	inQuote := false
	quoteChar := byte(0)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote:
			if c == quoteChar {
				inQuote = false
			}
			current.WriteByte(c)
		case c == '"' || c == '\'':
			inQuote = true
			quoteChar = c
			current.WriteByte(c)
		case c == ' ' || c == '\t':
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// lineNumber calculates the 1-based line number for a byte offset.
func lineNumber(content []byte, offset int) int {
	return bytes.Count(content[:offset], []byte("\n")) + 1
}
