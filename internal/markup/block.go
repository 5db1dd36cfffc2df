package markup

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Matches ".. name:: arguments"
	directiveRe = regexp.MustCompile(`^\.\.\s+([A-Za-z0-9][\w.:+-]*?)::(?:\s+(.*))?$`)
	// Matches ":name: body"
	fieldRe = regexp.MustCompile(`^:([^:\s][^:]*?):(?:\s+(.*))?$`)
	// Matches "- item", "* item", "+ item"
	bulletRe = regexp.MustCompile(`^([-*+])(?:\s+(.*))?$`)
	// Matches "#. item", "1. item"
	enumRe = regexp.MustCompile(`^(#|\d+)\.(?:\s+(.*))?$`)
)

type blockParser struct {
	engine  *Engine
	root    *Node
	styles  []string
	styleOf map[*Node]string
}

// Parse parses src into a document tree. Problems are recorded as messages
// on the returned root; Parse never fails.
func (e *Engine) Parse(src string) *Node {
	raw := SplitLines(src)
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimRight(expandTabs(l), " ")
	}

	root := NewNode(KindDocument, 1)
	p := &blockParser{
		engine:  e,
		root:    root,
		styleOf: make(map[*Node]string),
	}
	p.nest(p.parseBlocks(lines, 1, true))
	fixEndLines(root)
	root.EndLine = len(lines)

	if e.docTitle {
		promoteTitle(root)
	}
	return root
}

// parseBlocks parses body elements from lines, whose first element is line
// number first. Section titles are only recognised when top is set.
func (p *blockParser) parseBlocks(lines []string, first int, top bool) []*Node {
	var nodes []*Node
	i := 0
	for i < len(lines) {
		line := lines[i]
		ln := first + i

		if isBlank(line) {
			i++
			continue
		}

		if indentOf(line) > 0 {
			block, next := indentedBlock(lines, i)
			quote := NewNode(KindBlockQuote, ln)
			quote.Append(p.parseBlocks(dedent(block), ln, false)...)
			quote.EndLine = first + next - 1
			nodes = append(nodes, quote)
			i = next
			continue
		}

		if top {
			if sec, next, ok := p.parseTitle(lines, i, first); ok {
				nodes = append(nodes, sec)
				i = next
				continue
			}
		}

		if IsAdornment(line) && len(line) >= 4 && (i+1 == len(lines) || isBlank(lines[i+1])) {
			nodes = append(nodes, NewNode(KindTransition, ln))
			i++
			continue
		}

		if line == ".." || strings.HasPrefix(line, ".. ") {
			explicit, next := p.parseExplicit(lines, i, first)
			nodes = append(nodes, explicit...)
			i = next
			continue
		}

		if fieldRe.MatchString(line) {
			list, next := p.parseFieldList(lines, i, first)
			nodes = append(nodes, list)
			i = next
			continue
		}

		if bulletRe.MatchString(line) {
			list, next := p.parseList(lines, i, first, KindBulletList, bulletRe)
			nodes = append(nodes, list)
			i = next
			continue
		}

		if enumRe.MatchString(line) {
			list, next := p.parseList(lines, i, first, KindEnumList, enumRe)
			nodes = append(nodes, list)
			i = next
			continue
		}

		para, next := p.parseParagraph(lines, i, first)
		nodes = append(nodes, para...)
		i = next
	}
	return nodes
}

// parseTitle recognises an underlined or over-and-underlined section title.
func (p *blockParser) parseTitle(lines []string, i, first int) (*Node, int, bool) {
	line := lines[i]

	if IsAdornment(line) && i+2 < len(lines) && !isBlank(lines[i+1]) &&
		IsAdornment(lines[i+2]) && lines[i+2][0] == line[0] {
		title := strings.TrimSpace(lines[i+1])
		sec := p.newSection(title, "o"+line[:1], first+i, first+i+1, first+i+2)
		if len(line) < DisplayWidth(title) {
			p.root.Report(first+i, SeverityWarning, "Title overline too short.")
		}
		return sec, i + 3, true
	}

	if IsAdornment(line) || i+1 >= len(lines) || !IsAdornment(lines[i+1]) {
		return nil, i, false
	}
	title := strings.TrimSpace(line)
	under := lines[i+1]
	w := DisplayWidth(title)
	if len(under) < w && len(under) < 4 {
		return nil, i, false
	}
	if len(under) < w {
		p.root.Report(first+i+1, SeverityWarning, "Title underline too short.")
	}
	return p.newSection(title, "u"+under[:1], first+i, first+i, first+i+1), i + 2, true
}

func (p *blockParser) newSection(title, style string, line, titleLine, endLine int) *Node {
	sec := NewNode(KindSection, line)
	t := NewNode(KindTitle, titleLine)
	t.Text = title
	t.EndLine = endLine
	sec.Append(t)
	p.styleOf[sec] = style
	return sec
}

// nest arranges the flat top-level element list into the section hierarchy.
func (p *blockParser) nest(flat []*Node) {
	stack := []*Node{p.root}
	for _, n := range flat {
		style, isSection := p.styleOf[n]
		if !isSection {
			stack[len(stack)-1].Append(n)
			continue
		}
		level := p.levelFor(style)
		if level > len(stack) {
			p.root.Report(n.Line, SeverityError, fmt.Sprintf("Title level inconsistent: %q.", n.Title()))
			level = len(stack)
		}
		stack = stack[:level]
		n.Level = level
		stack[level-1].Append(n)
		stack = append(stack, n)
	}
}

func (p *blockParser) levelFor(style string) int {
	for i, s := range p.styles {
		if s == style {
			return i + 1
		}
	}
	p.styles = append(p.styles, style)
	return len(p.styles)
}

func (p *blockParser) parseExplicit(lines []string, i, first int) ([]*Node, int) {
	line := lines[i]
	ln := first + i
	block, next := indentedBlock(lines, i+1)
	end := first + next - 1

	m := directiveRe.FindStringSubmatch(line)
	if m == nil {
		c := NewNode(KindComment, ln)
		c.Text = strings.TrimSpace(strings.TrimPrefix(line, ".."))
		c.EndLine = end
		return []*Node{c}, next
	}

	name := m[1]
	fn, ok := p.engine.directives[name]
	if !ok {
		p.root.Report(ln, SeverityError, fmt.Sprintf("Unknown directive type %q.", name))
		return nil, next
	}
	ctx := &DirectiveContext{
		Name:        name,
		Args:        strings.TrimSpace(m[2]),
		Content:     dedent(block),
		Line:        ln,
		ContentLine: ln + 1,
		EndLine:     end,
		parser:      p,
	}
	nodes, err := fn(ctx)
	if err != nil {
		p.root.Report(ln, SeverityError, fmt.Sprintf("Error in %q directive: %v.", name, err))
		return nil, next
	}
	return nodes, next
}

func (p *blockParser) parseFieldList(lines []string, i, first int) (*Node, int) {
	list := NewNode(KindFieldList, first+i)
	for i < len(lines) {
		m := fieldRe.FindStringSubmatch(lines[i])
		if m == nil {
			break
		}
		ln := first + i
		field := NewNode(KindField, ln)
		field.Text = strings.TrimSpace(m[1])

		cont, next := indentedBlock(lines, i+1)
		body, bodyLine := dedent(cont), ln+1
		if text := strings.TrimSpace(m[2]); text != "" {
			body, bodyLine = append([]string{text}, body...), ln
		}
		field.Append(p.parseBlocks(body, bodyLine, false)...)
		field.EndLine = first + next - 1
		list.Append(field)

		i = next
		j := i
		for j < len(lines) && isBlank(lines[j]) {
			j++
		}
		if j < len(lines) && fieldRe.MatchString(lines[j]) {
			i = j
			continue
		}
		break
	}
	return list, i
}

func (p *blockParser) parseList(lines []string, i, first int, kind Kind, re *regexp.Regexp) (*Node, int) {
	list := NewNode(kind, first+i)
	marker := ""
	for i < len(lines) {
		m := re.FindStringSubmatch(lines[i])
		if m == nil || (kind == KindBulletList && marker != "" && m[1] != marker) {
			break
		}
		if marker == "" {
			marker = m[1]
			if kind == KindEnumList && marker != "#" {
				list.SetAttr("start", marker)
			}
		}
		ln := first + i
		item := NewNode(KindListItem, ln)
		cont, next := indentedBlock(lines, i+1)
		body, bodyLine := dedent(cont), ln+1
		if text := strings.TrimSpace(m[2]); text != "" {
			body, bodyLine = append([]string{text}, body...), ln
		}
		item.Append(p.parseBlocks(body, bodyLine, false)...)
		item.EndLine = first + next - 1
		list.Append(item)

		i = next
		j := i
		for j < len(lines) && isBlank(lines[j]) {
			j++
		}
		if j < len(lines) && re.MatchString(lines[j]) {
			i = j
			continue
		}
		break
	}
	return list, i
}

func (p *blockParser) parseParagraph(lines []string, i, first int) ([]*Node, int) {
	start := i
	for i < len(lines) && !isBlank(lines[i]) && indentOf(lines[i]) == 0 {
		i++
	}
	text := strings.Join(lines[start:i], "\n")

	var nodes []*Node
	literal := strings.HasSuffix(text, "::")
	switch {
	case text == "::":
		text = ""
	case strings.HasSuffix(text, " ::"):
		text = strings.TrimSuffix(text, " ::")
	case literal:
		text = strings.TrimSuffix(text, ":")
	}
	if text != "" {
		para := NewNode(KindParagraph, first+start)
		para.Text = text
		para.EndLine = first + i - 1
		nodes = append(nodes, para)
	}
	if !literal {
		return nodes, i
	}

	block, next := indentedBlock(lines, i)
	if len(block) == 0 {
		p.root.Report(first+i-1, SeverityWarning, "Literal block expected; none found.")
		return nodes, i
	}
	body := dedent(block)
	lead := 0
	for lead < len(body) && body[lead] == "" {
		lead++
	}
	lit := NewNode(KindLiteralBlock, first+i+lead)
	lit.Text = strings.Join(body[lead:], "\n")
	lit.EndLine = first + next - 1
	return append(nodes, lit), next
}

// indentedBlock returns the indented lines starting at i, stopping before
// the first non-blank unindented line. Trailing blank lines are excluded;
// next is the index after the last indented line.
func indentedBlock(lines []string, i int) ([]string, int) {
	last := i - 1
	for j := i; j < len(lines); j++ {
		if isBlank(lines[j]) {
			continue
		}
		if indentOf(lines[j]) == 0 {
			break
		}
		last = j
	}
	return lines[i : last+1], last + 1
}

func fixEndLines(n *Node) int {
	for _, c := range n.Children {
		if end := fixEndLines(c); end > n.EndLine {
			n.EndLine = end
		}
	}
	return n.EndLine
}

// promoteTitle turns a lone top-level section, preceded only by comments,
// into the document title.
func promoteTitle(root *Node) {
	idx := -1
	for i, c := range root.Children {
		if c.Kind != KindComment {
			idx = i
			break
		}
	}
	if idx < 0 || idx != len(root.Children)-1 || root.Children[idx].Kind != KindSection {
		return
	}
	sec := root.Children[idx]
	title := sec.Children[0]
	title.Level = 0

	children := append(root.Children[:idx:idx], title)
	root.Children = append(children, sec.Children[1:]...)
	root.SetAttr("title", title.Text)

	for _, c := range root.Children {
		c.Walk(func(n *Node) bool {
			if n.Kind == KindSection {
				n.Level--
			}
			return true
		})
	}
}
