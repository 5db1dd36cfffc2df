package markup

import "sort"

// Kind identifies the type of a Node.
type Kind int

const (
	KindDocument Kind = iota
	KindSection
	KindTitle
	KindParagraph
	KindLiteralBlock
	KindBlockQuote
	KindBulletList
	KindEnumList
	KindListItem
	KindFieldList
	KindField
	KindPending
	KindComment
	KindTransition
	KindTable
	KindRow
	KindCell
	KindContainer
)

var kindNames = [...]string{
	KindDocument:     "document",
	KindSection:      "section",
	KindTitle:        "title",
	KindParagraph:    "paragraph",
	KindLiteralBlock: "literal_block",
	KindBlockQuote:   "block_quote",
	KindBulletList:   "bullet_list",
	KindEnumList:     "enumerated_list",
	KindListItem:     "list_item",
	KindFieldList:    "field_list",
	KindField:        "field",
	KindPending:      "pending",
	KindComment:      "comment",
	KindTransition:   "transition",
	KindTable:        "table",
	KindRow:          "row",
	KindCell:         "entry",
	KindContainer:    "container",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Severity of a parse or transform Message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Message is a problem found while parsing or transforming a document.
type Message struct {
	Line     int
	Severity Severity
	Text     string
}

// Node is one element of a parsed document tree.
//
// Line and EndLine are 1-based and inclusive. Text holds the title text of
// Title nodes, the raw (inline markup unresolved) text of paragraphs, the
// content of literal blocks and the name of fields.
type Node struct {
	Kind     Kind
	Line     int
	EndLine  int
	Level    int // section depth, 1 for top-level sections; 0 for the document title
	Text     string
	Classes  []string
	Attrs    map[string]string
	Children []*Node
	Messages []Message // only populated on the document root
}

// NewNode creates a node of the given kind starting at line.
func NewNode(kind Kind, line int) *Node {
	return &Node{Kind: kind, Line: line, EndLine: line}
}

// Append adds children and widens EndLine to cover them.
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		n.Children = append(n.Children, c)
		if c.EndLine > n.EndLine {
			n.EndLine = c.EndLine
		}
	}
}

// Attr returns the attribute value for key, or "".
func (n *Node) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// HasAttr reports whether key is set on the node.
func (n *Node) HasAttr(key string) bool {
	_, ok := n.Attrs[key]
	return ok
}

// SetAttr sets an attribute.
func (n *Node) SetAttr(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
}

// AttrKeys returns attribute names in sorted order.
func (n *Node) AttrKeys() []string {
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Title returns the title text of a section or document, or "".
func (n *Node) Title() string {
	for _, c := range n.Children {
		if c.Kind == KindTitle {
			return c.Text
		}
		if c.Kind != KindComment {
			break
		}
	}
	return ""
}

// Walk visits n and its descendants depth-first in document order. Returning
// false from fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns every descendant (including n) for which match returns true.
func (n *Node) Find(match func(*Node) bool) []*Node {
	var found []*Node
	n.Walk(func(c *Node) bool {
		if match(c) {
			found = append(found, c)
		}
		return true
	})
	return found
}

// ReplaceChildren walks the tree and substitutes every descendant for which
// fn reports ok with the returned nodes. Replacement nodes are not revisited.
func (n *Node) ReplaceChildren(fn func(child *Node) ([]*Node, bool)) {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if repl, ok := fn(c); ok {
			out = append(out, repl...)
			continue
		}
		c.ReplaceChildren(fn)
		out = append(out, c)
	}
	n.Children = out
}

// Clone returns a deep copy of the tree rooted at n.
func (n *Node) Clone() *Node {
	c := *n
	if n.Classes != nil {
		c.Classes = append([]string(nil), n.Classes...)
	}
	if n.Attrs != nil {
		c.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			c.Attrs[k] = v
		}
	}
	if n.Messages != nil {
		c.Messages = append([]Message(nil), n.Messages...)
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// Report records a message on the document root.
func (n *Node) Report(line int, severity Severity, text string) {
	n.Messages = append(n.Messages, Message{Line: line, Severity: severity, Text: text})
}
