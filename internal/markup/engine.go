package markup

import (
	"fmt"
	"strings"
)

// Format selects a render target.
type Format string

const (
	FormatHTML      Format = "html"
	FormatPseudoXML Format = "pseudoxml"
)

// DirectiveContext is handed to a DirectiveFunc for one directive occurrence.
type DirectiveContext struct {
	Name        string
	Args        string
	Content     []string // directive block, dedented; leading blank lines kept
	Line        int      // line of the ".. name::" marker
	ContentLine int      // line of Content[0]
	EndLine     int

	parser *blockParser
}

// ParseContent parses the directive block as body elements.
func (c *DirectiveContext) ParseContent() []*Node {
	return c.parser.parseBlocks(c.Content, c.ContentLine, false)
}

// DirectiveFunc turns a directive occurrence into tree nodes. A returned
// error is recorded as a parse message and the directive is dropped.
type DirectiveFunc func(ctx *DirectiveContext) ([]*Node, error)

// Transform rewrites a document tree before rendering.
type Transform interface {
	Apply(root *Node)
}

// TransformFunc adapts a function to the Transform interface.
type TransformFunc func(root *Node)

// Apply calls f(root).
func (f TransformFunc) Apply(root *Node) { f(root) }

// Engine parses and renders reStructuredText. Directives and transforms are
// registered per engine; an engine must not be modified once it is shared
// between goroutines. Parse and Render keep no state between calls.
type Engine struct {
	directives map[string]DirectiveFunc
	transforms []Transform
	docTitle   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithoutDocTitle disables promotion of a lone top-level section to the
// document title.
func WithoutDocTitle() Option {
	return func(e *Engine) { e.docTitle = false }
}

// NewEngine creates an engine with the built-in directives registered.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		directives: make(map[string]DirectiveFunc),
		docTitle:   true,
	}
	for _, name := range []string{"code-block", "code", "sourcecode"} {
		e.RegisterDirective(name, codeDirective)
	}
	for _, name := range []string{"note", "warning", "tip", "important", "attention", "caution"} {
		e.RegisterDirective(name, admonitionDirective)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegisterDirective binds name to fn, replacing any previous binding.
func (e *Engine) RegisterDirective(name string, fn DirectiveFunc) {
	e.directives[name] = fn
}

// AddTransform appends a transform run by Apply, in registration order.
func (e *Engine) AddTransform(t Transform) {
	e.transforms = append(e.transforms, t)
}

// Apply returns a transformed copy of root. root itself is left untouched.
func (e *Engine) Apply(root *Node) *Node {
	doc := root.Clone()
	for _, t := range e.transforms {
		t.Apply(doc)
	}
	return doc
}

// Render writes an already transformed tree in the given format.
func (e *Engine) Render(root *Node, format Format) (string, error) {
	switch format {
	case FormatHTML:
		return renderHTML(root), nil
	case FormatPseudoXML:
		return renderPseudoXML(root), nil
	default:
		return "", fmt.Errorf("unsupported render format %q", format)
	}
}

// Publish parses src, applies the transforms and renders the result. It
// returns every message raised on the way.
func (e *Engine) Publish(src string, format Format) (string, []Message, error) {
	doc := e.Apply(e.Parse(src))
	out, err := e.Render(doc, format)
	return out, doc.Messages, err
}

func codeDirective(ctx *DirectiveContext) ([]*Node, error) {
	body := ctx.Content
	// leading ":option: value" lines are accepted and ignored
	for len(body) > 0 && strings.HasPrefix(strings.TrimSpace(body[0]), ":") {
		body = body[1:]
	}
	text := strings.Trim(strings.Join(body, "\n"), "\n")
	if text == "" {
		return nil, fmt.Errorf("content block expected for the %q directive; none found", ctx.Name)
	}
	n := NewNode(KindLiteralBlock, ctx.Line)
	n.EndLine = ctx.EndLine
	n.Text = text
	if lang := strings.TrimSpace(ctx.Args); lang != "" {
		n.SetAttr("language", lang)
	}
	return []*Node{n}, nil
}

func admonitionDirective(ctx *DirectiveContext) ([]*Node, error) {
	n := NewNode(KindContainer, ctx.Line)
	n.Classes = []string{"admonition", ctx.Name}
	if args := strings.TrimSpace(ctx.Args); args != "" {
		p := NewNode(KindParagraph, ctx.Line)
		p.Text = args
		n.Append(p)
	}
	n.Append(ctx.ParseContent()...)
	n.EndLine = ctx.EndLine
	return []*Node{n}, nil
}
