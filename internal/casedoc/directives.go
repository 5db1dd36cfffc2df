package casedoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/frherrer/GoE2E-CaseDoc/internal/markup"
)

// Display selects how test actions are rendered.
type Display int

const (
	// DisplayTable collects every action into one Step/Expected Result
	// table placed where the first action appears.
	DisplayTable Display = iota
	// DisplayPlain renders each payload in place.
	DisplayPlain
)

func (d Display) String() string {
	if d == DisplayPlain {
		return "plain"
	}
	return "table"
}

// ParseDisplay parses "table" or "plain".
func ParseDisplay(s string) (Display, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return DisplayTable, nil
	case "plain":
		return DisplayPlain, nil
	default:
		return DisplayTable, fmt.Errorf("unknown actions display %q (expected table or plain)", s)
	}
}

// Attribute names carried by action placeholder nodes.
const (
	attrActionID   = "action_id"
	attrActionName = "action_name"
	attrDataID     = "data-action-id"
)

// NewEngine returns a markup engine with the test-case directives and the
// action transform for display registered.
func NewEngine(display Display) *markup.Engine {
	e := markup.NewEngine()
	e.RegisterDirective(ActionStep, legacyActionDirective)
	e.RegisterDirective(ActionResult, legacyActionDirective)
	e.RegisterDirective(ActionUnified, unifiedActionDirective)
	e.AddTransform(&actionTransform{display: display})
	return e
}

func legacyActionDirective(ctx *markup.DirectiveContext) ([]*markup.Node, error) {
	id, err := strconv.Atoi(ctx.Args)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("a positive integer action id argument is required, got %q", ctx.Args)
	}
	n := markup.NewNode(markup.KindPending, ctx.Line)
	n.SetAttr(attrActionID, strconv.Itoa(id))
	n.SetAttr(attrActionName, ctx.Name)
	n.Append(ctx.ParseContent()...)
	n.EndLine = ctx.EndLine
	return []*markup.Node{n}, nil
}

func unifiedActionDirective(ctx *markup.DirectiveContext) ([]*markup.Node, error) {
	if ctx.Args != "" {
		return nil, fmt.Errorf("no arguments expected, got %q", ctx.Args)
	}
	n := markup.NewNode(markup.KindPending, ctx.Line)
	n.SetAttr(attrActionName, ActionUnified)

	for _, c := range ctx.ParseContent() {
		if c.Kind != markup.KindFieldList {
			return nil, fmt.Errorf("only a field list with step and result fields is allowed")
		}
		for _, f := range c.Children {
			var kind string
			switch f.Text {
			case "step":
				kind = ActionStep
			case "result":
				kind = ActionResult
			default:
				return nil, fmt.Errorf("unknown field %q (expected step or result)", f.Text)
			}
			payload := markup.NewNode(markup.KindContainer, f.Line)
			payload.SetAttr(attrActionName, kind)
			payload.Append(f.Children...)
			n.Append(payload)
		}
	}
	if len(n.Children) == 0 {
		return nil, fmt.Errorf("a step or result field is required")
	}
	n.EndLine = ctx.EndLine
	return []*markup.Node{n}, nil
}

// IsActionPlaceholder reports whether n was produced by one of the action
// directives.
func IsActionPlaceholder(n *markup.Node) bool {
	return n.Kind == markup.KindPending && n.HasAttr(attrActionName)
}

type actionTransform struct {
	display Display
}

type payloadEntry struct {
	id   int
	kind string
	node *markup.Node
}

func (t *actionTransform) Apply(root *markup.Node) {
	placeholders := root.Find(IsActionPlaceholder)
	if len(placeholders) == 0 {
		return
	}

	registry := NewActionRegistry[*markup.Node]()
	accepted := make(map[*markup.Node][]payloadEntry, len(placeholders))
	for _, p := range placeholders {
		unified := p.Attr(attrActionName) == ActionUnified
		shared := 0
		for _, e := range payloadsOf(p) {
			if unified {
				// both fields of a test_action share one id
				e.id = shared
			}
			id, err := registry.Add(e.kind, e.node, e.id)
			if err != nil {
				root.Report(e.node.Line, markup.SeverityError, err.Error())
				continue
			}
			e.id, shared = id, id
			accepted[p] = append(accepted[p], e)
		}
	}

	first := true
	root.ReplaceChildren(func(c *markup.Node) ([]*markup.Node, bool) {
		if !IsActionPlaceholder(c) {
			return nil, false
		}
		if t.display == DisplayPlain {
			var out []*markup.Node
			for _, e := range accepted[c] {
				out = append(out, payloadContainer(e))
			}
			return out, true
		}
		if first {
			first = false
			return []*markup.Node{actionTable(c.Line, registry)}, true
		}
		return nil, true
	})
}

// payloadsOf lists the payloads carried by a placeholder. Unified actions
// get id 0 so that the registry assigns one.
func payloadsOf(p *markup.Node) []payloadEntry {
	if p.Attr(attrActionName) != ActionUnified {
		id, _ := strconv.Atoi(p.Attr(attrActionID))
		body := markup.NewNode(markup.KindContainer, p.Line)
		body.Append(p.Children...)
		return []payloadEntry{{id: id, kind: p.Attr(attrActionName), node: body}}
	}
	var out []payloadEntry
	for _, c := range p.Children {
		out = append(out, payloadEntry{kind: c.Attr(attrActionName), node: c})
	}
	return out
}

func payloadContainer(e payloadEntry) *markup.Node {
	n := markup.NewNode(markup.KindContainer, e.node.Line)
	n.Classes = []string{cssClass(e.kind)}
	n.SetAttr(attrDataID, strconv.Itoa(e.id))
	n.Append(e.node.Children...)
	return n
}

func actionTable(line int, registry *ActionRegistry[*markup.Node]) *markup.Node {
	table := markup.NewNode(markup.KindTable, line)
	table.Classes = []string{"test-steps"}

	head := markup.NewNode(markup.KindRow, line)
	head.SetAttr("header", "true")
	for _, label := range []string{"Step", "Expected Result"} {
		cell := markup.NewNode(markup.KindCell, line)
		cell.Text = label
		head.Append(cell)
	}
	table.Append(head)

	for _, a := range registry.Actions() {
		row := markup.NewNode(markup.KindRow, line)
		for _, e := range []payloadEntry{{a.ID, ActionStep, a.Step}, {a.ID, ActionResult, a.Result}} {
			cell := markup.NewNode(markup.KindCell, line)
			cell.Classes = []string{cssClass(e.kind)}
			cell.SetAttr(attrDataID, strconv.Itoa(e.id))
			if e.node != nil {
				cell.Append(e.node.Children...)
			}
			row.Append(cell)
		}
		table.Append(row)
	}
	return table
}

func cssClass(kind string) string {
	return strings.ReplaceAll(kind, "_", "-")
}
