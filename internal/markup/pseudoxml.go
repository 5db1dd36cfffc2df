package markup

import (
	"fmt"
	"html"
	"strings"
)

const pseudoIndent = "    "

func renderPseudoXML(root *Node) string {
	var b strings.Builder
	writePseudo(&b, root, 0)
	return b.String()
}

func writePseudo(b *strings.Builder, n *Node, depth int) {
	pad := strings.Repeat(pseudoIndent, depth)
	fmt.Fprintf(b, "%s<%s%s>\n", pad, n.Kind, pseudoAttrs(n))

	switch n.Kind {
	case KindTitle, KindParagraph, KindCell:
		if n.Text != "" {
			writeInlinePseudo(b, n.Text, depth+1)
		}
	case KindLiteralBlock, KindComment:
		for _, line := range strings.Split(n.Text, "\n") {
			if line == "" {
				b.WriteString("\n")
				continue
			}
			b.WriteString(pad + pseudoIndent + html.EscapeString(line) + "\n")
		}
	case KindField:
		fmt.Fprintf(b, "%s<field_name>\n", pad+pseudoIndent)
		writeInlinePseudo(b, n.Text, depth+2)
		fmt.Fprintf(b, "%s<field_body>\n", pad+pseudoIndent)
		for _, c := range n.Children {
			writePseudo(b, c, depth+2)
		}
		return
	}
	for _, c := range n.Children {
		writePseudo(b, c, depth+1)
	}
}

func writeInlinePseudo(b *strings.Builder, text string, depth int) {
	pad := strings.Repeat(pseudoIndent, depth)
	for _, in := range ParseInline(text) {
		if in.Kind == InlineText {
			writePseudoText(b, in.Text, pad)
			continue
		}
		attrs := ""
		switch in.Kind {
		case InlineReference:
			if in.Target != "" {
				attrs = fmt.Sprintf(` refuri="%s"`, html.EscapeString(in.Target))
			}
		case InlineRole:
			attrs = fmt.Sprintf(` classes="%s"`, html.EscapeString(in.Role))
		}
		fmt.Fprintf(b, "%s<%s%s>\n", pad, in.Kind, attrs)
		writePseudoText(b, in.Text, pad+pseudoIndent)
	}
}

func writePseudoText(b *strings.Builder, text, pad string) {
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(pad + html.EscapeString(line) + "\n")
	}
}

func pseudoAttrs(n *Node) string {
	var parts []string
	if n.Kind == KindSection {
		id := n.Attr("id")
		if id == "" {
			id = Anchor(n.Title())
		}
		parts = append(parts, fmt.Sprintf(`ids="%s"`, id), fmt.Sprintf(`names="%s"`, html.EscapeString(strings.ToLower(n.Title()))))
	}
	if len(n.Classes) > 0 {
		parts = append(parts, fmt.Sprintf(`classes="%s"`, html.EscapeString(strings.Join(n.Classes, " "))))
	}
	if n.Kind == KindLiteralBlock || n.Kind == KindComment {
		parts = append(parts, `xml:space="preserve"`)
	}
	for _, k := range n.AttrKeys() {
		if k == "id" && n.Kind == KindSection {
			continue
		}
		parts = append(parts, fmt.Sprintf(`%s="%s"`, k, html.EscapeString(n.Attrs[k])))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
