package markup

import (
	"fmt"
	"html"
	"strings"
)

func renderHTML(root *Node) string {
	var b strings.Builder
	b.WriteString(`<div class="document"` + htmlAttrs(root) + ">\n")
	for _, c := range root.Children {
		writeHTML(&b, c)
	}
	b.WriteString("</div>\n")
	return b.String()
}

func writeHTML(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindTitle:
		fmt.Fprintf(b, "<h1 class=\"title\">%s</h1>\n", InlineHTML(n.Text))
	case KindSection:
		id := n.Attr("id")
		if id == "" {
			id = Anchor(n.Title())
		}
		fmt.Fprintf(b, "<div class=\"%s\" id=\"%s\"%s>\n", classList("section", n.Classes), html.EscapeString(id), dataAttrs(n))
		for _, c := range n.Children {
			if c.Kind == KindTitle {
				h := min(n.Level+1, 6)
				fmt.Fprintf(b, "<h%d>%s</h%d>\n", h, InlineHTML(c.Text), h)
				continue
			}
			writeHTML(b, c)
		}
		b.WriteString("</div>\n")
	case KindParagraph:
		fmt.Fprintf(b, "<p%s>%s</p>\n", htmlAttrs(n), InlineHTML(n.Text))
	case KindLiteralBlock:
		classes := []string{"literal-block"}
		if lang := n.Attr("language"); lang != "" {
			classes = []string{"code", lang, "literal-block"}
		}
		fmt.Fprintf(b, "<pre class=\"%s\">%s</pre>\n", strings.Join(classes, " "), html.EscapeString(n.Text))
	case KindBlockQuote:
		writeContainer(b, "blockquote", n)
	case KindBulletList:
		writeContainer(b, "ul", n)
	case KindEnumList:
		writeContainer(b, "ol", n)
	case KindListItem:
		if len(n.Children) == 1 && n.Children[0].Kind == KindParagraph {
			fmt.Fprintf(b, "<li>%s</li>\n", InlineHTML(n.Children[0].Text))
			return
		}
		writeContainer(b, "li", n)
	case KindFieldList:
		fmt.Fprintf(b, "<dl class=\"%s\"%s>\n", classList("field-list", n.Classes), dataAttrs(n))
		for _, f := range n.Children {
			fmt.Fprintf(b, "<dt>%s</dt>\n", InlineHTML(f.Text))
			writeContainer(b, "dd", f)
		}
		b.WriteString("</dl>\n")
	case KindTable:
		writeTable(b, n)
	case KindContainer:
		writeContainer(b, "div", n)
	case KindTransition:
		b.WriteString("<hr class=\"docutils\" />\n")
	case KindComment:
	default:
		for _, c := range n.Children {
			writeHTML(b, c)
		}
	}
}

func writeContainer(b *strings.Builder, tag string, n *Node) {
	fmt.Fprintf(b, "<%s%s>", tag, htmlAttrs(n))
	if n.Text != "" && len(n.Children) == 0 && n.Kind != KindField {
		b.WriteString(InlineHTML(n.Text))
	} else {
		b.WriteString("\n")
		for _, c := range n.Children {
			writeHTML(b, c)
		}
	}
	fmt.Fprintf(b, "</%s>\n", tag)
}

func writeTable(b *strings.Builder, n *Node) {
	fmt.Fprintf(b, "<table%s>\n", htmlAttrs(n))
	var head, body []*Node
	for _, row := range n.Children {
		if row.HasAttr("header") {
			head = append(head, row)
		} else {
			body = append(body, row)
		}
	}
	writeRows := func(section, cell string, rows []*Node) {
		if len(rows) == 0 {
			return
		}
		fmt.Fprintf(b, "<%s>\n", section)
		for _, row := range rows {
			fmt.Fprintf(b, "<tr%s>\n", htmlAttrs(row))
			for _, c := range row.Children {
				writeContainer(b, cell, c)
			}
			b.WriteString("</tr>\n")
		}
		fmt.Fprintf(b, "</%s>\n", section)
	}
	writeRows("thead", "th", head)
	writeRows("tbody", "td", body)
	b.WriteString("</table>\n")
}

// htmlAttrs renders the class list, the id and any data- attributes.
func htmlAttrs(n *Node) string {
	var b strings.Builder
	if len(n.Classes) > 0 {
		fmt.Fprintf(&b, ` class="%s"`, html.EscapeString(strings.Join(n.Classes, " ")))
	}
	if id := n.Attr("id"); id != "" {
		fmt.Fprintf(&b, ` id="%s"`, html.EscapeString(id))
	}
	b.WriteString(dataAttrs(n))
	return b.String()
}

func dataAttrs(n *Node) string {
	var b strings.Builder
	for _, k := range n.AttrKeys() {
		if strings.HasPrefix(k, "data-") {
			fmt.Fprintf(&b, ` %s="%s"`, k, html.EscapeString(n.Attrs[k]))
		}
	}
	return b.String()
}

func classList(first string, rest []string) string {
	return html.EscapeString(strings.Join(append([]string{first}, rest...), " "))
}

// InlineHTML renders paragraph text with its inline markup as HTML.
func InlineHTML(text string) string {
	var b strings.Builder
	for _, in := range ParseInline(text) {
		t := html.EscapeString(in.Text)
		switch in.Kind {
		case InlineStrong:
			b.WriteString("<strong>" + t + "</strong>")
		case InlineEmphasis:
			b.WriteString("<em>" + t + "</em>")
		case InlineLiteral:
			b.WriteString(`<code class="literal">` + t + "</code>")
		case InlineReference:
			if in.Target == "" {
				b.WriteString(`<a class="reference">` + t + "</a>")
			} else {
				fmt.Fprintf(&b, `<a class="reference external" href="%s">%s</a>`, html.EscapeString(in.Target), t)
			}
		case InlineRole:
			fmt.Fprintf(&b, `<span class="%s">%s</span>`, html.EscapeString(in.Role), t)
		case InlineCite:
			b.WriteString("<cite>" + t + "</cite>")
		default:
			b.WriteString(t)
		}
	}
	return b.String()
}
