package markup_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/GoE2E-CaseDoc/internal/markup"
)

var _ = Describe("Engine", func() {
	var engine *markup.Engine

	BeforeEach(func() {
		engine = markup.NewEngine()
	})

	Describe("Parse", func() {
		It("should record section and title line numbers", func() {
			root := engine.Parse("Title\n=====\n\nBody text.\n\nSecond\n======\n\nMore.\n")
			Expect(root.Children).To(HaveLen(2))

			first := root.Children[0]
			Expect(first.Kind).To(Equal(markup.KindSection))
			Expect(first.Level).To(Equal(1))
			Expect(first.Line).To(Equal(1))
			Expect(first.EndLine).To(Equal(4))
			Expect(first.Title()).To(Equal("Title"))
			Expect(first.Children[0].EndLine).To(Equal(2))

			second := root.Children[1]
			Expect(second.Line).To(Equal(6))
			Expect(second.EndLine).To(Equal(9))
			Expect(root.EndLine).To(Equal(9))
			Expect(root.Attr("title")).To(BeEmpty())
		})

		It("should promote a lone top-level section to the document title", func() {
			root := engine.Parse("Only\n====\n\nText.\n")
			Expect(root.Attr("title")).To(Equal("Only"))
			Expect(root.Children).To(HaveLen(2))
			Expect(root.Children[0].Kind).To(Equal(markup.KindTitle))
			Expect(root.Children[0].Level).To(Equal(0))
			Expect(root.Children[1].Kind).To(Equal(markup.KindParagraph))
		})

		It("should lift subsections of the document title one level", func() {
			root := engine.Parse("Top\n===\n\nSub\n---\n\ntext\n")
			Expect(root.Attr("title")).To(Equal("Top"))
			Expect(root.Children[1].Kind).To(Equal(markup.KindSection))
			Expect(root.Children[1].Level).To(Equal(1))
			Expect(root.Children[1].Title()).To(Equal("Sub"))
		})

		It("should not promote titles when disabled", func() {
			root := markup.NewEngine(markup.WithoutDocTitle()).Parse("Only\n====\n\nText.\n")
			Expect(root.Attr("title")).To(BeEmpty())
			Expect(root.Children[0].Kind).To(Equal(markup.KindSection))
		})

		It("should treat overline and underline styles as different levels", func() {
			root := engine.Parse("=====\nLogin\n=====\n\nDescription\n===========\n\nText.\n")
			Expect(root.Attr("title")).To(Equal("Login"))
			Expect(root.Children[1].Title()).To(Equal("Description"))
			Expect(root.Children[1].Level).To(Equal(1))
		})

		It("should report inconsistent title levels", func() {
			root := engine.Parse("One\n===\n\nTwo\n---\n\nThree\n=====\n\nFour\n~~~~\n")
			Expect(root.Messages).To(ContainElement(markup.Message{
				Line:     10,
				Severity: markup.SeverityError,
				Text:     `Title level inconsistent: "Four".`,
			}))
		})

		It("should warn about short underlines", func() {
			root := engine.Parse("Long title\n====\n\ntext\n")
			Expect(root.Attr("title")).To(Equal("Long title"))
			Expect(root.Messages).To(ContainElement(markup.Message{
				Line:     2,
				Severity: markup.SeverityWarning,
				Text:     "Title underline too short.",
			}))
		})

		It("should parse literal blocks introduced by ::", func() {
			root := engine.Parse("Example::\n\n    code here\n")
			Expect(root.Children).To(HaveLen(2))
			Expect(root.Children[0].Text).To(Equal("Example:"))
			Expect(root.Children[1].Kind).To(Equal(markup.KindLiteralBlock))
			Expect(root.Children[1].Text).To(Equal("code here"))
			Expect(root.Children[1].Line).To(Equal(3))
		})

		It("should warn when a literal block is missing", func() {
			root := engine.Parse("Example::\n\nNot indented.\n")
			Expect(root.Messages).To(ContainElement(markup.Message{
				Line:     1,
				Severity: markup.SeverityWarning,
				Text:     "Literal block expected; none found.",
			}))
		})

		It("should parse field lists", func() {
			root := engine.Parse(":id: TC-1\n:author: qa\n")
			Expect(root.Children).To(HaveLen(1))
			list := root.Children[0]
			Expect(list.Kind).To(Equal(markup.KindFieldList))
			Expect(list.Children).To(HaveLen(2))
			Expect(list.Children[0].Text).To(Equal("id"))
			Expect(list.Children[0].Children[0].Text).To(Equal("TC-1"))
			Expect(list.Children[1].Text).To(Equal("author"))
			Expect(list.EndLine).To(Equal(2))
		})

		It("should parse bullet and enumerated lists", func() {
			root := engine.Parse("- one\n- two\n\n1. first\n2. second\n")
			Expect(root.Children).To(HaveLen(2))
			Expect(root.Children[0].Kind).To(Equal(markup.KindBulletList))
			Expect(root.Children[0].Children).To(HaveLen(2))
			Expect(root.Children[1].Kind).To(Equal(markup.KindEnumList))
			Expect(root.Children[1].Attr("start")).To(Equal("1"))
		})

		It("should keep comments", func() {
			root := engine.Parse(".. a comment\n\ntext\n")
			Expect(root.Children[0].Kind).To(Equal(markup.KindComment))
			Expect(root.Children[0].Text).To(Equal("a comment"))
		})

		It("should report unknown directives", func() {
			root := engine.Parse(".. frobnicate:: x\n")
			Expect(root.Children).To(BeEmpty())
			Expect(root.Messages).To(ConsistOf(markup.Message{
				Line:     1,
				Severity: markup.SeverityError,
				Text:     `Unknown directive type "frobnicate".`,
			}))
		})
	})

	Describe("RegisterDirective", func() {
		It("should hand arguments and content to the directive", func() {
			var got *markup.DirectiveContext
			engine.RegisterDirective("marker", func(ctx *markup.DirectiveContext) ([]*markup.Node, error) {
				got = ctx
				n := markup.NewNode(markup.KindPending, ctx.Line)
				n.SetAttr("name", ctx.Args)
				n.Append(ctx.ParseContent()...)
				return []*markup.Node{n}, nil
			})

			root := engine.Parse("intro\n\n.. marker:: x\n\n    body\n")
			Expect(got.Args).To(Equal("x"))
			Expect(got.Line).To(Equal(3))
			Expect(got.ContentLine).To(Equal(4))
			Expect(got.EndLine).To(Equal(5))

			pending := root.Find(func(n *markup.Node) bool { return n.Kind == markup.KindPending })
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].Attr("name")).To(Equal("x"))
			Expect(pending[0].Children[0].Text).To(Equal("body"))
			Expect(pending[0].Children[0].Line).To(Equal(5))
		})

		It("should report directive errors and drop the directive", func() {
			engine.RegisterDirective("marker", func(ctx *markup.DirectiveContext) ([]*markup.Node, error) {
				return nil, errors.New("boom")
			})
			root := engine.Parse(".. marker::\n")
			Expect(root.Children).To(BeEmpty())
			Expect(root.Messages).To(ConsistOf(markup.Message{
				Line:     1,
				Severity: markup.SeverityError,
				Text:     `Error in "marker" directive: boom.`,
			}))
		})
	})

	Describe("Apply", func() {
		It("should transform a copy and leave the parsed tree untouched", func() {
			engine.AddTransform(markup.TransformFunc(func(root *markup.Node) {
				root.Append(markup.NewNode(markup.KindTransition, 1))
			}))
			root := engine.Parse("text\n")
			doc := engine.Apply(root)
			Expect(root.Children).To(HaveLen(1))
			Expect(doc.Children).To(HaveLen(2))
		})
	})

	Describe("Render", func() {
		It("should render paragraphs with inline markup", func() {
			out, msgs, err := engine.Publish("Hello *world*.\n", markup.FormatHTML)
			Expect(err).ToNot(HaveOccurred())
			Expect(msgs).To(BeEmpty())
			Expect(out).To(Equal("<div class=\"document\">\n<p>Hello <em>world</em>.</p>\n</div>\n"))
		})

		It("should render sections with anchors", func() {
			out, _, err := engine.Publish("Title\n=====\n\nBody text.\n\nSecond\n======\n\nMore.\n", markup.FormatHTML)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(`<div class="document">
<div class="section" id="title">
<h2>Title</h2>
<p>Body text.</p>
</div>
<div class="section" id="second">
<h2>Second</h2>
<p>More.</p>
</div>
</div>
`))
		})

		It("should render the document title", func() {
			out, _, err := engine.Publish("Only\n====\n\nText.\n", markup.FormatHTML)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal("<div class=\"document\">\n<h1 class=\"title\">Only</h1>\n<p>Text.</p>\n</div>\n"))
		})

		It("should escape text", func() {
			out, _, err := engine.Publish("a < b & c\n", markup.FormatHTML)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("<p>a &lt; b &amp; c</p>"))
		})

		It("should render code blocks with their language", func() {
			out, _, err := engine.Publish(".. code-block:: go\n\n   fmt.Println()\n", markup.FormatHTML)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring(`<pre class="code go literal-block">fmt.Println()</pre>`))
		})

		It("should render pseudo-xml", func() {
			out, _, err := engine.Publish("Hello\n", markup.FormatPseudoXML)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal("<document>\n    <paragraph>\n        Hello\n"))
		})

		It("should reject unknown formats", func() {
			_, err := engine.Render(engine.Parse("x\n"), markup.Format("latex"))
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("ParseInline", func() {
	It("should split inline markup runs", func() {
		runs := markup.ParseInline("a **b** *c* ``d`` `e <http://x>`_ :kbd:`f`")
		Expect(runs).To(Equal([]markup.Inline{
			{Kind: markup.InlineText, Text: "a "},
			{Kind: markup.InlineStrong, Text: "b"},
			{Kind: markup.InlineText, Text: " "},
			{Kind: markup.InlineEmphasis, Text: "c"},
			{Kind: markup.InlineText, Text: " "},
			{Kind: markup.InlineLiteral, Text: "d"},
			{Kind: markup.InlineText, Text: " "},
			{Kind: markup.InlineReference, Text: "e", Target: "http://x"},
			{Kind: markup.InlineText, Text: " "},
			{Kind: markup.InlineRole, Text: "f", Role: "kbd"},
		}))
	})

	It("should keep unterminated markup as text", func() {
		Expect(markup.ParseInline("a *b")).To(Equal([]markup.Inline{{Kind: markup.InlineText, Text: "a *b"}}))
	})

	It("should ignore markup inside words", func() {
		Expect(markup.ParseInline("snake*case*")).To(Equal([]markup.Inline{{Kind: markup.InlineText, Text: "snake*case*"}}))
	})
})

var _ = Describe("Text helpers", func() {
	It("should measure display width", func() {
		Expect(markup.DisplayWidth("abc")).To(Equal(3))
		Expect(markup.DisplayWidth("日本")).To(Equal(4))
		Expect(markup.DisplayWidth("é")).To(Equal(1))
		Expect(markup.DisplayWidth("é")).To(Equal(1))
	})

	It("should underline headings to their display width", func() {
		Expect(markup.Heading("Test Steps", '=')).To(Equal("Test Steps\n==========\n"))
		Expect(markup.Heading("日本", '=')).To(Equal("日本\n====\n"))
	})

	It("should derive anchors", func() {
		Expect(markup.Anchor("Test Steps")).To(Equal("test-steps"))
		Expect(markup.Anchor("  Hello, World! ")).To(Equal("hello-world"))
	})

	It("should split lines", func() {
		Expect(markup.SplitLines("a\nb\n")).To(Equal([]string{"a", "b"}))
		Expect(markup.SplitLines("a\r\nb")).To(Equal([]string{"a", "b"}))
		Expect(markup.SplitLines("")).To(BeNil())
	})
})
