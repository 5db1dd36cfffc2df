package casedoc_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/GoE2E-CaseDoc/internal/casedoc"
	"github.com/frherrer/GoE2E-CaseDoc/internal/markup"
)

const legacyActions = `.. test_step:: 1

    Open the page.

.. test_result:: 1

    Page shown.

.. test_step:: 2

    Click login.
`

var _ = Describe("Action directives", func() {
	Describe("ParseDisplay", func() {
		It("should accept table and plain", func() {
			d, err := casedoc.ParseDisplay("")
			Expect(err).ToNot(HaveOccurred())
			Expect(d).To(Equal(casedoc.DisplayTable))

			d, err = casedoc.ParseDisplay("Plain")
			Expect(err).ToNot(HaveOccurred())
			Expect(d).To(Equal(casedoc.DisplayPlain))
			Expect(d.String()).To(Equal("plain"))

			_, err = casedoc.ParseDisplay("grid")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("parsing", func() {
		It("should leave placeholders in the parsed tree", func() {
			root := casedoc.NewEngine(casedoc.DisplayTable).Parse(legacyActions)
			placeholders := root.Find(casedoc.IsActionPlaceholder)
			Expect(placeholders).To(HaveLen(3))
			Expect(placeholders[0].Attr("action_name")).To(Equal(casedoc.ActionStep))
			Expect(placeholders[0].Attr("action_id")).To(Equal("1"))
			Expect(placeholders[1].Attr("action_name")).To(Equal(casedoc.ActionResult))
			Expect(placeholders[2].Attr("action_id")).To(Equal("2"))
		})

		It("should reject non-positive ids", func() {
			root := casedoc.NewEngine(casedoc.DisplayTable).Parse(".. test_step:: 0\n\n    x\n")
			Expect(root.Find(casedoc.IsActionPlaceholder)).To(BeEmpty())
			Expect(root.Messages).To(HaveLen(1))
			Expect(root.Messages[0].Severity).To(Equal(markup.SeverityError))
		})

		It("should reject unknown fields in a unified action", func() {
			root := casedoc.NewEngine(casedoc.DisplayTable).Parse(".. test_action::\n\n    :step: a\n    :notes: b\n")
			Expect(root.Find(casedoc.IsActionPlaceholder)).To(BeEmpty())
			Expect(root.Messages[0].Text).To(ContainSubstring(`unknown field "notes"`))
		})

		It("should reject an empty unified action", func() {
			root := casedoc.NewEngine(casedoc.DisplayTable).Parse(".. test_action::\n")
			Expect(root.Messages).To(HaveLen(1))
			Expect(root.Messages[0].Text).To(ContainSubstring("a step or result field is required"))
		})
	})

	Describe("table display", func() {
		It("should collect every action into one table", func() {
			out, msgs, err := casedoc.NewEngine(casedoc.DisplayTable).Publish(legacyActions, markup.FormatHTML)
			Expect(err).ToNot(HaveOccurred())
			Expect(msgs).To(BeEmpty())

			Expect(strings.Count(out, "<table")).To(Equal(1))
			Expect(out).To(ContainSubstring("<table class=\"test-steps\">\n<thead>\n<tr>\n<th>Step</th>\n<th>Expected Result</th>\n</tr>\n</thead>"))
			Expect(out).To(ContainSubstring("<td class=\"test-step\" data-action-id=\"1\">\n<p>Open the page.</p>\n</td>"))
			Expect(out).To(ContainSubstring("<td class=\"test-result\" data-action-id=\"1\">\n<p>Page shown.</p>\n</td>"))
			Expect(out).To(ContainSubstring("<td class=\"test-step\" data-action-id=\"2\">\n<p>Click login.</p>\n</td>"))
			Expect(out).To(ContainSubstring("<td class=\"test-result\" data-action-id=\"2\">\n</td>"))
		})

		It("should keep the first payload when an id is repeated", func() {
			src := ".. test_step:: 1\n\n    First.\n\n.. test_step:: 1\n\n    Second.\n"
			out, msgs, err := casedoc.NewEngine(casedoc.DisplayTable).Publish(src, markup.FormatHTML)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("First."))
			Expect(out).ToNot(ContainSubstring("Second."))
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].Line).To(Equal(5))
			Expect(msgs[0].Text).To(ContainSubstring("test_step 1 is already defined"))
		})

		It("should place the table where the first action appears", func() {
			src := "Intro.\n\n" + legacyActions + "\nOutro.\n"
			out, _, err := casedoc.NewEngine(casedoc.DisplayTable).Publish(src, markup.FormatHTML)
			Expect(err).ToNot(HaveOccurred())
			intro := strings.Index(out, "Intro.")
			table := strings.Index(out, "<table")
			outro := strings.Index(out, "Outro.")
			Expect(intro).To(BeNumerically("<", table))
			Expect(table).To(BeNumerically("<", outro))
		})
	})

	Describe("plain display", func() {
		It("should render each of several successive steps", func() {
			src := ".. test_step:: 1\n\n    One.\n\n.. test_step:: 2\n\n    Two.\n\n.. test_step:: 3\n\n    Three.\n"
			out, msgs, err := casedoc.NewEngine(casedoc.DisplayPlain).Publish(src, markup.FormatHTML)
			Expect(err).ToNot(HaveOccurred())
			Expect(msgs).To(BeEmpty())
			Expect(strings.Count(out, `class="test-step"`)).To(Equal(3))

			one := strings.Index(out, "<div class=\"test-step\" data-action-id=\"1\">\n<p>One.</p>\n</div>")
			two := strings.Index(out, "<div class=\"test-step\" data-action-id=\"2\">\n<p>Two.</p>\n</div>")
			three := strings.Index(out, "<div class=\"test-step\" data-action-id=\"3\">\n<p>Three.</p>\n</div>")
			Expect(one).To(BeNumerically(">=", 0))
			Expect(two).To(BeNumerically(">", one))
			Expect(three).To(BeNumerically(">", two))
		})

		It("should give both fields of a unified action one id", func() {
			src := ".. test_step:: 1\n\n    Legacy.\n\n.. test_action::\n\n    :step: Do it.\n    :result: It is done.\n"
			out, msgs, err := casedoc.NewEngine(casedoc.DisplayPlain).Publish(src, markup.FormatHTML)
			Expect(err).ToNot(HaveOccurred())
			Expect(msgs).To(BeEmpty())
			Expect(out).To(ContainSubstring("<div class=\"test-step\" data-action-id=\"2\">\n<p>Do it.</p>\n</div>"))
			Expect(out).To(ContainSubstring("<div class=\"test-result\" data-action-id=\"2\">\n<p>It is done.</p>\n</div>"))
		})

		It("should not affect documents without actions", func() {
			out, _, err := casedoc.NewEngine(casedoc.DisplayPlain).Publish("Text.\n", markup.FormatHTML)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal("<div class=\"document\">\n<p>Text.</p>\n</div>\n"))
		})
	})
})
