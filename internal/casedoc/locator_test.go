package casedoc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/GoE2E-CaseDoc/internal/casedoc"
)

var _ = Describe("Locator", func() {
	Describe("FindSections", func() {
		It("should report the header pseudo-section and every top-level section", func() {
			text := "=====\nLogin\n=====\n\n:id: TC-1\n\nDescription\n===========\n\nText.\n\nSetup\n=====\n\nPrepare.\n"
			Expect(casedoc.FindSections(text)).To(Equal([]casedoc.RstSection{
				{Title: "", Start: 1, End: 5},
				{Title: "Description", Start: 7, End: 11},
				{Title: "Setup", Start: 12, End: 15},
			}))
		})

		It("should report a lone document title as a section spanning the text", func() {
			Expect(casedoc.FindSections("Setup\n=====\n\nPrepare.\n")).To(Equal([]casedoc.RstSection{
				{Title: "Setup", Start: 1, End: 4},
			}))
		})

		It("should report a document title without metadata as the header", func() {
			text := "=====\nLogin\n=====\n\nDescription\n===========\n\nText.\n"
			Expect(casedoc.FindSections(text)).To(Equal([]casedoc.RstSection{
				{Title: "", Start: 1, End: 3},
				{Title: "Description", Start: 5, End: 8},
			}))
		})

		It("should end each section before the next one", func() {
			text := "Description\n===========\n\nA.\n\nSetup\n=====\n\nB.\n"
			Expect(casedoc.FindSections(text)).To(Equal([]casedoc.RstSection{
				{Title: "Description", Start: 1, End: 5},
				{Title: "Setup", Start: 6, End: 9},
			}))
		})

		It("should ignore nested subsections", func() {
			text := "Description\n===========\n\nDetails\n-------\n\nA.\n\nSetup\n=====\n\nB.\n"
			sections := casedoc.FindSections(text)
			Expect(sections).To(HaveLen(2))
			Expect(sections[0]).To(Equal(casedoc.RstSection{Title: "Description", Start: 1, End: 8}))
		})

		It("should find nothing in plain text", func() {
			Expect(casedoc.FindSections("just a paragraph\n")).To(BeEmpty())
		})
	})

	Describe("FindActions", func() {
		It("should find nothing in empty text", func() {
			Expect(casedoc.FindActions("")).To(BeEmpty())
		})

		It("should span a directive to the end of the text", func() {
			text := ".. test_step:: 1\n\n    line a\n    line b\n    line c\n    line d\n"
			Expect(casedoc.FindActions(text)).To(Equal([]casedoc.RstTestAction{
				{ID: 1, Kind: casedoc.ActionStep, Start: 1, End: 6},
			}))
		})

		It("should end an action before the next action", func() {
			text := ".. test_step:: 1\n\n    Open.\n\n.. test_result:: 1\n\n    Shown.\n"
			Expect(casedoc.FindActions(text)).To(Equal([]casedoc.RstTestAction{
				{ID: 1, Kind: casedoc.ActionStep, Start: 1, End: 4},
				{ID: 1, Kind: casedoc.ActionResult, Start: 5, End: 7},
			}))
		})

		It("should end an action before the next section heading", func() {
			text := "Test Steps\n==========\n\n.. test_step:: 1\n\n    Do.\n\nTeardown\n========\n\nClean.\n"
			Expect(casedoc.FindActions(text)).To(Equal([]casedoc.RstTestAction{
				{ID: 1, Kind: casedoc.ActionStep, Start: 4, End: 7},
			}))
			Expect(casedoc.FindSections(text)).To(Equal([]casedoc.RstSection{
				{Title: "Test Steps", Start: 1, End: 7},
				{Title: "Teardown", Start: 8, End: 11},
			}))
		})

		It("should report unified actions with id 0", func() {
			text := ".. test_action::\n\n    :step: Do it.\n    :result: Done.\n"
			Expect(casedoc.FindActions(text)).To(Equal([]casedoc.RstTestAction{
				{ID: 0, Kind: casedoc.ActionUnified, Start: 1, End: 4},
			}))
		})

		It("should skip malformed directives and report them", func() {
			loc := casedoc.NewLocator(casedoc.NewEngine(casedoc.DisplayTable)).Locate(".. test_step:: one\n\n    x\n")
			Expect(loc.Actions).To(BeEmpty())
			Expect(loc.Messages).To(HaveLen(1))
			Expect(loc.Messages[0].Text).To(ContainSubstring("positive integer"))
		})
	})

	Describe("LastLineNum", func() {
		It("should count lines", func() {
			Expect(casedoc.LastLineNum("")).To(Equal(0))
			Expect(casedoc.LastLineNum("a")).To(Equal(1))
			Expect(casedoc.LastLineNum("a\n")).To(Equal(1))
			Expect(casedoc.LastLineNum("a\nb")).To(Equal(2))
			Expect(casedoc.LastLineNum("a\n\n")).To(Equal(2))
		})
	})

	Describe("SliceLines", func() {
		It("should return inclusive 1-based line ranges", func() {
			Expect(casedoc.SliceLines("a\nb\nc", 2, 3)).To(Equal("b\nc\n"))
			Expect(casedoc.SliceLines("a\nb\nc\n", 1, 1)).To(Equal("a\n"))
			Expect(casedoc.SliceLines("a\nb\nc", 3, 9)).To(Equal("c\n"))
			Expect(casedoc.SliceLines("a\nb\nc", 4, 5)).To(BeEmpty())
		})
	})
})
