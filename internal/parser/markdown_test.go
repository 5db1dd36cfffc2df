package parser_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
	"github.com/frherrer/GoE2E-CaseDoc/internal/parser"
)

var _ = Describe("MarkdownReader", func() {
	var r *parser.MarkdownReader

	BeforeEach(func() {
		r = parser.NewMarkdownReader()
	})

	read := func(content string) domain.CaseSource {
		sources, err := r.Read("case.md", []byte(content))
		Expect(err).ToNot(HaveOccurred())
		Expect(sources).To(HaveLen(1))
		return sources[0]
	}

	Describe("SupportedExtensions", func() {
		It("should support .md and .markdown", func() {
			Expect(r.SupportedExtensions()).To(ContainElements(".md", ".markdown"))
		})
	})

	Describe("Read reset.md", func() {
		var src domain.CaseSource

		BeforeEach(func() {
			content, err := os.ReadFile(filepath.Join("..", "..", "testdata", "markdown", "reset.md"))
			Expect(err).ToNot(HaveOccurred())
			sources, err := r.Read("reset.md", content)
			Expect(err).ToNot(HaveOccurred())
			Expect(sources).To(HaveLen(1))
			src = sources[0]
		})

		It("should build the header from the title and front matter", func() {
			Expect(src.FileType).To(Equal("markdown"))
			Expect(src.Content).To(HavePrefix("==============\nPassword reset\n==============\n\n:id: TC-002\n:author: qa\n"))
		})

		It("should convert level-two headings into sections", func() {
			Expect(src.Content).To(ContainSubstring("Description\n===========\n\nA user can reset a *forgotten* password.\n"))
			Expect(src.Content).To(ContainSubstring("Setup\n=====\n\n- Create a user\n- Log out\n"))
			Expect(src.Content).To(HaveSuffix("Teardown\n========\n\nDelete the user.\n"))
		})

		It("should turn tagged code blocks into test actions", func() {
			Expect(src.Content).To(ContainSubstring(".. test_step:: 1\n\n    Request a reset link.\n"))
			Expect(src.Content).To(ContainSubstring(".. test_result:: 1\n\n    An email is sent.\n"))
		})

		It("should report no issues", func() {
			Expect(src.Issues).To(BeEmpty())
		})
	})

	Describe("actions", func() {
		It("should number actions without an id", func() {
			src := read("## Test Steps\n\n```test-step\nOne.\n```\n\n```test-step\nTwo.\n```\n")
			Expect(src.Content).To(ContainSubstring(".. test_step:: 1\n\n    One.\n"))
			Expect(src.Content).To(ContainSubstring(".. test_step:: 2\n\n    Two.\n"))
		})

		It("should report invalid ids at the block line", func() {
			src := read("## Test Steps\n\n```test-step id=zero\nOne.\n```\n")
			Expect(src.Issues).To(ContainElement(domain.Issue{Line: 4, Message: `invalid action id "zero"`}))
		})

		It("should report clashing ids", func() {
			src := read("## Test Steps\n\n```test-step id=1\nOne.\n```\n\n```test-step id=1\nTwo.\n```\n")
			Expect(src.Content).To(ContainSubstring("One."))
			Expect(src.Content).ToNot(ContainSubstring("Two."))
			Expect(src.Issues).To(ContainElement(HaveField("Message", ContainSubstring("test_step 1 is already defined"))))
		})

		It("should keep other code blocks as code", func() {
			src := read("## Setup\n\n```bash\nmake run\n```\n")
			Expect(src.Content).To(ContainSubstring("Setup\n=====\n\n.. code-block:: bash\n\n    make run\n"))
		})
	})

	Describe("issues", func() {
		It("should report unknown sections at their line", func() {
			src := read("# Title\n\n## Notes\n\nIgnored.\n")
			Expect(src.Content).ToNot(ContainSubstring("Ignored."))
			Expect(src.Issues).To(ContainElement(domain.Issue{Line: 3, Message: `unknown section "Notes" ignored`}))
		})

		It("should shift lines by the front matter", func() {
			src := read("---\nid: TC-9\n---\n## Notes\n")
			Expect(src.Issues).To(ContainElement(domain.Issue{Line: 4, Message: `unknown section "Notes" ignored`}))
		})

		It("should report missing mandatory sections", func() {
			src := read("## Description\n\nOnly this.\n")
			Expect(src.Issues).To(ContainElement(domain.Issue{Message: `missing mandatory section "Setup"`}))
		})

		It("should reject front matter that is not a mapping", func() {
			_, err := r.Read("case.md", []byte("---\n- a\n- b\n---\n# T\n"))
			Expect(err).To(MatchError(ContainSubstring("invalid front matter")))
		})

		It("should reject nested front matter values", func() {
			_, err := r.Read("case.md", []byte("---\ntags:\n  - a\n---\n# T\n"))
			Expect(err).To(MatchError(ContainSubstring(`front matter field "tags" must be a scalar`)))
		})
	})
})
