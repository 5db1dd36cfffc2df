package template_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
	"github.com/frherrer/GoE2E-CaseDoc/internal/parser"
	tmpl "github.com/frherrer/GoE2E-CaseDoc/internal/template"
)

var _ = Describe("TemplateEngine", func() {
	var engine *tmpl.DefaultEngine

	BeforeEach(func() {
		var err error
		engine, err = tmpl.NewEngine(filepath.Join("..", "..", "templates"), "html_page", "testcase")
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("ListTemplates", func() {
		It("should list the built-in templates", func() {
			Expect(engine.ListTemplates()).To(ContainElements("html_page", "testcase"))
		})
	})

	Describe("RenderPage", func() {
		It("should wrap the body and escape the title", func() {
			page, err := engine.RenderPage(tmpl.PageData{
				Title: "Login & logout",
				Body:  "<div class=\"document\">\n<p>x</p>\n</div>\n",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(page).To(ContainSubstring("<title>Login &amp; logout</title>"))
			Expect(page).To(ContainSubstring("<body>\n<div class=\"document\">\n<p>x</p>\n</div>\n</body>"))
		})

		It("should list issues", func() {
			page, err := engine.RenderPage(tmpl.PageData{
				Title:  "T",
				Issues: []domain.Issue{{Message: "missing <Setup>"}, {Line: 4, Message: "odd"}},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(page).To(ContainSubstring("<li>missing &lt;Setup&gt;</li>"))
			Expect(page).To(ContainSubstring("<li>line 4: odd</li>"))
		})
	})

	Describe("RenderScaffold", func() {
		It("should render a complete test case", func() {
			out, err := engine.RenderScaffold(tmpl.ScaffoldData{Title: "User login", ID: "TC-001", Author: "qa"})
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(HavePrefix("==========\nUser login\n==========\n\n:id: TC-001\n:author: qa\n\nDescription\n===========\n"))
			Expect(out).To(ContainSubstring(".. test_step:: 1\n\n    First step.\n"))

			sources, err := parser.NewRstReader().Read("new.rst", []byte(out))
			Expect(err).ToNot(HaveOccurred())
			Expect(sources[0].Issues).To(BeEmpty())
		})

		It("should omit an empty author", func() {
			out, err := engine.RenderScaffold(tmpl.ScaffoldData{Title: "Logout", ID: "TC-002"})
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(HavePrefix("======\nLogout\n======\n\n:id: TC-002\n\nDescription\n"))
			Expect(out).ToNot(ContainSubstring(":author:"))
		})
	})

	Describe("overrides", func() {
		It("should prefer templates from the template directory", func() {
			dir := GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(dir, "html_page.tmpl"), []byte("<main>{{ .Body }}</main>"), 0644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)).To(Succeed())

			custom, err := tmpl.NewEngine(dir, "html_page", "testcase")
			Expect(err).ToNot(HaveOccurred())
			page, err := custom.RenderPage(tmpl.PageData{Body: "<p>x</p>"})
			Expect(err).ToNot(HaveOccurred())
			Expect(page).To(Equal("<main><p>x</p></main>"))
			Expect(custom.ListTemplates()).To(Equal([]string{"html_page", "testcase"}))
		})

		It("should fail on a template that does not parse", func() {
			dir := GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(dir, "broken.tmpl"), []byte("{{ .Title "), 0644)).To(Succeed())
			_, err := tmpl.NewEngine(dir, "html_page", "testcase")
			Expect(err).To(MatchError(ContainSubstring("failed to parse template")))
		})

		It("should report an unknown template name", func() {
			custom, err := tmpl.NewEngine("", "missing", "testcase")
			Expect(err).ToNot(HaveOccurred())
			_, err = custom.RenderPage(tmpl.PageData{})
			Expect(err).To(MatchError(ContainSubstring(`template "missing" not found (available: html_page, testcase)`)))
		})
	})

	Describe("functions", func() {
		It("should expose markup helpers", func() {
			funcs := tmpl.CustomFuncMap()
			Expect(funcs).To(HaveKey("adornment"))
			Expect(funcs).To(HaveKey("underline"))
			Expect(funcs).To(HaveKey("anchor"))

			underline := funcs["underline"].(func(string, string) string)
			Expect(underline("Setup", "-")).To(Equal("Setup\n-----"))
			adornment := funcs["adornment"].(func(string, string) string)
			Expect(adornment("Setup", "")).To(Equal("====="))
		})
	})
})
