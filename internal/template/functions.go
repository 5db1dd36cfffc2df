package template

import (
	"strings"
	"text/template"

	"github.com/frherrer/GoE2E-CaseDoc/internal/markup"
)

// CustomFuncMap returns the custom template functions available in templates.
func CustomFuncMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"toLower":   strings.ToLower,
		"toUpper":   strings.ToUpper,
		"replace":   strings.ReplaceAll,
		"trimSpace": strings.TrimSpace,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"join":      strings.Join,
		"indent": func(spaces int, s string) string {
			pad := strings.Repeat(" ", spaces)
			lines := strings.Split(s, "\n")
			for i, line := range lines {
				if line != "" {
					lines[i] = pad + line
				}
			}
			return strings.Join(lines, "\n")
		},
		// adornment repeats char over the display width of title
		"adornment": func(title, char string) string {
			if char == "" {
				char = "="
			}
			return strings.Repeat(char[:1], markup.DisplayWidth(title))
		},
		"underline": func(title, char string) string {
			if char == "" {
				char = "="
			}
			return strings.TrimSuffix(markup.Heading(title, char[0]), "\n")
		},
		"anchor": markup.Anchor,
	}
}
