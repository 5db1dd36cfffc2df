package template

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
)

//go:embed templates/*.tmpl
var builtin embed.FS

// TemplateEngine renders HTML pages and test-case scaffolds.
type TemplateEngine interface {
	RenderPage(data PageData) (string, error)
	RenderScaffold(data ScaffoldData) (string, error)
	ListTemplates() []string
}

// PageData is passed to the page template. Body is already rendered HTML.
type PageData struct {
	Title      string
	SourceFile string
	DocID      string
	Body       string
	Issues     []domain.Issue
}

// ScaffoldData is passed to the scaffold template.
type ScaffoldData struct {
	Title  string
	ID     string
	Author string
}

// DefaultEngine implements TemplateEngine.
type DefaultEngine struct {
	templates    map[string]*template.Template
	pageName     string
	scaffoldName string
	templateDir  string
}

// NewEngine creates a template engine. The built-in templates are loaded
// first; *.tmpl files in templateDir override or extend them. A missing
// templateDir is not an error.
func NewEngine(templateDir, pageName, scaffoldName string) (*DefaultEngine, error) {
	engine := &DefaultEngine{
		templates:    make(map[string]*template.Template),
		pageName:     pageName,
		scaffoldName: scaffoldName,
		templateDir:  templateDir,
	}

	sub, err := fs.Sub(builtin, "templates")
	if err != nil {
		return nil, domain.NewError("template", "", 0, "failed to open built-in templates", err)
	}
	if err := engine.loadTemplates(sub, "built-in"); err != nil {
		return nil, err
	}

	if templateDir != "" {
		if _, err := os.Stat(templateDir); err == nil {
			if err := engine.loadTemplates(os.DirFS(templateDir), templateDir); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewError("template", templateDir, 0, "failed to read template directory", err)
		}
	}

	return engine, nil
}

// loadTemplates reads all .tmpl files at the root of fsys.
func (e *DefaultEngine) loadTemplates(fsys fs.FS, origin string) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return domain.NewError("template", origin, 0, "failed to read template directory", err)
	}

	funcMap := CustomFuncMap()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		path := filepath.Join(origin, entry.Name())
		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return domain.NewError("template", path, 0, "failed to read template file", err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return domain.NewError("template", path, 0, "failed to parse template", err)
		}

		e.templates[name] = tmpl
	}

	return nil
}

// RenderPage wraps a rendered document body in the page template.
func (e *DefaultEngine) RenderPage(data PageData) (string, error) {
	return e.execute(e.pageName, data, data.SourceFile)
}

// RenderScaffold renders a new test-case document.
func (e *DefaultEngine) RenderScaffold(data ScaffoldData) (string, error) {
	return e.execute(e.scaffoldName, data, "")
}

func (e *DefaultEngine) execute(name string, data any, file string) (string, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return "", domain.NewError("template", "", 0,
			fmt.Sprintf("template %q not found (available: %s)", name, strings.Join(e.ListTemplates(), ", ")), nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", domain.NewError("template", file, 0, "failed to execute template", err)
	}
	return buf.String(), nil
}

// ListTemplates returns the names of all loaded templates, sorted.
func (e *DefaultEngine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
