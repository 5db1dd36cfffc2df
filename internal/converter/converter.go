package converter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/frherrer/GoE2E-CaseDoc/internal/casedoc"
	"github.com/frherrer/GoE2E-CaseDoc/internal/config"
	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
	"github.com/frherrer/GoE2E-CaseDoc/internal/export"
	"github.com/frherrer/GoE2E-CaseDoc/internal/markup"
	"github.com/frherrer/GoE2E-CaseDoc/internal/template"
)

// Converter renders test-case sources into their output formats.
type Converter interface {
	Convert(src domain.CaseSource) (*Result, error)
}

// Result holds the rendered outputs of one source. Markup problems are
// reported by the reader that built the source, against source lines.
type Result struct {
	Outputs []domain.Output
}

// DefaultConverter implements Converter.
type DefaultConverter struct {
	engine    *markup.Engine
	templates template.TemplateEngine
	builder   *export.Builder
	formats   []string
}

// NewConverter creates a converter for the output, render and export
// settings of cfg.
func NewConverter(cfg *config.Config, templates template.TemplateEngine) (*DefaultConverter, error) {
	display, err := casedoc.ParseDisplay(cfg.Render.ActionsDisplay)
	if err != nil {
		return nil, domain.NewError("config", "", 0, "invalid render settings", err)
	}
	ct, err := export.ParseContentType(cfg.Export.ContentType)
	if err != nil {
		return nil, domain.NewError("config", "", 0, "invalid export settings", err)
	}
	return &DefaultConverter{
		engine:    casedoc.NewEngine(display),
		templates: templates,
		builder:   export.NewBuilder(ct, export.WithIDField(cfg.Export.IDField)),
		formats:   cfg.Output.Formats,
	}, nil
}

// Convert renders src in every configured format, in configuration order.
func (c *DefaultConverter) Convert(src domain.CaseSource) (*Result, error) {
	doc := c.engine.Apply(c.engine.Parse(src.Content))

	res := &Result{}

	var body string
	renderBody := func() (string, error) {
		if body != "" {
			return body, nil
		}
		out, err := c.engine.Render(doc, markup.FormatHTML)
		if err != nil {
			return "", domain.NewError("render", src.FilePath, 0, "failed to render html", err)
		}
		body = out
		return body, nil
	}

	for _, format := range c.formats {
		var content string
		switch format {
		case "rst":
			content = src.Content
		case "pseudoxml":
			out, err := c.engine.Render(doc, markup.FormatPseudoXML)
			if err != nil {
				return nil, domain.NewError("render", src.FilePath, 0, "failed to render pseudo-xml", err)
			}
			content = out
		case "html":
			b, err := renderBody()
			if err != nil {
				return nil, err
			}
			page, err := c.templates.RenderPage(template.PageData{
				Title:      pageTitle(doc, src),
				SourceFile: src.FilePath,
				DocID:      src.DocID,
				Body:       b,
				Issues:     src.Issues,
			})
			if err != nil {
				return nil, err
			}
			content = page
		case "xml":
			b, err := renderBody()
			if err != nil {
				return nil, err
			}
			exported, err := c.builder.Build(b)
			if err != nil {
				return nil, domain.NewError("export", src.FilePath, 0, "failed to map rendered document", err)
			}
			data, err := exported.XML()
			if err != nil {
				return nil, domain.NewError("export", src.FilePath, 0, "failed to serialise document", err)
			}
			content = string(data)
		default:
			return nil, domain.NewErrorWithSuggestion("render", src.FilePath, 0,
				fmt.Sprintf("unknown output format %q", format),
				"supported formats are rst, html, pseudoxml and xml", nil)
		}
		res.Outputs = append(res.Outputs, domain.Output{Format: format, Content: []byte(content)})
	}
	return res, nil
}

// FileName returns the output file name of src in format:
// <prefix><stem>[.<docid>].<ext>.
func FileName(src domain.CaseSource, format, prefix string) string {
	base := filepath.Base(src.FilePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	name := prefix + stem
	if src.DocID != "" {
		name += "." + src.DocID
	}
	return name + "." + extension(format)
}

func extension(format string) string {
	if format == "pseudoxml" {
		return "pseudo.xml"
	}
	return format
}

// pageTitle uses the document title, falling back to the file stem.
func pageTitle(doc *markup.Node, src domain.CaseSource) string {
	if t := doc.Attr("title"); t != "" {
		return t
	}
	base := filepath.Base(src.FilePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
