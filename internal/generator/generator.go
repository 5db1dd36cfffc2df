package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/frherrer/GoE2E-CaseDoc/internal/config"
	"github.com/frherrer/GoE2E-CaseDoc/internal/converter"
	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
	"github.com/frherrer/GoE2E-CaseDoc/internal/parser"
	"github.com/frherrer/GoE2E-CaseDoc/internal/scanner"
)

// Generator is the top-level orchestrator.
type Generator interface {
	Generate(ctx context.Context, cfg *config.Config) (*Summary, error)
}

// Summary reports what a run did.
type Summary struct {
	Files     int // input files scanned
	Documents int // test-case documents found
	Written   int // output files written, or that would be in dry-run mode
	Issues    int // soft validation problems
}

// DefaultGenerator implements Generator by wiring all components together.
type DefaultGenerator struct {
	scanner   scanner.Scanner
	registry  parser.ReaderRegistry
	converter converter.Converter
	log       *logrus.Logger
}

// NewGenerator creates a new DefaultGenerator with all dependencies.
func NewGenerator(
	s scanner.Scanner,
	r parser.ReaderRegistry,
	c converter.Converter,
	log *logrus.Logger,
) *DefaultGenerator {
	return &DefaultGenerator{
		scanner:   s,
		registry:  r,
		converter: c,
		log:       log,
	}
}

type pendingFile struct {
	path    string
	content []byte
}

type fileResult struct {
	documents int
	issues    []sourceIssue
	outputs   []pendingFile
}

type sourceIssue struct {
	src   domain.CaseSource
	issue domain.Issue
}

// Generate runs the full pipeline: scan → read → build → render → write.
// Files are processed in parallel, bounded by cfg.Workers; output is
// written in input order once every file has been processed.
func (g *DefaultGenerator) Generate(ctx context.Context, cfg *config.Config) (*Summary, error) {
	// Step 1: Clean output directory if configured
	if cfg.Output.CleanBeforeGenerate && !cfg.DryRun {
		g.log.Debugf("Cleaning output directory: %s", cfg.Output.Directory)
		if err := cleanOutputDir(cfg.Output.Directory); err != nil {
			return nil, domain.NewErrorWithSuggestion("write", cfg.Output.Directory, 0,
				"failed to clean output directory",
				"check file permissions or set output.clean_before_generate to false in casedoc.yaml",
				err)
		}
	}

	// Step 2: Scan for test-case sources
	g.log.Debugf("Scanning directories: %s", strings.Join(cfg.Input.Directories, ", "))
	files, err := g.scanner.Scan(cfg.Input.Directories, cfg.Input.Include, cfg.Input.Exclude)
	if err != nil {
		return nil, err
	}
	summary := &Summary{Files: len(files)}
	if len(files) == 0 {
		g.log.Warn("No test-case source files found")
		return summary, nil
	}
	g.log.Infof("Found %d source file(s)", len(files))

	// Step 3: Read and render every file
	results := make([]fileResult, len(files))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(cfg.Workers, 1))
	for i, path := range files {
		eg.Go(func() error {
			r, err := g.processFile(egCtx, path, cfg)
			results[i] = r
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Step 4: Report issues and write output
	for _, r := range results {
		summary.Documents += r.documents
		for _, si := range r.issues {
			summary.Issues++
			g.log.WithFields(logrus.Fields{
				"file": si.src.FilePath,
				"doc":  si.src.DocID,
				"line": si.issue.Line,
			}).Warn(si.issue.Message)
		}
		for _, out := range r.outputs {
			summary.Written++
			if cfg.DryRun {
				g.log.Infof("[DRY-RUN] Would write: %s", out.path)
				g.log.Debugf("[DRY-RUN] Content:\n%s", out.content)
				continue
			}
			if err := writeOutput(out); err != nil {
				return nil, err
			}
			g.log.Infof("Writing: %s", out.path)
		}
	}

	if cfg.Strict && summary.Issues > 0 {
		return summary, domain.NewErrorWithSuggestion("build", "", 0,
			fmt.Sprintf("%d issue(s) found in strict mode", summary.Issues),
			"fix the reported issues or disable strict mode",
			nil)
	}

	g.log.Infof("Generation complete: %d document(s), %d output file(s)", summary.Documents, summary.Written)
	return summary, nil
}

func (g *DefaultGenerator) processFile(ctx context.Context, path string, cfg *config.Config) (fileResult, error) {
	var res fileResult
	if err := ctx.Err(); err != nil {
		return res, err
	}
	g.log.Debugf("Processing: %s", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return res, domain.NewErrorWithSuggestion("read", path, 0,
			"failed to read file",
			"check that the file exists and has read permissions",
			err)
	}

	reader, err := g.registry.ReaderFor(filepath.Ext(path))
	if err != nil {
		g.log.Warnf("No reader for %s, skipping %s", filepath.Ext(path), path)
		return res, nil
	}
	sources, err := reader.Read(path, content)
	if err != nil {
		return res, err
	}
	if len(sources) == 0 {
		g.log.Debugf("No test-case document found in %s", path)
		return res, nil
	}

	for _, src := range sources {
		converted, err := g.converter.Convert(src)
		if err != nil {
			return res, err
		}
		res.documents++
		for _, is := range src.Issues {
			res.issues = append(res.issues, sourceIssue{src: src, issue: is})
		}
		for _, out := range converted.Outputs {
			name := converter.FileName(src, out.Format, cfg.Output.FilePrefix)
			res.outputs = append(res.outputs, pendingFile{
				path:    filepath.Join(cfg.Output.Directory, name),
				content: out.Content,
			})
		}
	}
	return res, nil
}

func writeOutput(out pendingFile) error {
	if err := os.MkdirAll(filepath.Dir(out.path), 0755); err != nil {
		return domain.NewErrorWithSuggestion("write", filepath.Dir(out.path), 0,
			"failed to create output directory",
			"check that the parent directory exists and has write permissions",
			err)
	}
	if err := os.WriteFile(out.path, out.content, 0644); err != nil {
		return domain.NewErrorWithSuggestion("write", out.path, 0,
			"failed to write output file",
			"check disk space and write permissions for the output directory",
			err)
	}
	return nil
}

// generatedExtensions are the file suffixes cleanOutputDir removes.
var generatedExtensions = []string{".rst", ".html", ".xml"}

// cleanOutputDir removes all generated files from the output directory.
func cleanOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil // Nothing to clean
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		for _, ext := range generatedExtensions {
			if strings.HasSuffix(entry.Name(), ext) {
				if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
					return err
				}
				break
			}
		}
	}

	return nil
}
