package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frherrer/GoE2E-CaseDoc/internal/config"
	"github.com/frherrer/GoE2E-CaseDoc/internal/converter"
	"github.com/frherrer/GoE2E-CaseDoc/internal/generator"
	"github.com/frherrer/GoE2E-CaseDoc/internal/parser"
	"github.com/frherrer/GoE2E-CaseDoc/internal/scanner"
	tmpl "github.com/frherrer/GoE2E-CaseDoc/internal/template"
)

var (
	dryRun bool
	strict bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build and render test-case documents",
	Long: `Scans the input directories, assembles one test-case document per source
(or per @casedoc id in Go files) and writes every configured output format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, false)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if dryRun {
			cfg.DryRun = true
		}
		if strict {
			cfg.Strict = true
		}

		log.Info("Configuration loaded successfully")
		log.WithField("directories", cfg.Input.Directories).Info("Scanning directories")
		log.WithField("path", cfg.Output.Directory).Info("Output directory")

		summary, err := runGenerate(cmd, cfg)
		if summary != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%d file(s), %d document(s), %d output(s), %d issue(s)\n",
				summary.Files, summary.Documents, summary.Written, summary.Issues)
		}
		return err
	},
}

func init() {
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "build and render but don't write files")
	generateCmd.Flags().BoolVar(&strict, "strict", false, "fail when any document reports an issue")
	rootCmd.AddCommand(generateCmd)
}

// runGenerate wires all components and runs the generator.
func runGenerate(cmd *cobra.Command, cfg *config.Config) (*generator.Summary, error) {
	// Create scanner
	recursive := true
	if cfg.Input.Recursive != nil {
		recursive = *cfg.Input.Recursive
	}
	s := scanner.NewScanner(recursive)

	// Create reader registry
	registry := parser.NewDefaultRegistry()

	// Create template engine
	engine, err := tmpl.NewEngine(cfg.Templates.Directory, cfg.Templates.Page, cfg.Templates.Scaffold)
	if err != nil {
		return nil, fmt.Errorf("failed to create template engine: %w", err)
	}

	// Create converter
	conv, err := converter.NewConverter(cfg, engine)
	if err != nil {
		return nil, err
	}

	// Create and run generator
	gen := generator.NewGenerator(s, registry, conv, log)
	return gen.Generate(cmd.Context(), cfg)
}
