package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	tmpl "github.com/frherrer/GoE2E-CaseDoc/internal/template"
)

var (
	newOutput string
	newID     string
	newAuthor string
)

var newCmd = &cobra.Command{
	Use:   "new TITLE",
	Short: "Scaffold a new reStructuredText test-case document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, true)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		engine, err := tmpl.NewEngine(cfg.Templates.Directory, cfg.Templates.Page, cfg.Templates.Scaffold)
		if err != nil {
			return fmt.Errorf("failed to create template engine: %w", err)
		}
		doc, err := engine.RenderScaffold(tmpl.ScaffoldData{Title: args[0], ID: newID, Author: newAuthor})
		if err != nil {
			return err
		}

		if newOutput == "" {
			fmt.Fprint(cmd.OutOrStdout(), doc)
			return nil
		}
		if _, err := os.Stat(newOutput); err == nil {
			return fmt.Errorf("%s already exists", newOutput)
		}
		if err := os.WriteFile(newOutput, []byte(doc), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", newOutput, err)
		}
		log.Infof("Writing: %s", newOutput)
		return nil
	},
}

func init() {
	newCmd.Flags().StringVarP(&newOutput, "output", "o", "", "write to this file instead of stdout")
	newCmd.Flags().StringVar(&newID, "id", "", "test-case id")
	newCmd.Flags().StringVar(&newAuthor, "author", "", "test-case author")
	rootCmd.AddCommand(newCmd)
}
