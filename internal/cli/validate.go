package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	tmpl "github.com/frherrer/GoE2E-CaseDoc/internal/template"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the casedoc.yaml configuration file",
	Long: `Loads the configuration file and checks for errors, missing required fields, and invalid values.
The configured page and scaffold templates must resolve; missing input directories are reported as warnings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, false)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		engine, err := tmpl.NewEngine(cfg.Templates.Directory, cfg.Templates.Page, cfg.Templates.Scaffold)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		available := engine.ListTemplates()
		for _, name := range []string{cfg.Templates.Page, cfg.Templates.Scaffold} {
			if !slices.Contains(available, name) {
				return fmt.Errorf("validation failed: template %q not found (available: %s)", name, strings.Join(available, ", "))
			}
		}

		for _, dir := range cfg.Input.Directories {
			if _, err := os.Stat(dir); err != nil {
				log.WithField("directory", dir).Warn("Input directory does not exist")
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %q is valid.\n", cfgFile)
		log.Debugf("Loaded config: %+v", cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
