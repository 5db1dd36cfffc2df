package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/frherrer/GoE2E-CaseDoc/internal/config"
)

var (
	cfgFile string
	verbose bool
	log     = logrus.New()
	logFile *os.File
)

// rootCmd is the base command for casedoc.
var rootCmd = &cobra.Command{
	Use:   "casedoc",
	Short: "Build test-case documents from reStructuredText, Markdown and Go sources",
	Long: `GoE2E-CaseDoc assembles test-case documents from reStructuredText files,
Markdown files and @casedoc comments in Go test sources, and renders them
as HTML pages and structured XML for test management tools.

Everything is driven by a YAML configuration file (casedoc.yaml).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(cmd.ErrOrStderr())
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		log.SetLevel(logrus.InfoLevel)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLogFile()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "casedoc.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	defer closeLogFile()
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx as the command context.
func ExecuteContext(ctx context.Context) error {
	defer closeLogFile()
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig loads and validates the configuration file, then applies its
// logging settings. When optional is set and the default config file does
// not exist, the built-in defaults are used.
func loadConfig(cmd *cobra.Command, optional bool) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		if !optional || cmd.Flags().Changed("config") || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Debugf("No %s found, using defaults", cfgFile)
		cfg = config.DefaultConfig()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if err := configureLogging(cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configureLogging(lc config.LoggingConfig) error {
	if !verbose && lc.Level != "" {
		level, err := logrus.ParseLevel(lc.Level)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}
	if lc.File != "" {
		closeLogFile()
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		logFile = f
		log.SetOutput(f)
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

// closeLogFile closes the file opened for logging.file, if any, and sends
// log output back to stderr. Post-run hooks are skipped when a command
// fails, so Execute closes it as well.
func closeLogFile() {
	if logFile == nil {
		return
	}
	log.SetOutput(os.Stderr)
	_ = logFile.Close()
	logFile = nil
}
