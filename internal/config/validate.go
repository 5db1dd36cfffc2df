package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/frherrer/GoE2E-CaseDoc/internal/casedoc"
	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
	"github.com/frherrer/GoE2E-CaseDoc/internal/export"
)

// Formats lists the output formats generate can write.
var Formats = []string{"rst", "html", "pseudoxml", "xml"}

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	// Input validation
	if len(cfg.Input.Directories) == 0 {
		errs = append(errs, "input.directories must not be empty")
	}
	if len(cfg.Input.Include) == 0 {
		errs = append(errs, "input.include must not be empty")
	}
	for _, pattern := range append(append([]string(nil), cfg.Input.Include...), cfg.Input.Exclude...) {
		if _, err := filepath.Match(pattern, ""); err != nil {
			errs = append(errs, fmt.Sprintf("input pattern %q is malformed", pattern))
		}
	}

	// Output validation
	if cfg.Output.Directory == "" {
		errs = append(errs, "output.directory must not be empty")
	}
	if len(cfg.Output.Formats) == 0 {
		errs = append(errs, "output.formats must not be empty")
	}
	for _, f := range cfg.Output.Formats {
		if !isFormat(f) {
			errs = append(errs, fmt.Sprintf("output.formats: unknown format %q (expected one of: %s)", f, strings.Join(Formats, ", ")))
		}
	}

	if _, err := casedoc.ParseDisplay(cfg.Render.ActionsDisplay); err != nil {
		errs = append(errs, fmt.Sprintf("render.actions_display: %v", err))
	}
	if _, err := export.ParseContentType(cfg.Export.ContentType); err != nil {
		errs = append(errs, fmt.Sprintf("export.content_type must be one of: raw, cdata, plaintext (got %q)", cfg.Export.ContentType))
	}
	if cfg.Export.IDField == "" {
		errs = append(errs, "export.id_field must not be empty")
	}

	if cfg.Workers < 1 {
		errs = append(errs, fmt.Sprintf("workers must be at least 1 (got %d)", cfg.Workers))
	}

	// Validate logging level
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}

func isFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}
