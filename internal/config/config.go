package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	Input     InputConfig    `yaml:"input"`
	Output    OutputConfig   `yaml:"output"`
	Render    RenderConfig   `yaml:"render"`
	Export    ExportConfig   `yaml:"export"`
	Templates TemplateConfig `yaml:"templates"`
	Workers   int            `yaml:"workers"`
	Logging   LoggingConfig  `yaml:"logging"`
	DryRun    bool           `yaml:"dry_run"`
	Strict    bool           `yaml:"strict"` // any soft issue fails the run
}

type InputConfig struct {
	Directories []string `yaml:"directories"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Recursive   *bool    `yaml:"recursive"` // pointer to distinguish unset from false
}

type OutputConfig struct {
	Directory           string   `yaml:"directory"`
	Formats             []string `yaml:"formats"` // rst, html, pseudoxml, xml
	FilePrefix          string   `yaml:"file_prefix"`
	CleanBeforeGenerate bool     `yaml:"clean_before_generate"`
}

type RenderConfig struct {
	ActionsDisplay string `yaml:"actions_display"` // table or plain
}

type ExportConfig struct {
	ContentType string `yaml:"content_type"` // raw, cdata or plaintext
	IDField     string `yaml:"id_field"`
}

type TemplateConfig struct {
	Directory string `yaml:"directory"`
	Page      string `yaml:"page"`
	Scaffold  string `yaml:"scaffold"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
	}

	return cfg, nil
}
