package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	return &Config{
		Input: InputConfig{
			Directories: []string{"testcases"},
			Include:     []string{"*.rst", "*_test.go", "*.md"},
			Exclude:     []string{"vendor/**", "node_modules/**"},
			Recursive:   &recursive,
		},
		Output: OutputConfig{
			Directory:           "build/testcases",
			Formats:             []string{"html", "xml"},
			FilePrefix:          "",
			CleanBeforeGenerate: false,
		},
		Render: RenderConfig{
			ActionsDisplay: "table",
		},
		Export: ExportConfig{
			ContentType: "cdata",
			IDField:     "id",
		},
		Templates: TemplateConfig{
			Directory: "templates",
			Page:      "html_page",
			Scaffold:  "testcase",
		},
		Workers: 4,
		Logging: LoggingConfig{
			Level: "info",
		},
		DryRun: false,
		Strict: false,
	}
}
