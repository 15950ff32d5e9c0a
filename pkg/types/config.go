package types

// Config represents the application configuration
type Config struct {
	// Location of the benchmark directories
	BenchmarksDir string `yaml:"benchmarks_dir" mapstructure:"benchmarks_dir"`

	// Append-only run history file
	HistoryFile string `yaml:"history_file" mapstructure:"history_file"`

	// Version tag recorded with every history entry
	VersionTag string `yaml:"version_tag" mapstructure:"version_tag"`

	// Scoring settings
	Scoring ScoringSettings `yaml:"scoring" mapstructure:"scoring"`

	// Output settings
	Output OutputSettings `yaml:"output" mapstructure:"output"`

	// Logging settings
	Log LogSettings `yaml:"log" mapstructure:"log"`
}

// ScoringSettings holds matching and grading configuration
type ScoringSettings struct {
	Policy              string `yaml:"policy" mapstructure:"policy"`           // extra-findings, unmatched-fp
	GradeScale          string `yaml:"grade_scale" mapstructure:"grade_scale"` // strict, lenient; empty = policy default
	BidirectionalTitles *bool  `yaml:"bidirectional_titles" mapstructure:"bidirectional_titles"`
	Jobs                int    `yaml:"jobs" mapstructure:"jobs"`
	ValidateSchema      bool   `yaml:"validate_schema" mapstructure:"validate_schema"`
}

// OutputSettings holds output configuration
type OutputSettings struct {
	Format string `yaml:"format" mapstructure:"format"` // text, json, markdown
	File   string `yaml:"file" mapstructure:"file"`
	Color  bool   `yaml:"color" mapstructure:"color"`
	Gaps   bool   `yaml:"gaps" mapstructure:"gaps"` // Include gap analysis for missed vulnerabilities
}

// LogSettings holds diagnostic logging configuration
type LogSettings struct {
	Level string `yaml:"level" mapstructure:"level"` // trace, debug, info, warn, error
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BenchmarksDir: "benchmarks",
		HistoryFile:   "results/history.json",
		VersionTag:    "0.1.0",
		Scoring: ScoringSettings{
			Policy:         "extra-findings",
			Jobs:           1,
			ValidateSchema: false,
		},
		Output: OutputSettings{
			Format: "text",
			Color:  true,
		},
		Log: LogSettings{
			Level: "warn",
		},
	}
}
