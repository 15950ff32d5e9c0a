// Package types provides core data structures for auditeval
package types

import (
	"fmt"
	"os"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// HasErrors returns true if there are any validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ConfigValidator validates configuration settings
type ConfigValidator struct {
	errors ValidationErrors
}

// NewConfigValidator creates a new config validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate performs comprehensive validation of the config
func (v *ConfigValidator) Validate(config *Config) ValidationErrors {
	v.errors = nil

	if config.BenchmarksDir == "" {
		v.addError("benchmarks_dir", "must not be empty", config.BenchmarksDir)
	}
	if config.HistoryFile == "" {
		v.addError("history_file", "must not be empty", config.HistoryFile)
	}
	if strings.TrimSpace(config.VersionTag) == "" {
		v.addError("version_tag", "must not be empty", config.VersionTag)
	}

	v.validateScoringSettings(config.Scoring)
	v.validateOutputSettings(config.Output)
	v.validateLogSettings(config.Log)

	return v.errors
}

func (v *ConfigValidator) addError(field, message string, value interface{}) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

func (v *ConfigValidator) validateScoringSettings(s ScoringSettings) {
	validPolicies := map[string]bool{
		"extra-findings": true, "unmatched-fp": true,
	}
	if !validPolicies[normalize(s.Policy)] {
		v.addError("scoring.policy", "unknown policy", s.Policy)
	}

	validScales := map[string]bool{
		"": true, "strict": true, "lenient": true,
	}
	if !validScales[normalize(s.GradeScale)] {
		v.addError("scoring.grade_scale", "unknown grade scale", s.GradeScale)
	}

	if s.Jobs < 1 {
		v.addError("scoring.jobs", "must be at least 1", s.Jobs)
	}
	if s.Jobs > 64 {
		v.addError("scoring.jobs", "should not exceed 64", s.Jobs)
	}
}

func (v *ConfigValidator) validateOutputSettings(o OutputSettings) {
	validFormats := map[string]bool{
		"text": true, "txt": true, "json": true, "markdown": true, "md": true,
	}

	if o.Format != "" && !validFormats[normalize(o.Format)] {
		v.addError("output.format", "unknown format", o.Format)
	}
}

func (v *ConfigValidator) validateLogSettings(l LogSettings) {
	validLevels := map[string]bool{
		"": true, "trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "disabled": true,
	}
	if !validLevels[normalize(l.Level)] {
		v.addError("log.level", "unknown log level", l.Level)
	}
}

// ValidateConfig is a convenience function to validate a config
func ValidateConfig(config *Config) error {
	validator := NewConfigValidator()
	errors := validator.Validate(config)
	if errors.HasErrors() {
		return errors
	}
	return nil
}

// ValidateBenchmarkDir validates a benchmark directory exists and is a directory
func ValidateBenchmarkDir(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("benchmark directory does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access benchmark directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("benchmark path is a file, not a directory: %s", path)
	}
	return nil
}
