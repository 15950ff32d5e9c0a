package types

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateConfig_Defaults(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestValidateConfig_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BenchmarksDir = ""
	cfg.Scoring.Policy = "fuzzy"
	cfg.Scoring.GradeScale = "curve"
	cfg.Scoring.Jobs = 0
	cfg.Output.Format = "sarif"
	cfg.Log.Level = "loud"

	err := ValidateConfig(cfg)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 6 {
		t.Errorf("expected 6 validation errors, got %d: %v", len(verrs), verrs)
	}

	fields := make(map[string]bool)
	for _, e := range verrs {
		fields[e.Field] = true
	}
	for _, f := range []string{"benchmarks_dir", "scoring.policy", "scoring.grade_scale", "scoring.jobs", "output.format", "log.level"} {
		if !fields[f] {
			t.Errorf("missing validation error for %s", f)
		}
	}
}

func TestValidateConfig_JobsUpperBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring.Jobs = 65
	if err := ValidateConfig(cfg); err == nil {
		t.Error("expected error for jobs > 64")
	}
}

func TestValidateBenchmarkDir(t *testing.T) {
	dir := t.TempDir()
	if err := ValidateBenchmarkDir(dir); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateBenchmarkDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}

	file := filepath.Join(dir, "file.json")
	if err := os.WriteFile(file, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := ValidateBenchmarkDir(file); err == nil {
		t.Error("expected error for a file path")
	}
}

func TestFinding_IsFalsePositive(t *testing.T) {
	tests := []struct {
		name string
		flag *bool
		want bool
	}{
		{"absent", nil, false},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Finding{FalsePositive: tt.flag}
			if got := f.IsFalsePositive(); got != tt.want {
				t.Errorf("IsFalsePositive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalization(t *testing.T) {
	f := Finding{Title: "  Reentrancy In Withdraw ", Category: "REENTRANCY", Severity: "High "}
	if f.NormTitle() != "reentrancy in withdraw" || f.NormCategory() != "reentrancy" || f.NormSeverity() != "high" {
		t.Errorf("unexpected normalization: %q %q %q", f.NormTitle(), f.NormCategory(), f.NormSeverity())
	}
}

func TestExpectedVulnerability_Label(t *testing.T) {
	tests := []struct {
		v    ExpectedVulnerability
		want string
	}{
		{ExpectedVulnerability{ID: "H-01", Title: "Reentrancy"}, "H-01 Reentrancy"},
		{ExpectedVulnerability{Title: "Reentrancy"}, "Reentrancy"},
		{ExpectedVulnerability{ID: "H-01"}, "H-01"},
		{ExpectedVulnerability{Category: "oracle"}, "oracle"},
	}
	for _, tt := range tests {
		if got := tt.v.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}

func TestSeverityRank(t *testing.T) {
	if SeverityRank("CRITICAL") <= SeverityRank(SeverityHigh) {
		t.Error("critical should outrank high")
	}
	if SeverityRank("unknown") != 0 {
		t.Error("unknown severity should rank 0")
	}
}

func TestValidateConfig_CaseInsensitiveNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring.Policy = "Unmatched-FP"
	cfg.Scoring.GradeScale = "LENIENT"
	cfg.Output.Format = "Markdown"
	cfg.Log.Level = " Debug "
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("mixed-case names should validate: %v", err)
	}
}
