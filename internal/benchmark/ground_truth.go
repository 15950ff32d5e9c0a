// Package benchmark scores audit findings against the known vulnerabilities
// of each benchmark and aggregates the results across a benchmark suite.
package benchmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/su1ph3r/auditeval/pkg/types"
	"gopkg.in/yaml.v3"
)

const (
	ExpectedFile = "expected.json"
	ResultsFile  = "results.json"
)

// expected.json is preferred; the YAML names are tried in order after it.
var expectedFallbacks = []string{"expected.yaml", "expected.yml"}

var (
	// ErrMissingExpected is returned when a benchmark has no expected file.
	ErrMissingExpected = errors.New("no expected.json")
	// ErrMissingResults is returned when a benchmark has not been evaluated yet.
	ErrMissingResults = errors.New("no results.json (run eval first)")
)

// Benchmark holds the loaded inputs of one benchmark directory.
type Benchmark struct {
	Name     string
	Dir      string
	Expected []types.ExpectedVulnerability
	Findings []types.Finding
}

// LoadOptions controls how benchmark inputs are read.
type LoadOptions struct {
	ValidateSchema bool
}

// LoadBenchmark reads the expected and results documents of a benchmark directory.
func LoadBenchmark(dir string, opts LoadOptions) (*Benchmark, error) {
	expectedPath, err := findExpectedFile(dir)
	if err != nil {
		return nil, err
	}
	resultsPath := filepath.Join(dir, ResultsFile)
	if _, err := os.Stat(resultsPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, ErrMissingResults)
		}
		return nil, fmt.Errorf("stat results: %w", err)
	}

	exp, err := LoadExpected(expectedPath, opts)
	if err != nil {
		return nil, err
	}
	res, err := LoadResults(resultsPath, opts)
	if err != nil {
		return nil, err
	}

	return &Benchmark{
		Name:     filepath.Base(filepath.Clean(dir)),
		Dir:      dir,
		Expected: exp.Vulnerabilities,
		Findings: res.Findings,
	}, nil
}

// LoadExpected reads an expected-vulnerabilities document. Files ending in
// .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadExpected(path string, opts LoadOptions) (*types.ExpectedDocument, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read expected: %w", err)
	}

	var doc types.ExpectedDocument
	if isYAML(path) {
		if opts.ValidateSchema {
			var raw interface{}
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return nil, fmt.Errorf("parse expected: %w", err)
			}
			if err := validateGo(expectedSchema, path, raw); err != nil {
				return nil, err
			}
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse expected: %w", err)
		}
		return &doc, nil
	}

	if opts.ValidateSchema {
		if err := validateJSON(expectedSchema, path, data); err != nil {
			return nil, err
		}
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse expected: %w", err)
	}
	return &doc, nil
}

// LoadResults reads a findings document.
func LoadResults(path string, opts LoadOptions) (*types.ResultsDocument, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	if opts.ValidateSchema {
		if err := validateJSON(resultsSchema, path, data); err != nil {
			return nil, err
		}
	}

	var doc types.ResultsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &doc, nil
}

func findExpectedFile(dir string) (string, error) {
	candidates := append([]string{ExpectedFile}, expectedFallbacks...)
	for _, name := range candidates {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat expected: %w", err)
		}
	}
	return "", fmt.Errorf("%s: %w", dir, ErrMissingExpected)
}

func isYAML(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
