package benchmark

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBenchmark creates root/name with the given file contents. An empty
// content string skips that file.
func writeBenchmark(t *testing.T, root, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0750))
	for fname, content := range files {
		if content == "" {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, fname), []byte(content), 0600))
	}
	return dir
}

const sampleExpected = `{
  "benchmark": "euler",
  "vulnerabilities": [
    {"category": "reentrancy", "title": "Reentrancy in withdraw", "severity": "high"},
    {"category": "access-control", "title": "Unprotected initializer", "severity": "critical"}
  ]
}`

const sampleResults = `{
  "findings": [
    {"category": "Reentrancy", "title": "reentrancy bug", "severity": "high"},
    {"category": "gas", "title": "Unbounded loop", "severity": "low"},
    {"category": "style", "title": "Shadowed variable", "severity": "info", "false_positive": true}
  ]
}`

func TestLoadBenchmark(t *testing.T) {
	dir := writeBenchmark(t, t.TempDir(), "euler", map[string]string{
		ExpectedFile: sampleExpected,
		ResultsFile:  sampleResults,
	})

	b, err := LoadBenchmark(dir, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "euler", b.Name)
	require.Len(t, b.Expected, 2)
	require.Len(t, b.Findings, 3)
	assert.Equal(t, "reentrancy", b.Expected[0].Category)
	assert.False(t, b.Findings[0].IsFalsePositive())
	assert.Nil(t, b.Findings[0].FalsePositive)
	assert.True(t, b.Findings[2].IsFalsePositive())
}

func TestLoadBenchmark_MissingFiles(t *testing.T) {
	root := t.TempDir()

	t.Run("no expected", func(t *testing.T) {
		dir := writeBenchmark(t, root, "a", map[string]string{ResultsFile: sampleResults})
		_, err := LoadBenchmark(dir, LoadOptions{})
		assert.ErrorIs(t, err, ErrMissingExpected)
	})

	t.Run("no results", func(t *testing.T) {
		dir := writeBenchmark(t, root, "b", map[string]string{ExpectedFile: sampleExpected})
		_, err := LoadBenchmark(dir, LoadOptions{})
		assert.ErrorIs(t, err, ErrMissingResults)
	})
}

func TestLoadBenchmark_YAMLExpected(t *testing.T) {
	yamlExpected := `vulnerabilities:
  - category: reentrancy
    title: Reentrancy in withdraw
    severity: high
`
	dir := writeBenchmark(t, t.TempDir(), "yaml", map[string]string{
		"expected.yaml": yamlExpected,
		ResultsFile:     sampleResults,
	})

	for _, validate := range []bool{false, true} {
		b, err := LoadBenchmark(dir, LoadOptions{ValidateSchema: validate})
		require.NoError(t, err)
		require.Len(t, b.Expected, 1)
		assert.Equal(t, "Reentrancy in withdraw", b.Expected[0].Title)
	}
}

func TestLoadBenchmark_JSONPreferredOverYAML(t *testing.T) {
	dir := writeBenchmark(t, t.TempDir(), "both", map[string]string{
		ExpectedFile:    sampleExpected,
		"expected.yaml": "vulnerabilities: []\n",
		ResultsFile:     sampleResults,
	})

	b, err := LoadBenchmark(dir, LoadOptions{})
	require.NoError(t, err)
	assert.Len(t, b.Expected, 2)
}

func TestLoadBenchmark_SchemaValidation(t *testing.T) {
	badResults := `{"findings": [{"title": "x", "false_positive": "yes"}]}`
	dir := writeBenchmark(t, t.TempDir(), "bad", map[string]string{
		ExpectedFile: sampleExpected,
		ResultsFile:  badResults,
	})

	_, err := LoadBenchmark(dir, LoadOptions{ValidateSchema: true})
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.NotEmpty(t, se.Violations)
	assert.Equal(t, filepath.Join(dir, ResultsFile), se.Path)

	// Without validation the type mismatch surfaces as a decode error
	_, err = LoadBenchmark(dir, LoadOptions{})
	require.Error(t, err)
	assert.False(t, errorsAsSchema(err))
}

func TestLoadExpected_SchemaRequiresVulnerabilities(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ExpectedFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"vulns": []}`), 0600))

	_, err := LoadExpected(path, LoadOptions{ValidateSchema: true})
	var se *SchemaError
	require.ErrorAs(t, err, &se)

	doc, err := LoadExpected(path, LoadOptions{})
	require.NoError(t, err)
	assert.Empty(t, doc.Vulnerabilities)
}

func TestLoadResults_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ResultsFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"findings": [`), 0600))

	_, err := LoadResults(path, LoadOptions{})
	assert.Error(t, err)
}

func errorsAsSchema(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
