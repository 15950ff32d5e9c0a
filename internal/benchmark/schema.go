package benchmark

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const expectedSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["vulnerabilities"],
  "properties": {
    "benchmark": {"type": "string"},
    "vulnerabilities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "title": {"type": "string"},
          "category": {"type": "string"},
          "severity": {"type": "string"},
          "description": {"type": "string"}
        },
        "anyOf": [
          {"required": ["title"]},
          {"required": ["category"]}
        ]
      }
    }
  }
}`

const resultsSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["findings"],
  "properties": {
    "benchmark": {"type": "string"},
    "findings": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "title": {"type": "string"},
          "category": {"type": "string"},
          "severity": {"type": "string"},
          "description": {"type": "string"},
          "location": {"type": "string"},
          "false_positive": {"type": "boolean"}
        }
      }
    }
  }
}`

var (
	expectedSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return gojsonschema.NewSchema(gojsonschema.NewStringLoader(expectedSchemaJSON))
	})
	resultsSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return gojsonschema.NewSchema(gojsonschema.NewStringLoader(resultsSchemaJSON))
	})
)

// SchemaError lists every schema violation found in an input document.
type SchemaError struct {
	Path       string
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s does not match schema: %s", e.Path, strings.Join(e.Violations, "; "))
}

func validateJSON(schema func() (*gojsonschema.Schema, error), path string, data []byte) error {
	return validateWith(schema, path, gojsonschema.NewBytesLoader(data))
}

func validateGo(schema func() (*gojsonschema.Schema, error), path string, doc interface{}) error {
	return validateWith(schema, path, gojsonschema.NewGoLoader(doc))
}

func validateWith(schema func() (*gojsonschema.Schema, error), path string, doc gojsonschema.JSONLoader) error {
	s, err := schema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	result, err := s.Validate(doc)
	if err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	if result.Valid() {
		return nil
	}
	se := &SchemaError{Path: path}
	for _, re := range result.Errors() {
		se.Violations = append(se.Violations, re.String())
	}
	return se
}
