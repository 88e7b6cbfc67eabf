// Package schemas validates input documents against embedded JSON Schemas.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON Schema. It is safe for concurrent use.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile parses content as a JSON Schema. name is used in error messages.
func Compile(name, content string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &LoadError{Schema: name, Cause: err}
	}
	return &Schema{name: name, schema: s}, nil
}

// MustCompile is Compile for schemas embedded in the binary. It panics on error.
func MustCompile(name, content string) *Schema {
	s, err := Compile(name, content)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the name the schema was compiled with.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks doc against the schema. A document that is not JSON yields
// a *LoadError; one that breaks the schema yields a *ValidationError.
func (s *Schema) Validate(doc []byte) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return &LoadError{Schema: s.name, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: s.name}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Problems = append(verr.Problems, Problem{Field: field, Message: desc.Description()})
	}
	return verr
}

// Problem is one schema violation at a field path.
type Problem struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Schema   string
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Message)
	}
	return fmt.Sprintf("%s does not match schema: %s", e.Schema, strings.Join(parts, "; "))
}

// LoadError means the schema or the document could not be parsed.
type LoadError struct {
	Schema string
	Cause  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s document: %v", e.Schema, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
