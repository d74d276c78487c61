// Package schema validates repaired candidate documents against the
// extraction contract, a JSON Schema (Draft 2020-12) file. Without a
// schema file the validator is a permissive no-op, a degraded mode for
// bootstrapping and tests.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator checks documents against a compiled schema. The zero value
// (and a Validator loaded without a schema file) is permissive.
type Validator struct {
	schema *jsonschema.Schema
}

// ValidationError reports the first schema violation with the
// violating instance path.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("at %s: %s", e.Path, e.Message)
}

// Load compiles the schema file at path. An empty path or a missing
// file yields a permissive validator; any other failure is an error.
func Load(path string) (*Validator, error) {
	if path == "" {
		return &Validator{}, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &Validator{}, nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	sch, err := compiler.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", path, err)
	}
	return &Validator{schema: sch}, nil
}

// Permissive reports whether this validator has no schema configured.
func (v *Validator) Permissive() bool {
	return v.schema == nil
}

// Validate checks doc against the contract. It never mutates doc. A
// permissive validator always conforms.
func (v *Validator) Validate(doc map[string]any) error {
	if v.schema == nil {
		return nil
	}

	// Re-decode through JSON so the instance holds only the value
	// types the validator understands (repair may have introduced
	// plain ints).
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	var inst any
	if err := json.Unmarshal(raw, &inst); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	if err := v.schema.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := leafCause(ve)
			path := leaf.InstanceLocation
			if path == "" {
				path = "/"
			}
			return &ValidationError{Path: path, Message: leaf.Message}
		}
		return err
	}
	return nil
}

// leafCause walks to the deepest first cause, which carries the most
// specific violation.
func leafCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
