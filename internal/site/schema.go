package site

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "sitecfg.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// Schema returns the embedded JSON schema for Document.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// validateDocument checks doc against the embedded schema. Build has already
// checked every field, so a failure here points at a document shape the
// schema and the Go checks disagree on.
func validateDocument(doc Document) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		return schemaError(err)
	}
	return nil
}

// ValidateDocument checks an already-decoded JSON document against the schema.
func ValidateDocument(instance any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(instance); err != nil {
		return schemaError(err)
	}
	return nil
}

// schemaError maps the first leaf of a schema failure to a ConfigValidationError.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ConfigValidationError{Field: "document", Reason: err.Error(), Err: err}
	}

	leaf := firstLeaf(ve)
	return &ConfigValidationError{
		Field:  pointerToField(leaf.InstanceLocation),
		Reason: leaf.Message,
		Err:    err,
	}
}

// firstLeaf follows the first cause down to the failing keyword.
func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// pointerToField renders a JSON pointer such as /integrations/1/name as
// integrations[1].name.
func pointerToField(pointer string) string {
	if pointer == "" || pointer == "/" {
		return "document"
	}

	var b strings.Builder
	for _, part := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
