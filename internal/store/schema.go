package store

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas
var schemaFiles embed.FS

const snapshotSchemaURL = "https://blackjack.local/schemas/snapshot.json"

// Validator checks raw snapshot JSON before it is decoded, so a corrupt or
// hand-edited file is reported with the offending JSON path.
type Validator struct {
	snapshot *jsonschema.Schema
}

// NewValidator compiles the embedded snapshot schema
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	data, err := schemaFiles.ReadFile("schemas/snapshot.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot schema: %w", err)
	}
	if err := compiler.AddResource(snapshotSchemaURL, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add snapshot schema: %w", err)
	}
	schema, err := compiler.Compile(snapshotSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile snapshot schema: %w", err)
	}
	return &Validator{snapshot: schema}, nil
}

// ValidateSnapshot validates snapshot JSON against the schema
func (v *Validator) ValidateSnapshot(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := v.snapshot.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
