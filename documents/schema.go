package documents

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaRegistry holds the externally supplied field schemas per block type.
// The core treats edition details as an opaque mapping; the registry only
// enforces the shape the owning schema service has declared for each type.
type SchemaRegistry struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewSchemaRegistry constructs an empty registry.
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Register compiles and stores the schema for a block type, replacing any
// previous registration.
func (r *SchemaRegistry) Register(blockType string, schema map[string]any) error {
	if blockType == "" {
		return ErrBlockTypeRequired
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return fmt.Errorf("documents: block schema %q invalid: %w", blockType, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.compiled[blockType] = compiled
	return nil
}

// Known reports whether a schema has been registered for the block type.
func (r *SchemaRegistry) Known(blockType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.compiled[blockType]
	return ok
}

// BlockTypes lists the registered block types in lexical order.
func (r *SchemaRegistry) BlockTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.compiled))
	for blockType := range r.compiled {
		out = append(out, blockType)
	}
	sort.Strings(out)
	return out
}

// Validate checks edition details against the registered schema for the
// block type. Unknown block types fail with ErrBlockTypeUnknown.
func (r *SchemaRegistry) Validate(blockType string, details map[string]any) error {
	r.mu.RLock()
	compiled, ok := r.compiled[blockType]
	r.mu.RUnlock()
	if !ok {
		return ErrBlockTypeUnknown
	}

	// Round-trip through JSON so the validator sees the same value shapes
	// a decoded request payload would have.
	encoded, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDetailsInvalid, err)
	}
	var decoded any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrDetailsInvalid, err)
	}

	if err := compiled.Validate(decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrDetailsInvalid, err)
	}
	return nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}
