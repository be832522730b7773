package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaValidator compiles JSON schemas once and validates decoded documents
// (YAML or JSON) against them.
type SchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewSchemaValidator builds a validator backed by jsonschema v5.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures doc satisfies the schema registered under name.
func (v *SchemaValidator) Validate(name string, schema map[string]any, doc any) error {
	if len(schema) == 0 {
		return nil
	}
	compiled, err := v.schemaFor(name, schema)
	if err != nil {
		return err
	}
	payload, err := normalizeDocument(doc)
	if err != nil {
		return fmt.Errorf("dashboard: normalize %s: %w", name, err)
	}
	if err := compiled.Validate(payload); err != nil {
		return fmt.Errorf("dashboard: %s failed validation: %w", name, err)
	}
	return nil
}

func (v *SchemaValidator) schemaFor(name string, schema map[string]any) (*jsonschema.Schema, error) {
	v.mu.RLock()
	compiled, ok := v.compiled[name]
	v.mu.RUnlock()
	if ok {
		return compiled, nil
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", name, err)
	}
	compiler := jsonschema.NewCompiler()
	resource := name + ".json"
	if err := compiler.AddResource(resource, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", name, err)
	}
	compiled, err = compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", name, err)
	}
	v.mu.Lock()
	v.compiled[name] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// normalizeDocument round-trips through JSON so YAML-decoded values (ints,
// nested maps) reach the validator as JSON types.
func normalizeDocument(doc any) (any, error) {
	if doc == nil {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ValidateSeedOrders rejects missing or duplicate ids and negative amounts.
// Statuses outside the known set are allowed.
func ValidateSeedOrders(orders []Order) error {
	seen := make(map[string]struct{}, len(orders))
	for idx, order := range orders {
		if order.ID == "" {
			return fmt.Errorf("dashboard: seed order at index %d is missing id", idx)
		}
		if _, exists := seen[order.ID]; exists {
			return fmt.Errorf("dashboard: seed orders duplicate id %s", order.ID)
		}
		seen[order.ID] = struct{}{}
		if order.Amount.IsNegative() {
			return fmt.Errorf("dashboard: seed order %s has negative amount", order.ID)
		}
	}
	return nil
}
