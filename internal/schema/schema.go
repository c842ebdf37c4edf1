// Package schema provides an order-preserving view over a tool's JSON input schema.
//
// Only the parts the harness renders are modelled: the top-level properties (in
// declaration order), each property's primitive type, and the required list.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Type is the primitive type a property declares
type Type int

const (
	// Unsupported covers every declared type other than boolean and string,
	// including a missing type and union types
	Unsupported Type = iota
	Boolean
	String
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "boolean"
	case String:
		return "string"
	default:
		return "unsupported"
	}
}

// ErrInvalidSchema indicates the input schema could not be decoded
var ErrInvalidSchema = errors.New("invalid input schema")

// Property is one top-level input field
type Property struct {
	Name        string
	Type        Type
	Required    bool
	Description string

	// Raw is the property's schema exactly as the server sent it
	Raw json.RawMessage
}

// InputSchema is the ordered property list of a tool's input schema
type InputSchema struct {
	Properties []Property
}

// Lookup returns the property with the given name
func (s InputSchema) Lookup(name string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Parse decodes an input schema, keeping properties in the order they appear in raw.
// An empty or null schema yields no properties.
func Parse(raw []byte) (InputSchema, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return InputSchema{}, nil
	}

	var top struct {
		Properties json.RawMessage `json:"properties"`
		Required   []string        `json:"required"`
	}
	if err := json.Unmarshal(raw, &top); err != nil {
		return InputSchema{}, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	names, values, err := orderedObject(top.Properties)
	if err != nil {
		return InputSchema{}, fmt.Errorf("%w: properties: %v", ErrInvalidSchema, err)
	}

	required := make(map[string]bool, len(top.Required))
	for _, name := range top.Required {
		required[name] = true
	}

	props := make([]Property, 0, len(names))
	for _, name := range names {
		var decl struct {
			Type        json.RawMessage `json:"type"`
			Description string          `json:"description"`
		}
		// Non-object property schemas (e.g. `true`) are kept as Unsupported
		_ = json.Unmarshal(values[name], &decl)

		props = append(props, Property{
			Name:        name,
			Type:        primitiveType(decl.Type),
			Required:    required[name],
			Description: decl.Description,
			Raw:         values[name],
		})
	}

	return InputSchema{Properties: props}, nil
}

// primitiveType maps a "type" keyword to a Type. Only a single string is accepted;
// arrays such as ["string","null"] are Unsupported.
func primitiveType(raw json.RawMessage) Type {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return Unsupported
	}
	switch name {
	case "boolean":
		return Boolean
	case "string":
		return String
	default:
		return Unsupported
	}
}

// orderedObject walks a JSON object token by token and returns its keys in document
// order alongside each raw value. Duplicate keys keep the first position and the last value.
func orderedObject(raw json.RawMessage) ([]string, map[string]json.RawMessage, error) {
	values := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, values, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var names []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil, fmt.Errorf("property %q: %w", key, err)
		}
		if _, seen := values[key]; !seen {
			names = append(names, key)
		}
		values[key] = value
	}

	return names, values, nil
}
