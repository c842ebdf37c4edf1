// Package widget maps tool input schemas to form fields and invocation arguments,
// and renders a tool's HTML template with its result and content-security policy.
package widget

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/erauner12/widget-harness/internal/schema"
)

// FieldKind is the form control used for a property
type FieldKind int

const (
	Checkbox FieldKind = iota
	TextInput
)

func (k FieldKind) String() string {
	if k == Checkbox {
		return "checkbox"
	}
	return "text"
}

// FormField describes one rendered input
type FormField struct {
	Key  string
	Kind FieldKind

	// Value is the raw request parameter; Present reports whether it was sent at all
	Value   string
	Present bool

	// Required is a rendering hint, it is enforced by Coerce
	Required    bool
	Description string
}

// Checked reports whether a checkbox should render as checked
func (f FormField) Checked() bool {
	return f.Kind == Checkbox && f.Present
}

// UnsupportedSchemaTypeError is returned when a property declares a type other than
// boolean or string
type UnsupportedSchemaTypeError struct {
	Property string
	Schema   json.RawMessage
}

func (e *UnsupportedSchemaTypeError) Error() string {
	return fmt.Sprintf("property %q has unsupported schema %s", e.Property, e.Schema)
}

// MissingRequiredFieldsError lists every required string property absent from a request
type MissingRequiredFieldsError struct {
	Fields []string
}

func (e *MissingRequiredFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// fieldKind is the single type dispatch shared by BuildFields and Coerce
func fieldKind(p schema.Property) (FieldKind, error) {
	switch p.Type {
	case schema.Boolean:
		return Checkbox, nil
	case schema.String:
		return TextInput, nil
	default:
		return 0, &UnsupportedSchemaTypeError{Property: p.Name, Schema: p.Raw}
	}
}

// BuildFields returns one field per property in declared order, pre-filled from params.
// Any unsupported property fails the whole build.
func BuildFields(in schema.InputSchema, params url.Values) ([]FormField, error) {
	fields := make([]FormField, 0, len(in.Properties))
	for _, p := range in.Properties {
		kind, err := fieldKind(p)
		if err != nil {
			return nil, err
		}

		_, present := params[p.Name]
		fields = append(fields, FormField{
			Key:         p.Name,
			Kind:        kind,
			Value:       params.Get(p.Name),
			Present:     present,
			Required:    p.Required,
			Description: p.Description,
		})
	}
	return fields, nil
}

// Arguments are the coerced tools/call arguments
type Arguments map[string]any

// Coerce converts request parameters into tool arguments.
// Booleans are true only for the literal "true" and default to false. Strings are
// included when non-empty; every missing required string is reported in one error.
func Coerce(in schema.InputSchema, params url.Values) (Arguments, error) {
	args := make(Arguments, len(in.Properties))
	var missing []string

	for _, p := range in.Properties {
		kind, err := fieldKind(p)
		if err != nil {
			return nil, err
		}

		value := params.Get(p.Name)
		switch kind {
		case Checkbox:
			args[p.Name] = value == "true"
		case TextInput:
			if value != "" {
				args[p.Name] = value
			} else if p.Required {
				missing = append(missing, p.Name)
			}
		}
	}

	if len(missing) > 0 {
		return nil, &MissingRequiredFieldsError{Fields: missing}
	}
	return args, nil
}
