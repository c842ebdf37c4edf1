package widget

import (
	"errors"
	"net/url"
	"testing"

	"github.com/erauner12/widget-harness/internal/schema"
)

func mustParse(t *testing.T, raw string) schema.InputSchema {
	t.Helper()
	s, err := schema.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("schema.Parse: %v", err)
	}
	return s
}

const mixedSchema = `{
	"type": "object",
	"properties": {
		"query":   {"type": "string", "description": "Topic"},
		"verbose": {"type": "boolean"},
		"lang":    {"type": "string"},
		"answer":  {"type": "string"}
	},
	"required": ["query", "answer", "verbose"]
}`

func TestBuildFields(t *testing.T) {
	s := mustParse(t, mixedSchema)
	params := url.Values{"query": {"fractions"}, "verbose": {"true"}, "unrelated": {"x"}}

	fields, err := BuildFields(s, params)
	if err != nil {
		t.Fatalf("BuildFields: %v", err)
	}

	want := []struct {
		key      string
		kind     FieldKind
		value    string
		present  bool
		required bool
	}{
		{"query", TextInput, "fractions", true, true},
		{"verbose", Checkbox, "true", true, true},
		{"lang", TextInput, "", false, false},
		{"answer", TextInput, "", false, true},
	}

	if len(fields) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(fields))
	}
	for i, w := range want {
		f := fields[i]
		if f.Key != w.key || f.Kind != w.kind || f.Value != w.value || f.Present != w.present || f.Required != w.required {
			t.Errorf("field %d: expected %+v, got %+v", i, w, f)
		}
	}

	if fields[0].Description != "Topic" {
		t.Errorf("expected description Topic, got %q", fields[0].Description)
	}
	if !fields[1].Checked() {
		t.Error("expected verbose to be checked")
	}
	if fields[0].Checked() {
		t.Error("text inputs are never checked")
	}
}

func TestBuildFields_CheckboxReflectsPresence(t *testing.T) {
	s := mustParse(t, `{"properties":{"flag":{"type":"boolean"}}}`)

	tests := []struct {
		name    string
		params  url.Values
		checked bool
	}{
		{"absent", url.Values{}, false},
		{"true", url.Values{"flag": {"true"}}, true},
		{"empty value", url.Values{"flag": {""}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := BuildFields(s, tt.params)
			if err != nil {
				t.Fatalf("BuildFields: %v", err)
			}
			if fields[0].Checked() != tt.checked {
				t.Errorf("expected checked=%v", tt.checked)
			}
		})
	}
}

func TestBuildFields_PreservesOrderOnePerProperty(t *testing.T) {
	schemas := []string{
		`{"properties":{}}`,
		`{"properties":{"b":{"type":"string"},"a":{"type":"string"}}}`,
		`{"properties":{"z":{"type":"boolean"},"y":{"type":"string"},"x":{"type":"boolean"},"w":{"type":"string"}}}`,
	}

	for _, raw := range schemas {
		s := mustParse(t, raw)
		fields, err := BuildFields(s, nil)
		if err != nil {
			t.Fatalf("BuildFields(%s): %v", raw, err)
		}
		if len(fields) != len(s.Properties) {
			t.Fatalf("BuildFields(%s): expected %d fields, got %d", raw, len(s.Properties), len(fields))
		}
		for i, p := range s.Properties {
			if fields[i].Key != p.Name {
				t.Errorf("BuildFields(%s): field %d expected %s, got %s", raw, i, p.Name, fields[i].Key)
			}
		}
	}
}

func TestUnsupportedTypes_FailBuildAndCoerce(t *testing.T) {
	props := []string{
		`{"type":"integer"}`,
		`{"type":"number"}`,
		`{"type":"array","items":{"type":"string"}}`,
		`{"type":"object"}`,
		`{"type":["string","null"]}`,
		`{}`,
	}

	for _, prop := range props {
		raw := `{"properties":{"ok":{"type":"string"},"bad":` + prop + `,"flag":{"type":"boolean"}},"required":["ok"]}`
		s := mustParse(t, raw)
		params := url.Values{"ok": {"v"}, "bad": {"1"}, "flag": {"true"}}

		fields, err := BuildFields(s, params)
		assertUnsupported(t, "BuildFields", prop, err)
		if fields != nil {
			t.Errorf("BuildFields(%s): expected no partial output, got %v", prop, fields)
		}

		args, err := Coerce(s, params)
		assertUnsupported(t, "Coerce", prop, err)
		if args != nil {
			t.Errorf("Coerce(%s): expected no partial output, got %v", prop, args)
		}
	}
}

func assertUnsupported(t *testing.T, op, prop string, err error) {
	t.Helper()
	var unsupported *UnsupportedSchemaTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("%s(%s): expected UnsupportedSchemaTypeError, got %v", op, prop, err)
	}
	if unsupported.Property != "bad" {
		t.Errorf("%s(%s): expected property bad, got %s", op, prop, unsupported.Property)
	}
	if string(unsupported.Schema) != prop {
		t.Errorf("%s(%s): expected schema to be carried, got %s", op, prop, unsupported.Schema)
	}
}

func TestCoerce(t *testing.T) {
	s := mustParse(t, mixedSchema)

	args, err := Coerce(s, url.Values{"query": {"fractions"}, "answer": {"42"}, "lang": {""}})
	if err != nil {
		t.Fatalf("Coerce: %v", err)
	}

	if args["query"] != "fractions" || args["answer"] != "42" {
		t.Errorf("unexpected string arguments: %v", args)
	}
	if v, ok := args["verbose"]; !ok || v != false {
		t.Errorf("expected required boolean to default to false, got %v (present=%v)", v, ok)
	}
	if _, ok := args["lang"]; ok {
		t.Error("expected empty optional string to be omitted")
	}
}

func TestCoerce_BooleanLiteral(t *testing.T) {
	s := mustParse(t, `{"properties":{"flag":{"type":"boolean"}}}`)

	for value, want := range map[string]bool{"true": true, "false": false, "TRUE": false, "1": false, "on": false, "": false} {
		args, err := Coerce(s, url.Values{"flag": {value}})
		if err != nil {
			t.Fatalf("Coerce(%q): %v", value, err)
		}
		if args["flag"] != want {
			t.Errorf("Coerce(%q): expected %v, got %v", value, want, args["flag"])
		}
	}
}

func TestCoerce_ReportsAllMissing(t *testing.T) {
	s := mustParse(t, mixedSchema)

	tests := []struct {
		name   string
		params url.Values
		want   []string
	}{
		{"none supplied", url.Values{}, []string{"query", "answer"}},
		{"empty values", url.Values{"query": {""}, "answer": {""}}, []string{"query", "answer"}},
		{"one supplied", url.Values{"answer": {"42"}}, []string{"query"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := Coerce(s, tt.params)
			if args != nil {
				t.Errorf("expected no arguments, got %v", args)
			}

			var missing *MissingRequiredFieldsError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingRequiredFieldsError, got %v", err)
			}
			if len(missing.Fields) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, missing.Fields)
			}
			for i := range tt.want {
				if missing.Fields[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, missing.Fields)
				}
			}
		})
	}
}
