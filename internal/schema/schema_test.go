package schema

import (
	"errors"
	"testing"
)

func TestParse_PreservesDeclaredOrder(t *testing.T) {
	raw := []byte(`{
		"type": "object",
		"properties": {
			"zeta":  {"type": "string", "description": "last letter"},
			"alpha": {"type": "boolean"},
			"mid":   {"type": "string"}
		},
		"required": ["mid"]
	}`)

	s, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []string{"zeta", "alpha", "mid"}
	if len(s.Properties) != len(want) {
		t.Fatalf("expected %d properties, got %d", len(want), len(s.Properties))
	}
	for i, name := range want {
		if s.Properties[i].Name != name {
			t.Errorf("property %d: expected %s, got %s", i, name, s.Properties[i].Name)
		}
	}

	if s.Properties[0].Type != String || s.Properties[1].Type != Boolean {
		t.Errorf("unexpected types: %v, %v", s.Properties[0].Type, s.Properties[1].Type)
	}
	if s.Properties[0].Description != "last letter" {
		t.Errorf("expected description to be copied, got %q", s.Properties[0].Description)
	}
	if !s.Properties[2].Required || s.Properties[0].Required {
		t.Error("required flags not copied from required list")
	}
}

func TestParse_Types(t *testing.T) {
	tests := []struct {
		name string
		prop string
		want Type
	}{
		{"string", `{"type":"string"}`, String},
		{"boolean", `{"type":"boolean"}`, Boolean},
		{"integer", `{"type":"integer"}`, Unsupported},
		{"array", `{"type":"array","items":{"type":"string"}}`, Unsupported},
		{"union", `{"type":["string","null"]}`, Unsupported},
		{"missing type", `{"description":"anything"}`, Unsupported},
		{"boolean schema", `true`, Unsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(`{"type":"object","properties":{"f":` + tt.prop + `}}`))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := s.Properties[0].Type; got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if string(s.Properties[0].Raw) != tt.prop {
				t.Errorf("expected raw %s, got %s", tt.prop, s.Properties[0].Raw)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	for _, raw := range []string{"", "null", `{"type":"object"}`, `{"type":"object","properties":{}}`} {
		s, err := Parse([]byte(raw))
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", raw, err)
			continue
		}
		if len(s.Properties) != 0 {
			t.Errorf("Parse(%q): expected no properties, got %d", raw, len(s.Properties))
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{`{`, `{"properties": []}`, `{"properties": "x"}`} {
		_, err := Parse([]byte(raw))
		if !errors.Is(err, ErrInvalidSchema) {
			t.Errorf("Parse(%q): expected ErrInvalidSchema, got %v", raw, err)
		}
	}
}

func TestInputSchema_Lookup(t *testing.T) {
	s, err := Parse([]byte(`{"properties":{"query":{"type":"string"}}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := s.Lookup("query"); !ok {
		t.Error("expected query to be found")
	}
	if _, ok := s.Lookup("missing"); ok {
		t.Error("expected missing to be absent")
	}
}
