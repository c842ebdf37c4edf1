package mcpclient

import (
	"encoding/json"
	"testing"
)

func TestToolMeta_OutputTemplateRef(t *testing.T) {
	tests := []struct {
		name   string
		raw    map[string]any
		want   string
		wantOK bool
	}{
		{"nil meta", nil, "", false},
		{"absent", map[string]any{"other": "x"}, "", false},
		{"empty string", map[string]any{OutputTemplateKey: ""}, "", false},
		{"wrong type", map[string]any{OutputTemplateKey: 42}, "", false},
		{"present", map[string]any{OutputTemplateKey: "ui://widget/a.html"}, "ui://widget/a.html", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewToolMeta(tt.raw).OutputTemplateRef()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.want, tt.wantOK, got, ok)
			}
		})
	}
}

func TestResourceMeta_AllowedResourceDomains(t *testing.T) {
	tests := []struct {
		name   string
		json   string
		want   []string
		wantOK bool
	}{
		{"absent", `{}`, nil, false},
		{"not an object", `{"openai/widgetCSP": "https://a.test"}`, nil, false},
		{"no list", `{"openai/widgetCSP": {"connect_domains": ["https://a.test"]}}`, nil, false},
		{"list not array", `{"openai/widgetCSP": {"resource_domains": "https://a.test"}}`, nil, false},
		{"empty list", `{"openai/widgetCSP": {"resource_domains": []}}`, []string{}, true},
		{"declared order", `{"openai/widgetCSP": {"resource_domains": ["https://b.test", "https://a.test"]}}`, []string{"https://b.test", "https://a.test"}, true},
		{"skips non-strings", `{"openai/widgetCSP": {"resource_domains": ["https://a.test", 7, null]}}`, []string{"https://a.test"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw map[string]any
			if err := json.Unmarshal([]byte(tt.json), &raw); err != nil {
				t.Fatalf("bad fixture: %v", err)
			}

			got, ok := NewResourceMeta(raw).AllowedResourceDomains()
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("domain %d: expected %s, got %s", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestSchemaRecorder_Observe(t *testing.T) {
	r := newSchemaRecorder()

	r.observe(json.RawMessage(`{"tools":[{"name":"a","inputSchema":{"properties":{"z":{},"y":{}}}}]}`))
	r.observe(json.RawMessage(`{"resources":[{"uri":"ui://x"}]}`))
	r.observe(json.RawMessage(`not json`))

	raw, ok := r.lookup("a")
	if !ok {
		t.Fatal("expected schema for tool a")
	}
	if string(raw) != `{"properties":{"z":{},"y":{}}}` {
		t.Errorf("unexpected raw schema: %s", raw)
	}
	if _, ok := r.lookup("b"); ok {
		t.Error("unexpected schema for tool b")
	}
}
