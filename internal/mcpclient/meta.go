package mcpclient

// Metadata keys used by widget-capable servers
const (
	OutputTemplateKey = "openai/outputTemplate"
	WidgetCSPKey      = "openai/widgetCSP"
)

// ToolMeta is a typed view over a tool's _meta object
type ToolMeta struct {
	raw map[string]any
}

// NewToolMeta wraps a decoded _meta object. A nil map is valid.
func NewToolMeta(raw map[string]any) ToolMeta {
	return ToolMeta{raw: raw}
}

// OutputTemplateRef returns the URI of the tool's widget template, if declared
func (m ToolMeta) OutputTemplateRef() (string, bool) {
	ref, ok := m.raw[OutputTemplateKey].(string)
	if !ok || ref == "" {
		return "", false
	}
	return ref, true
}

// ResourceMeta is a typed view over a resource content's _meta object
type ResourceMeta struct {
	raw map[string]any
}

// NewResourceMeta wraps a decoded _meta object. A nil map is valid.
func NewResourceMeta(raw map[string]any) ResourceMeta {
	return ResourceMeta{raw: raw}
}

// AllowedResourceDomains returns widgetCSP.resource_domains in declared order.
// The second result is false when the field is absent or not shaped as an object
// holding a list; non-string entries are skipped.
func (m ResourceMeta) AllowedResourceDomains() ([]string, bool) {
	csp, ok := m.raw[WidgetCSPKey].(map[string]any)
	if !ok {
		return nil, false
	}

	switch list := csp["resource_domains"].(type) {
	case []any:
		domains := make([]string, 0, len(list))
		for _, v := range list {
			if s, ok := v.(string); ok {
				domains = append(domains, s)
			}
		}
		return domains, true
	case []string:
		return append([]string(nil), list...), true
	default:
		return nil, false
	}
}
