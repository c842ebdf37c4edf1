package widget

import (
	"strings"

	"github.com/erauner12/widget-harness/internal/mcpclient"
)

// DefaultLocalOrigins are the harness's own origins: same-origin HTTP, and the
// secure WebSocket and HTTPS origins used by the widget runtime
var DefaultLocalOrigins = []string{
	"http://localhost:3112",
	"wss://localhost:8225",
	"https://localhost:8226",
}

// CSPDeriver builds Content-Security-Policy values for rendered widgets
type CSPDeriver struct {
	LocalOrigins []string
}

// Derive returns
//
//	default-src 'unsafe-inline' data: <local origins> <resource domains>
//
// with the resource domains in declared order
func (d CSPDeriver) Derive(meta mcpclient.ResourceMeta) string {
	origins := d.LocalOrigins
	if origins == nil {
		origins = DefaultLocalOrigins
	}

	domains, _ := meta.AllowedResourceDomains()

	parts := make([]string, 0, 3+len(origins)+len(domains))
	parts = append(parts, "default-src", "'unsafe-inline'", "data:")
	parts = append(parts, origins...)
	for _, d := range domains {
		if d = strings.TrimSpace(d); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, " ")
}

// Base is the policy for pages with no resource metadata
func (d CSPDeriver) Base() string {
	return d.Derive(mcpclient.ResourceMeta{})
}
