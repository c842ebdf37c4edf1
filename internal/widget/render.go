package widget

import (
	"context"
	"fmt"
	"net/http"

	"github.com/erauner12/widget-harness/internal/mcpclient"
	"github.com/rs/zerolog/log"
)

// ResourceReader reads template resources; *mcpclient.Session implements it
type ResourceReader interface {
	ReadResource(ctx context.Context, uri string) (*mcpclient.ResourceContent, error)
}

// Document is a rendered widget page
type Document struct {
	HTML   string
	Policy string

	// Injected reports whether a tool output script was inserted
	Injected bool
}

// Serve writes the document with its content type and policy headers
func (d *Document) Serve(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Content-Security-Policy", d.Policy)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(d.HTML))
}

// Renderer turns template resources into Documents
type Renderer struct {
	CSP CSPDeriver
}

// Render fetches tool's output template and composes it with result.
// A nil result returns the template unmodified (preview).
func (r *Renderer) Render(ctx context.Context, reader ResourceReader, tool *mcpclient.ToolDescriptor, result *mcpclient.InvocationResult) (*Document, error) {
	ref, ok := tool.Meta.OutputTemplateRef()
	if !ok {
		return nil, fmt.Errorf("%w: %q", mcpclient.ErrNoOutputTemplate, tool.Name)
	}

	content, err := reader.ReadResource(ctx, ref)
	if err != nil {
		return nil, err
	}

	return r.Compose(ctx, content, result)
}

// Compose applies the policy and, when result is non-nil, the tool output script
func (r *Renderer) Compose(ctx context.Context, content *mcpclient.ResourceContent, result *mcpclient.InvocationResult) (*Document, error) {
	if content == nil {
		return nil, mcpclient.ErrInvalidResource
	}
	if content.Text == "" {
		return nil, fmt.Errorf("%w: %s", mcpclient.ErrInvalidResource, content.URI)
	}

	doc := &Document{
		HTML:   content.Text,
		Policy: r.CSP.Derive(content.Meta),
	}
	if result == nil {
		return doc, nil
	}

	script, err := ToolOutputScript(result.Structured)
	if err != nil {
		return nil, err
	}

	doc.HTML, doc.Injected = InjectBeforeHead(content.Text, script)
	if !doc.Injected {
		// Served as-is; the widget will not see the tool output
		log.Ctx(ctx).Warn().Str("uri", content.URI).Msg("template has no </head>, tool output not injected")
	}
	return doc, nil
}
