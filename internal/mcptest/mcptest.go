// Package mcptest provides an in-memory MCP server with widget tools for tests.
package mcptest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/erauner12/widget-harness/internal/mcpclient"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Template URIs served by the fixture
const (
	LookupTemplateURI   = "ui://widget/lookup.html"
	HeadlessTemplateURI = "ui://widget/headless.html"
	EmptyTemplateURI    = "ui://widget/empty.bin"
)

// LookupTemplate is the body of LookupTemplateURI
const LookupTemplate = `<!doctype html><html><head><title>lookup</title></head><body><div id="root"></div></body></html>`

// HeadlessTemplate has no closing head tag
const HeadlessTemplate = `<div id="root">no head here</div>`

// CDNDomain is the resource domain declared by LookupTemplateURI
const CDNDomain = "https://cdn.example.com"

// WidgetServer is an MCP server advertising:
//
//	lookup   {query: string (required), verbose: boolean} -> lookup template
//	ordered  {zeta: string, alpha: boolean, mid: string}  -> lookup template
//	plain    {note: string}                               -> no template
//	counter  {count: integer}                             -> lookup template
//	headless {}                                           -> headless template
//	empty    {}                                           -> template with no text body
//	failing  {}                                           -> lookup template, always errors
type WidgetServer struct {
	Server *mcp.Server

	mu    sync.Mutex
	calls []Call
}

// Call records one tools/call received by the fixture
type Call struct {
	Tool      string
	Arguments map[string]any
}

// NewWidgetServer builds the fixture server
func NewWidgetServer() *WidgetServer {
	w := &WidgetServer{
		Server: mcp.NewServer(&mcp.Implementation{Name: "widget-fixture", Version: "0.0.1"}, nil),
	}

	w.addTool("lookup", "Look up a topic", LookupTemplateURI,
		`{"type":"object","properties":{"query":{"type":"string","description":"Topic to look up"},"verbose":{"type":"boolean"}},"required":["query"]}`,
		w.lookup)
	w.addTool("ordered", "Fields declared out of alphabetical order", LookupTemplateURI,
		`{"type":"object","properties":{"zeta":{"type":"string"},"alpha":{"type":"boolean"},"mid":{"type":"string"}},"required":["mid"]}`,
		w.lookup)
	w.addTool("plain", "No widget", "",
		`{"type":"object","properties":{"note":{"type":"string"}}}`,
		w.lookup)
	w.addTool("counter", "Integer input", LookupTemplateURI,
		`{"type":"object","properties":{"count":{"type":"integer"}}}`,
		w.lookup)
	w.addTool("headless", "Template without a head", HeadlessTemplateURI,
		`{"type":"object","properties":{}}`,
		w.lookup)
	w.addTool("empty", "Template without text", EmptyTemplateURI,
		`{"type":"object","properties":{}}`,
		w.lookup)
	w.addTool("failing", "Always fails", LookupTemplateURI,
		`{"type":"object","properties":{}}`,
		w.failing)

	w.addResource(LookupTemplateURI, LookupTemplate, mcp.Meta{
		mcpclient.WidgetCSPKey: map[string]any{"resource_domains": []string{CDNDomain}},
	})
	w.addResource(HeadlessTemplateURI, HeadlessTemplate, nil)
	w.addBlobResource(EmptyTemplateURI, []byte{0x00, 0x01})

	return w
}

// Calls returns the tool calls received so far
func (w *WidgetServer) Calls() []Call {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Call(nil), w.calls...)
}

// TransportFactory returns a factory that connects every new session to the fixture
// over a fresh in-memory transport pair
func (w *WidgetServer) TransportFactory(tb testing.TB) mcpclient.TransportFactory {
	return func(*url.URL, *http.Client) mcp.Transport {
		clientTransport, serverTransport := mcp.NewInMemoryTransports()
		if _, err := w.Server.Connect(context.Background(), serverTransport, nil); err != nil {
			tb.Errorf("fixture server connect: %v", err)
		}
		return clientTransport
	}
}

// Connector returns a Connector wired to the fixture
func (w *WidgetServer) Connector(tb testing.TB) *mcpclient.Connector {
	return mcpclient.NewConnector(mcpclient.ConnectorOptions{
		Name:             "widget-harness-test",
		TransportFactory: w.TransportFactory(tb),
	})
}

func (w *WidgetServer) addTool(name, description, template, inputSchema string, h mcp.ToolHandler) {
	tool := &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: json.RawMessage(inputSchema),
	}
	if template != "" {
		tool.Meta = mcp.Meta{mcpclient.OutputTemplateKey: template}
	}
	w.Server.AddTool(tool, h)
}

func (w *WidgetServer) addResource(uri, text string, meta mcp.Meta) {
	w.Server.AddResource(&mcp.Resource{URI: uri, Name: uri, MIMEType: "text/html+skybridge"},
		func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
			return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{{
				URI:      uri,
				MIMEType: "text/html+skybridge",
				Text:     text,
				Meta:     meta,
			}}}, nil
		})
}

// addBlobResource serves binary contents only, so the resource has no text body
func (w *WidgetServer) addBlobResource(uri string, blob []byte) {
	w.Server.AddResource(&mcp.Resource{URI: uri, Name: uri, MIMEType: "application/octet-stream"},
		func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
			return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{{
				URI:      uri,
				MIMEType: "application/octet-stream",
				Blob:     blob,
			}}}, nil
		})
}

func (w *WidgetServer) record(req *mcp.CallToolRequest) map[string]any {
	args := map[string]any{}
	if len(req.Params.Arguments) > 0 {
		_ = json.Unmarshal(req.Params.Arguments, &args)
	}

	w.mu.Lock()
	w.calls = append(w.calls, Call{Tool: req.Params.Name, Arguments: args})
	w.mu.Unlock()
	return args
}

func (w *WidgetServer) lookup(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := w.record(req)
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: "ok"}},
		StructuredContent: map[string]any{"tool": req.Params.Name, "arguments": args},
	}, nil
}

func (w *WidgetServer) failing(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	w.record(req)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: "upstream exploded"}},
	}, nil
}

// DemoTemplateURI is the only resource of NewDemoServer
const DemoTemplateURI = "ui://widget/demo.html"

// NewDemoServer builds a server with a single resource and a single "search" tool,
// the shape the /demo flow expects
func NewDemoServer() *WidgetServer {
	w := &WidgetServer{
		Server: mcp.NewServer(&mcp.Implementation{Name: "demo-fixture", Version: "0.0.1"}, nil),
	}
	w.addTool("search", "Search", DemoTemplateURI,
		`{"type":"object","properties":{"query":{"type":"string"}},"required":["query"]}`,
		w.lookup)
	w.addResource(DemoTemplateURI, LookupTemplate, nil)
	return w
}

// NewBareServer builds a server advertising nothing
func NewBareServer() *WidgetServer {
	return &WidgetServer{
		Server: mcp.NewServer(&mcp.Implementation{Name: "bare-fixture", Version: "0.0.1"}, nil),
	}
}
