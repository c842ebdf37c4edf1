package mcpclient

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// schemaRecorder keeps the raw inputSchema bytes of every tool seen in a tools/list
// response. The SDK decodes schemas into maps, which loses property order.
type schemaRecorder struct {
	mu      sync.RWMutex
	schemas map[string]json.RawMessage
}

func newSchemaRecorder() *schemaRecorder {
	return &schemaRecorder{schemas: make(map[string]json.RawMessage)}
}

func (r *schemaRecorder) observe(result json.RawMessage) {
	var page struct {
		Tools []struct {
			Name        string          `json:"name"`
			InputSchema json.RawMessage `json:"inputSchema"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(result, &page); err != nil || len(page.Tools) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range page.Tools {
		if t.Name != "" && len(t.InputSchema) > 0 {
			r.schemas[t.Name] = t.InputSchema
		}
	}
}

func (r *schemaRecorder) lookup(name string) (json.RawMessage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	raw, ok := r.schemas[name]
	return raw, ok
}

// recordingTransport wraps a client transport so responses pass through a schemaRecorder
type recordingTransport struct {
	inner    mcp.Transport
	recorder *schemaRecorder
}

func (t *recordingTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	conn, err := t.inner.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return &recordingConn{Connection: conn, recorder: t.recorder}, nil
}

type recordingConn struct {
	mcp.Connection
	recorder *schemaRecorder
}

// Read runs on the SDK's reader goroutine, before the response is handed to the caller
func (c *recordingConn) Read(ctx context.Context) (jsonrpc.Message, error) {
	msg, err := c.Connection.Read(ctx)
	if err != nil {
		return msg, err
	}
	if resp, ok := msg.(*jsonrpc.Response); ok && resp.Error == nil && len(resp.Result) > 0 {
		c.recorder.observe(resp.Result)
	}
	return msg, nil
}
