package mcpclient_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/erauner12/widget-harness/internal/mcpclient"
	"github.com/erauner12/widget-harness/internal/mcptest"
	"github.com/erauner12/widget-harness/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) (*mcpclient.Session, *mcptest.WidgetServer) {
	t.Helper()

	fixture := mcptest.NewWidgetServer()
	sess, err := fixture.Connector(t).Connect(context.Background(), "http://fixture.test/sse", mcpclient.SessionOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	assert.Equal(t, mcpclient.Connected, sess.State())
	return sess, fixture
}

func TestConnect_InvalidEndpoint(t *testing.T) {
	c := mcpclient.NewConnector(mcpclient.ConnectorOptions{})

	for _, endpoint := range []string{"", "not a url", "/relative/path", "://missing-scheme"} {
		_, err := c.Connect(context.Background(), endpoint, mcpclient.SessionOptions{})
		assert.ErrorIs(t, err, mcpclient.ErrInvalidEndpoint, "endpoint %q", endpoint)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	endpoint := srv.URL + "/sse"
	srv.Close()

	c := mcpclient.NewConnector(mcpclient.ConnectorOptions{Transport: mcpclient.TransportSSE})
	_, err := c.Connect(context.Background(), endpoint, mcpclient.SessionOptions{AllowInsecureTransport: true})
	require.Error(t, err)

	var connErr mcpclient.ErrConnection
	require.True(t, errors.As(err, &connErr), "expected ErrConnection, got %T", err)
	assert.Equal(t, endpoint, connErr.Endpoint)
	assert.NotNil(t, connErr.Unwrap())
}

func TestListTools_PreservesSchemaOrder(t *testing.T) {
	sess, _ := connect(t)

	tools, err := sess.ListTools(context.Background())
	require.NoError(t, err)

	var ordered *mcpclient.ToolDescriptor
	for i := range tools {
		if tools[i].Name == "ordered" {
			ordered = &tools[i]
		}
	}
	require.NotNil(t, ordered, "ordered tool not listed")

	var names []string
	for _, p := range ordered.InputSchema.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)

	mid, ok := ordered.InputSchema.Lookup("mid")
	require.True(t, ok)
	assert.True(t, mid.Required)
	assert.Equal(t, schema.String, mid.Type)
}

func TestResolve(t *testing.T) {
	sess, _ := connect(t)
	ctx := context.Background()

	tool, err := sess.Resolve(ctx, "lookup")
	require.NoError(t, err)
	ref, ok := tool.Meta.OutputTemplateRef()
	assert.True(t, ok)
	assert.Equal(t, mcptest.LookupTemplateURI, ref)

	_, err = sess.Resolve(ctx, "plain")
	assert.ErrorIs(t, err, mcpclient.ErrNoOutputTemplate)

	_, err = sess.Resolve(ctx, "Lookup")
	assert.ErrorIs(t, err, mcpclient.ErrToolNotFound, "resolution is case-sensitive")

	_, err = sess.Resolve(ctx, "look")
	assert.ErrorIs(t, err, mcpclient.ErrToolNotFound, "no prefix matching")
}

func TestResources(t *testing.T) {
	sess, _ := connect(t)
	ctx := context.Background()

	refs, err := sess.ListResources(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, refs)

	content, err := sess.ReadResource(ctx, mcptest.LookupTemplateURI)
	require.NoError(t, err)
	assert.Equal(t, mcptest.LookupTemplate, content.Text)

	domains, ok := content.Meta.AllowedResourceDomains()
	assert.True(t, ok)
	assert.Equal(t, []string{mcptest.CDNDomain}, domains)
}

func TestInvoke(t *testing.T) {
	sess, fixture := connect(t)
	ctx := context.Background()

	res, err := sess.Invoke(ctx, "lookup", map[string]any{"query": "fractions", "verbose": false})
	require.NoError(t, err)
	require.NotNil(t, res.Structured)
	require.NotNil(t, res.Raw)

	calls := fixture.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "lookup", calls[0].Tool)
	assert.Equal(t, "fractions", calls[0].Arguments["query"])
}

func TestInvoke_ToolError(t *testing.T) {
	sess, _ := connect(t)

	_, err := sess.Invoke(context.Background(), "failing", map[string]any{})
	require.Error(t, err)

	var invErr mcpclient.ErrInvocation
	require.True(t, errors.As(err, &invErr))
	assert.Equal(t, "failing", invErr.Tool)
	assert.Contains(t, invErr.Error(), "upstream exploded")
}
