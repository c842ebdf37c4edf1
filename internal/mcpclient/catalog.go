package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/erauner12/widget-harness/internal/schema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// ToolDescriptor is an immutable snapshot of one advertised tool
type ToolDescriptor struct {
	Name        string
	Title       string
	Description string
	InputSchema schema.InputSchema
	Meta        ToolMeta
}

// ResourceRef is one entry of resources/list
type ResourceRef struct {
	URI      string
	Name     string
	MIMEType string
}

// ResourceContent is the first content item of a resources/read result
type ResourceContent struct {
	URI      string
	MIMEType string
	Text     string
	Meta     ResourceMeta
}

// ListTools returns every tool in server order
func (s *Session) ListTools(ctx context.Context) ([]ToolDescriptor, error) {
	var tools []ToolDescriptor
	for tool, err := range s.cs.Tools(ctx, &mcp.ListToolsParams{}) {
		if err != nil {
			return nil, fmt.Errorf("list tools: %w", err)
		}
		desc, err := s.describe(tool)
		if err != nil {
			return nil, err
		}
		tools = append(tools, desc)
	}

	log.Ctx(ctx).Debug().Int("count", len(tools)).Msg("listed tools")
	return tools, nil
}

// Resolve finds a tool by exact name. A tool without an output template is rejected
// with ErrNoOutputTemplate so it can never reach invocation or rendering.
func (s *Session) Resolve(ctx context.Context, name string) (*ToolDescriptor, error) {
	tools, err := s.ListTools(ctx)
	if err != nil {
		return nil, err
	}

	for i := range tools {
		if tools[i].Name != name {
			continue
		}
		if _, ok := tools[i].Meta.OutputTemplateRef(); !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoOutputTemplate, name)
		}
		return &tools[i], nil
	}

	return nil, fmt.Errorf("%w: %q", ErrToolNotFound, name)
}

// ListResources returns every resource in server order
func (s *Session) ListResources(ctx context.Context) ([]ResourceRef, error) {
	var refs []ResourceRef
	for res, err := range s.cs.Resources(ctx, &mcp.ListResourcesParams{}) {
		if err != nil {
			return nil, fmt.Errorf("list resources: %w", err)
		}
		refs = append(refs, ResourceRef{URI: res.URI, Name: res.Name, MIMEType: res.MIMEType})
	}
	return refs, nil
}

// ReadResource reads uri and returns its first content item
func (s *Session) ReadResource(ctx context.Context, uri string) (*ResourceContent, error) {
	res, err := s.cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: uri})
	if err != nil {
		return nil, fmt.Errorf("read resource %s: %w", uri, err)
	}
	if len(res.Contents) == 0 || res.Contents[0] == nil {
		return nil, fmt.Errorf("%w: %s returned no contents", ErrInvalidResource, uri)
	}

	c := res.Contents[0]
	return &ResourceContent{
		URI:      c.URI,
		MIMEType: c.MIMEType,
		Text:     c.Text,
		Meta:     NewResourceMeta(c.Meta),
	}, nil
}

func (s *Session) describe(tool *mcp.Tool) (ToolDescriptor, error) {
	raw, ok := s.schemas.lookup(tool.Name)
	if !ok {
		// Key order is already lost; encoding/json sorts map keys, which is at least stable
		var err error
		raw, err = json.Marshal(tool.InputSchema)
		if err != nil {
			return ToolDescriptor{}, fmt.Errorf("tool %s: encode input schema: %w", tool.Name, err)
		}
	}

	in, err := schema.Parse(raw)
	if err != nil {
		return ToolDescriptor{}, fmt.Errorf("tool %s: %w", tool.Name, err)
	}

	return ToolDescriptor{
		Name:        tool.Name,
		Title:       tool.Title,
		Description: tool.Description,
		InputSchema: in,
		Meta:        NewToolMeta(tool.Meta),
	}, nil
}
