package mcpclient

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// InvocationResult is the outcome of one successful tools/call
type InvocationResult struct {
	// Structured is the decoded structuredContent, nil when the tool returned none
	Structured any
	Raw        *mcp.CallToolResult
}

// Invoke performs exactly one tools/call. Arguments are trusted as given.
func (s *Session) Invoke(ctx context.Context, name string, args map[string]any) (*InvocationResult, error) {
	logger := log.Ctx(ctx).With().Str("tool", name).Logger()

	start := time.Now()
	res, err := s.cs.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	duration := time.Since(start)
	if err != nil {
		logger.Error().Err(err).Dur("duration", duration).Msg("tool call failed")
		return nil, ErrInvocation{Tool: name, Err: err}
	}

	if res.IsError {
		err := errors.New(errorText(res))
		logger.Warn().Err(err).Dur("duration", duration).Msg("tool reported an error")
		return nil, ErrInvocation{Tool: name, Err: err}
	}

	logger.Info().
		Dur("duration", duration).
		Bool("structured", res.StructuredContent != nil).
		Msg("tool call completed")

	return &InvocationResult{Structured: res.StructuredContent, Raw: res}, nil
}

func errorText(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if text, ok := c.(*mcp.TextContent); ok && text.Text != "" {
			parts = append(parts, text.Text)
		}
	}
	if len(parts) == 0 {
		return "tool returned an error without a message"
	}
	return strings.Join(parts, "\n")
}
