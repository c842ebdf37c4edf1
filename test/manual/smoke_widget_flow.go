//go:build ignore

package main

// Manual smoke test for a running harness against a live MCP server.
//
// Usage:
//   HARNESS_URL=http://localhost:3112 \
//   MCP_URL=http://localhost:8000/mcp \
//   TOOL=lookup QUERY="dividing fractions" \
//   go run test/manual/smoke_widget_flow.go
//
// Checks, in order: /healthz, the tool list on /, the raw template on /preview and
// the injected render on /widget. Prints the policy header of each widget response.

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fetch(client *http.Client, target string) (*http.Response, string) {
	resp, err := client.Get(target)
	if err != nil {
		fmt.Printf("✗ GET %s: %v\n", target, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("✗ reading %s: %v\n", target, err)
		os.Exit(1)
	}
	return resp, string(body)
}

func expect(ok bool, format string, args ...any) {
	if ok {
		fmt.Printf("✓ "+format+"\n", args...)
		return
	}
	fmt.Printf("✗ "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	harness := strings.TrimSuffix(env("HARNESS_URL", "http://localhost:3112"), "/")
	mcpURL := os.Getenv("MCP_URL")
	tool := os.Getenv("TOOL")
	if mcpURL == "" || tool == "" {
		fmt.Println("MCP_URL and TOOL are required")
		os.Exit(1)
	}

	client := &http.Client{Timeout: 30 * time.Second}

	resp, _ := fetch(client, harness+"/healthz")
	expect(resp.StatusCode == http.StatusOK, "healthz returned %d", resp.StatusCode)

	resp, body := fetch(client, harness+"/?"+url.Values{"url": {mcpURL}}.Encode())
	expect(resp.StatusCode == http.StatusOK, "tool list returned %d", resp.StatusCode)
	expect(strings.Contains(body, tool), "tool list mentions %s", tool)

	params := url.Values{"url": {mcpURL}, "tool": {tool}}

	resp, body = fetch(client, harness+"/preview?"+params.Encode())
	expect(resp.StatusCode == http.StatusOK, "preview returned %d", resp.StatusCode)
	expect(!strings.Contains(body, "openai = {toolOutput"), "preview is not injected")
	fmt.Printf("  policy: %s\n", resp.Header.Get("Content-Security-Policy"))

	if q := os.Getenv("QUERY"); q != "" {
		params.Set("query", q)
	}
	resp, body = fetch(client, harness+"/widget?"+params.Encode())
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("✗ widget returned %d: %s\n", resp.StatusCode, body)
		os.Exit(1)
	}
	expect(strings.Contains(body, "openai = {toolOutput"), "widget carries the tool output")
	fmt.Printf("  policy: %s\n", resp.Header.Get("Content-Security-Policy"))
}
