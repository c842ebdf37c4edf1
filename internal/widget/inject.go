package widget

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HeadCloseTag is the marker snippets are inserted before
const HeadCloseTag = "</head>"

// InjectBeforeHead inserts snippet immediately before the first case-sensitive
// occurrence of </head>. Without a marker doc is returned unchanged and ok is false.
func InjectBeforeHead(doc, snippet string) (out string, ok bool) {
	i := strings.Index(doc, HeadCloseTag)
	if i < 0 {
		return doc, false
	}
	return doc[:i] + snippet + doc[i:], true
}

// ToolOutputScript returns the script block that exposes structured to the widget as
// the global openai.toolOutput. encoding/json escapes <, > and &, so the payload
// cannot close the script element.
func ToolOutputScript(structured any) (string, error) {
	payload, err := json.Marshal(structured)
	if err != nil {
		return "", fmt.Errorf("encode tool output: %w", err)
	}
	return "<script>openai = {toolOutput: " + string(payload) + "}</script>", nil
}
