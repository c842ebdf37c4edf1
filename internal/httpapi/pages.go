package httpapi

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/erauner12/widget-harness/internal/mcpclient"
	"github.com/erauner12/widget-harness/internal/widget"
	"github.com/rs/zerolog/log"
)

const pageHead = `{{define "head"}}<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
label { display: block; margin: .5rem 0; }
.required { color: #b00; }
.hint { color: #666; font-size: .9em; }
iframe { width: 100%; height: 600px; border: 1px solid #ccc; margin-top: 1rem; }
</style>
</head>
<body>
{{end}}`

var toolSelectionPage = template.Must(template.New("tools").Parse(pageHead + `{{template "head" "Widget harness"}}
<h1>Tools on {{.ServerURL}}</h1>
{{if not .Tools}}<p>The server advertises no tools.</p>{{end}}
<ul>
{{range .Tools}}<li>
{{if .HasWidget}}<a href="{{.Href}}">{{.Name}}</a>{{else}}{{.Name}} <span class="hint">(no widget template)</span>{{end}}
{{with .Title}} <strong>{{.}}</strong>{{end}}
{{with .Description}}<div class="hint">{{.}}</div>{{end}}
</li>
{{end}}</ul>
</body>
</html>
`))

var fieldFormPage = template.Must(template.New("form").Parse(pageHead + `{{template "head" .Tool.Name}}
<h1>{{.Tool.Name}}</h1>
{{with .Tool.Description}}<p class="hint">{{.}}</p>{{end}}
<form method="get" action="/">
<input type="hidden" name="url" value="{{.ServerURL}}">
<input type="hidden" name="tool" value="{{.Tool.Name}}">
{{range .Fields}}<label>{{.Key}}{{if .Required}} <span class="required">*</span>{{end}}
{{if eq .Kind.String "checkbox"}}<input type="checkbox" name="{{.Key}}" value="true"{{if .Checked}} checked{{end}}>
{{else}}<input type="text" name="{{.Key}}" value="{{.Value}}"{{if .Required}} required{{end}}>
{{end}}{{with .Description}}<span class="hint">{{.}}</span>{{end}}
</label>
{{end}}<button type="submit">Invoke</button>
</form>
<iframe src="{{.PreviewSrc}}" title="widget preview"></iframe>
</body>
</html>
`))

var retryPage = template.Must(template.New("retry").Parse(pageHead + `{{template "head" "Waiting for MCP server"}}
<h1>Waiting for MCP server</h1>
<p>Could not connect to {{.ServerURL}}. Retrying in {{.Seconds}} seconds.</p>
<p class="hint">{{.Cause}}</p>
</body>
</html>
`))

type toolOption struct {
	Name        string
	Title       string
	Description string
	HasWidget   bool
	Href        string
}

type toolSelectionData struct {
	ServerURL string
	Tools     []toolOption
}

type fieldFormData struct {
	ServerURL  string
	Tool       *mcpclient.ToolDescriptor
	Fields     []widget.FormField
	PreviewSrc string
}

type retryPageData struct {
	ServerURL string
	Seconds   int
	Cause     string
}

// writePage renders a harness page under the base content-security policy
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("page", tmpl.Name()).Msg("failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	doc := widget.Document{HTML: buf.String(), Policy: s.basePolicy()}
	doc.Serve(w, status)
}

func (s *Server) basePolicy() string {
	if s.Renderer == nil {
		return widget.CSPDeriver{}.Base()
	}
	return s.Renderer.CSP.Base()
}
