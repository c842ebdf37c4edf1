package httpapi

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/erauner12/widget-harness/internal/mcpclient"
	"github.com/erauner12/widget-harness/internal/widget"
)

// HandleForm serves GET /?url=...[&tool=...&<fields>]
//
// Without a tool it lists the server's tools. With a tool it renders the input form
// pre-filled from the query, plus a live preview frame pointing at /widget.
func (s *Server) HandleForm(w http.ResponseWriter, r *http.Request) {
	if !requireParams(w, r, "url") {
		return
	}

	q := r.URL.Query()
	if q.Get("tool") == "" {
		s.renderToolSelection(w, r)
		return
	}

	sess, tool, ok := s.resolveTool(w, r)
	if !ok {
		return
	}
	defer sess.Close()

	fields, err := widget.BuildFields(tool.InputSchema, q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writePage(w, r, http.StatusOK, fieldFormPage, fieldFormData{
		ServerURL:  q.Get("url"),
		Tool:       tool,
		Fields:     fields,
		PreviewSrc: "/widget?" + q.Encode(),
	})
}

func (s *Server) renderToolSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	defer sess.Close()

	tools, err := sess.ListTools(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	serverURL := r.URL.Query().Get("url")
	options := make([]toolOption, 0, len(tools))
	for _, t := range tools {
		_, hasWidget := t.Meta.OutputTemplateRef()
		options = append(options, toolOption{
			Name:        t.Name,
			Title:       t.Title,
			Description: t.Description,
			HasWidget:   hasWidget,
			Href:        "/?" + url.Values{"url": {serverURL}, "tool": {t.Name}}.Encode(),
		})
	}

	s.writePage(w, r, http.StatusOK, toolSelectionPage, toolSelectionData{
		ServerURL: serverURL,
		Tools:     options,
	})
}

// HandlePreview serves GET /preview?url=...&tool=...: the raw template, no invocation
func (s *Server) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if !requireParams(w, r, "url", "tool") {
		return
	}

	sess, tool, ok := s.resolveTool(w, r)
	if !ok {
		return
	}
	defer sess.Close()

	doc, err := s.Renderer.Render(r.Context(), sess, tool, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc.Serve(w, http.StatusOK)
}

// HandleWidget serves GET /widget?url=...&tool=...&<fields>: coerce, invoke, render
func (s *Server) HandleWidget(w http.ResponseWriter, r *http.Request) {
	if !requireParams(w, r, "url", "tool") {
		return
	}

	sess, tool, ok := s.resolveTool(w, r)
	if !ok {
		return
	}
	defer sess.Close()

	args, err := widget.Coerce(tool.InputSchema, r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := sess.Invoke(r.Context(), tool.Name, args)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := s.Renderer.Render(r.Context(), sess, tool, result)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc.Serve(w, http.StatusOK)
}

var (
	errNoResources = errors.New("server advertises no resources")
	errNoTools     = errors.New("server advertises no tools")
)

// HandleDemo serves GET /demo?url=...[&query=...]: the first advertised resource
// rendered with the result of calling the first advertised tool with {query}
func (s *Server) HandleDemo(w http.ResponseWriter, r *http.Request) {
	if !requireParams(w, r, "url") {
		return
	}

	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	defer sess.Close()

	ctx := r.Context()

	resources, err := sess.ListResources(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(resources) == 0 {
		s.writeError(w, r, errNoResources)
		return
	}

	content, err := sess.ReadResource(ctx, resources[0].URI)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tools, err := sess.ListTools(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(tools) == 0 {
		s.writeError(w, r, errNoTools)
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		query = s.DemoQuery
	}

	result, err := sess.Invoke(ctx, tools[0].Name, map[string]any{"query": query})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := s.Renderer.Compose(ctx, content, result)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc.Serve(w, http.StatusOK)
}

var _ widget.ResourceReader = (*mcpclient.Session)(nil)
