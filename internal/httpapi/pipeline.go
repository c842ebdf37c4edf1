package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/erauner12/widget-harness/internal/mcpclient"
	"github.com/erauner12/widget-harness/internal/widget"
	"github.com/rs/zerolog/log"
)

const defaultRetryAfter = 3 * time.Second

// requireParams writes a 400 naming the first missing query parameter
func requireParams(w http.ResponseWriter, r *http.Request, names ...string) bool {
	q := r.URL.Query()
	for _, name := range names {
		if q.Get(name) == "" {
			msg := "No ?" + name + " param provided."
			if name == "url" {
				msg += " Please give the url of the MCP server"
			}
			http.Error(w, msg, http.StatusBadRequest)
			return false
		}
	}
	return true
}

// openSession connects to the server named by ?url. On failure the response has
// already been written; callers must Close a returned session.
func (s *Server) openSession(w http.ResponseWriter, r *http.Request) (*mcpclient.Session, bool) {
	sess, err := s.Connector.Connect(r.Context(), r.URL.Query().Get("url"), s.SessionOptions)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

// resolveTool opens a session and resolves ?tool. Callers must Close a returned session.
func (s *Server) resolveTool(w http.ResponseWriter, r *http.Request) (*mcpclient.Session, *mcpclient.ToolDescriptor, bool) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return nil, nil, false
	}

	tool, err := sess.Resolve(r.Context(), r.URL.Query().Get("tool"))
	if err != nil {
		_ = sess.Close()
		s.writeError(w, r, err)
		return nil, nil, false
	}
	return sess, tool, true
}

// writeError maps pipeline failures onto responses. Connection failures become a
// self-refreshing retry page; everything else is a plain-text error.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		connErr     mcpclient.ErrConnection
		invErr      mcpclient.ErrInvocation
		unsupported *widget.UnsupportedSchemaTypeError
		missing     *widget.MissingRequiredFieldsError
	)

	status := http.StatusInternalServerError
	msg := err.Error()

	switch {
	case errors.As(err, &connErr):
		s.writeRetryPage(w, r, connErr)
		return
	case errors.Is(err, mcpclient.ErrInvalidEndpoint):
		status = http.StatusBadRequest
	case errors.As(err, &missing):
		status = http.StatusBadRequest
		names, _ := json.Marshal(missing.Fields)
		msg = "missing required fields: " + string(names)
	case errors.Is(err, mcpclient.ErrToolNotFound):
		status = http.StatusNotFound
	case errors.Is(err, mcpclient.ErrNoOutputTemplate), errors.As(err, &unsupported):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, mcpclient.ErrInvalidResource), errors.As(err, &invErr):
		status = http.StatusBadGateway
	}

	logger := log.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		logger.Warn().Err(err).Int("status", status).Msg("request rejected")
	}

	http.Error(w, msg, status)
}

func (s *Server) retryAfter() time.Duration {
	if s.RetryAfter <= 0 {
		return defaultRetryAfter
	}
	return s.RetryAfter
}

// writeRetryPage tells the browser to re-issue the same request after a fixed delay
func (s *Server) writeRetryPage(w http.ResponseWriter, r *http.Request, connErr mcpclient.ErrConnection) {
	seconds := int(s.retryAfter().Seconds())
	if seconds < 1 {
		seconds = 1
	}

	log.Ctx(r.Context()).Warn().
		Err(connErr.Err).
		Str("server", connErr.Endpoint).
		Int("retryAfter", seconds).
		Msg("MCP server unreachable, asking client to retry")

	data := retryPageData{ServerURL: connErr.Endpoint, Seconds: seconds}
	if connErr.Err != nil {
		data.Cause = connErr.Err.Error()
	}

	w.Header().Set("Refresh", strconv.Itoa(seconds))
	s.writePage(w, r, http.StatusServiceUnavailable, retryPage, data)
}
