package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ServerInfo describes the harness's configuration to tooling
type ServerInfo struct {
	Version      string         `json:"version"`
	ServerTime   string         `json:"serverTime"`
	Transport    string         `json:"transport"`
	LocalOrigins []string       `json:"localOrigins"`
	BasePolicy   string         `json:"basePolicy"`
	RetryAfter   int            `json:"retryAfterSeconds"`
	RateLimit    *RateLimitInfo `json:"rateLimit,omitempty"`
}

// Info handles GET /info
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	info := ServerInfo{
		Version:    s.Version,
		ServerTime: time.Now().UTC().Format(time.RFC3339Nano),
		Transport:  s.Transport,
		BasePolicy: s.basePolicy(),
		RetryAfter: int(s.retryAfter().Seconds()),
	}
	if s.Renderer != nil {
		info.LocalOrigins = s.Renderer.CSP.LocalOrigins
	}
	if s.RateLimiter != nil {
		info.RateLimit = &s.RateLimiter.config
	}

	writeJSON(w, http.StatusOK, info)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode json response")
	}
}
