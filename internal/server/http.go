package server

import (
	"encoding/json"
	"net/http"

	"github.com/zeusync/tabletop/internal/core/observability/log"
)

// Handler routes the websocket endpoint, behind the authenticator, and the
// health check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.auth.Middleware(http.HandlerFunc(s.handleWebSocket)))
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.GetStats()); err != nil {
		s.logger.Warn("Failed to write health response", log.Error(err))
	}
}
