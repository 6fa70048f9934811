package server

import (
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/tabletop/internal/core/observability/log"
	"github.com/zeusync/tabletop/internal/core/tools"
)

func (s *Server) newUpgrader() websocket.Upgrader {
	origins := s.config.Server.AllowedOrigins
	return websocket.Upgrader{
		ReadBufferSize:  s.config.Server.ReadBufferSize,
		WriteBufferSize: s.config.Server.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			if len(origins) == 0 {
				return true
			}
			return slices.Contains(origins, r.Header.Get("Origin"))
		},
	}
}

// handleWebSocket joins a client to the room named by the room query
// parameter. The user who opens a room becomes its DM and receives the room's
// DM key; later connections get DM rights only with user set to the creator
// and a matching dm_key parameter.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	room, user := q.Get("room"), q.Get("user")
	if room == "" || user == "" {
		http.Error(w, ErrMissingParameter.Error()+": room and user are required", http.StatusBadRequest)
		return
	}

	reqLogger := s.logger.WithContext(log.ContextWithRoom(r.Context(), room))
	session, created, err := s.getOrCreateSession(room, user)
	if err != nil {
		reqLogger.Error("Failed to open session", log.Error(err))
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		reqLogger.Warn("Upgrade failed", log.String("user", user), log.Error(err))
		return
	}

	isDM := created || session.authorizeDM(user, q.Get("dm_key"))
	c := newClient(uuid.NewString(), tools.User{Name: user, IsDM: isDM},
		conn, s.config.Server.SendQueue, session.logger)
	if err = session.join(c); err != nil {
		c.logger.Error("Join failed", log.Error(err))
		_ = conn.Close()
		return
	}

	var g errgroup.Group
	g.Go(func() error {
		defer session.leave(c)
		return c.readPump(session)
	})
	g.Go(c.writePump)
	if err = g.Wait(); err != nil {
		c.logger.Debug("Connection closed", log.Error(err))
	}
}
