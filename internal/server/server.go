package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/tabletop/internal/config"
	"github.com/zeusync/tabletop/internal/core/events/bus"
	"github.com/zeusync/tabletop/internal/core/observability/log"
)

// Server hosts tabletop rooms over websockets
type Server struct {
	// Room management
	sessions map[string]*Session
	mu       sync.Mutex
	bus      bus.EventBus
	observer bus.EventBusObserver

	// Transport
	upgrader   websocket.Upgrader
	auth       Authenticator
	httpServer *http.Server
	listener   net.Listener

	// Server state
	running int32 // atomic bool
	closed  int32 // atomic bool

	// Configuration and logging
	config config.Config
	root   log.Log
	logger log.Log
}

// NewServer creates a new tabletop server
func NewServer(cfg config.Config, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	s := &Server{
		sessions: make(map[string]*Session),
		bus:      bus.New(),
		auth:     NewAuthenticator(cfg.Server.Token),
		config:   cfg,
		root:     logger,
		logger:   logger.With(log.String("component", "server")),
	}
	s.upgrader = s.newUpgrader()
	s.observer = &deliveryObserver{logger: s.logger}
	s.bus.AddObserver(s.observer)

	s.logger.Info("Server created",
		log.String("listen_addr", cfg.Server.Addr),
		log.Bool("auth", s.auth.Enabled()))
	return s
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	s.logger.Info("Starting server")

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.config.Server.Addr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to create listener", log.Error(err))
		return err
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Serve failed", log.Error(err))
		}
	}()

	s.logger.Info("Server listening", log.String("addr", listener.Addr().String()))
	return nil
}

// Addr returns the bound address once the server is started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the HTTP server down and disconnects every room.
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}

	s.logger.Info("Stopping server")

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.httpServer.Shutdown(ctx) })

	s.mu.Lock()
	for room, session := range s.sessions {
		g.Go(session.Close)
		delete(s.sessions, room)
	}
	s.mu.Unlock()

	err := g.Wait()
	s.logger.Info("Server stopped", log.Error(err))
	return err
}

// Close stops the server if needed; a closed server cannot be restarted.
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	defer s.bus.RemoveObserver(s.observer)
	if atomic.LoadInt32(&s.running) == 1 {
		return s.Stop(context.Background())
	}
	return nil
}

// getOrCreateSession returns the room, opening it with user as creator when
// it does not exist yet. created reports whether this call opened it.
func (s *Server) getOrCreateSession(room, user string) (session *Session, created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[room]; ok {
		return session, false, nil
	}
	session, err = newSession(room, user, s.config, s.bus, s.root)
	if err != nil {
		return nil, false, err
	}
	s.sessions[room] = session
	s.logger.Info("Room opened", log.String("room", room), log.String("creator", user))
	return session, true, nil
}

// Session returns the open room with the given name.
func (s *Server) Session(room string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[room]
	return session, ok
}

// Stats contains server statistics
type Stats struct {
	Rooms   []string            `json:"rooms"`
	Clients int                 `json:"clients"`
	Running bool                `json:"running"`
	Events  bus.EventBusMetrics `json:"events"`
	Topics  []bus.TopicInfo     `json:"topics"`
}

func (s *Server) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{Running: atomic.LoadInt32(&s.running) == 1, Rooms: make([]string, 0, len(s.sessions))}
	for room, session := range s.sessions {
		st.Rooms = append(st.Rooms, room)
		st.Clients += session.ClientCount()
	}
	sort.Strings(st.Rooms)
	st.Events = s.bus.GetMetrics()
	st.Topics = s.bus.GetTopics()
	return st
}
