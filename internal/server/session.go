package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/zeusync/tabletop/internal/config"
	"github.com/zeusync/tabletop/internal/core/board"
	"github.com/zeusync/tabletop/internal/core/events"
	"github.com/zeusync/tabletop/internal/core/events/bus"
	"github.com/zeusync/tabletop/internal/core/geom"
	"github.com/zeusync/tabletop/internal/core/initiative"
	"github.com/zeusync/tabletop/internal/core/movement"
	"github.com/zeusync/tabletop/internal/core/observability/log"
	"github.com/zeusync/tabletop/internal/core/tools"
)

// Session is one room: its board, initiative tracker and the connected
// clients. Input from all clients is applied one message at a time.
type Session struct {
	Room    string
	Creator string
	dmKey   string

	mu       sync.Mutex
	board    *board.Board
	tracker  *initiative.Tracker
	resolver *movement.Resolver
	toolsets map[string]*tools.Toolset
	toolCfg  config.ToolsConfig

	bus   bus.EventBus
	topic string
	sub   bus.Subscription

	clientsMu sync.RWMutex
	clients   map[string]*client

	logger log.Log
}

func newSession(room, creator string, cfg config.Config, eb bus.EventBus, logger log.Log) (*Session, error) {
	topic := "room:" + room
	if err := eb.CreateTopic(topic); err != nil {
		return nil, fmt.Errorf("create topic %s: %w", topic, err)
	}
	logger = logger.With(log.String("room", room))
	pub := events.TopicPublisher{Bus: eb, Topic: topic, Source: "session"}

	b, err := board.New(cfg.BoardSettings(room, creator), pub, logger)
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	s := &Session{
		Room:     room,
		Creator:  creator,
		dmKey:    uuid.NewString(),
		board:    b,
		tracker:  initiative.New(pub, logger),
		resolver: movement.NewResolver(logger),
		toolsets: make(map[string]*tools.Toolset),
		toolCfg:  cfg.Tools,
		bus:      eb,
		topic:    topic,
		clients:  make(map[string]*client),
		logger:   logger.With(log.String("component", "session")),
	}
	s.sub, err = eb.SubscribeTopic(topic, bus.AnyEvent, s.broadcast)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return s, nil
}

// Board returns the session board. Reads are not synchronised with client
// input.
func (s *Session) Board() *board.Board { return s.board }

func (s *Session) Tracker() *initiative.Tracker { return s.tracker }

func (s *Session) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// authorizeDM reports whether user may act as the DM of a room it did not
// open itself.
func (s *Session) authorizeDM(user, key string) bool {
	if user != s.Creator || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.dmKey)) == 1
}

// join gives c a toolset, queues the welcome message and starts forwarding
// room events to it.
func (s *Session) join(c *client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := tools.NewToolset(tools.Env{
		Board:     s.board,
		User:      c.user,
		Publisher: events.TopicPublisher{Bus: s.bus, Topic: s.topic, Source: c.id},
		Resolver:  s.resolver,
		Logger:    c.logger,
	})
	s.applyToolDefaults(ts)
	s.toolsets[c.id] = ts

	data := WelcomeData{
		ClientID:   c.id,
		Room:       s.Room,
		User:       c.user.Name,
		IsDM:       c.user.IsDM,
		Tools:      ts.Available(),
		Initiative: s.tracker.Entries(),
	}
	if c.user.IsDM {
		data.DMKey = s.dmKey
	}
	welcome, err := json.Marshal(Outbound{Type: MsgWelcome, Data: data})
	if err != nil {
		return fmt.Errorf("encode welcome: %w", err)
	}
	if err = c.enqueue(welcome); err != nil {
		return err
	}

	s.clientsMu.Lock()
	s.clients[c.id] = c
	s.clientsMu.Unlock()

	s.logger.Info("Client joined",
		log.String("client_id", c.id),
		log.String("user", c.user.Name),
		log.Bool("dm", c.user.IsDM))
	return nil
}

func (s *Session) applyToolDefaults(ts *tools.Toolset) {
	fill, border := s.toolCfg.DrawFill, s.toolCfg.DrawBorder
	if err := ts.Configure(tools.NameDraw, tools.Options{Fill: &fill, Border: &border}); err != nil {
		s.logger.Warn("draw defaults rejected", log.Error(err))
	}
	if _, ok := ts.Get(tools.NameMap); !ok {
		return
	}
	x, y := s.toolCfg.MapXCount, s.toolCfg.MapYCount
	if err := ts.Configure(tools.NameMap, tools.Options{XCount: &x, YCount: &y}); err != nil {
		s.logger.Warn("map defaults rejected", log.Error(err))
	}
}

func (s *Session) leave(c *client) {
	s.mu.Lock()
	delete(s.toolsets, c.id)
	s.mu.Unlock()

	s.clientsMu.Lock()
	delete(s.clients, c.id)
	s.clientsMu.Unlock()

	c.close()
	s.logger.Info("Client left", log.String("client_id", c.id))
}

// broadcast forwards a room event to every client of the session.
func (s *Session) broadcast(ev bus.Event) error {
	frame, err := json.Marshal(Outbound{Type: ev.Type(), Data: ev.Data()})
	if err != nil {
		return fmt.Errorf("encode %s: %w", ev.Type(), err)
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	var all error
	for _, c := range s.clients {
		if err = c.enqueue(frame); err != nil {
			all = errors.Join(all, err)
		}
	}
	return all
}

// Handle applies one inbound message of c.
func (s *Session) Handle(c *client, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.toolsets[c.id]
	if !ok {
		return ErrClientClosed
	}
	actor := initiative.Actor{Name: c.user.Name, IsDM: c.user.IsDM}

	switch msg.Type {
	case MsgPointer:
		var d PointerData
		if err := decode(msg, &d); err != nil {
			return err
		}
		p := tools.Pointer{Pos: geom.LocalPoint{X: d.X, Y: d.Y}, Alt: d.Alt}
		switch d.Phase {
		case PhaseDown:
			ts.MouseDown(p)
		case PhaseMove:
			ts.MouseMove(p)
		case PhaseUp:
			ts.MouseUp(p)
		case PhaseContext:
			ts.ContextMenu(p)
		default:
			return fmt.Errorf("%w: pointer phase %q", ErrInvalidMessage, d.Phase)
		}
		return nil

	case MsgToolSelect:
		var d ToolSelectData
		if err := decode(msg, &d); err != nil {
			return err
		}
		return ts.Select(d.Tool)

	case MsgToolConfigure:
		var d ToolConfigureData
		if err := decode(msg, &d); err != nil {
			return err
		}
		return ts.Configure(d.Tool, d.Options)

	case MsgLayerSelect:
		var d LayerSelectData
		if err := decode(msg, &d); err != nil {
			return err
		}
		if !c.user.IsDM {
			return ErrNotDM
		}
		return s.board.SetActiveLayer(d.Layer)

	case MsgInitiativeAdd:
		var d InitiativeRefData
		if err := decode(msg, &d); err != nil {
			return err
		}
		if d.UUID == "" {
			return fmt.Errorf("%w: initiative entry without uuid", ErrInvalidMessage)
		}
		// Fields missing from the message keep their current values.
		return s.tracker.Upsert(actor, d.UUID, func(e *initiative.Entry) error {
			return decode(msg, e)
		})

	case MsgInitiativeRemove:
		var d InitiativeRefData
		if err := decode(msg, &d); err != nil {
			return err
		}
		return s.tracker.RemoveBy(actor, d.UUID)

	case MsgInitiativeSet:
		var d InitiativeSetData
		if err := decode(msg, &d); err != nil {
			return err
		}
		return s.tracker.SetInitiative(actor, d.UUID, d.Initiative)

	case MsgInitiativeToggleVisible, MsgInitiativeToggleGroup:
		var d InitiativeRefData
		if err := decode(msg, &d); err != nil {
			return err
		}
		if msg.Type == MsgInitiativeToggleVisible {
			return s.tracker.ToggleVisible(actor, d.UUID)
		}
		return s.tracker.ToggleGroup(actor, d.UUID)
	}
	return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
}

// Close disconnects every client and drops the room topic.
func (s *Session) Close() error {
	s.clientsMu.Lock()
	for id, c := range s.clients {
		c.close()
		delete(s.clients, id)
	}
	s.clientsMu.Unlock()

	if err := s.bus.Unsubscribe(s.sub); err != nil {
		return err
	}
	if err := s.bus.DeleteTopic(s.topic); err != nil && !errors.Is(err, bus.ErrUnknownTopic) {
		return err
	}
	return nil
}

func decode(msg Message, v any) error {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidMessage, msg.Type, err)
	}
	return nil
}
