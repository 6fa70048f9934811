package server

import (
	"encoding/json"

	"github.com/zeusync/tabletop/internal/core/initiative"
	"github.com/zeusync/tabletop/internal/core/tools"
)

// Inbound message types.
const (
	MsgPointer                 = "pointer"
	MsgToolSelect              = "tool.select"
	MsgToolConfigure           = "tool.configure"
	MsgLayerSelect             = "layer.select"
	MsgInitiativeAdd           = "initiative.add"
	MsgInitiativeRemove        = "initiative.remove"
	MsgInitiativeSet           = "initiative.set"
	MsgInitiativeToggleVisible = "initiative.toggle_visible"
	MsgInitiativeToggleGroup   = "initiative.toggle_group"
)

// Outbound message types besides forwarded events.
const (
	MsgWelcome = "welcome"
	MsgError   = "error"
)

// Pointer phases.
const (
	PhaseDown    = "down"
	PhaseMove    = "move"
	PhaseUp      = "up"
	PhaseContext = "context"
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Outbound is a message before encoding.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type PointerData struct {
	Phase string  `json:"phase"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Alt   bool    `json:"alt"`
}

type ToolSelectData struct {
	Tool string `json:"tool"`
}

type ToolConfigureData struct {
	Tool    string        `json:"tool"`
	Options tools.Options `json:"options"`
}

type LayerSelectData struct {
	Layer string `json:"layer"`
}

type InitiativeRefData struct {
	UUID string `json:"uuid"`
}

type InitiativeSetData struct {
	UUID       string `json:"uuid"`
	Initiative int    `json:"initiative"`
}

type WelcomeData struct {
	ClientID   string             `json:"clientId"`
	Room       string             `json:"room"`
	User       string             `json:"user"`
	IsDM       bool               `json:"isDM"`
	DMKey      string             `json:"dmKey,omitempty"`
	Tools      []tools.Descriptor `json:"tools"`
	Initiative []initiative.Entry `json:"initiative"`
}

type ErrorData struct {
	Message string `json:"message"`
	Request string `json:"request,omitempty"`
}
