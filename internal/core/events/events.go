// Package events names the notifications a board session emits and the
// payloads they carry.
package events

import (
	"github.com/zeusync/tabletop/internal/core/events/bus"
	"github.com/zeusync/tabletop/internal/core/geom"
	"github.com/zeusync/tabletop/internal/core/shapes"
)

// Event types. The wire names match what clients listen for.
const (
	ShapeMove             = "shapeMove"
	ShapeAdd              = "addShape"
	ShapeRemove           = "removeShape"
	ShapeContextMenu      = "shapeContextMenu"
	InitiativeUpdate      = "updateInitiative"
	ClientLocationOptions = "Client.Options.Location.Set"
	ToolSelected          = "toolSelected"
)

// ShapeMoved is published whenever a shape's geometry changes. Temporary
// moves are intermediate drag states; the final one has Temporary unset.
type ShapeMoved struct {
	Shape     shapes.Snapshot `json:"shape"`
	Temporary bool            `json:"temporary"`
}

type ShapeAdded struct {
	Shape     shapes.Snapshot `json:"shape"`
	Temporary bool            `json:"temporary"`
}

type ShapeRemoved struct {
	Shape     shapes.Snapshot `json:"shape"`
	Temporary bool            `json:"temporary"`
}

type ContextMenu struct {
	UUID     string          `json:"uuid"`
	Position geom.LocalPoint `json:"position"`
}

// LocationOptions carries the pan position of a user for one location,
// keyed by "room/creator/location".
type LocationOptions struct {
	Key  string  `json:"key"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

type ToolChange struct {
	Tool string `json:"tool"`
}

// Publisher sends notifications on behalf of one user of one session.
type Publisher interface {
	Publish(eventType string, data any) error
}

// TopicPublisher publishes onto a bus topic with a fixed source.
type TopicPublisher struct {
	Bus    bus.EventBus
	Topic  string
	Source string
}

func (p TopicPublisher) Publish(eventType string, data any) error {
	return p.Bus.PublishToTopic(p.Topic, bus.NewEvent(eventType, p.Source, data, nil))
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Publish(string, any) error { return nil }
