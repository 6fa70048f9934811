package shapes

import (
	"slices"

	"github.com/google/uuid"

	"github.com/zeusync/tabletop/internal/core/geom"
)

type Kind string

const (
	KindRect Kind = "rect"
	KindLine Kind = "line"
	KindText Kind = "text"
)

// Shape is anything placed on a board layer. Collision and selection only
// ever look at its bounding box.
type Shape interface {
	ID() string
	Kind() Kind

	RefPoint() geom.Point
	SetRefPoint(p geom.Point)
	BoundingBox() geom.BoundingBox
	Contains(p geom.Point) bool

	Owners() []string
	AddOwner(user string)
	OwnedBy(user string, isDM bool) bool

	Layer() string
	SetLayer(name string)

	VisionObstruction() bool
	MovementObstruction() bool

	Snapshot() Snapshot
}

// base carries the state every shape kind shares.
type base struct {
	id       string
	ref      geom.Point
	owners   []string
	layer    string
	vision   bool
	movement bool
}

func newBase(ref geom.Point) base {
	return base{id: uuid.NewString(), ref: ref}
}

func (b *base) ID() string                { return b.id }
func (b *base) RefPoint() geom.Point      { return b.ref }
func (b *base) SetRefPoint(p geom.Point)  { b.ref = p }
func (b *base) Owners() []string          { return slices.Clone(b.owners) }
func (b *base) Layer() string             { return b.layer }
func (b *base) SetLayer(name string)      { b.layer = name }
func (b *base) VisionObstruction() bool   { return b.vision }
func (b *base) MovementObstruction() bool { return b.movement }

func (b *base) SetVisionObstruction(v bool)   { b.vision = v }
func (b *base) SetMovementObstruction(v bool) { b.movement = v }

func (b *base) AddOwner(user string) {
	if user == "" || slices.Contains(b.owners, user) {
		return
	}
	b.owners = append(b.owners, user)
}

// OwnedBy reports whether user may manipulate the shape. DMs own everything.
func (b *base) OwnedBy(user string, isDM bool) bool {
	return isDM || slices.Contains(b.owners, user)
}

func (b *base) snapshot(kind Kind) Snapshot {
	return Snapshot{
		UUID:                b.id,
		Type:                kind,
		X:                   b.ref.X,
		Y:                   b.ref.Y,
		Owners:              b.Owners(),
		Layer:               b.layer,
		VisionObstruction:   b.vision,
		MovementObstruction: b.movement,
	}
}
