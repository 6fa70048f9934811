package board

import (
	"slices"

	"github.com/zeusync/tabletop/internal/core/events"
	"github.com/zeusync/tabletop/internal/core/shapes"
)

// Default layer names, bottom to top.
const (
	LayerMap    = "map"
	LayerGrid   = "grid"
	LayerTokens = "tokens"
	LayerDraw   = "draw"
	LayerFOW    = "fow"
)

// Layer is an ordered stack of shapes plus the current selection on it.
type Layer struct {
	Name string

	board     *Board
	shapes    []shapes.Shape
	selection []shapes.Shape

	invalidations     int
	fullInvalidations int
}

func (l *Layer) Shapes() []shapes.Shape { return slices.Clone(l.shapes) }

func (l *Layer) Selection() []shapes.Shape { return slices.Clone(l.selection) }

func (l *Layer) SetSelection(sel ...shapes.Shape) {
	l.selection = append(l.selection[:0:0], sel...)
}

func (l *Layer) AddToSelection(s shapes.Shape) {
	l.selection = append(l.selection, s)
}

func (l *Layer) IsSelected(s shapes.Shape) bool {
	return slices.Contains(l.selection, s)
}

// AddShape places s on top of the layer and indexes it. With sync set the
// addition is announced to the other participants.
func (l *Layer) AddShape(s shapes.Shape, sync, temporary bool) {
	s.SetLayer(l.Name)
	l.shapes = append(l.shapes, s)
	l.board.registry.Add(s)
	if sync {
		l.board.publish(events.ShapeAdd, events.ShapeAdded{Shape: s.Snapshot(), Temporary: temporary})
	}
	l.Invalidate(!sync)
}

// RemoveShape drops s from the layer, the selection, the registry and the
// blocker lists.
func (l *Layer) RemoveShape(s shapes.Shape, sync, temporary bool) {
	idx := slices.Index(l.shapes, s)
	if idx < 0 {
		return
	}
	l.shapes = slices.Delete(l.shapes, idx, idx+1)
	l.selection = slices.DeleteFunc(l.selection, func(x shapes.Shape) bool { return x == s })
	l.board.registry.Remove(s.ID())
	l.board.forgetBlocker(s.ID())
	if sync {
		l.board.publish(events.ShapeRemove, events.ShapeRemoved{Shape: s.Snapshot(), Temporary: temporary})
	}
	l.Invalidate(!sync)
}

// Invalidate marks the layer for redraw. Full invalidations also recompute
// derived state such as vision.
func (l *Layer) Invalidate(full bool) {
	l.invalidations++
	if full {
		l.fullInvalidations++
	}
}

// Invalidations returns how often the layer was invalidated and how many of
// those were full.
func (l *Layer) Invalidations() (total, full int) {
	return l.invalidations, l.fullInvalidations
}
