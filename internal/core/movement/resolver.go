package movement

import (
	"github.com/zeusync/tabletop/internal/core/geom"
	"github.com/zeusync/tabletop/internal/core/observability/log"
)

// Blocker is a movement-obstructing box identified by the id of its shape.
type Blocker struct {
	ID  string
	Box geom.BoundingBox
}

// BoxLookup resolves blocker ids to bounding boxes. Implementations must
// answer synchronously; a miss means the blocker no longer exists.
type BoxLookup interface {
	BoundingBoxOf(id string) (geom.BoundingBox, bool)
}

// Resolution is the outcome of one resolve call chain.
type Resolution struct {
	// Delta is the corrected displacement.
	Delta geom.Vector
	// Hits lists the blockers that clipped the delta, in the order they did so.
	// A blocker appears at most once.
	Hits []string
	// Degenerate is set when a collision had no usable contact point, or the
	// moving box has no area, and the move was cancelled.
	Degenerate bool
}

// Resolver clips drag displacements against axis-aligned blockers so that a
// moving box slides along obstacle edges instead of entering them.
//
// Blockers are scanned in list order and the first collision wins, even when
// a later blocker is nearer.
type Resolver struct {
	logger log.Log
}

// NewResolver creates a resolver. A nil logger disables logging.
func NewResolver(logger log.Log) *Resolver {
	r := &Resolver{}
	if logger != nil {
		r.logger = logger.With(log.String("component", "movement"))
	}
	return r
}

// Resolve computes the largest displacement, derived from delta, that does not
// move the box into any blocker. Each blocker clips the delta at most once, so
// the number of refinement steps is bounded by len(blockers).
func (r *Resolver) Resolve(delta geom.Vector, moving geom.BoundingBox, blockers []Blocker) Resolution {
	res := Resolution{Delta: delta}
	if len(blockers) == 0 {
		return res
	}

	visited := newExclusion(len(blockers))
	for step := 0; step < len(blockers); step++ {
		blocker, ok := firstCollision(res.Delta, moving, blockers, visited)
		if !ok {
			return res
		}

		visited.add(blocker.ID)
		res.Hits = append(res.Hits, blocker.ID)

		next, ok := clip(res.Delta, moving, blocker.Box)
		if !ok {
			r.debug("degenerate contact, cancelling move",
				log.String("blocker", blocker.ID),
				log.Float64("dx", res.Delta.X()),
				log.Float64("dy", res.Delta.Y()))
			res.Delta = geom.Vector{Origin: res.Delta.Origin}
			res.Degenerate = true
			return res
		}
		res.Delta = next
	}
	return res
}

// ResolveIDs resolves blocker ids through lookup and then behaves like
// Resolve. Unknown ids are skipped.
func (r *Resolver) ResolveIDs(delta geom.Vector, moving geom.BoundingBox, ids []string, lookup BoxLookup) Resolution {
	return r.Resolve(delta, moving, r.blockers(ids, lookup))
}

// ResolveSelection narrows one shared delta against every box of a selection
// in turn, so that the whole selection moves together and no member enters a
// blocker.
func (r *Resolver) ResolveSelection(delta geom.Vector, boxes []geom.BoundingBox, ids []string, lookup BoxLookup) Resolution {
	blockers := r.blockers(ids, lookup)
	out := Resolution{Delta: delta}
	for _, box := range boxes {
		res := r.Resolve(out.Delta, box, blockers)
		out.Delta = res.Delta
		out.Hits = append(out.Hits, res.Hits...)
		if res.Degenerate {
			out.Degenerate = true
			return out
		}
	}
	return out
}

func (r *Resolver) blockers(ids []string, lookup BoxLookup) []Blocker {
	if lookup == nil {
		return nil
	}
	out := make([]Blocker, 0, len(ids))
	for _, id := range ids {
		box, ok := lookup.BoundingBoxOf(id)
		if !ok {
			r.debug("skipping unknown blocker", log.String("blocker", id))
			continue
		}
		out = append(out, Blocker{ID: id, Box: box})
	}
	return out
}

func (r *Resolver) debug(msg string, fields ...log.Field) {
	if r == nil || r.logger == nil {
		return
	}
	r.logger.Debug(msg, fields...)
}

// firstCollision returns the first unvisited blocker that the move collides
// with, either at its destination or along the path of its reference point.
func firstCollision(delta geom.Vector, original geom.BoundingBox, blockers []Blocker, visited exclusion) (Blocker, bool) {
	destination := original.Offset(delta)
	path := geom.Segment{
		Start: original.Ref.Add(delta.Normalize()),
		End:   destination.Ref,
	}
	for _, b := range blockers {
		if visited.has(b.ID) {
			continue
		}
		if b.Box.IntersectsWith(destination) {
			return b, true
		}
		if _, hit := b.Box.IntersectWithLine(path); hit {
			return b, true
		}
	}
	return Blocker{}, false
}

// clip adjusts one axis of delta using the point of the blocker closest to the
// moving box's center. It reports false when no axis can be chosen: the
// moving box has zero width or height, or the contact point lies strictly
// inside it.
func clip(delta geom.Vector, original, blocker geom.BoundingBox) (geom.Vector, bool) {
	if original.W == 0 || original.H == 0 {
		return geom.Vector{}, false
	}
	bc := blocker.Center()
	d := original.Center().Subtract(bc)

	dx := clamp(d.Dot(geom.UnitX), -blocker.W/2, blocker.W/2)
	dy := clamp(d.Dot(geom.UnitY), -blocker.H/2, blocker.H/2)
	p := bc.Add(geom.UnitX.Multiply(dx)).Add(geom.UnitY.Multiply(dy))

	switch {
	case p.X == original.Left() || p.X == original.Right():
		return delta.WithX(0), true
	case p.Y == original.Top() || p.Y == original.Bottom():
		return delta.WithY(0), true
	case p.X < original.Left():
		return delta.WithX(p.X - original.Left()), true
	case p.X > original.Right():
		return delta.WithX(p.X - original.Right()), true
	case p.Y < original.Top():
		return delta.WithY(p.Y - original.Top()), true
	case p.Y > original.Bottom():
		return delta.WithY(p.Y - original.Bottom()), true
	}
	return geom.Vector{}, false
}

func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
