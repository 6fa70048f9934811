package board

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/tabletop/internal/core/geom"
	"github.com/zeusync/tabletop/internal/core/movement"
	"github.com/zeusync/tabletop/internal/core/shapes"
)

const registryShards = 16

// Registry indexes every shape of a board by id. Reads come from the session
// loop and from outbound writers, so the index is sharded by id hash to keep
// them off a single lock.
type Registry struct {
	shards [registryShards]registryShard
}

type registryShard struct {
	mu     sync.RWMutex
	shapes map[string]shapes.Shape
}

var _ movement.BoxLookup = (*Registry)(nil)

func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i].shapes = make(map[string]shapes.Shape)
	}
	return r
}

func (r *Registry) shard(id string) *registryShard {
	return &r.shards[xxhash.Sum64String(id)%registryShards]
}

func (r *Registry) Add(s shapes.Shape) {
	sh := r.shard(s.ID())
	sh.mu.Lock()
	sh.shapes[s.ID()] = s
	sh.mu.Unlock()
}

func (r *Registry) Remove(id string) {
	sh := r.shard(id)
	sh.mu.Lock()
	delete(sh.shapes, id)
	sh.mu.Unlock()
}

func (r *Registry) Get(id string) (shapes.Shape, bool) {
	sh := r.shard(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	s, ok := sh.shapes[id]
	return s, ok
}

// BoundingBoxOf resolves a blocker id for the movement resolver.
func (r *Registry) BoundingBoxOf(id string) (geom.BoundingBox, bool) {
	s, ok := r.Get(id)
	if !ok {
		return geom.BoundingBox{}, false
	}
	return s.BoundingBox(), true
}

func (r *Registry) Len() int {
	n := 0
	for i := range r.shards {
		sh := &r.shards[i]
		sh.mu.RLock()
		n += len(sh.shapes)
		sh.mu.RUnlock()
	}
	return n
}
