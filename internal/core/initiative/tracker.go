// Package initiative keeps the turn order of a session.
package initiative

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/zeusync/tabletop/internal/core/events"
	"github.com/zeusync/tabletop/internal/core/observability/log"
)

// Entry is one participant in the turn order, usually a token.
type Entry struct {
	UUID       string   `json:"uuid"`
	Initiative *int     `json:"initiative,omitempty"`
	Visible    bool     `json:"visible"`
	Group      bool     `json:"group"`
	Owners     []string `json:"owners"`
	Src        string   `json:"src,omitempty"`
}

func (e Entry) clone() Entry {
	if e.Initiative != nil {
		v := *e.Initiative
		e.Initiative = &v
	}
	e.Owners = slices.Clone(e.Owners)
	return e
}

// Removed is published when an entry leaves the tracker.
type Removed struct {
	UUID string `json:"uuid"`
}

// Actor is the user asking for a change.
type Actor struct {
	Name string
	IsDM bool
}

func (a Actor) mayEdit(e Entry) bool {
	return a.IsDM || slices.Contains(e.Owners, a.Name)
}

// Tracker holds the entries sorted by initiative, highest first. Entries
// without an initiative sort last.
type Tracker struct {
	mu      sync.RWMutex
	entries []Entry
	open    bool

	publisher events.Publisher
	logger    log.Log
}

func New(publisher events.Publisher, logger log.Log) *Tracker {
	if publisher == nil {
		publisher = events.Discard{}
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Tracker{publisher: publisher, logger: logger.With(log.String("component", "initiative"))}
}

// Add tracks e, replacing an entry with the same uuid without any ownership
// check. A missing initiative counts as 0. Adding always opens the tracker.
func (t *Tracker) Add(e Entry, broadcast bool) {
	e = e.clone()
	if e.Initiative == nil {
		e.Initiative = new(int)
	}
	if e.Owners == nil {
		e.Owners = []string{}
	}

	t.mu.Lock()
	t.open = true
	if i := t.index(e.UUID); i >= 0 {
		t.entries[i] = e
	} else {
		t.entries = append(t.entries, e)
	}
	t.sort()
	t.mu.Unlock()

	if broadcast {
		t.publish(e)
	}
}

// Upsert applies change to the entry with uuid on behalf of actor. An existing
// entry is patched in place and needs actor to own it; a new one starts empty
// and anyone may create it. The uuid itself cannot be changed. Like Add, a
// missing initiative counts as 0 and the tracker opens.
func (t *Tracker) Upsert(actor Actor, uuid string, change func(*Entry) error) error {
	t.mu.Lock()
	e := Entry{UUID: uuid}
	i := t.index(uuid)
	if i >= 0 {
		if !actor.mayEdit(t.entries[i]) {
			t.mu.Unlock()
			return fmt.Errorf("%w: %s may not edit %s", ErrPermissionDenied, actor.Name, uuid)
		}
		e = t.entries[i].clone()
	}
	if err := change(&e); err != nil {
		t.mu.Unlock()
		return err
	}
	e.UUID = uuid
	if e.Initiative == nil {
		e.Initiative = new(int)
	}
	if e.Owners == nil {
		e.Owners = []string{}
	}

	t.open = true
	if i >= 0 {
		t.entries[i] = e
	} else {
		t.entries = append(t.entries, e)
	}
	t.sort()
	updated := e.clone()
	t.mu.Unlock()

	t.publish(updated)
	return nil
}

// Remove drops the entry with uuid. Group entries stay unless skipGroupCheck
// is set. It reports whether an entry was removed.
func (t *Tracker) Remove(uuid string, broadcast, skipGroupCheck bool) bool {
	t.mu.Lock()
	removed := false
	if i := t.index(uuid); i >= 0 && (skipGroupCheck || !t.entries[i].Group) {
		t.entries = slices.Delete(t.entries, i, i+1)
		removed = true
	}
	if len(t.entries) == 0 {
		t.open = false
	}
	t.mu.Unlock()

	if removed && broadcast {
		t.publish(Removed{UUID: uuid})
	}
	return removed
}

// Entries returns a sorted copy of the turn order.
func (t *Tracker) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.clone()
	}
	return out
}

func (t *Tracker) Get(uuid string) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i := t.index(uuid); i >= 0 {
		return t.entries[i].clone(), true
	}
	return Entry{}, false
}

// IsOpen reports whether the tracker is shown to participants.
func (t *Tracker) IsOpen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.open
}

func (t *Tracker) SetInitiative(actor Actor, uuid string, value int) error {
	return t.edit(actor, uuid, func(e *Entry) { e.Initiative = &value })
}

func (t *Tracker) ToggleVisible(actor Actor, uuid string) error {
	return t.edit(actor, uuid, func(e *Entry) { e.Visible = !e.Visible })
}

func (t *Tracker) ToggleGroup(actor Actor, uuid string) error {
	return t.edit(actor, uuid, func(e *Entry) { e.Group = !e.Group })
}

// RemoveBy removes an entry on behalf of actor, group or not.
func (t *Tracker) RemoveBy(actor Actor, uuid string) error {
	e, ok := t.Get(uuid)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, uuid)
	}
	if !actor.mayEdit(e) {
		return fmt.Errorf("%w: %s may not remove %s", ErrPermissionDenied, actor.Name, uuid)
	}
	t.Remove(uuid, true, true)
	return nil
}

func (t *Tracker) edit(actor Actor, uuid string, change func(*Entry)) error {
	t.mu.Lock()
	i := t.index(uuid)
	if i < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownEntry, uuid)
	}
	if !actor.mayEdit(t.entries[i]) {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s may not edit %s", ErrPermissionDenied, actor.Name, uuid)
	}
	change(&t.entries[i])
	updated := t.entries[i].clone()
	t.sort()
	t.mu.Unlock()

	t.publish(updated)
	return nil
}

func (t *Tracker) index(uuid string) int {
	return slices.IndexFunc(t.entries, func(e Entry) bool { return e.UUID == uuid })
}

func (t *Tracker) sort() {
	slices.SortStableFunc(t.entries, func(a, b Entry) int {
		switch {
		case a.Initiative == nil && b.Initiative == nil:
			return 0
		case a.Initiative == nil:
			return 1
		case b.Initiative == nil:
			return -1
		}
		return cmp.Compare(*b.Initiative, *a.Initiative)
	})
}

func (t *Tracker) publish(data any) {
	if err := t.publisher.Publish(events.InitiativeUpdate, data); err != nil {
		t.logger.Warn("publish failed", log.String("event", events.InitiativeUpdate), log.Error(err))
	}
}
