package movement

// exclusion is the set of blockers already consumed by one resolve chain. It
// only grows and never outlives the call that created it.
type exclusion map[string]struct{}

func newExclusion(capacity int) exclusion {
	return make(exclusion, capacity)
}

func (e exclusion) add(id string) { e[id] = struct{}{} }

func (e exclusion) has(id string) bool {
	_, ok := e[id]
	return ok
}
