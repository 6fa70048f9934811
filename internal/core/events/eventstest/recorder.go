// Package eventstest provides a publisher that keeps notifications in memory
// for assertions.
package eventstest

// Recorder keeps every notification in publish order. It is not safe for
// concurrent use.
type Recorder struct {
	Events []Recorded
}

type Recorded struct {
	Type string
	Data any
}

func (r *Recorder) Publish(eventType string, data any) error {
	r.Events = append(r.Events, Recorded{Type: eventType, Data: data})
	return nil
}

// OfType returns the payloads recorded for eventType in order.
func (r *Recorder) OfType(eventType string) []any {
	var out []any
	for _, e := range r.Events {
		if e.Type == eventType {
			out = append(out, e.Data)
		}
	}
	return out
}

func (r *Recorder) Reset() { r.Events = nil }
