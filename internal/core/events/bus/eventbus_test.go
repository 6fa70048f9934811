package bus

import (
	"errors"
	"testing"
	"time"
)

type testObserver struct {
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_, _ string, _ Event) {
	o.publishCount++
}

func (o *testObserver) OnDelivered(_, _ string, handlers int, err error, _ time.Duration) {
	o.deliveredCount += handlers
	o.lastErr = err
}

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	got := 0
	_, err := b.SubscribeTopic("room", "shape.move", func(e Event) error {
		got = e.Data().(int)
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err = b.PublishToTopic("room", NewEvent("shape.move", "tester", 123, nil)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got != 123 {
		t.Fatalf("handler not called, got %d", got)
	}
}

func TestPublishJoinsHandlerErrors(t *testing.T) {
	b := New()
	errA := errors.New("a")
	errB := errors.New("b")
	_, _ = b.SubscribeTopic("room", "x", func(Event) error { return errA })
	_, _ = b.SubscribeTopic("room", "x", func(Event) error { return errB })

	err := b.PublishToTopic("room", NewEvent("x", "src", nil, nil))
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected joined error, got %v", err)
	}
}

func TestTopicsIsolation(t *testing.T) {
	b := New()
	if err := b.CreateTopic("room-1"); err != nil {
		t.Fatalf("topic: %v", err)
	}
	if err := b.CreateTopic("room-2"); err != nil {
		t.Fatalf("topic: %v", err)
	}
	count1 := 0
	count2 := 0
	_, _ = b.SubscribeTopic("room-1", "ev", func(e Event) error { count1++; return nil })
	_, _ = b.SubscribeTopic("room-2", "ev", func(e Event) error { count2++; return nil })
	_ = b.PublishToTopic("room-1", NewEvent("ev", "src", nil, nil))
	if count1 != 1 || count2 != 0 {
		t.Fatalf("topic isolation failed: %d %d", count1, count2)
	}
}

func TestWildcardSubscription(t *testing.T) {
	b := New()
	var seen []string
	_, _ = b.SubscribeTopic("room", AnyEvent, func(e Event) error {
		seen = append(seen, e.Type())
		return nil
	})
	_ = b.PublishToTopic("room", NewEvent("shape.move", "src", nil, nil))
	_ = b.PublishToTopic("room", NewEvent("initiative.update", "src", nil, nil))
	if len(seen) != 2 || seen[0] != "shape.move" || seen[1] != "initiative.update" {
		t.Fatalf("wildcard got %v", seen)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	calls := 0
	sub, _ := b.SubscribeTopic("room", "e", func(Event) error { calls++; return nil })
	_ = b.PublishToTopic("room", NewEvent("e", "s", nil, nil))
	if err := b.Unsubscribe(sub); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	_ = sub.Cancel()
	_ = b.PublishToTopic("room", NewEvent("e", "s", nil, nil))
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if sub.IsActive() {
		t.Fatal("subscription still active")
	}
	if err := b.Unsubscribe(nil); err != nil {
		t.Fatalf("nil unsubscribe: %v", err)
	}
}

func TestDeleteTopic(t *testing.T) {
	b := New()
	sub, _ := b.SubscribeTopic("room", "e", func(Event) error { return nil })
	if err := b.DeleteTopic("room"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if sub.IsActive() {
		t.Fatal("subscription survived topic deletion")
	}
	if err := b.DeleteTopic("room"); !errors.Is(err, ErrUnknownTopic) {
		t.Fatalf("expected ErrUnknownTopic, got %v", err)
	}
	for _, ti := range b.GetTopics() {
		if ti.Name == "room" {
			t.Fatal("topic still listed")
		}
	}
}

func TestTopicsListing(t *testing.T) {
	b := New()
	_ = b.CreateTopic("room:b")
	_, _ = b.SubscribeTopic("room:a", "e", func(Event) error { return nil })
	_, _ = b.SubscribeTopic("room:a", AnyEvent, func(Event) error { return nil })

	topics := b.GetTopics()
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %+v", topics)
	}
	if topics[0] != (TopicInfo{Name: "room:a", EventTypes: 2, Subs: 2}) {
		t.Fatalf("unexpected first topic %+v", topics[0])
	}
	if topics[1] != (TopicInfo{Name: "room:b"}) {
		t.Fatalf("unexpected second topic %+v", topics[1])
	}
}

func TestObserverMetricsOptional(t *testing.T) {
	b := New()
	_, _ = b.SubscribeTopic("room", "e", func(e Event) error { return nil })
	_ = b.PublishToTopic("room", NewEvent("e", "s", nil, nil))
	m := b.GetMetrics()
	if m.Published != 0 || m.DeliveredHandlers != 0 {
		t.Fatalf("metrics should be zero without observers: %+v", m)
	}

	obs := &testObserver{}
	b.AddObserver(obs)
	_ = b.PublishToTopic("room", NewEvent("e", "s", nil, nil))
	m2 := b.GetMetrics()
	if m2.Published != 1 || m2.DeliveredHandlers != 1 {
		t.Fatalf("metrics should update with observer: %+v", m2)
	}
	if obs.publishCount != 1 || obs.deliveredCount != 1 {
		t.Fatalf("observer not called: %+v", obs)
	}

	b.RemoveObserver(obs)
	_ = b.PublishToTopic("room", NewEvent("e", "s", nil, nil))
	if obs.publishCount != 1 {
		t.Fatalf("removed observer still notified: %+v", obs)
	}
}
