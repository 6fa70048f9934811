package bus

import "time"

// EventBus is a thread-safe, in-process pub/sub bus.
//
// Handlers subscribe by Event.Type() within a topic; each board session owns
// one topic so that notifications never cross rooms. Delivery is synchronous
// in the publisher's goroutine and handler errors are joined.
type EventBus interface {
	// CreateTopic declares a topic; repeat declarations are idempotent.
	CreateTopic(name string) error
	// DeleteTopic drops a topic and all of its subscriptions.
	DeleteTopic(name string) error
	// SubscribeTopic registers a handler for eventType within a topic. The
	// wildcard event type AnyEvent receives every event of the topic.
	SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. It is safe to call with nil.
	Unsubscribe(Subscription) error
	// PublishToTopic publishes to a specific topic.
	PublishToTopic(topic string, event Event) error

	AddObserver(obs EventBusObserver)
	RemoveObserver(obs EventBusObserver)
	// GetMetrics is only updated while at least one observer is registered.
	GetMetrics() EventBusMetrics
	GetTopics() []TopicInfo
}

// AnyEvent subscribes to every event type of a topic.
const AnyEvent = "*"

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
	Metadata() map[string]any
}

// EventHandler is invoked per delivered event.
type EventHandler func(event Event) error

// Subscription represents a registered handler bound to an event type.
type Subscription interface {
	ID() string
	Topic() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// EventBusObserver is notified about deliveries. Observers should return quickly.
type EventBusObserver interface {
	OnPublish(topic, eventType string, event Event)
	OnDelivered(topic, eventType string, handlers int, err error, duration time.Duration)
}

type EventBusMetrics struct {
	Published         uint64 `json:"published"`
	DeliveredHandlers uint64 `json:"deliveredHandlers"`
	Errors            uint64 `json:"errors"`
	SubscribersActive uint64 `json:"subscribersActive"`
	Topics            uint64 `json:"topics"`
}

type TopicInfo struct {
	Name       string `json:"name"`
	EventTypes int    `json:"eventTypes"`
	Subs       int    `json:"subs"`
}
