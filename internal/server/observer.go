package server

import (
	"time"

	"github.com/zeusync/tabletop/internal/core/events/bus"
	"github.com/zeusync/tabletop/internal/core/observability/log"
)

// deliveryObserver keeps the bus metrics live and reports room events that
// could not be forwarded to every client.
type deliveryObserver struct {
	logger log.Log
}

func (o deliveryObserver) OnPublish(string, string, bus.Event) {}

func (o deliveryObserver) OnDelivered(topic, eventType string, handlers int, err error, d time.Duration) {
	if err == nil {
		return
	}
	o.logger.Warn("Event delivery failed",
		log.String("topic", topic),
		log.String("event", eventType),
		log.Int("handlers", handlers),
		log.Duration("took", d),
		log.Error(err))
}
