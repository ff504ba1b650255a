// Package eventbus publishes order-lifecycle events for the external
// notification and dashboard collaborators. Events are emitted after the
// enclosing transaction commits, never inside it: delivery is best-effort
// and observed asynchronously by consumers.
package eventbus

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// OrderEvent is the payload published on every committed transition.
type OrderEvent struct {
	EventID   string    `json:"eventId"`
	Type      string    `json:"type"` // ex: "order.validated", "order.cancelled"
	OrderID   uint      `json:"orderId"`
	ClientID  uint      `json:"clientId"`
	Statut    string    `json:"statut"`
	Total     int64     `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher pushes events to interested collaborators.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// Noop is used when no event bus is configured (EVENTBUS_URL empty). It
// logs at debug level so local runs still show the event stream.
type Noop struct{}

func (Noop) Publish(_ context.Context, event OrderEvent) error {
	log.Debug().Str("type", event.Type).Uint("orderId", event.OrderID).Msg("event dropped (no bus configured)")
	return nil
}

func (Noop) Close() error { return nil }
