// internal/infrastructure/notify/publisher.go
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Publisher emits domain events to the sibling planning system. The channel
// is strictly one way: publish failures are logged and never surfaced to the
// operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, event string, payload interface{})
}

// Event names carried on the sync channel.
const (
	EventProvisioned     = "event.provisioned"
	EventCancelled       = "event.cancelled"
	EventClosed          = "event.closed"
	IndentSubmitted      = "indent.submitted"
	IndentApproved       = "indent.approved"
	IndentRejected       = "indent.rejected"
	StockAdjusted        = "stock.adjusted"
	CookingStatusChanged = "cooking.status_changed"
)

// RedisPublisher publishes JSON envelopes to a Redis channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *logrus.Logger
}

// NewRedisPublisher creates a publisher on the given channel.
func NewRedisPublisher(client *redis.Client, channel string, logger *logrus.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

type envelope struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Publish sends one event, fire and forget.
func (p *RedisPublisher) Publish(ctx context.Context, event string, payload interface{}) {
	body, err := json.Marshal(envelope{
		Event:     event,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		p.logger.WithError(err).WithField("event", event).Warn("Failed to encode sync event")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		p.logger.WithError(err).WithField("event", event).Warn("Failed to publish sync event")
	}
}

// NopPublisher discards all events. Used when notifications are disabled and
// in tests.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, string, interface{}) {}
