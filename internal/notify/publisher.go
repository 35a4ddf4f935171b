package notify

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/courtday/courtday/internal/models"
)

// Publisher hands notification batches to the external sink. Delivery is
// best-effort; callers fire and forget.
type Publisher interface {
	PublishNotifications(ctx context.Context, notes []models.Notification) error
	Close() error
}

// LogPublisher is a sink for deployments without a message bus: it only logs
// what would have been delivered.
type LogPublisher struct{}

// NewLogPublisher creates a log-only notification publisher.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// PublishNotifications logs each notification instead of delivering it.
func (p *LogPublisher) PublishNotifications(_ context.Context, notes []models.Notification) error {
	for _, n := range notes {
		log.Info().
			Str("recipient_id", n.RecipientID.String()).
			Str("type", string(n.Type)).
			Str("title", n.Title).
			Msg("notification (log sink)")
	}
	return nil
}

// Close is a no-op for the log sink.
func (p *LogPublisher) Close() error { return nil }
