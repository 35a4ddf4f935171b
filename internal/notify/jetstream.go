package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/courtday/courtday/internal/models"
)

// JetStreamConfig holds connection and stream settings for the club event bus.
type JetStreamConfig struct {
	URL             string
	StreamName      string
	SubjectPrefix   string
	MaxReconnects   int
	ReconnectWait   time.Duration
	MaxAge          time.Duration
	DuplicateWindow time.Duration
}

// DefaultJetStreamConfig returns the default club event bus configuration.
func DefaultJetStreamConfig() JetStreamConfig {
	return JetStreamConfig{
		URL:             nats.DefaultURL,
		StreamName:      "CLUB_EVENTS",
		SubjectPrefix:   "club.events",
		MaxReconnects:   -1,
		ReconnectWait:   2 * time.Second,
		MaxAge:          7 * 24 * time.Hour,
		DuplicateWindow: 2 * time.Hour,
	}
}

// JetStreamPublisher publishes notification batches to a NATS JetStream
// stream, one message per recipient, with message-ID dedupe.
type JetStreamPublisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config JetStreamConfig
}

// NewJetStreamPublisher connects to NATS and ensures the club event stream.
func NewJetStreamPublisher(cfg JetStreamConfig) (*JetStreamPublisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	p := &JetStreamPublisher{nc: nc, js: js, config: cfg}
	if err := p.ensureStream(context.Background()); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}
	return p, nil
}

func (p *JetStreamPublisher) ensureStream(ctx context.Context) error {
	sc := jetstream.StreamConfig{
		Name:       p.config.StreamName,
		Subjects:   []string{fmt.Sprintf("%s.>", p.config.SubjectPrefix)},
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     p.config.MaxAge,
		Storage:    jetstream.FileStorage,
		Duplicates: p.config.DuplicateWindow,
	}

	if _, err := p.js.Stream(ctx, p.config.StreamName); err != nil {
		if _, err := p.js.CreateStream(ctx, sc); err != nil {
			return fmt.Errorf("create stream: %w", err)
		}
		log.Info().Str("stream", p.config.StreamName).Msg("created JetStream stream")
	}
	return nil
}

// PublishNotifications publishes each notification to
// <prefix>.<lowercased type>. The first failure aborts and returns; already
// published messages stay published (delivery is at-least-once downstream).
func (p *JetStreamPublisher) PublishNotifications(ctx context.Context, notes []models.Notification) error {
	for _, n := range notes {
		if err := p.publishOne(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (p *JetStreamPublisher) publishOne(ctx context.Context, n models.Notification) error {
	subject := fmt.Sprintf("%s.%s", p.config.SubjectPrefix, subjectSuffix(n.Type))
	msgID := uuid.New()

	env := map[string]any{
		"eventId":   msgID.String(),
		"eventType": string(n.Type),
		"leagueId":  n.LeagueID.String(),
		"timestamp": time.Now().UTC(),
		"payload":   n,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	ack, err := p.js.PublishMsg(ctx, &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"Event-Type": []string{string(n.Type)},
			"League-ID":  []string{n.LeagueID.String()},
		},
	},
		jetstream.WithMsgID(msgID.String()),
		jetstream.WithExpectStream(p.config.StreamName),
	)
	if err != nil {
		return fmt.Errorf("publish to JetStream: %w", err)
	}

	log.Debug().
		Str("subject", subject).
		Uint64("sequence", ack.Sequence).
		Msg("published notification")
	return nil
}

// Close closes the NATS connection.
func (p *JetStreamPublisher) Close() error {
	if p.nc != nil {
		p.nc.Close()
	}
	return nil
}

func subjectSuffix(t models.NotificationType) string {
	switch t {
	case models.NotificationSessionCancelled:
		return "session_cancelled"
	default:
		return "unknown"
	}
}
