package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/client-registry/internal/core/domain"
	"github.com/99minutos/client-registry/internal/core/ports"
)

const (
	ProviderRedis  = "redis"
	ProviderGoogle = "google"
	ProviderNoop   = "noop"
)

// Config selects and configures the event broker.
type Config struct {
	Provider        string
	Stream          string
	StreamMaxLen    int64
	PubSubProjectID string
	PubSubTopicID   string
}

// UsesRedis reports whether provider publishes through Redis Streams.
func UsesRedis(provider string) bool {
	p := strings.ToLower(strings.TrimSpace(provider))
	return p == ProviderRedis || p == ""
}

// NewPublisher builds the publisher for cfg.Provider. rdb is only required
// for the redis provider.
func NewPublisher(ctx context.Context, cfg Config, rdb *redis.Client, log zerolog.Logger) (ports.EventPublisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderRedis, "":
		if rdb == nil {
			return nil, fmt.Errorf("events: redis provider requires a redis client")
		}
		return NewRedisStreamPublisher(rdb, cfg.Stream, cfg.StreamMaxLen, log), nil
	case ProviderGoogle:
		return NewGooglePublisher(ctx, cfg.PubSubProjectID, cfg.PubSubTopicID, log)
	case ProviderNoop:
		log.Warn().Msg("event publishing disabled, user created events will be dropped")
		return NoopPublisher{log: log}, nil
	default:
		return nil, fmt.Errorf("events: unknown provider %q", cfg.Provider)
	}
}

// NoopPublisher drops every event.
type NoopPublisher struct {
	log zerolog.Logger
}

func (p NoopPublisher) PublishUserCreated(_ context.Context, e *domain.UserCreatedEvent) error {
	p.log.Debug().Str("event_id", e.EventID).Msg("event publishing disabled, skipping")
	return nil
}

func (NoopPublisher) Close() error { return nil }
