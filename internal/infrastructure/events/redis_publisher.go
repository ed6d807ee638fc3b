package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/client-registry/internal/core/domain"
)

const DefaultStream = "clients.user-created"

// RedisStreamPublisher appends events to a Redis stream with XADD. Consumers
// read them with their own consumer groups.
type RedisStreamPublisher struct {
	rdb    *redis.Client
	stream string
	maxLen int64
	log    zerolog.Logger
}

// NewRedisStreamPublisher returns a publisher writing to stream. maxLen > 0
// caps the stream approximately (XADD MAXLEN ~).
func NewRedisStreamPublisher(rdb *redis.Client, stream string, maxLen int64, log zerolog.Logger) *RedisStreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStreamPublisher{rdb: rdb, stream: stream, maxLen: maxLen, log: log}
}

func (p *RedisStreamPublisher) PublishUserCreated(ctx context.Context, e *domain.UserCreatedEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode user created event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_id": e.EventID,
			"type":     e.Type,
			"payload":  payload,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	id, err := p.rdb.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}

	p.log.Debug().
		Str("stream", p.stream).
		Str("entry_id", id).
		Str("event_id", e.EventID).
		Msg("user created event appended")
	return nil
}

// Close is a no-op: the Redis client is owned by the caller.
func (p *RedisStreamPublisher) Close() error { return nil }
