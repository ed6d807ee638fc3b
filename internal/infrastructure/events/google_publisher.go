package events

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/99minutos/client-registry/internal/core/domain"
)

// GooglePublisher publishes events to a Google Cloud Pub/Sub topic.
type GooglePublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicID   string
	log       zerolog.Logger
}

func NewGooglePublisher(ctx context.Context, projectID, topicID string, log zerolog.Logger) (*GooglePublisher, error) {
	if projectID == "" || topicID == "" {
		return nil, fmt.Errorf("pubsub: project and topic are required")
	}

	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("pubsub: new client: %w", err)
	}

	log.Info().Str("project_id", projectID).Str("topic_id", topicID).Msg("google pub/sub publisher initialised")

	return &GooglePublisher{
		client:    client,
		publisher: client.Publisher(topicID),
		topicID:   topicID,
		log:       log,
	}, nil
}

// PublishUserCreated blocks until the server acknowledges the message.
func (p *GooglePublisher) PublishUserCreated(ctx context.Context, e *domain.UserCreatedEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode user created event: %w", err)
	}

	res := p.publisher.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: eventAttributes(e),
	})
	serverID, err := res.Get(ctx)
	if err != nil {
		return fmt.Errorf("pubsub: publish to %s: %w", p.topicID, err)
	}

	p.log.Debug().Str("server_id", serverID).Str("event_id", e.EventID).Msg("user created event published")
	return nil
}

func (p *GooglePublisher) Close() error {
	if p.publisher != nil {
		p.publisher.Stop()
	}
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func eventAttributes(e *domain.UserCreatedEvent) map[string]string {
	return map[string]string{
		"event_id": e.EventID,
		"type":     e.Type,
		"user_id":  e.UserID,
	}
}
