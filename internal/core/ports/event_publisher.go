package ports

import (
	"context"

	"github.com/99minutos/client-registry/internal/core/domain"
)

// EventPublisher emits notifications to an external broker.
type EventPublisher interface {
	PublishUserCreated(ctx context.Context, event *domain.UserCreatedEvent) error
	Close() error
}
