package ports

import (
	"context"

	"github.com/99minutos/client-registry/internal/core/domain"
)

// ClientRepository defines persistence operations for clients. Implementations
// must enforce mail uniqueness at the storage layer and translate a unique
// violation into domain.ErrMailTaken.
type ClientRepository interface {
	// FindAll returns every client, active or not, in insertion order.
	FindAll(ctx context.Context) ([]*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	FindByMail(ctx context.Context, mail string) (*domain.Client, error)
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	// Update applies only the fields present in patch.
	Update(ctx context.Context, id string, patch domain.ClientPatch) (*domain.Client, error)
	// Deactivate flips status to false. Returns domain.ErrClientInactive when
	// the client is already inactive.
	Deactivate(ctx context.Context, id string) (*domain.Client, error)
}
