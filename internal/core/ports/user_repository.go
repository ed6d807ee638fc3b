package ports

import (
	"context"

	"github.com/99minutos/client-registry/internal/core/domain"
)

// UserRepository defines persistence for provisioned users. Create returns
// domain.ErrUserExists when the username is already taken.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// RoleRepository reads role reference data.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
}
