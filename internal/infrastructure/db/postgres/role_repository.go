package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/99minutos/client-registry/internal/core/domain"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var (
		role domain.Role
		id   int64
	)
	err := r.pool.QueryRow(ctx, `SELECT id, role_name FROM roles WHERE role_name = $1`, name).Scan(&id, &role.RoleName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("postgres: get role: %w", err)
	}
	role.ID = formatID(id)
	return &role, nil
}

// Seed inserts the named roles, leaving existing ones untouched.
func (r *RoleRepository) Seed(ctx context.Context, names ...string) error {
	batch := &pgx.Batch{}
	for _, name := range names {
		batch.Queue(`INSERT INTO roles (role_name) VALUES ($1) ON CONFLICT (role_name) DO NOTHING`, name)
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres: seed roles: %w", err)
	}
	return nil
}
