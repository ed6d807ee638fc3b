package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/99minutos/client-registry/internal/core/domain"
)

const userColumns = `id, username, phone, password_hash, role_id, status, creation_date`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres: get user: %w", err)
	}
	return u, nil
}

// Create inserts a user. A taken username surfaces as domain.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const insertSQL = `
		INSERT INTO users (username, phone, password_hash, role_id, status, creation_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, insertSQL,
		user.Username, user.Phone, user.PasswordHash, user.RoleID, user.Status, user.CreationDate.UTC()))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("postgres: create user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u  domain.User
		id int64
	)
	if err := row.Scan(&id, &u.Username, &u.Phone, &u.PasswordHash, &u.RoleID, &u.Status, &u.CreationDate); err != nil {
		return nil, err
	}
	u.ID = formatID(id)
	u.CreationDate = u.CreationDate.UTC()
	return &u, nil
}
