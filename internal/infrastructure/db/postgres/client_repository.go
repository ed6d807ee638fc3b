package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/99minutos/client-registry/internal/core/domain"
)

const clientColumns = `id, name, last_name, birth_date, direction, mail, phone, status, creation_date`

// ClientRepository implements ports.ClientRepository backed by PostgreSQL.
type ClientRepository struct {
	pool *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func (r *ClientRepository) FindAll(ctx context.Context) ([]*domain.Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list clients: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan client: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list clients: %w", err)
	}
	return out, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return r.queryOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, n)
}

func (r *ClientRepository) FindByMail(ctx context.Context, mail string) (*domain.Client, error) {
	return r.queryOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE mail = $1`, mail)
}

func (r *ClientRepository) queryOne(ctx context.Context, sql string, args ...any) (*domain.Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("postgres: get client: %w", err)
	}
	return c, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	const insertSQL = `
		INSERT INTO clients (name, last_name, birth_date, direction, mail, phone, status, creation_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + clientColumns

	created, err := scanClient(r.pool.QueryRow(ctx, insertSQL,
		c.Name, c.LastName, c.BirthDate, c.Direction, c.Mail, c.Phone, c.Status, c.CreationDate.UTC()))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrMailTaken
		}
		return nil, fmt.Errorf("postgres: create client: %w", err)
	}
	return created, nil
}

// Update writes only the columns present in patch.
func (r *ClientRepository) Update(ctx context.Context, id string, patch domain.ClientPatch) (*domain.Client, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, domain.ErrClientNotFound
	}

	var (
		sets []string
		args []any
	)
	add := func(col string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("name", patch.Name)
	add("last_name", patch.LastName)
	add("birth_date", patch.BirthDate)
	add("direction", patch.Direction)
	add("mail", patch.Mail)
	add("phone", patch.Phone)

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, n)
	sql := fmt.Sprintf(`UPDATE clients SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), clientColumns)

	updated, err := scanClient(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, domain.ErrClientNotFound
		case isUniqueViolation(err):
			return nil, domain.ErrMailTaken
		}
		return nil, fmt.Errorf("postgres: update client: %w", err)
	}
	return updated, nil
}

// Deactivate flips status only while it is still true, so concurrent calls
// see exactly one success.
func (r *ClientRepository) Deactivate(ctx context.Context, id string) (*domain.Client, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, domain.ErrClientNotFound
	}

	const updateSQL = `UPDATE clients SET status = FALSE WHERE id = $1 AND status RETURNING ` + clientColumns

	c, err := scanClient(r.pool.QueryRow(ctx, updateSQL, n))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("postgres: deactivate client: %w", err)
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrClientInactive
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var (
		c  domain.Client
		id int64
	)
	err := row.Scan(
		&id,
		&c.Name,
		&c.LastName,
		&c.BirthDate,
		&c.Direction,
		&c.Mail,
		&c.Phone,
		&c.Status,
		&c.CreationDate,
	)
	if err != nil {
		return nil, err
	}
	c.ID = formatID(id)
	c.CreationDate = c.CreationDate.UTC()
	return &c, nil
}
