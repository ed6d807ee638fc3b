//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/99minutos/client-registry/internal/core/domain"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16",
		tcpostgres.WithDatabase("clients"),
		tcpostgres.WithUsername("clients"),
		tcpostgres.WithPassword("clients"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := Connect(ctx, Config{DSN: dsn, Timeout: 30 * time.Second})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Migrate(ctx, pool), "schema must be re-appliable")
	return pool
}

func newClient(mail string) *domain.Client {
	return &domain.Client{
		Name:         "Ana",
		LastName:     "Lopez",
		BirthDate:    "1990-01-01",
		Direction:    "Calle 1",
		Mail:         mail,
		Phone:        "5512345678",
		Status:       true,
		CreationDate: time.Now().UTC(),
	}
}

func TestClientRepository_Integration(t *testing.T) {
	pool := startPostgres(t)
	repo := NewClientRepository(pool)
	ctx := context.Background()

	created, err := repo.Create(ctx, newClient("ana@x.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Status)

	_, err = repo.Create(ctx, newClient("ana@x.com"))
	assert.ErrorIs(t, err, domain.ErrMailTaken)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Mail, got.Mail)

	_, err = repo.FindByID(ctx, "not-a-number")
	assert.ErrorIs(t, err, domain.ErrClientNotFound)

	empty := ""
	updated, err := repo.Update(ctx, created.ID, domain.ClientPatch{Direction: &empty})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Direction)
	assert.Equal(t, "Ana", updated.Name)

	other, err := repo.Create(ctx, newClient("beto@x.com"))
	require.NoError(t, err)
	taken := "ana@x.com"
	_, err = repo.Update(ctx, other.ID, domain.ClientPatch{Mail: &taken})
	assert.ErrorIs(t, err, domain.ErrMailTaken)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, created.ID, all[0].ID)

	off, err := repo.Deactivate(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, off.Status)

	_, err = repo.Deactivate(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrClientInactive)

	_, err = repo.Deactivate(ctx, "999999")
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestClientRepository_ConcurrentCreateOneWinner(t *testing.T) {
	pool := startPostgres(t)
	repo := NewClientRepository(pool)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), newClient("race@x.com"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, domain.ErrMailTaken):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
}

func TestUserAndRoleRepository_Integration(t *testing.T) {
	pool := startPostgres(t)
	users := NewUserRepository(pool)
	roles := NewRoleRepository(pool)
	ctx := context.Background()

	_, err := roles.FindByName(ctx, domain.DefaultRoleName)
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)

	require.NoError(t, roles.Seed(ctx, "admin", domain.DefaultRoleName))
	require.NoError(t, roles.Seed(ctx, domain.DefaultRoleName))

	role, err := roles.FindByName(ctx, domain.DefaultRoleName)
	require.NoError(t, err)

	u := &domain.User{
		Username:     "ana@x.com",
		Phone:        "5512345678",
		PasswordHash: "hash",
		RoleID:       role.ID,
		Status:       true,
		CreationDate: time.Now().UTC(),
	}
	created, err := users.Create(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, role.ID, created.RoleID)

	_, err = users.Create(ctx, u)
	assert.ErrorIs(t, err, domain.ErrUserExists)

	found, err := users.FindByUsername(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = users.FindByUsername(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
