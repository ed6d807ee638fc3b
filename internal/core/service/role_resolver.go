package service

import (
	"context"
	"fmt"

	gocache "github.com/patrickmn/go-cache"

	"github.com/99minutos/client-registry/internal/core/domain"
	"github.com/99minutos/client-registry/internal/core/ports"
	"github.com/99minutos/client-registry/internal/pkg/metrics"
)

// RoleResolver looks up roles by name through a read-through cache.
//
// Roles are seed data, so cached entries never expire and nothing
// invalidates them while the process runs; Invalidate exists for tests and
// operational resets. Misses are not cached, so a role seeded after startup
// is picked up on the next lookup.
type RoleResolver struct {
	repo  ports.RoleRepository
	cache *gocache.Cache
}

// NewRoleResolver wraps repo with an unbounded, non-expiring cache.
func NewRoleResolver(repo ports.RoleRepository) *RoleResolver {
	return &RoleResolver{
		repo:  repo,
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// FindByName returns the role called name, or domain.ErrRoleNotFound.
func (r *RoleResolver) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	if v, ok := r.cache.Get(name); ok {
		metrics.RoleCacheTotal.WithLabelValues("hit").Inc()
		role := v.(domain.Role)
		return &role, nil
	}
	metrics.RoleCacheTotal.WithLabelValues("miss").Inc()

	role, err := r.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolve role %q: %w", name, err)
	}
	r.cache.Set(name, *role, gocache.NoExpiration)
	return role, nil
}

// Invalidate drops every cached role.
func (r *RoleResolver) Invalidate() {
	r.cache.Flush()
}
