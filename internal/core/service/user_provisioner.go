package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/client-registry/internal/core/domain"
	"github.com/99minutos/client-registry/internal/core/ports"
	"github.com/99minutos/client-registry/internal/pkg/metrics"
)

// RoleFinder resolves a role by name. RoleResolver and any
// ports.RoleRepository satisfy it.
type RoleFinder interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
}

// ProvisionResult reports what ProvisionIfAbsent did. User is set only when
// Outcome is ports.ProvisionCreated.
type ProvisionResult struct {
	User    *domain.User
	Outcome ports.ProvisionOutcome
}

// UserProvisioner creates the login identity for a client mail at most once.
type UserProvisioner struct {
	users    ports.UserRepository
	roles    RoleFinder
	roleName string
	hashCost int
	now      func() time.Time
	log      zerolog.Logger
}

// NewUserProvisioner returns a provisioner that attaches the role called
// roleName to new users. An empty roleName means domain.DefaultRoleName.
func NewUserProvisioner(users ports.UserRepository, roles RoleFinder, roleName string, log zerolog.Logger) *UserProvisioner {
	if roleName == "" {
		roleName = domain.DefaultRoleName
	}
	return &UserProvisioner{
		users:    users,
		roles:    roles,
		roleName: roleName,
		hashCost: bcrypt.DefaultCost,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

// ProvisionIfAbsent creates a user with username = mail unless one exists.
// An existing user, found up front or by losing an insert race, yields
// ProvisionSkipped and no error. A missing default role yields
// domain.ErrDefaultRoleMissing.
func (p *UserProvisioner) ProvisionIfAbsent(ctx context.Context, mail, phone string) (*ProvisionResult, error) {
	_, err := p.users.FindByUsername(ctx, mail)
	switch {
	case err == nil:
		p.log.Debug().Str("username", mail).Msg("user already provisioned")
		metrics.UsersProvisionedTotal.WithLabelValues(string(ports.ProvisionSkipped)).Inc()
		return &ProvisionResult{Outcome: ports.ProvisionSkipped}, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, p.fail(fmt.Errorf("provision user: lookup: %w", err))
	}

	role, err := p.roles.FindByName(ctx, p.roleName)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return nil, p.fail(fmt.Errorf("provision user: role %q: %w", p.roleName, domain.ErrDefaultRoleMissing))
		}
		return nil, p.fail(fmt.Errorf("provision user: %w", err))
	}

	password, err := generatePassword(defaultPasswordLength)
	if err != nil {
		return nil, p.fail(fmt.Errorf("provision user: generate password: %w", err))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.hashCost)
	if err != nil {
		return nil, p.fail(fmt.Errorf("provision user: hash password: %w", err))
	}

	created, err := p.users.Create(ctx, &domain.User{
		Username:     mail,
		Phone:        phone,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		Status:       true,
		CreationDate: p.now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			p.log.Info().Str("username", mail).Msg("user created concurrently, skipping")
			metrics.UsersProvisionedTotal.WithLabelValues(string(ports.ProvisionSkipped)).Inc()
			return &ProvisionResult{Outcome: ports.ProvisionSkipped}, nil
		}
		return nil, p.fail(fmt.Errorf("provision user: create: %w", err))
	}

	metrics.UsersProvisionedTotal.WithLabelValues(string(ports.ProvisionCreated)).Inc()
	p.log.Info().Str("username", created.Username).Str("role_id", created.RoleID).Msg("user provisioned")
	return &ProvisionResult{User: created, Outcome: ports.ProvisionCreated}, nil
}

func (p *UserProvisioner) fail(err error) error {
	metrics.UsersProvisionedTotal.WithLabelValues(string(ports.ProvisionFailed)).Inc()
	return err
}
