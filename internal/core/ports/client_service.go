package ports

import (
	"context"

	"github.com/99minutos/client-registry/internal/core/domain"
)

// CreateClientInput carries the fields of a registration request.
type CreateClientInput struct {
	Name      string `validate:"required"`
	LastName  string `validate:"required"`
	BirthDate string `validate:"required"`
	Direction string `validate:"required"`
	Mail      string `validate:"required,mailshape"`
	Phone     string `validate:"required,phone10"`
}

// UpdateClientInput carries a partial update. Nil fields were not supplied.
type UpdateClientInput struct {
	Name      *string
	LastName  *string
	BirthDate *string
	Direction *string
	Mail      *string `validate:"omitnil,mailshape"`
	Phone     *string `validate:"omitnil,phone10"`
}

// Warning describes a non-fatal failure attached to an otherwise successful result.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ProvisionOutcome tells whether a user was created for this registration.
type ProvisionOutcome string

const (
	ProvisionCreated ProvisionOutcome = "created"
	ProvisionSkipped ProvisionOutcome = "skipped"
	ProvisionFailed  ProvisionOutcome = "failed"
)

// RegistrationResult is returned by RegisterClient. Client is always set once
// the client row is committed, even when a later stage failed.
type RegistrationResult struct {
	Client    *domain.Client
	User      *domain.User
	Provision ProvisionOutcome
	Warnings  []Warning
}

// ClientService defines the client use cases.
type ClientService interface {
	ListClients(ctx context.Context) ([]*domain.Client, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	RegisterClient(ctx context.Context, input CreateClientInput) (*RegistrationResult, error)
	UpdateClient(ctx context.Context, id string, input UpdateClientInput) (*domain.Client, error)
	DeactivateClient(ctx context.Context, id string) (*domain.Client, error)
}
