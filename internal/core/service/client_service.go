package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/client-registry/internal/core/domain"
	"github.com/99minutos/client-registry/internal/core/ports"
	"github.com/99minutos/client-registry/internal/pkg/metrics"
)

// WarningEventPublishFailed is attached to a registration whose user-created
// event could not be delivered.
const WarningEventPublishFailed = "event_publish_failed"

// InputValidator checks a request struct against its rules.
type InputValidator interface {
	Validate(i any) error
}

// Provisioner creates a user for a client mail unless one exists.
type Provisioner interface {
	ProvisionIfAbsent(ctx context.Context, mail, phone string) (*ProvisionResult, error)
}

// ClientServiceOptions tunes the registration workflow.
type ClientServiceOptions struct {
	// SurfacePublishFailures adds a warning to the registration result when
	// the event cannot be published. When false the failure is only logged.
	SurfacePublishFailures bool
}

// ClientService implements the client use cases. Registration is two-phase:
// the client (and user) rows are written durably first, then the event is
// published best-effort. Nothing after the client insert rolls it back.
type ClientService struct {
	clients     ports.ClientRepository
	provisioner Provisioner
	publisher   ports.EventPublisher
	validator   InputValidator
	opts        ClientServiceOptions
	now         func() time.Time
	log         zerolog.Logger
}

func NewClientService(
	clients ports.ClientRepository,
	provisioner Provisioner,
	publisher ports.EventPublisher,
	validator InputValidator,
	opts ClientServiceOptions,
	log zerolog.Logger,
) *ClientService {
	return &ClientService{
		clients:     clients,
		provisioner: provisioner,
		publisher:   publisher,
		validator:   validator,
		opts:        opts,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

func (s *ClientService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.clients.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (s *ClientService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// RegisterClient validates the input, creates the client, provisions its
// user and publishes the user-created event.
//
// Once the client row exists the returned result is non-nil. A provisioning
// failure is reported as *domain.PartialSuccessError alongside that result; a
// publish failure only adds a warning.
func (s *ClientService) RegisterClient(ctx context.Context, in ports.CreateClientInput) (res *ports.RegistrationResult, err error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.ClientsRegisteredTotal.WithLabelValues(outcome).Inc()
		metrics.RegistrationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	if err := s.validator.Validate(in); err != nil {
		outcome = "invalid"
		return nil, err
	}

	existing, err := s.clients.FindByMail(ctx, in.Mail)
	switch {
	case err == nil && existing != nil:
		outcome = "conflict"
		return nil, domain.ErrMailTaken
	case err != nil && !errors.Is(err, domain.ErrClientNotFound):
		return nil, fmt.Errorf("register client: check mail: %w", err)
	}

	client, err := s.clients.Create(ctx, &domain.Client{
		Name:         in.Name,
		LastName:     in.LastName,
		BirthDate:    in.BirthDate,
		Direction:    in.Direction,
		Mail:         in.Mail,
		Phone:        in.Phone,
		Status:       true,
		CreationDate: s.now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrMailTaken) {
			outcome = "conflict"
			return nil, domain.ErrMailTaken
		}
		return nil, fmt.Errorf("register client: create: %w", err)
	}
	s.log.Info().Str("client_id", client.ID).Str("mail", client.Mail).Msg("client created")

	res = &ports.RegistrationResult{Client: client}

	prov, err := s.provisioner.ProvisionIfAbsent(ctx, client.Mail, client.Phone)
	if err != nil {
		outcome = "partial"
		res.Provision = ports.ProvisionFailed
		s.log.Error().Err(err).Str("client_id", client.ID).Msg("user provisioning failed after client was created")
		return res, &domain.PartialSuccessError{Stage: domain.StageProvisionUser, Err: err}
	}
	res.Provision = prov.Outcome
	res.User = prov.User

	if prov.Outcome == ports.ProvisionCreated {
		s.publishUserCreated(ctx, res)
	}

	outcome = "created"
	return res, nil
}

// publishUserCreated emits the event for a freshly provisioned user. Failures
// never propagate: they are logged and, when configured, attached as a warning.
func (s *ClientService) publishUserCreated(ctx context.Context, res *ports.RegistrationResult) {
	u := res.User
	event := &domain.UserCreatedEvent{
		EventID:      uuid.NewString(),
		Type:         domain.EventTypeUserCreated,
		UserID:       u.ID,
		Username:     u.Username,
		Phone:        u.Phone,
		RoleID:       u.RoleID,
		CreationDate: u.CreationDate,
		OccurredAt:   s.now(),
	}

	if err := s.publisher.PublishUserCreated(ctx, event); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).
			Str("event_id", event.EventID).
			Str("username", u.Username).
			Msg("failed to publish user created event")
		if s.opts.SurfacePublishFailures {
			res.Warnings = append(res.Warnings, ports.Warning{
				Code:    WarningEventPublishFailed,
				Message: "user created event could not be published",
			})
		}
		return
	}

	metrics.EventsPublishedTotal.WithLabelValues("ok").Inc()
	s.log.Debug().Str("event_id", event.EventID).Str("username", u.Username).Msg("user created event published")
}

// UpdateClient applies the supplied fields to the client. Omitted fields are
// left untouched; supplied empty strings are stored as given.
func (s *ClientService) UpdateClient(ctx context.Context, id string, in ports.UpdateClientInput) (*domain.Client, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	patch := domain.ClientPatch{
		Name:      in.Name,
		LastName:  in.LastName,
		BirthDate: in.BirthDate,
		Direction: in.Direction,
		Mail:      in.Mail,
		Phone:     in.Phone,
	}
	current, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	if patch.IsEmpty() {
		return current, nil
	}

	if patch.Mail != nil && *patch.Mail != current.Mail {
		other, err := s.clients.FindByMail(ctx, *patch.Mail)
		switch {
		case err == nil && other.ID != id:
			return nil, domain.ErrMailTaken
		case err != nil && !errors.Is(err, domain.ErrClientNotFound):
			return nil, fmt.Errorf("update client: check mail: %w", err)
		}
	}

	updated, err := s.clients.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	s.log.Info().Str("client_id", id).Msg("client updated")
	return updated, nil
}

// DeactivateClient soft-deletes the client. A second call returns
// domain.ErrClientInactive.
func (s *ClientService) DeactivateClient(ctx context.Context, id string) (*domain.Client, error) {
	c, err := s.clients.Deactivate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deactivate client: %w", err)
	}
	metrics.ClientsDeactivatedTotal.Inc()
	s.log.Info().Str("client_id", id).Msg("client deactivated")
	return c, nil
}
