package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/client-registry/internal/core/domain"
	"github.com/99minutos/client-registry/internal/core/validation"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories. Uniqueness is enforced inside the lock, the
// same way a unique index would, so racing callers see exactly one winner.
// ---------------------------------------------------------------------------

type stubClientRepo struct {
	mu     sync.Mutex
	rows   []*domain.Client
	nextID int

	// blindMailLookup makes FindByMail always miss, reproducing the window
	// between the duplicate pre-check and the insert.
	blindMailLookup bool
	findAllErr      error
	createCalls     int
}

func newStubClientRepo() *stubClientRepo { return &stubClientRepo{} }

func cloneClient(c *domain.Client) *domain.Client {
	clone := *c
	return &clone
}

func (r *stubClientRepo) FindAll(_ context.Context) ([]*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findAllErr != nil {
		return nil, r.findAllErr
	}
	out := make([]*domain.Client, 0, len(r.rows))
	for _, c := range r.rows {
		out = append(out, cloneClient(c))
	}
	return out, nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.ID == id {
			return cloneClient(c), nil
		}
	}
	return nil, domain.ErrClientNotFound
}

func (r *stubClientRepo) FindByMail(_ context.Context, mail string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.blindMailLookup {
		return nil, domain.ErrClientNotFound
	}
	for _, c := range r.rows {
		if c.Mail == mail {
			return cloneClient(c), nil
		}
	}
	return nil, domain.ErrClientNotFound
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	for _, existing := range r.rows {
		if existing.Mail == c.Mail {
			return nil, domain.ErrMailTaken
		}
	}
	r.nextID++
	row := cloneClient(c)
	row.ID = strconv.Itoa(r.nextID)
	r.rows = append(r.rows, row)
	return cloneClient(row), nil
}

func (r *stubClientRepo) Update(_ context.Context, id string, patch domain.ClientPatch) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.rows {
		if c.ID != id {
			continue
		}
		if patch.Mail != nil {
			for _, other := range r.rows {
				if other.ID != id && other.Mail == *patch.Mail {
					return nil, domain.ErrMailTaken
				}
			}
		}
		merged := patch.ApplyTo(*c)
		r.rows[i] = &merged
		return cloneClient(&merged), nil
	}
	return nil, domain.ErrClientNotFound
}

func (r *stubClientRepo) Deactivate(_ context.Context, id string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.ID != id {
			continue
		}
		if !c.Status {
			return nil, domain.ErrClientInactive
		}
		c.Status = false
		return cloneClient(c), nil
	}
	return nil, domain.ErrClientNotFound
}

func (r *stubClientRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User

	// blindLookup makes FindByUsername always miss, forcing racing
	// provisioners onto the insert path.
	blindLookup bool
	findErr     error
	createErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.blindLookup {
		return nil, domain.ErrUserNotFound
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *user
	clone.ID = "u-" + user.Username
	r.users[user.Username] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type stubRoleRepo struct {
	mu    sync.Mutex
	roles map[string]*domain.Role
	calls int
}

func newStubRoleRepo(names ...string) *stubRoleRepo {
	r := &stubRoleRepo{roles: make(map[string]*domain.Role)}
	for i, n := range names {
		r.roles[n] = &domain.Role{ID: "r" + strconv.Itoa(i+1), RoleName: n}
	}
	return r
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	role, ok := r.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	clone := *role
	return &clone, nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []*domain.UserCreatedEvent
	err    error
}

func (p *stubPublisher) PublishUserCreated(_ context.Context, e *domain.UserCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

func (p *stubPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

var errBroker = errors.New("broker unavailable")

// ---------------------------------------------------------------------------
// Fixture wiring
// ---------------------------------------------------------------------------

type fixture struct {
	clients   *stubClientRepo
	users     *stubUserRepo
	roles     *stubRoleRepo
	publisher *stubPublisher
	svc       *ClientService
}

func newFixture(opts ClientServiceOptions, roleNames ...string) *fixture {
	if roleNames == nil {
		roleNames = []string{domain.DefaultRoleName}
	}
	f := &fixture{
		clients:   newStubClientRepo(),
		users:     newStubUserRepo(),
		roles:     newStubRoleRepo(roleNames...),
		publisher: &stubPublisher{},
	}
	prov := NewUserProvisioner(f.users, NewRoleResolver(f.roles), domain.DefaultRoleName, discardLogger)
	prov.hashCost = 4 // bcrypt.MinCost
	f.svc = NewClientService(f.clients, prov, f.publisher, validation.New(), opts, discardLogger)
	return f
}
