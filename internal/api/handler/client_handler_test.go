package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/client-registry/internal/core/domain"
	"github.com/99minutos/client-registry/internal/core/ports"
)

type stubClientService struct {
	listFn       func(ctx context.Context) ([]*domain.Client, error)
	getFn        func(ctx context.Context, id string) (*domain.Client, error)
	registerFn   func(ctx context.Context, in ports.CreateClientInput) (*ports.RegistrationResult, error)
	updateFn     func(ctx context.Context, id string, in ports.UpdateClientInput) (*domain.Client, error)
	deactivateFn func(ctx context.Context, id string) (*domain.Client, error)
}

func (s *stubClientService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return s.listFn(ctx)
}

func (s *stubClientService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.getFn(ctx, id)
}

func (s *stubClientService) RegisterClient(ctx context.Context, in ports.CreateClientInput) (*ports.RegistrationResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubClientService) UpdateClient(ctx context.Context, id string, in ports.UpdateClientInput) (*domain.Client, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubClientService) DeactivateClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.deactivateFn(ctx, id)
}

func anaClient() *domain.Client {
	return &domain.Client{
		ID:           "c1",
		Name:         "Ana",
		LastName:     "Lopez",
		BirthDate:    "1990-01-01",
		Direction:    "Calle 1",
		Mail:         "ana@x.com",
		Phone:        "5512345678",
		Status:       true,
		CreationDate: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestClientHandler_Create_Success(t *testing.T) {
	stub := &stubClientService{
		registerFn: func(ctx context.Context, in ports.CreateClientInput) (*ports.RegistrationResult, error) {
			if in.Mail != "ana@x.com" || in.LastName != "Lopez" || in.Phone != "5512345678" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.RegistrationResult{Client: anaClient(), Provision: ports.ProvisionCreated}, nil
		},
	}
	h := NewClientHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/clients",
		`{"name":"Ana","lastName":"Lopez","birthDate":"1990-01-01","direction":"Calle 1","mail":"ana@x.com","phone":"5512345678"}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data in response: %s", rec.Body.String())
	}
	if data["mail"] != "ana@x.com" || data["status"] != true || data["lastName"] != "Lopez" {
		t.Fatalf("unexpected client payload: %+v", data)
	}
	if resp["user_provisioned"] != true {
		t.Fatalf("expected user_provisioned=true, got %v", resp["user_provisioned"])
	}
	if warnings, ok := resp["warnings"].([]any); !ok || len(warnings) != 0 {
		t.Fatalf("expected empty warnings array, got %v", resp["warnings"])
	}
}

func TestClientHandler_Create_WithWarnings(t *testing.T) {
	stub := &stubClientService{
		registerFn: func(ctx context.Context, in ports.CreateClientInput) (*ports.RegistrationResult, error) {
			return &ports.RegistrationResult{
				Client:    anaClient(),
				Provision: ports.ProvisionCreated,
				Warnings:  []ports.Warning{{Code: "event_publish_failed", Message: "x"}},
			}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/clients", `{"mail":"ana@x.com"}`)

	if err := NewClientHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"code":"event_publish_failed"`) {
		t.Fatalf("warning missing from body: %s", rec.Body.String())
	}
}

func TestClientHandler_Create_InvalidPayload(t *testing.T) {
	stub := &stubClientService{
		registerFn: func(ctx context.Context, in ports.CreateClientInput) (*ports.RegistrationResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/clients", "not-json")

	err := NewClientHandler(stub).Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestClientHandler_Create_Conflict(t *testing.T) {
	stub := &stubClientService{
		registerFn: func(ctx context.Context, in ports.CreateClientInput) (*ports.RegistrationResult, error) {
			return nil, domain.ErrMailTaken
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/clients", `{"mail":"ana@x.com"}`)

	if err := NewClientHandler(stub).Create(c); !errors.Is(err, domain.ErrMailTaken) {
		t.Fatalf("expected ErrMailTaken, got %v", err)
	}
}

func TestClientHandler_Create_PartialSuccess(t *testing.T) {
	stub := &stubClientService{
		registerFn: func(ctx context.Context, in ports.CreateClientInput) (*ports.RegistrationResult, error) {
			return &ports.RegistrationResult{Client: anaClient(), Provision: ports.ProvisionFailed},
				&domain.PartialSuccessError{Stage: domain.StageProvisionUser, Err: domain.ErrDefaultRoleMissing}
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/clients", `{"mail":"ana@x.com"}`)

	if err := NewClientHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["partial"] != true {
		t.Fatalf("expected partial=true, got %v", resp["partial"])
	}
	data, _ := resp["data"].(map[string]any)
	if data["id"] != "c1" {
		t.Fatalf("expected committed client in body, got %+v", resp)
	}
}

func TestClientHandler_Create_PartialSuccessNamesStage(t *testing.T) {
	cases := map[string]string{
		domain.StageProvisionUser: "client created but user provisioning failed",
		domain.StagePublishEvent:  "client created but event publication failed",
		"notify_crm":              "client created but notify_crm failed",
	}

	for stage, want := range cases {
		t.Run(stage, func(t *testing.T) {
			stub := &stubClientService{
				registerFn: func(ctx context.Context, in ports.CreateClientInput) (*ports.RegistrationResult, error) {
					return &ports.RegistrationResult{Client: anaClient()},
						&domain.PartialSuccessError{Stage: stage, Err: errors.New("x")}
				},
			}
			c, rec := newJSONContext(http.MethodPost, "/clients", `{"mail":"ana@x.com"}`)

			if err := NewClientHandler(stub).Create(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["error"] != want {
				t.Fatalf("expected %q, got %v", want, resp["error"])
			}
		})
	}
}

func TestClientHandler_List(t *testing.T) {
	inactive := anaClient()
	inactive.ID = "c2"
	inactive.Status = false
	stub := &stubClientService{
		listFn: func(ctx context.Context) ([]*domain.Client, error) {
			return []*domain.Client{anaClient(), inactive}, nil
		},
	}
	c, rec := newJSONContext(http.MethodGet, "/clients", "")

	if err := NewClientHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[1]["status"] != false {
		t.Fatalf("unexpected list: %+v", resp)
	}
}

func TestClientHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubClientService{
		listFn: func(ctx context.Context) ([]*domain.Client, error) { return nil, nil },
	}
	c, rec := newJSONContext(http.MethodGet, "/clients", "")

	if err := NewClientHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected [], got %s", rec.Body.String())
	}
}

func TestClientHandler_Update_PassesPresenceThrough(t *testing.T) {
	stub := &stubClientService{
		updateFn: func(ctx context.Context, id string, in ports.UpdateClientInput) (*domain.Client, error) {
			if id != "c1" {
				t.Fatalf("unexpected id %q", id)
			}
			if in.Direction == nil || *in.Direction != "" {
				t.Fatalf("expected explicit empty direction, got %v", in.Direction)
			}
			if in.Name != nil || in.Mail != nil {
				t.Fatalf("omitted fields must stay nil: %+v", in)
			}
			updated := anaClient()
			updated.Direction = ""
			return updated, nil
		},
	}
	c, rec := newJSONContext(http.MethodPatch, "/clients/c1", `{"direction":""}`)
	c.SetParamNames("id")
	c.SetParamValues("c1")

	if err := NewClientHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestClientHandler_Update_NotFound(t *testing.T) {
	stub := &stubClientService{
		updateFn: func(ctx context.Context, id string, in ports.UpdateClientInput) (*domain.Client, error) {
			return nil, domain.ErrClientNotFound
		},
	}
	c, _ := newJSONContext(http.MethodPatch, "/clients/x", `{"name":"A"}`)
	c.SetParamNames("id")
	c.SetParamValues("x")

	if err := NewClientHandler(stub).Update(c); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientHandler_Delete(t *testing.T) {
	stub := &stubClientService{
		deactivateFn: func(ctx context.Context, id string) (*domain.Client, error) {
			c := anaClient()
			c.Status = false
			return c, nil
		},
	}
	c, rec := newJSONContext(http.MethodDelete, "/clients/c1", "")
	c.SetParamNames("id")
	c.SetParamValues("c1")

	if err := NewClientHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"status":false`) {
		t.Fatalf("expected inactive client, got %s", rec.Body.String())
	}
}

func TestClientHandler_Delete_AlreadyInactive(t *testing.T) {
	stub := &stubClientService{
		deactivateFn: func(ctx context.Context, id string) (*domain.Client, error) {
			return nil, domain.ErrClientInactive
		},
	}
	c, _ := newJSONContext(http.MethodDelete, "/clients/c1", "")

	if err := NewClientHandler(stub).Delete(c); !errors.Is(err, domain.ErrClientInactive) {
		t.Fatalf("expected ErrClientInactive, got %v", err)
	}
}
