package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campushub.events/models"
	"campushub.events/pkg/queryparams"
	"campushub.events/services"

	"github.com/gofiber/fiber/v2"
)

// fakeAuthService counts calls so tests can prove a rejected request never
// reached the service layer.
type fakeAuthService struct {
	registerCalls int
}

func (f *fakeAuthService) Register(_ context.Context, _ services.RegisterInput) (*models.User, error) {
	f.registerCalls++
	return &models.User{FullName: "Stub"}, nil
}

func (f *fakeAuthService) VerifyEmail(context.Context, string, string) (*models.User, error) {
	return nil, nil
}
func (f *fakeAuthService) ResendVerification(context.Context, string) error { return nil }

func (f *fakeAuthService) Login(context.Context, string, string) (string, *models.User, error) {
	return "", nil, nil
}

func (f *fakeAuthService) ForgotPassword(context.Context, string) error { return nil }

func (f *fakeAuthService) ResetPassword(context.Context, string, string, string) error {
	return nil
}

func (f *fakeAuthService) ChangePassword(context.Context, uint, string, string) error { return nil }

func (f *fakeAuthService) GetProfile(context.Context, uint) (*models.User, error) { return nil, nil }

func (f *fakeAuthService) UpdateProfile(context.Context, uint, string, *string) (*models.User, error) {
	return nil, nil
}

var _ services.IAuthService = (*fakeAuthService)(nil)

// fakeEventService counts lookups for the path-parameter guard test.
type fakeEventService struct {
	getCalls int
}

func (f *fakeEventService) Create(context.Context, uint, services.EventInput) (*models.Event, error) {
	return nil, nil
}

func (f *fakeEventService) GetByID(context.Context, uint) (*models.Event, error) {
	f.getCalls++
	return &models.Event{Title: "Stub"}, nil
}

func (f *fakeEventService) ListUpcomingApproved(context.Context, queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	return &queryparams.PaginatedResult{}, nil
}

func (f *fakeEventService) ListForOwner(context.Context, uint, queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	return &queryparams.PaginatedResult{}, nil
}

func (f *fakeEventService) ListAll(context.Context, models.EventStatus, queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	return &queryparams.PaginatedResult{}, nil
}

func (f *fakeEventService) Update(context.Context, uint, *models.User, services.EventInput) (*models.Event, error) {
	return nil, nil
}
func (f *fakeEventService) Approve(context.Context, uint) (*models.Event, error) { return nil, nil }

func (f *fakeEventService) Reject(context.Context, uint, string) (*models.Event, error) {
	return nil, nil
}

func (f *fakeEventService) Cancel(context.Context, uint, *models.User) error { return nil }

func (f *fakeEventService) Complete(context.Context, uint, *models.User) error { return nil }

func (f *fakeEventService) Delete(context.Context, uint, *models.User) error { return nil }

var _ services.IEventService = (*fakeEventService)(nil)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func postJSON(t *testing.T, app *fiber.App, path, payload string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewBufferString(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp
}

// A rejected body must stop the request before the service runs; the 4xx
// written for it must be the response the client sees.
func TestRegisterRejectsInvalidBody(t *testing.T) {
	fake := &fakeAuthService{}
	app := newTestApp()
	app.Post("/register", NewAuthHandlerWithService(fake).Register)

	// Validation failure: password too short.
	resp := postJSON(t, app, "/register", `{"fullName":"Alice","email":"a@campus.edu","password":"x"}`)
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Code != "VALIDATION_ERROR" {
		t.Fatalf("code = %q, want VALIDATION_ERROR", body.Code)
	}
	if fake.registerCalls != 0 {
		t.Fatalf("service called %d times on invalid payload, want 0", fake.registerCalls)
	}

	// Malformed JSON.
	resp = postJSON(t, app, "/register", `{"fullName":`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Code != "BAD_REQUEST" {
		t.Fatalf("code = %q, want BAD_REQUEST", body.Code)
	}
	if fake.registerCalls != 0 {
		t.Fatalf("service called %d times on malformed body, want 0", fake.registerCalls)
	}

	// A valid payload still goes through.
	resp = postJSON(t, app, "/register", `{"fullName":"Alice","email":"a@campus.edu","password":"hunter2hunter2"}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if fake.registerCalls != 1 {
		t.Fatalf("service called %d times on valid payload, want 1", fake.registerCalls)
	}
}

func TestEventIDGuard(t *testing.T) {
	fake := &fakeEventService{}
	app := newTestApp()
	app.Get("/events/:id", NewEventHandlerWithService(fake).Get)

	req := httptest.NewRequest(fiber.MethodGet, "/events/not-a-number", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Code != "BAD_REQUEST" {
		t.Fatalf("code = %q, want BAD_REQUEST", body.Code)
	}
	if fake.getCalls != 0 {
		t.Fatalf("service called %d times on bad id, want 0", fake.getCalls)
	}

	req = httptest.NewRequest(fiber.MethodGet, "/events/7", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if fake.getCalls != 1 {
		t.Fatalf("service called %d times on valid id, want 1", fake.getCalls)
	}
}
