package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/custodia-labs/credentials-core/internal/adapters/driven/auth"
	"github.com/custodia-labs/credentials-core/internal/core/domain"
	"github.com/custodia-labs/credentials-core/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/credentials-core/internal/core/services"
)

// Mock services for testing

type mockAuthService struct {
	registerFn func(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	loginFn    func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error)
}

func (m *mockAuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

func newTestServer(authService *mockAuthService, store Pinger) *Server {
	cfg := DefaultConfig()
	cfg.Version = "test"
	return NewServer(cfg, authService, store, nil)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

const validRegisterBody = `{"email":"a@b.com","password":"pw","name":"A","birthDate":"1990-01-01"}`

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&mockAuthService{}, nil)

	rr := doRequest(t, s, "GET", "/health", "")

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	var resp StatusResponse
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name       string
		store      Pinger
		wantStatus int
	}{
		{"store reachable", &mockPinger{}, http.StatusOK},
		{"store unreachable", &mockPinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable},
		{"no store", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&mockAuthService{}, tt.store)

			rr := doRequest(t, s, "GET", "/ready", "")

			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if strings.Contains(rr.Body.String(), "connection refused") {
				t.Error("store error leaked into readiness response")
			}
		})
	}
}

func TestHandleVersion(t *testing.T) {
	s := newTestServer(&mockAuthService{}, nil)

	rr := doRequest(t, s, "GET", "/version", "")

	var resp VersionResponse
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Version != "test" {
		t.Errorf("expected version test, got %s", resp.Version)
	}
}

func TestHandleMetrics(t *testing.T) {
	s := newTestServer(&mockAuthService{}, nil)
	_ = doRequest(t, s, "GET", "/health", "")

	rr := doRequest(t, s, "GET", "/metrics", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "credentials_http_requests_total") {
		t.Error("expected http request counter in metrics output")
	}
}

func TestHandleSwaggerDoc(t *testing.T) {
	s := newTestServer(&mockAuthService{}, nil)

	rr := doRequest(t, s, "GET", "/swagger/doc.json", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc is not valid JSON: %v", err)
	}
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/auth/register"]; !ok {
		t.Error("expected /auth/register in OpenAPI paths")
	}
}

func TestHandleRegister(t *testing.T) {
	created := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	var got domain.RegisterRequest
	authService := &mockAuthService{
		registerFn: func(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
			got = req
			return &domain.User{
				ID:        "user-1",
				Email:     req.Email,
				Password:  "$2a$10$secret-hash",
				Name:      req.Name,
				BirthDate: req.BirthDate,
				CreatedAt: created,
				UpdatedAt: created,
			}, nil
		},
	}
	s := newTestServer(authService, nil)

	rr := doRequest(t, s, "POST", "/api/v1/auth/register", validRegisterBody)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if got.BirthDate != domain.NewDate(1990, time.January, 1) {
		t.Errorf("expected parsed birth date, got %s", got.BirthDate)
	}

	body := rr.Body.String()
	if strings.Contains(body, "secret-hash") || strings.Contains(body, "password") {
		t.Errorf("password hash leaked in response: %s", body)
	}

	var view map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view["id"] != "user-1" || view["birthDate"] != "1990-01-01" {
		t.Errorf("unexpected view %v", view)
	}
	if v, ok := view["deletedAt"]; !ok || v != nil {
		t.Errorf("expected deletedAt null, got %v", v)
	}
}

func TestHandleRegister_Errors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"duplicate", domain.ErrDuplicateAccount, http.StatusBadRequest, "User already exists"},
		{"masked failure", domain.ErrRegistrationFailed, http.StatusInternalServerError, "Failed to register user"},
		{"unclassified", errors.New("pq: boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&mockAuthService{
				registerFn: func(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
					return nil, tt.err
				},
			}, nil)

			rr := doRequest(t, s, "POST", "/api/v1/auth/register", validRegisterBody)

			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			resp := decodeError(t, rr)
			if resp.StatusCode != tt.wantStatus || resp.Message != tt.wantMessage {
				t.Errorf("expected {%d %q}, got %+v", tt.wantStatus, tt.wantMessage, resp)
			}
		})
	}
}

func TestHandleRegister_Validation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{"malformed json", `{"email":`, "invalid request body"},
		{"invalid date", `{"email":"a@b.com","password":"pw","name":"A","birthDate":"not-a-date"}`, "birthDate must be a valid ISO 8601 date string"},
		{"non-string date", `{"email":"a@b.com","password":"pw","name":"A","birthDate":19900101}`, "birthDate must be a valid ISO 8601 date string"},
		{"missing email", `{"password":"pw","name":"A","birthDate":"1990-01-01"}`, "email is required"},
		{"bad email", `{"email":"nope","password":"pw","name":"A","birthDate":"1990-01-01"}`, "email must be an email"},
		{"missing birth date", `{"email":"a@b.com","password":"pw","name":"A"}`, "birthDate is required"},
		{"password too long", `{"email":"a@b.com","password":"` + strings.Repeat("x", 61) + `","name":"A","birthDate":"1990-01-01"}`, "password must be at most 60 characters"},
		{"name too long", `{"email":"a@b.com","password":"pw","name":"` + strings.Repeat("n", 86) + `","birthDate":"1990-01-01"}`, "name must be at most 85 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			s := newTestServer(&mockAuthService{
				registerFn: func(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
					called = true
					return nil, nil
				},
			}, nil)

			rr := doRequest(t, s, "POST", "/api/v1/auth/register", tt.body)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rr.Code)
			}
			if called {
				t.Error("service must not be called for invalid input")
			}
			resp := decodeError(t, rr)
			if !strings.Contains(resp.Message, tt.wantMessage) {
				t.Errorf("expected message containing %q, got %q", tt.wantMessage, resp.Message)
			}
		})
	}
}

func TestHandleRegister_ISODateTimeForms(t *testing.T) {
	for _, birthDate := range []string{
		"1990-01-01T00:00:00",
		"1990-01-01T00:00",
		"1990-01-01T00:00:00.000+0000",
		"1990-01-01T00:00:00.000Z",
	} {
		t.Run(birthDate, func(t *testing.T) {
			var got domain.Date
			s := newTestServer(&mockAuthService{
				registerFn: func(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
					got = req.BirthDate
					return &domain.User{ID: "user-1", Email: req.Email, Name: req.Name, BirthDate: req.BirthDate}, nil
				},
			}, nil)

			body := `{"email":"a@b.com","password":"pw","name":"A","birthDate":"` + birthDate + `"}`
			rr := doRequest(t, s, "POST", "/api/v1/auth/register", body)

			if rr.Code != http.StatusCreated {
				t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
			}
			if got != domain.NewDate(1990, time.January, 1) {
				t.Errorf("expected 1990-01-01, got %s", got)
			}
		})
	}
}

func TestHandleRegister_LongMultibytePassword(t *testing.T) {
	hasher := auth.NewAdapterWithCost("secret", time.Hour, bcrypt.MinCost)
	svc := services.NewAuthService(mocks.NewMockUserStore(), hasher, hasher)
	s := NewServer(DefaultConfig(), svc, nil, nil)
	password := strings.Repeat("é", 60)

	body := `{"email":"a@b.com","password":"` + password + `","name":"A","birthDate":"1990-01-01"}`
	rr := doRequest(t, s, "POST", "/api/v1/auth/register", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(t, s, "POST", "/api/v1/auth/login", `{"email":"a@b.com","password":"`+password+`"}`)
	if rr.Code != http.StatusOK {
		t.Errorf("expected login status 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleLogin(t *testing.T) {
	s := newTestServer(&mockAuthService{
		loginFn: func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
			if req.Email != "a@b.com" || req.Password != "pw" {
				t.Errorf("unexpected request %+v", req)
			}
			return &domain.LoginResult{Token: "signed-token"}, nil
		},
	}, nil)

	rr := doRequest(t, s, "POST", "/api/v1/auth/login", `{"email":"a@b.com","password":"pw"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp LoginResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Token != "signed-token" {
		t.Errorf("expected token in data envelope, got %+v", resp)
	}
}

func TestHandleLogin_Errors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"unknown user", domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"wrong password", domain.ErrInvalidCredentials, http.StatusBadRequest, "Invalid password"},
		{"masked failure", domain.ErrLoginFailed, http.StatusInternalServerError, "Failed to login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&mockAuthService{
				loginFn: func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
					return nil, tt.err
				},
			}, nil)

			rr := doRequest(t, s, "POST", "/api/v1/auth/login", `{"email":"a@b.com","password":"pw"}`)

			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			resp := decodeError(t, rr)
			if resp.Message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, resp.Message)
			}
		})
	}
}

func TestHandleLogin_InvalidBody(t *testing.T) {
	s := newTestServer(&mockAuthService{}, nil)

	rr := doRequest(t, s, "POST", "/api/v1/auth/login", "not json")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleLogin_BodyTooLarge(t *testing.T) {
	s := newTestServer(&mockAuthService{}, nil)
	body := `{"email":"a@b.com","password":"` + string(bytes.Repeat([]byte("x"), maxBodyBytes)) + `"}`

	rr := doRequest(t, s, "POST", "/api/v1/auth/login", body)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	s := newTestServer(&mockAuthService{}, nil)

	rr := doRequest(t, s, "GET", "/api/v1/auth/login", "")

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rr.Code)
	}
}
