package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
)

type stubResolver map[string]*models.Actor

func (s stubResolver) Resolve(_ context.Context, token string) (*models.Actor, error) {
	a, ok := s[token]
	if !ok {
		return nil, types.ErrUnauthenticated.WithMessage("invalid token")
	}
	return a, nil
}

func newTestMiddleware() (*Middleware, *models.Actor, *models.Actor) {
	driver := &models.Actor{ID: uuid.New(), Role: types.RoleDriver, ApprovedToDrive: true}
	rider := &models.Actor{ID: uuid.New(), Role: types.RoleRider}
	m := NewMiddleware(stubResolver{"driver": driver, "rider": rider}, logger.Nop())
	return m, driver, rider
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body.Error.Code
}

func TestAuth(t *testing.T) {
	m, driver, _ := newTestMiddleware()

	var seen *models.Actor
	h := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = models.ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
		actor  *models.Actor
	}{
		{name: "anonymous", header: "", status: http.StatusNoContent, actor: models.AnonymousActor},
		{name: "valid", header: "Bearer driver", status: http.StatusNoContent, actor: driver},
		{name: "lowercase scheme", header: "bearer driver", status: http.StatusNoContent, actor: driver},
		{name: "bad scheme", header: "Basic driver", status: http.StatusUnauthorized},
		{name: "missing token", header: "Bearer ", status: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/rides", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.actor != nil && seen != tt.actor {
				t.Fatalf("actor = %+v, want %+v", seen, tt.actor)
			}
			if tt.status == http.StatusUnauthorized && errorCode(t, rec) != types.ErrUnauthenticated.Code {
				t.Fatalf("code = %q", errorCode(t, rec))
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	m, _, _ := newTestMiddleware()

	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	h := m.Auth(m.RequireRoles(ok, types.RoleDriver))

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "anonymous", status: http.StatusUnauthorized},
		{name: "rider", token: "rider", status: http.StatusForbidden},
		{name: "driver", token: "driver", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/rides", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	m, _, _ := newTestMiddleware()

	var got string
	h := m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = wrap.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got != "abc-123" || rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("request id = %q, header = %q", got, rec.Header().Get("X-Request-ID"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("generated id %q is not a uuid", got)
	}
}

func TestRecover(t *testing.T) {
	m, _, _ := newTestMiddleware()
	h := m.Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRouteLabel(t *testing.T) {
	id := uuid.NewString()
	got := routeLabel("/rides/" + id + "/bookings")
	if got != "/rides/{id}/bookings" {
		t.Fatalf("routeLabel = %q", got)
	}
}
