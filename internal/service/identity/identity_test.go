package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

func TestIssueAndResolve(t *testing.T) {
	s := New("secret", "rideshare-auth")
	actor := &models.Actor{ID: uuid.New(), Role: types.RoleDriver, ApprovedToDrive: true, Name: "Aidos", Phone: "+77010000001"}

	token, err := s.Issue(actor, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := s.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if *got != *actor {
		t.Fatalf("expected %+v, got %+v", actor, got)
	}
}

func TestResolveRejects(t *testing.T) {
	s := New("secret", "rideshare-auth")
	rider := &models.Actor{ID: uuid.New(), Role: types.RoleRider}

	valid, err := s.Issue(rider, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	expired, err := s.Issue(rider, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	otherIssuer, err := New("secret", "someone-else").Issue(rider, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	badRole, err := s.Issue(&models.Actor{ID: uuid.New(), Role: "pilot"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: types.RoleRider}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-token", ErrInvalidToken},
		{"wrong secret", mustIssue(t, New("other", "rideshare-auth"), rider), ErrInvalidToken},
		{"expired", expired, ErrExpToken},
		{"wrong issuer", otherIssuer, ErrInvalidToken},
		{"unknown role", badRole, ErrInvalidRole},
		{"alg none", none, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Resolve(context.Background(), tt.token)
			if !errors.Is(err, types.ErrUnauthenticated) {
				t.Fatalf("expected unauthenticated, got %v", err)
			}
			if te := types.AsError(err); te.Message != types.AsError(tt.want).Message {
				t.Fatalf("expected %q, got %q", types.AsError(tt.want).Message, te.Message)
			}
		})
	}

	if _, err := s.Resolve(context.Background(), valid); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
}

func TestUnapprovedFlagIgnoredForRiders(t *testing.T) {
	s := New("secret", "")
	token := mustIssue(t, s, &models.Actor{ID: uuid.New(), Role: types.RoleRider, ApprovedToDrive: true})

	got, err := s.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ApprovedToDrive {
		t.Fatalf("rider resolved as approved driver")
	}
}

func mustIssue(t *testing.T, s *Service, a *models.Actor) string {
	t.Helper()
	token, err := s.Issue(a, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return token
}
