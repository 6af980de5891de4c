package models

import (
	"context"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

// Actor is the authenticated caller as resolved from the bearer token.
type Actor struct {
	ID              uuid.UUID      `json:"id"`
	Role            types.UserRole `json:"role"`
	ApprovedToDrive bool           `json:"approved_to_drive"`
	Name            string         `json:"name"`
	Phone           string         `json:"phone"`
}

var AnonymousActor = &Actor{}

func (a *Actor) IsAnonymous() bool {
	return a == nil || a == AnonymousActor || a.ID == uuid.Nil
}

func (a *Actor) HasRole(roles ...types.UserRole) bool {
	if a.IsAnonymous() {
		return false
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

type actorCtxKey struct{}

func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, a)
}

// ActorFromContext returns the actor stored in ctx or AnonymousActor.
func ActorFromContext(ctx context.Context) *Actor {
	a, ok := ctx.Value(actorCtxKey{}).(*Actor)
	if !ok || a == nil {
		return AnonymousActor
	}
	return a
}
