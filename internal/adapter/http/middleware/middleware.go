package middleware

import (
	"context"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
)

type (
	// Resolver turns a bearer token into the calling actor.
	Resolver interface {
		Resolve(ctx context.Context, token string) (*models.Actor, error)
	}

	Middleware struct {
		identity Resolver
		log      logger.Logger
	}
)

func NewMiddleware(identity Resolver, log logger.Logger) *Middleware {
	return &Middleware{
		identity: identity,
		log:      log,
	}
}
