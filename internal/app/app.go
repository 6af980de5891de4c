package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/ride-share-system/config"
	"github.com/Temutjin2k/ride-share-system/internal/app/microservices"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
)

var ErrServiceNotInitialized = errors.New("service not initialized")

type Service interface {
	Start(ctx context.Context) error
}

type App struct {
	service Service

	cfg config.Config
	log logger.Logger
}

// NewApplication
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	service, err := microservices.NewRide(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init service: %w", err)
	}

	return &App{
		service: service,
		cfg:     cfg,
		log:     log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if a.service == nil {
		return ErrServiceNotInitialized
	}

	return a.service.Start(ctx)
}
