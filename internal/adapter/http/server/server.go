package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Temutjin2k/ride-share-system/config"
	"github.com/Temutjin2k/ride-share-system/internal/adapter/http/handler"
	"github.com/Temutjin2k/ride-share-system/internal/adapter/http/middleware"
	wshandler "github.com/Temutjin2k/ride-share-system/internal/adapter/http/ws"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/ride-share-system/pkg/wsHub"
)

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr            string
	serviceName     string
	shutdownTimeout time.Duration
	log             logger.Logger
}

type handlers struct {
	health    *handler.Health
	ride      *handler.Ride
	inventory *wshandler.InventoryHandler
}

func New(
	cfg config.Config,
	rideService handler.RideService,
	identity middleware.Resolver,
	hub *ws.ConnectionHub,
	logger logger.Logger,
) (*API, error) {
	if rideService == nil {
		return nil, errors.New("ride service is required")
	}
	if identity == nil {
		return nil, errors.New("identity resolver is required")
	}
	if hub == nil {
		return nil, errors.New("websocket hub is required")
	}

	routes := &handlers{
		health:    handler.NewHealth(cfg.ServiceName, cfg.Storage.String(), logger),
		ride:      handler.NewRide(rideService, logger),
		inventory: wshandler.NewInventoryHandler(hub, rideService, identity, cfg.ServiceName, logger),
	}

	api := &API{
		mux:             http.NewServeMux(),
		routes:          routes,
		m:               middleware.NewMiddleware(identity, logger),
		addr:            cfg.Server.Addr(),
		serviceName:     cfg.ServiceName,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		log:             logger,
	}
	if api.shutdownTimeout <= 0 {
		api.shutdownTimeout = 5 * time.Second
	}

	setupRoutes(api.mux, api.routes, api.m)

	api.server = &http.Server{
		Addr:         api.addr,
		Handler:      api.withMiddleware(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return api, nil
}

// Handler exposes the full middleware chain, used by tests.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.shutdownTimeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.Metrics(a.serviceName)(a.m.RequestID(a.m.Logging(a.m.Auth(a.mux)))))
}
