package microservices

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Temutjin2k/ride-share-system/config"
	"github.com/Temutjin2k/ride-share-system/internal/adapter/http/server"
	wshandler "github.com/Temutjin2k/ride-share-system/internal/adapter/http/ws"
	"github.com/Temutjin2k/ride-share-system/internal/adapter/locationIQ"
	"github.com/Temutjin2k/ride-share-system/internal/adapter/memory"
	repo "github.com/Temutjin2k/ride-share-system/internal/adapter/postgres"
	rabbitadapter "github.com/Temutjin2k/ride-share-system/internal/adapter/rabbit"
	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/internal/service/identity"
	"github.com/Temutjin2k/ride-share-system/internal/service/ride"
	"github.com/Temutjin2k/ride-share-system/internal/service/ridecalc"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-share-system/pkg/postgres"
	"github.com/Temutjin2k/ride-share-system/pkg/rabbit"
	"github.com/Temutjin2k/ride-share-system/pkg/trm"
	ws "github.com/Temutjin2k/ride-share-system/pkg/wsHub"
)

// RideService owns every long lived resource of the booking service.
type RideService struct {
	postgresDB *postgres.PostgreDB
	rabbitMQ   *rabbit.RabbitMQ
	hub        *ws.ConnectionHub
	httpServer *server.API
	cfg        config.Config
	log        logger.Logger
}

type stores struct {
	rides   ride.RideRepo
	drivers ride.DriverRepo
	policy  ride.PolicyStore
	events  ride.EventRepo
	tx      trm.TxManager
}

func NewRide(ctx context.Context, cfg config.Config, log logger.Logger) (*RideService, error) {
	ctx = wrap.WithAction(ctx, "ride_service_init")
	s := &RideService{cfg: cfg, log: log}

	st, err := s.setupStorage(ctx)
	if err != nil {
		s.close(ctx)
		return nil, err
	}

	geo, err := locationIQ.New(locationIQ.Config{
		APIKey:    cfg.ExternalAPI.LocationIQapiKey,
		BaseURL:   cfg.ExternalAPI.LocationIQBaseURL,
		Timeout:   cfg.ExternalAPI.LocationIQTimeout,
		RouteMode: cfg.ExternalAPI.RouteMode,
	}, ridecalc.New())
	if err != nil {
		log.Error(ctx, "Failed to setup locationiq client", err)
		s.close(ctx)
		return nil, err
	}

	s.hub = ws.NewConnHub(log)

	opts := []ride.Option{
		ride.WithEventRepo(st.events),
		ride.WithInventoryNotifier(wshandler.NewInventoryBroadcaster(s.hub, log)),
	}

	if cfg.RabbitMQ.Enabled {
		s.rabbitMQ, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), rabbitadapter.Topology, log)
		if err != nil {
			log.Error(ctx, "Failed to connect to rabbitmq", err)
			s.close(ctx)
			return nil, err
		}
		opts = append(opts, ride.WithPublisher(rabbitadapter.NewRideBroker(s.rabbitMQ, log)))
	}

	rideService := ride.NewRideService(
		st.rides,
		st.drivers,
		st.policy,
		geo,
		st.tx,
		log,
		engineConfig(cfg),
		opts...,
	)

	s.httpServer, err = server.New(cfg, rideService, identity.New(cfg.Auth.JWTSecret, cfg.Auth.Issuer), s.hub, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		s.close(ctx)
		return nil, err
	}

	return s, nil
}

func (s *RideService) setupStorage(ctx context.Context) (*stores, error) {
	switch s.cfg.Storage {
	case types.StorageMemory:
		s.log.Warn(ctx, "using in-memory storage, data will not survive a restart")
		return &stores{
			rides:   memory.NewRideRepo(),
			drivers: memory.NewDriverRepo(),
			policy:  memory.NewPolicyStore(nil),
			events:  memory.NewEventRepo(),
			tx:      memory.NewTxManager(),
		}, nil

	case types.StoragePostgres:
		db, err := postgres.New(ctx, s.cfg.Database)
		if err != nil {
			s.log.Error(ctx, "Failed to setup database", err)
			return nil, err
		}
		s.postgresDB = db

		if s.cfg.Database.Migrate {
			applied, err := postgres.Migrate(ctx, db.Pool)
			if err != nil {
				s.log.Error(ctx, "Failed to apply migrations", err)
				return nil, err
			}
			s.log.Info(ctx, "database migrations applied", "count", len(applied), "files", applied)
		}

		return &stores{
			rides:   repo.NewRideRepo(db.Pool),
			drivers: repo.NewDriverRepo(db.Pool),
			policy:  repo.NewSettingRepo(db.Pool),
			events:  repo.NewRideEventRepo(db.Pool),
			tx:      trm.New(db.Pool),
		}, nil
	}

	return nil, fmt.Errorf("unknown storage %q", s.cfg.Storage)
}

func engineConfig(cfg config.Config) ride.Config {
	return ride.Config{
		MaxWriteAttempts: cfg.Booking.MaxWriteAttempts,
		UpstreamAttempts: cfg.Booking.UpstreamAttempts,
		UpstreamTimeout:  cfg.Booking.UpstreamTimeout,
		UpstreamBackoff:  cfg.Booking.UpstreamBackoff,
		Defaults:         policyDefaults(cfg.Policy),
	}
}

func policyDefaults(p config.PolicyConfig) models.Policy {
	return models.Policy{
		CommissionRate:           p.CommissionRate,
		BookingLeadTime:          minutes(p.BookingLeadTimeMinutes),
		RiderCancellationCutoff:  hours(p.RiderCancellationCutoffHours),
		DriverCancellationCutoff: hours(p.DriverCancellationCutoffHours),
		BookingAvailable:         p.IsBookingAvailable,
	}
}

func (s *RideService) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	s.httpServer.Run(ctx, errCh)
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "ride service closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "ride service has been started", "storage", s.cfg.Storage, "rabbitmq", s.cfg.RabbitMQ.Enabled)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	case <-ctx.Done():
		return nil
	}
}

// close releases resources in reverse order of creation. It tolerates partially built services.
func (s *RideService) close(ctx context.Context) {
	ctx = wrap.WithAction(context.WithoutCancel(ctx), "ride_service_close")

	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if s.hub != nil {
		s.hub.Close()
	}

	if s.rabbitMQ != nil {
		if err := s.rabbitMQ.Close(ctx); err != nil {
			s.log.Warn(ctx, "Failed to close rabbitmq connection", "error", err.Error())
		}
	}

	s.postgresDB.Close()
}
