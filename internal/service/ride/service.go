package ride

import (
	"strings"
	"time"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/internal/service/ridecalc"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
	"github.com/Temutjin2k/ride-share-system/pkg/trm"
)

const defaultReason = "No reason provided"

type Config struct {
	// MaxWriteAttempts bounds optimistic retries of a single operation.
	MaxWriteAttempts int
	UpstreamAttempts int
	UpstreamTimeout  time.Duration
	UpstreamBackoff  time.Duration
	// Defaults apply when the policy store has no value for a key.
	Defaults models.Policy
}

func DefaultPolicy() models.Policy {
	return models.Policy{
		CommissionRate:           0.15,
		BookingLeadTime:          10 * time.Minute,
		RiderCancellationCutoff:  2 * time.Hour,
		DriverCancellationCutoff: 4 * time.Hour,
		BookingAvailable:         true,
	}
}

func DefaultConfig() Config {
	return Config{
		MaxWriteAttempts: 3,
		UpstreamAttempts: 2,
		UpstreamTimeout:  5 * time.Second,
		UpstreamBackoff:  100 * time.Millisecond,
		Defaults:         DefaultPolicy(),
	}
}

// RideService is the seat inventory and lifecycle engine.
type RideService struct {
	rides   RideRepo
	drivers DriverRepo
	policy  PolicyStore
	geo     GeoOracle
	calc    FareCalculator
	trm     trm.TxManager
	logger  logger.Logger
	cfg     Config
	now     func() time.Time

	// optional collaborators, nil disables them
	events    EventRepo
	publisher Publisher
	inventory InventoryNotifier
}

type Option func(*RideService)

func WithClock(now func() time.Time) Option {
	return func(s *RideService) { s.now = now }
}

func WithEventRepo(r EventRepo) Option {
	return func(s *RideService) { s.events = r }
}

func WithPublisher(p Publisher) Option {
	return func(s *RideService) { s.publisher = p }
}

func WithInventoryNotifier(n InventoryNotifier) Option {
	return func(s *RideService) { s.inventory = n }
}

func WithCalculator(c FareCalculator) Option {
	return func(s *RideService) { s.calc = c }
}

func NewRideService(
	rides RideRepo,
	drivers DriverRepo,
	policy PolicyStore,
	geo GeoOracle,
	trm trm.TxManager,
	logger logger.Logger,
	cfg Config,
	opts ...Option,
) *RideService {
	def := DefaultConfig()
	if cfg.MaxWriteAttempts <= 0 {
		cfg.MaxWriteAttempts = def.MaxWriteAttempts
	}
	if cfg.UpstreamAttempts <= 0 {
		cfg.UpstreamAttempts = def.UpstreamAttempts
	}
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = def.UpstreamTimeout
	}
	if cfg.UpstreamBackoff < 0 {
		cfg.UpstreamBackoff = 0
	}
	if cfg.Defaults == (models.Policy{}) {
		cfg.Defaults = def.Defaults
	}

	s := &RideService{
		rides:   rides,
		drivers: drivers,
		policy:  policy,
		geo:     geo,
		calc:    ridecalc.New(),
		trm:     trm,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func requireRole(actor *models.Actor, role types.UserRole) error {
	if actor.IsAnonymous() {
		return types.ErrUnauthenticated
	}
	if actor.Role != role {
		if role == types.RoleDriver {
			return types.ErrNotDriver
		}
		return types.ErrNotRider
	}
	return nil
}

func requireOwner(actor *models.Actor, ride *models.Ride) error {
	if ride.DriverID != actor.ID {
		return types.ErrNotRideOwner
	}
	return nil
}

func reasonOrDefault(reason string) *string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultReason
	}
	return &reason
}
