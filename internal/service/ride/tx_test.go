package ride

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/Temutjin2k/ride-share-system/internal/adapter/memory"
	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
)

type countingTx struct {
	*memory.TxManager
	readOnly atomic.Int32
}

func (c *countingTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	c.readOnly.Add(1)
	return c.TxManager.DoReadOnly(ctx, fn)
}

func TestReadsUseReadOnlyTx(t *testing.T) {
	e := newEnv(t)
	tx := &countingTx{TxManager: memory.NewTxManager()}
	svc := NewRideService(e.rides, e.drivers, e.policy, e.geo, tx, logger.Nop(), DefaultConfig(), WithClock(e.clock.Now))
	driver := newDriver()
	e.postRide(t, driver, 2, 100)
	ctx := context.Background()

	list, err := svc.GetActiveRides(ctx, models.RideFilter{})
	if err != nil {
		t.Fatalf("active rides: %v", err)
	}
	if len(list.Rides) != 1 {
		t.Fatalf("expected 1 ride, got %d", len(list.Rides))
	}
	if _, err := svc.GetDriverEarnings(ctx, driver); err != nil {
		t.Fatalf("earnings: %v", err)
	}
	if got := tx.readOnly.Load(); got != 2 {
		t.Fatalf("expected 2 read-only transactions, got %d", got)
	}
}
