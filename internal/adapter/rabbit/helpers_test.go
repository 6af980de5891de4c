package rabbit

import (
	"context"
	"errors"
	"testing"
)

func TestRetry(t *testing.T) {
	calls := 0
	err := retry(context.Background(), 3, 0, func() error {
		calls++
		if calls < 2 {
			return errors.New("channel closed")
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Fatalf("expected success on second call, got %v after %d calls", err, calls)
	}

	calls = 0
	err = retry(context.Background(), 3, 0, func() error {
		calls++
		return errors.New("down")
	})
	if err == nil || calls != 3 {
		t.Fatalf("expected failure after 3 calls, got %v after %d calls", err, calls)
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_ = retry(ctx, 5, 0, func() error {
		calls++
		return errors.New("down")
	})
	if calls != 1 {
		t.Fatalf("expected 1 call after cancel, got %d", calls)
	}
}
