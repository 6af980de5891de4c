package wrap

import (
	"context"
	"errors"
	"testing"
)

func TestErrorCarriesLogCtx(t *testing.T) {
	ctx := WithAction(context.Background(), "book_seats")
	ctx = WithRideID(ctx, "ride-1")

	base := errors.New("boom")
	err := Error(ctx, base)
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error must unwrap to the original")
	}

	got := ErrorCtx(context.Background(), err)
	lc, ok := got.Value(LogCtxKey).(LogCtx)
	if !ok {
		t.Fatalf("log ctx was not restored")
	}
	if lc.Action != "book_seats" || lc.RideID != "ride-1" {
		t.Fatalf("unexpected log ctx: %+v", lc)
	}
}

func TestErrorRewrapRefreshesCtx(t *testing.T) {
	first := Error(WithAction(context.Background(), "first"), errors.New("boom"))
	second := Error(WithAction(context.Background(), "second"), first)

	if second.Error() != "boom" {
		t.Fatalf("message changed on rewrap: %q", second.Error())
	}
	lc := ErrorCtx(context.Background(), second).Value(LogCtxKey).(LogCtx)
	if lc.Action != "second" {
		t.Fatalf("expected refreshed action, got %q", lc.Action)
	}
}

func TestWithLogCtxMerges(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithLogCtx(ctx, LogCtx{UserID: "user-1"})

	if GetRequestID(ctx) != "req-1" {
		t.Fatalf("request id lost on merge")
	}
	if fromCtx(ctx).UserID != "user-1" {
		t.Fatalf("user id not set")
	}
}

func TestErrorNil(t *testing.T) {
	if Error(context.Background(), nil) != nil {
		t.Fatalf("nil error must stay nil")
	}
}
