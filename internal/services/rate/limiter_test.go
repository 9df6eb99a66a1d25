package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/bandhan-app/matrimony/internal/repo/redis"
)

func TestLimiterBlocksOnShortWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client)).
		WithRule(ActionMessage, 10*time.Second, 2).
		WithRule(ActionMessage, time.Minute, 100)

	ctx := context.Background()
	userID := int64(42)

	for i := 0; i < 2; i++ {
		retryAfter, allowed, err := limiter.Allow(ctx, ActionMessage, userID)
		if err != nil {
			t.Fatalf("allow #%d: %v", i+1, err)
		}
		if !allowed || retryAfter != 0 {
			t.Fatalf("unexpected result on allow #%d: allowed=%v retry_after=%d", i+1, allowed, retryAfter)
		}
	}

	retryAfter, allowed, err := limiter.Allow(ctx, ActionMessage, userID)
	if err != nil {
		t.Fatalf("allow #3: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on third action in 10s window")
	}
	if retryAfter <= 0 || retryAfter > 10 {
		t.Fatalf("unexpected retry_after: %d", retryAfter)
	}

	currentRetry, err := limiter.RetryAfter(ctx, ActionMessage, userID)
	if err != nil {
		t.Fatalf("retry_after state: %v", err)
	}
	if currentRetry <= 0 {
		t.Fatalf("expected positive retry_after state, got %d", currentRetry)
	}

	mr.FastForward(11 * time.Second)

	retryAfter, allowed, err = limiter.Allow(ctx, ActionMessage, userID)
	if err != nil {
		t.Fatalf("allow after 10s window: %v", err)
	}
	if !allowed || retryAfter != 0 {
		t.Fatalf("unexpected result after fast forward: allowed=%v retry_after=%d", allowed, retryAfter)
	}
}

func TestLimiterActionsAreIndependent(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client)).
		WithRule(ActionInterest, time.Minute, 1).
		WithRule(ActionMessage, time.Minute, 1)

	ctx := context.Background()
	if err := limiter.Check(ctx, ActionInterest, 7); err != nil {
		t.Fatalf("first interest: %v", err)
	}
	if err := limiter.Check(ctx, ActionMessage, 7); err != nil {
		t.Fatalf("first message must not share the interest window: %v", err)
	}

	err := limiter.Check(ctx, ActionInterest, 7)
	var tooFast *TooFastError
	if !errors.As(err, &tooFast) {
		t.Fatalf("expected TooFastError, got %v", err)
	}
	if tooFast.Action != ActionInterest || tooFast.RetryAfterSec <= 0 {
		t.Fatalf("unexpected too fast error: %+v", tooFast)
	}

	if err := limiter.Check(ctx, ActionInterest, 8); err != nil {
		t.Fatalf("other user must not be limited: %v", err)
	}
}

func TestLimiterWithoutRulesAllows(t *testing.T) {
	limiter := NewLimiter(nil).WithRule(ActionMessage, time.Minute, 0)

	for i := 0; i < 5; i++ {
		if err := limiter.Check(context.Background(), ActionMessage, 1); err != nil {
			t.Fatalf("check #%d: %v", i+1, err)
		}
	}
}

func TestCeilSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int64
	}{
		{in: 0, want: 0},
		{in: 500 * time.Millisecond, want: 1},
		{in: 2 * time.Second, want: 2},
		{in: 2100 * time.Millisecond, want: 3},
	}
	for _, tc := range tests {
		if got := ceilSeconds(tc.in); got != tc.want {
			t.Fatalf("unexpected ceil for %s: got %d want %d", tc.in, got, tc.want)
		}
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
