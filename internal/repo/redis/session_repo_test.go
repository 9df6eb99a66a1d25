package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/bandhan-app/matrimony/internal/domain/enums"
	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
)

func TestSessionRepoDeleteAllForUser(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := NewSessionRepo(client)
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	for _, sid := range []string{"sid-a", "sid-b"} {
		session := authsvc.SessionRecord{SID: sid, UserID: 7, Role: enums.RoleUser, ExpiresAt: expires}
		if err := repo.Create(ctx, session, "refresh-"+sid); err != nil {
			t.Fatalf("create session %s: %v", sid, err)
		}
	}

	got, err := repo.GetByRefreshToken(ctx, "refresh-sid-a")
	if err != nil {
		t.Fatalf("get by refresh token: %v", err)
	}
	if got.SID != "sid-a" || got.UserID != 7 || got.Role != enums.RoleUser {
		t.Fatalf("unexpected session: %+v", got)
	}

	if err := repo.DeleteAllForUser(ctx, 7); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	for _, sid := range []string{"sid-a", "sid-b"} {
		if _, err := repo.GetSession(ctx, sid); !errors.Is(err, authsvc.ErrSessionNotFound) {
			t.Fatalf("session %s should be gone, got err=%v", sid, err)
		}
		if _, err := repo.GetByRefreshToken(ctx, "refresh-"+sid); !errors.Is(err, authsvc.ErrRefreshNotFound) {
			t.Fatalf("refresh for %s should be gone, got err=%v", sid, err)
		}
	}
}

func TestRateRepoWindowExpires(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := NewRateRepo(client)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		count, ttl, err := repo.IncrementWindow(ctx, "k", 10*time.Second)
		if err != nil {
			t.Fatalf("increment #%d: %v", i, err)
		}
		if count != int64(i) {
			t.Fatalf("unexpected count: got %d want %d", count, i)
		}
		if ttl <= 0 {
			t.Fatalf("expected positive ttl, got %s", ttl)
		}
	}

	mr.FastForward(11 * time.Second)

	count, _, err := repo.WindowState(ctx, "k")
	if err != nil {
		t.Fatalf("window state: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty window after expiry, got %d", count)
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
