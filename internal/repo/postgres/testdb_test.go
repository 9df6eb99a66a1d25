package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bandhan-app/matrimony/internal/domain/model"
	pgrepo "github.com/bandhan-app/matrimony/internal/repo/postgres"
)

// newTestPool connects to POSTGRES_TEST_DSN, applies the schema and empties
// every table. Tests that need it are skipped when the variable is unset.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgrepo.NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pgrepo.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE messages, interests, profiles, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return pool
}

// seedUsers creates n users, each with a profile, and returns their ids.
func seedUsers(t *testing.T, pool *pgxpool.Pool, n int) []int64 {
	t.Helper()

	ctx := context.Background()
	users := pgrepo.NewUserRepo(pool)
	profiles := pgrepo.NewProfileRepo(pool)

	ids := make([]int64, 0, n)
	for i := 1; i <= n; i++ {
		user, err := users.Create(ctx, fmt.Sprintf("member_%d", i), "hash", false)
		if err != nil {
			t.Fatalf("create user %d: %v", i, err)
		}
		if _, err := profiles.Create(ctx, user.ID, model.Profile{
			FullName: fmt.Sprintf("Member %d", i),
			Age:      25 + i,
			Gender:   "female",
			Religion: "Hindu",
			City:     "Mumbai",
		}); err != nil {
			t.Fatalf("create profile %d: %v", i, err)
		}
		ids = append(ids, user.ID)
	}
	return ids
}
