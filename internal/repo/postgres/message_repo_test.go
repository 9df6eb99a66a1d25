package postgres_test

import (
	"context"
	"errors"
	"testing"

	pgrepo "github.com/bandhan-app/matrimony/internal/repo/postgres"
)

func TestListBetweenIsSymmetric(t *testing.T) {
	pool := newTestPool(t)
	ids := seedUsers(t, pool, 3)
	repo := pgrepo.NewMessageRepo(pool)
	ctx := context.Background()
	a, b, c := ids[0], ids[1], ids[2]

	steps := []struct {
		from, to int64
		text     string
	}{
		{a, b, "hello"},
		{b, a, "namaste"},
		{a, c, "other thread"},
		{a, b, "how are you?"},
	}
	for _, step := range steps {
		if _, err := repo.Create(ctx, step.from, step.to, step.text); err != nil {
			t.Fatalf("create %q: %v", step.text, err)
		}
	}

	ab, err := repo.ListBetween(ctx, a, b, 0, 100)
	if err != nil {
		t.Fatalf("list a-b: %v", err)
	}
	ba, err := repo.ListBetween(ctx, b, a, 0, 100)
	if err != nil {
		t.Fatalf("list b-a: %v", err)
	}
	if len(ab) != 3 || len(ba) != 3 {
		t.Fatalf("unexpected thread sizes: %d and %d", len(ab), len(ba))
	}
	for i := range ab {
		if ab[i].ID != ba[i].ID {
			t.Fatalf("threads differ at %d: %d vs %d", i, ab[i].ID, ba[i].ID)
		}
		if i > 0 && (ab[i].CreatedAt.Before(ab[i-1].CreatedAt) || ab[i].ID < ab[i-1].ID) {
			t.Fatalf("thread is not chronological at %d", i)
		}
	}
	if ab[0].Content != "hello" || ab[2].Content != "how are you?" {
		t.Fatalf("unexpected thread: %+v", ab)
	}

	newer, err := repo.ListBetween(ctx, b, a, ab[0].ID, 100)
	if err != nil {
		t.Fatalf("list after id: %v", err)
	}
	if len(newer) != 2 || newer[0].Content != "namaste" {
		t.Fatalf("unexpected messages after id %d: %+v", ab[0].ID, newer)
	}
}

func TestListBetweenCapKeepsNewest(t *testing.T) {
	pool := newTestPool(t)
	ids := seedUsers(t, pool, 2)
	repo := pgrepo.NewMessageRepo(pool)
	ctx := context.Background()

	var lastID int64
	for i := 0; i < 8; i++ {
		msg, err := repo.Create(ctx, ids[i%2], ids[(i+1)%2], "msg")
		if err != nil {
			t.Fatalf("create message %d: %v", i, err)
		}
		lastID = msg.ID
	}

	latest, err := repo.ListBetween(ctx, ids[0], ids[1], 0, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(latest) != 3 || latest[2].ID != lastID || latest[0].ID >= latest[1].ID {
		t.Fatalf("expected the newest 3 messages ascending ending at %d, got %+v", lastID, latest)
	}

	page, err := repo.ListBetween(ctx, ids[0], ids[1], lastID-7, 3)
	if err != nil {
		t.Fatalf("list after id: %v", err)
	}
	if len(page) != 3 || page[0].ID != lastID-6 || page[2].ID != lastID-4 {
		t.Fatalf("forward page must start right after the cursor: %+v", page)
	}
}

func TestMessageCreateUnknownReceiver(t *testing.T) {
	pool := newTestPool(t)
	ids := seedUsers(t, pool, 1)

	if _, err := pgrepo.NewMessageRepo(pool).Create(context.Background(), ids[0], 9999, "hi"); !errors.Is(err, pgrepo.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListConversationsMostRecentFirst(t *testing.T) {
	pool := newTestPool(t)
	ids := seedUsers(t, pool, 4)
	repo := pgrepo.NewMessageRepo(pool)
	ctx := context.Background()
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]

	for _, step := range [][2]int64{{a, b}, {c, a}, {a, b}, {b, a}, {d, c}} {
		if _, err := repo.Create(ctx, step[0], step[1], "hi"); err != nil {
			t.Fatalf("create %v: %v", step, err)
		}
	}

	convs, err := repo.ListConversations(ctx, a)
	if err != nil {
		t.Fatalf("list conversations: %v", err)
	}
	if len(convs) != 2 || convs[0].UserID != b || convs[1].UserID != c {
		t.Fatalf("expected [%d %d], got %+v", b, c, convs)
	}

	convs, err = repo.ListConversations(ctx, c)
	if err != nil {
		t.Fatalf("list conversations: %v", err)
	}
	if len(convs) != 2 || convs[0].UserID != d || convs[1].UserID != a {
		t.Fatalf("expected [%d %d], got %+v", d, a, convs)
	}

	empty, err := repo.ListConversations(ctx, 9999)
	if err != nil || len(empty) != 0 {
		t.Fatalf("unknown user must have no conversations: %+v, %v", empty, err)
	}
}
