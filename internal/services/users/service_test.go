package users

import (
	"context"
	"errors"
	"testing"

	"github.com/bandhan-app/matrimony/internal/domain/model"
)

type fakeUsers struct {
	users     []model.User
	lastLimit int
}

func (f *fakeUsers) List(_ context.Context, limit, offset int) ([]model.User, error) {
	f.lastLimit = limit
	if offset >= len(f.users) {
		return []model.User{}, nil
	}
	end := offset + limit
	if end > len(f.users) {
		end = len(f.users)
	}
	return f.users[offset:end], nil
}

type fakeProfiles struct {
	byUser map[int64]model.Profile
}

func (f *fakeProfiles) ListByUserIDs(_ context.Context, userIDs []int64) ([]model.Profile, error) {
	out := make([]model.Profile, 0, len(userIDs))
	for _, id := range userIDs {
		if p, ok := f.byUser[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestListWithProfilesAttachesProfiles(t *testing.T) {
	users := &fakeUsers{users: []model.User{{ID: 1, Username: "admin"}, {ID: 2, Username: "priya_sharma"}}}
	profiles := &fakeProfiles{byUser: map[int64]model.Profile{2: {ID: 20, UserID: 2, FullName: "Priya Sharma"}}}
	svc := NewService(users, profiles)

	items, err := svc.ListWithProfiles(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("list with profiles: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("unexpected count: got %d want %d", len(items), 2)
	}
	if items[0].Profile != nil {
		t.Fatalf("admin has no profile, got %+v", items[0].Profile)
	}
	if items[1].Profile == nil || items[1].Profile.FullName != "Priya Sharma" {
		t.Fatalf("unexpected profile for user 2: %+v", items[1].Profile)
	}
	if users.lastLimit != defaultListLimit {
		t.Fatalf("unexpected default limit: got %d want %d", users.lastLimit, defaultListLimit)
	}
}

func TestListWithProfilesRejectsNegativeOffset(t *testing.T) {
	svc := NewService(&fakeUsers{}, &fakeProfiles{})

	if _, err := svc.ListWithProfiles(context.Background(), 10, -1); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
