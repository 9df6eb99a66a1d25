package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/bandhan-app/matrimony/internal/domain/enums"
	"github.com/bandhan-app/matrimony/internal/domain/model"
	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
	userssvc "github.com/bandhan-app/matrimony/internal/services/users"
)

func TestAdminUsersAttachesProfiles(t *testing.T) {
	users := userListStub{items: []model.User{
		{ID: 1, Username: "admin", IsAdmin: true, Role: enums.RoleAdmin},
		{ID: 2, Username: "priya_sharma", Role: enums.RoleUser},
	}}
	profiles := profileByUserStub{items: []model.Profile{
		{ID: 10, UserID: 2, FullName: "Priya Sharma", Age: 26},
	}}
	handler := NewAdminHandler(userssvc.NewService(users, profiles))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users?limit=10", nil)
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: 1,
		SID:    "sid-1",
		Role:   enums.RoleAdmin,
	}))
	rr := httptest.NewRecorder()

	handler.Users(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var response []model.UserWithProfile
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(response) != 2 {
		t.Fatalf("expected two users, got %d", len(response))
	}
	if response[0].Profile != nil {
		t.Fatalf("admin has no profile, got %+v", response[0].Profile)
	}
	if response[1].Profile == nil || response[1].Profile.FullName != "Priya Sharma" {
		t.Fatalf("unexpected profile for user 2: %+v", response[1].Profile)
	}
}

func TestAdminUsersRejectsNegativeOffset(t *testing.T) {
	handler := NewAdminHandler(userssvc.NewService(userListStub{}, profileByUserStub{}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users?offset=-1", nil)
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: 1,
		SID:    "sid-1",
		Role:   enums.RoleAdmin,
	}))
	rr := httptest.NewRecorder()

	handler.Users(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestAdminHealthReturnsIdentity(t *testing.T) {
	handler := NewAdminHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/health", nil)
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: 7,
		SID:    "sid-7",
		Role:   enums.RoleAdmin,
	}))
	rr := httptest.NewRecorder()

	handler.Health(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}
}

type userListStub struct {
	items []model.User
}

func (s userListStub) List(_ context.Context, limit, offset int) ([]model.User, error) {
	if offset >= len(s.items) {
		return nil, nil
	}
	end := min(offset+limit, len(s.items))
	return s.items[offset:end], nil
}

type profileByUserStub struct {
	items []model.Profile
}

func (s profileByUserStub) ListByUserIDs(_ context.Context, userIDs []int64) ([]model.Profile, error) {
	wanted := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}
	out := make([]model.Profile, 0, len(s.items))
	for _, p := range s.items {
		if _, ok := wanted[p.UserID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func withURLParam(ctx context.Context, key, value string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

func withIdentity(r *http.Request, userID int64) *http.Request {
	return r.WithContext(authsvc.WithIdentity(r.Context(), authsvc.Identity{
		UserID: userID,
		SID:    "sid-test",
		Role:   enums.RoleUser,
	}))
}
