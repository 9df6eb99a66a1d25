package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/bandhan-app/matrimony/internal/domain/model"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

var ErrValidation = errors.New("validation error")

type UserStore interface {
	List(ctx context.Context, limit, offset int) ([]model.User, error)
}

type ProfileStore interface {
	ListByUserIDs(ctx context.Context, userIDs []int64) ([]model.Profile, error)
}

// Service backs the admin user directory.
type Service struct {
	users    UserStore
	profiles ProfileStore
}

func NewService(users UserStore, profiles ProfileStore) *Service {
	return &Service{users: users, profiles: profiles}
}

// ListWithProfiles pages through users in id order and attaches each one's
// profile, nil when none was created yet.
func (s *Service) ListWithProfiles(ctx context.Context, limit, offset int) ([]model.UserWithProfile, error) {
	if offset < 0 {
		return nil, fmt.Errorf("negative offset: %w", ErrValidation)
	}
	if s.users == nil || s.profiles == nil {
		return nil, fmt.Errorf("user directory dependencies are not configured")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	profiles, err := s.profiles.ListByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	byUser := make(map[int64]model.Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}

	out := make([]model.UserWithProfile, 0, len(users))
	for _, u := range users {
		item := model.UserWithProfile{User: u}
		if p, ok := byUser[u.ID]; ok {
			item.Profile = &p
		}
		out = append(out, item)
	}
	return out, nil
}
