package interests

import (
	"context"
	"errors"
	"fmt"

	"github.com/bandhan-app/matrimony/internal/domain/enums"
	"github.com/bandhan-app/matrimony/internal/domain/model"
	"github.com/bandhan-app/matrimony/internal/domain/rules"
	"github.com/bandhan-app/matrimony/internal/pkg/validate"
	pgrepo "github.com/bandhan-app/matrimony/internal/repo/postgres"
	ratesvc "github.com/bandhan-app/matrimony/internal/services/rate"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)

type Store interface {
	Create(ctx context.Context, senderID, receiverID int64) (model.Interest, error)
	GetByID(ctx context.Context, interestID int64) (model.Interest, error)
	ListSent(ctx context.Context, userID int64) ([]model.InterestWithProfile, error)
	ListReceived(ctx context.Context, userID int64) ([]model.InterestWithProfile, error)
	ListMatches(ctx context.Context, userID int64) ([]model.InterestWithProfile, error)
	UpdateStatusIfPending(ctx context.Context, interestID int64, next enums.InterestStatus) (model.Interest, error)
	RejectAccepted(ctx context.Context, userID, counterpartID int64) (int64, error)
}

type UserDirectory interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

type RateLimiter interface {
	Check(ctx context.Context, action string, userID int64) error
}

type Metrics interface {
	InterestSent()
	InterestResolved(decision string)
	MatchRemoved()
}

type Service struct {
	store   Store
	users   UserDirectory
	limiter RateLimiter
	metrics Metrics
}

type Dependencies struct {
	Store       Store
	Users       UserDirectory
	RateLimiter RateLimiter
	Metrics     Metrics
}

func NewService(deps Dependencies) *Service {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &Service{
		store:   deps.Store,
		users:   deps.Users,
		limiter: deps.RateLimiter,
		metrics: metrics,
	}
}

// Send records a pending interest from senderID to receiverID.
func (s *Service) Send(ctx context.Context, senderID, receiverID int64) (model.Interest, error) {
	if senderID <= 0 {
		return model.Interest{}, fmt.Errorf("invalid sender id: %w", ErrValidation)
	}
	if receiverID <= 0 {
		return model.Interest{}, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("receiverId", "is required"))
	}
	if senderID == receiverID {
		return model.Interest{}, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("receiverId", "cannot send interest to yourself"))
	}
	if s.store == nil || s.users == nil {
		return model.Interest{}, fmt.Errorf("interest dependencies are not configured")
	}

	exists, err := s.users.Exists(ctx, receiverID)
	if err != nil {
		return model.Interest{}, fmt.Errorf("check receiver: %w", err)
	}
	if !exists {
		return model.Interest{}, fmt.Errorf("receiver %d: %w", receiverID, ErrNotFound)
	}

	if s.limiter != nil {
		if err := s.limiter.Check(ctx, ratesvc.ActionInterest, senderID); err != nil {
			return model.Interest{}, err
		}
	}

	interest, err := s.store.Create(ctx, senderID, receiverID)
	if err != nil {
		switch {
		case errors.Is(err, pgrepo.ErrInterestExists):
			return model.Interest{}, fmt.Errorf("interest to %d already open: %w", receiverID, ErrConflict)
		case errors.Is(err, pgrepo.ErrUserNotFound):
			return model.Interest{}, fmt.Errorf("receiver %d: %w", receiverID, ErrNotFound)
		}
		return model.Interest{}, fmt.Errorf("create interest: %w", err)
	}

	s.metrics.InterestSent()
	return interest, nil
}

// List returns the requested view ordered newest first. The matches view
// holds at most one entry per counterpart.
func (s *Service) List(ctx context.Context, userID int64, view enums.InterestView) ([]model.InterestWithProfile, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return nil, fmt.Errorf("interest store is nil")
	}

	var (
		items []model.InterestWithProfile
		err   error
	)
	switch view {
	case enums.InterestViewSent:
		items, err = s.store.ListSent(ctx, userID)
	case enums.InterestViewReceived:
		items, err = s.store.ListReceived(ctx, userID)
	case enums.InterestViewMatches:
		items, err = s.store.ListMatches(ctx, userID)
		if err == nil {
			items = dedupeByCounterpart(userID, items)
		}
	default:
		return nil, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("type", "must be one of: sent received matches"))
	}
	if err != nil {
		return nil, fmt.Errorf("list %s interests: %w", view, err)
	}

	return items, nil
}

// Resolve lets the receiver accept or reject a pending interest.
func (s *Service) Resolve(ctx context.Context, interestID, actingUserID int64, decision string) (model.Interest, error) {
	if actingUserID <= 0 {
		return model.Interest{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return model.Interest{}, fmt.Errorf("interest store is nil")
	}

	current, err := s.store.GetByID(ctx, interestID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrInterestNotFound) {
			return model.Interest{}, fmt.Errorf("interest %d: %w", interestID, ErrNotFound)
		}
		return model.Interest{}, fmt.Errorf("get interest: %w", err)
	}
	if current.ReceiverID != actingUserID {
		return model.Interest{}, fmt.Errorf("only the receiver can resolve interest %d: %w", interestID, ErrForbidden)
	}
	if current.Status != enums.InterestStatusPending {
		return model.Interest{}, fmt.Errorf("interest %d is already %s: %w", interestID, current.Status, ErrConflict)
	}

	next, ok := enums.ParseInterestStatus(decision)
	if !ok || !rules.CanResolve(current.Status, next) {
		return model.Interest{}, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("status", "must be one of: accepted rejected"))
	}

	updated, err := s.store.UpdateStatusIfPending(ctx, interestID, next)
	if err != nil {
		if errors.Is(err, pgrepo.ErrInterestNotPending) {
			return model.Interest{}, fmt.Errorf("interest %d resolved concurrently: %w", interestID, ErrConflict)
		}
		return model.Interest{}, fmt.Errorf("update interest status: %w", err)
	}

	s.metrics.InterestResolved(string(next))
	return updated, nil
}

// Unmatch rejects every accepted interest between the two users.
func (s *Service) Unmatch(ctx context.Context, actingUserID, counterpartID int64) (int64, error) {
	if actingUserID <= 0 || counterpartID <= 0 || actingUserID == counterpartID {
		return 0, fmt.Errorf("invalid unmatch pair: %w", ErrValidation)
	}
	if s.store == nil {
		return 0, fmt.Errorf("interest store is nil")
	}

	updated, err := s.store.RejectAccepted(ctx, actingUserID, counterpartID)
	if err != nil {
		return 0, fmt.Errorf("unmatch: %w", err)
	}
	if updated == 0 {
		return 0, fmt.Errorf("no match with user %d: %w", counterpartID, ErrNotFound)
	}

	s.metrics.MatchRemoved()
	return updated, nil
}

func dedupeByCounterpart(userID int64, items []model.InterestWithProfile) []model.InterestWithProfile {
	seen := make(map[int64]struct{}, len(items))
	out := make([]model.InterestWithProfile, 0, len(items))
	for _, item := range items {
		counterpart, ok := item.Interest.Counterpart(userID)
		if !ok {
			continue
		}
		if _, dup := seen[counterpart]; dup {
			continue
		}
		seen[counterpart] = struct{}{}
		out = append(out, item)
	}
	return out
}

type noopMetrics struct{}

func (noopMetrics) InterestSent()           {}
func (noopMetrics) InterestResolved(string) {}
func (noopMetrics) MatchRemoved()           {}
