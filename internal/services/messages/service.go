package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bandhan-app/matrimony/internal/domain/model"
	"github.com/bandhan-app/matrimony/internal/pkg/validate"
	pgrepo "github.com/bandhan-app/matrimony/internal/repo/postgres"
	ratesvc "github.com/bandhan-app/matrimony/internal/services/rate"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)

const (
	defaultMaxLength = 2000
	defaultPageLimit = 500
)

type Store interface {
	Create(ctx context.Context, senderID, receiverID int64, content string) (model.Message, error)
	ListBetween(ctx context.Context, userID, counterpartID, afterID int64, limit int) ([]model.Message, error)
	ListConversations(ctx context.Context, userID int64) ([]model.Profile, error)
}

type UserDirectory interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

type MatchChecker interface {
	HasAccepted(ctx context.Context, userID, counterpartID int64) (bool, error)
}

type RateLimiter interface {
	Check(ctx context.Context, action string, userID int64) error
}

type Metrics interface {
	MessageSent()
}

type Config struct {
	RequireMatch bool
	MaxLength    int
	PageLimit    int
}

type Dependencies struct {
	Store       Store
	Users       UserDirectory
	Matches     MatchChecker
	RateLimiter RateLimiter
	Metrics     Metrics
}

type Service struct {
	store   Store
	users   UserDirectory
	matches MatchChecker
	limiter RateLimiter
	metrics Metrics
	cfg     Config
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = defaultMaxLength
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = defaultPageLimit
	}

	return &Service{
		store:   deps.Store,
		users:   deps.Users,
		matches: deps.Matches,
		limiter: deps.RateLimiter,
		metrics: deps.Metrics,
		cfg:     cfg,
	}
}

// Send stores a direct message. With RequireMatch the pair must share an
// accepted interest in either direction.
func (s *Service) Send(ctx context.Context, senderID, receiverID int64, content string) (model.Message, error) {
	if senderID <= 0 {
		return model.Message{}, fmt.Errorf("invalid sender id: %w", ErrValidation)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Message{}, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("content", "is required"))
	}
	if utf8.RuneCountInString(content) > s.cfg.MaxLength {
		return model.Message{}, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("content", fmt.Sprintf("must be at most %d characters", s.cfg.MaxLength)))
	}
	if receiverID <= 0 {
		return model.Message{}, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("receiverId", "is required"))
	}
	if senderID == receiverID {
		return model.Message{}, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("receiverId", "cannot message yourself"))
	}
	if s.store == nil || s.users == nil {
		return model.Message{}, fmt.Errorf("message dependencies are not configured")
	}

	exists, err := s.users.Exists(ctx, receiverID)
	if err != nil {
		return model.Message{}, fmt.Errorf("check receiver: %w", err)
	}
	if !exists {
		return model.Message{}, fmt.Errorf("receiver %d: %w", receiverID, ErrNotFound)
	}

	if s.cfg.RequireMatch {
		if s.matches == nil {
			return model.Message{}, fmt.Errorf("match checker is nil")
		}
		matched, err := s.matches.HasAccepted(ctx, senderID, receiverID)
		if err != nil {
			return model.Message{}, fmt.Errorf("check match: %w", err)
		}
		if !matched {
			return model.Message{}, fmt.Errorf("users %d and %d are not matched: %w", senderID, receiverID, ErrForbidden)
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Check(ctx, ratesvc.ActionMessage, senderID); err != nil {
			return model.Message{}, err
		}
	}

	msg, err := s.store.Create(ctx, senderID, receiverID, content)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.Message{}, fmt.Errorf("receiver %d: %w", receiverID, ErrNotFound)
		}
		return model.Message{}, fmt.Errorf("create message: %w", err)
	}

	if s.metrics != nil {
		s.metrics.MessageSent()
	}
	return msg, nil
}

// List returns the thread between the two users in chronological order.
// The result does not depend on argument order. Without afterID it holds the
// newest PageLimit messages; clients page forward with the last id they saw.
func (s *Service) List(ctx context.Context, userID, counterpartID, afterID int64) ([]model.Message, error) {
	if userID <= 0 || counterpartID <= 0 {
		return nil, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if afterID < 0 {
		return nil, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("afterId", "must not be negative"))
	}
	if s.store == nil {
		return nil, fmt.Errorf("message store is nil")
	}

	items, err := s.store.ListBetween(ctx, userID, counterpartID, afterID, s.cfg.PageLimit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return items, nil
}

// Conversations lists everyone userID has exchanged messages with, most
// recent first.
func (s *Service) Conversations(ctx context.Context, userID int64) ([]model.Profile, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return nil, fmt.Errorf("message store is nil")
	}

	profiles, err := s.store.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return profiles, nil
}
