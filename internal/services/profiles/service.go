package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bandhan-app/matrimony/internal/domain/model"
	"github.com/bandhan-app/matrimony/internal/domain/rules"
	"github.com/bandhan-app/matrimony/internal/pkg/validate"
	pgrepo "github.com/bandhan-app/matrimony/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("profile not found")
	ErrConflict   = errors.New("profile already exists")
)

type Store interface {
	Create(ctx context.Context, userID int64, p model.Profile) (model.Profile, error)
	Update(ctx context.Context, userID int64, p model.Profile) (model.Profile, error)
	GetByID(ctx context.Context, profileID int64) (model.Profile, error)
	GetByUserID(ctx context.Context, userID int64) (model.Profile, error)
	List(ctx context.Context, f pgrepo.ProfileFilter) ([]model.Profile, error)
}

type Config struct {
	DefaultLimit int
	MaxLimit     int
}

type Service struct {
	store Store
	cfg   Config
}

// Input is the full editable profile document.
type Input struct {
	FullName           string                    `json:"fullName" validate:"required,max=120"`
	Age                int                       `json:"age" validate:"required,gte=18,lte=120"`
	Gender             string                    `json:"gender" validate:"required,oneof=male female other"`
	Religion           string                    `json:"religion" validate:"required,max=64"`
	Caste              string                    `json:"caste" validate:"max=64"`
	City               string                    `json:"city" validate:"required,max=80"`
	Profession         string                    `json:"profession" validate:"max=120"`
	Bio                string                    `json:"bio" validate:"max=2000"`
	PhotoURL           string                    `json:"photoUrl" validate:"omitempty,http_url,max=1024"`
	Details            model.ProfileDetails      `json:"details"`
	PartnerPreferences *model.PartnerPreferences `json:"partnerPreferences"`
}

type Filter struct {
	AgeMin        int
	AgeMax        int
	Religion      string
	City          string
	Gender        string
	Caste         string
	MaritalStatus string
	Limit         int
	Offset        int
}

func NewService(store Store, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 200
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}

	return &Service{store: store, cfg: cfg}
}

func (s *Service) Create(ctx context.Context, userID int64, in Input) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	profile, err := normalizeAndValidate(in)
	if err != nil {
		return model.Profile{}, err
	}

	created, err := s.store.Create(ctx, userID, profile)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileExists) {
			return model.Profile{}, ErrConflict
		}
		return model.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, userID int64, in Input) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	profile, err := normalizeAndValidate(in)
	if err != nil {
		return model.Profile{}, err
	}

	updated, err := s.store.Update(ctx, userID, profile)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, profileID int64) (model.Profile, error) {
	if profileID <= 0 {
		return model.Profile{}, ErrNotFound
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}
	return mapNotFound(s.store.GetByID(ctx, profileID))
}

func (s *Service) GetByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, ErrNotFound
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}
	return mapNotFound(s.store.GetByUserID(ctx, userID))
}

func (s *Service) List(ctx context.Context, f Filter) ([]model.Profile, error) {
	if s.store == nil {
		return nil, fmt.Errorf("profile store is nil")
	}

	switch {
	case f.AgeMin < 0:
		return nil, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("ageMin", "must not be negative"))
	case f.AgeMax < 0:
		return nil, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("ageMax", "must not be negative"))
	case f.AgeMin > 0 && f.AgeMax > 0 && f.AgeMin > f.AgeMax:
		return nil, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("ageMin", "must not exceed ageMax"))
	case f.Offset < 0:
		return nil, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("offset", "must not be negative"))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	items, err := s.store.List(ctx, pgrepo.ProfileFilter{
		AgeMin:        f.AgeMin,
		AgeMax:        f.AgeMax,
		Religion:      strings.TrimSpace(f.Religion),
		City:          strings.TrimSpace(f.City),
		Gender:        strings.TrimSpace(f.Gender),
		Caste:         strings.TrimSpace(f.Caste),
		MaritalStatus: strings.TrimSpace(f.MaritalStatus),
		Limit:         limit,
		Offset:        f.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return items, nil
}

func mapNotFound(p model.Profile, err error) (model.Profile, error) {
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func normalizeAndValidate(in Input) (model.Profile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	in.Religion = strings.TrimSpace(in.Religion)
	in.Caste = strings.TrimSpace(in.Caste)
	in.City = strings.TrimSpace(in.City)
	in.Profession = strings.TrimSpace(in.Profession)
	in.Bio = strings.TrimSpace(in.Bio)
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)
	// Clients echo back the redirect path of an uploaded photo; the stored key wins.
	if strings.HasPrefix(in.PhotoURL, "/") {
		in.PhotoURL = ""
	}

	if err := validate.Struct(in); err != nil {
		return model.Profile{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := validatePartnerPreferences(in.PartnerPreferences); err != nil {
		return model.Profile{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if in.PhotoURL == "" {
		in.PhotoURL = rules.DefaultAvatar(in.Gender)
	}

	return model.Profile{
		FullName:           in.FullName,
		Age:                in.Age,
		Gender:             in.Gender,
		Religion:           in.Religion,
		Caste:              in.Caste,
		City:               in.City,
		Profession:         in.Profession,
		Bio:                in.Bio,
		PhotoURL:           in.PhotoURL,
		Details:            in.Details,
		PartnerPreferences: in.PartnerPreferences,
	}, nil
}

func validatePartnerPreferences(p *model.PartnerPreferences) error {
	if p == nil {
		return nil
	}
	if p.AgeMin != nil && *p.AgeMin < rules.MinAge {
		return validate.NewFieldError("partnerPreferences.ageMin", fmt.Sprintf("must be at least %d", rules.MinAge))
	}
	if p.AgeMax != nil && *p.AgeMax < rules.MinAge {
		return validate.NewFieldError("partnerPreferences.ageMax", fmt.Sprintf("must be at least %d", rules.MinAge))
	}
	if p.AgeMin != nil && p.AgeMax != nil && *p.AgeMin > *p.AgeMax {
		return validate.NewFieldError("partnerPreferences.ageMin", "must not exceed ageMax")
	}
	return nil
}
