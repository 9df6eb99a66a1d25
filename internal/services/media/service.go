package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bandhan-app/matrimony/internal/domain/model"
	"github.com/bandhan-app/matrimony/internal/pkg/validate"
	pgrepo "github.com/bandhan-app/matrimony/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("photo not found")
)

const (
	MaxPhotoBytes = 5 << 20
	PhotoPrefix   = "profiles/"
	signedURLTTL  = 5 * time.Minute
)

type Store interface {
	GetByID(ctx context.Context, profileID int64) (model.Profile, error)
	SetPhotoKey(ctx context.Context, userID int64, key string) (model.Profile, string, error)
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Service struct {
	store   Store
	storage ObjectStorage
	logger  *zap.Logger
}

func NewService(store Store, storage ObjectStorage) *Service {
	return &Service{
		store:   store,
		storage: storage,
		logger:  zap.NewNop(),
	}
}

func (s *Service) AttachLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.logger = logger
}

// UploadPhoto stores a new profile photo for userID and removes the one it replaces.
func (s *Service) UploadPhoto(ctx context.Context, userID int64, fileName, contentType string, body io.Reader, size int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if body == nil || size <= 0 {
		return model.Profile{}, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("photo", "is required"))
	}
	if size > MaxPhotoBytes {
		return model.Profile{}, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("photo", "must be at most 5 MiB"))
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(contentType, "image/") {
		return model.Profile{}, fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("photo", "must be an image"))
	}
	if s.store == nil || s.storage == nil {
		return model.Profile{}, fmt.Errorf("media dependencies are not configured")
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return model.Profile{}, fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey := buildPhotoObjectKey(userID, fileName, contentType)
	if err := s.storage.Put(ctx, objectKey, body, size, contentType); err != nil {
		return model.Profile{}, fmt.Errorf("put object: %w", err)
	}

	profile, previousKey, err := s.store.SetPhotoKey(ctx, userID, objectKey)
	if err != nil {
		s.deleteObject(ctx, objectKey, "discard unrecorded photo")
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, fmt.Errorf("profile for user %d: %w", userID, ErrNotFound)
		}
		return model.Profile{}, fmt.Errorf("record photo key: %w", err)
	}

	if previousKey != "" && previousKey != objectKey {
		s.deleteObject(ctx, previousKey, "remove replaced photo")
	}

	return profile, nil
}

// deleteObject is best effort; the orphan sweep retries what is left behind.
func (s *Service) deleteObject(ctx context.Context, key, reason string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("photo object delete failed",
			zap.String("object_key", key),
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
}

// PhotoURL resolves where the profile photo can be fetched: a short-lived
// signed URL for uploaded photos, otherwise the stored external URL when it
// is an absolute http(s) address.
func (s *Service) PhotoURL(ctx context.Context, profileID int64) (string, error) {
	if profileID <= 0 {
		return "", ErrNotFound
	}
	if s.store == nil || s.storage == nil {
		return "", fmt.Errorf("media dependencies are not configured")
	}

	profile, err := s.store.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get profile: %w", err)
	}

	if profile.PhotoKey == "" {
		if !isHTTPURL(profile.PhotoURL) {
			return "", ErrNotFound
		}
		return profile.PhotoURL, nil
	}

	signed, err := s.storage.PresignGet(ctx, profile.PhotoKey, signedURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign photo url: %w", err)
	}
	return signed, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

func buildPhotoObjectKey(userID int64, fileName, contentType string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		ext = extByContentType[contentType]
	}
	return fmt.Sprintf("%s%d/%s%s", PhotoPrefix, userID, uuid.NewString(), ext)
}
