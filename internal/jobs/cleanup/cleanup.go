package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	mediasvc "github.com/bandhan-app/matrimony/internal/services/media"
)

const (
	defaultInterval    = 6 * time.Hour
	defaultOrphanGrace = 24 * time.Hour
)

type ObjectStore interface {
	ListOlderThan(ctx context.Context, prefix string, cutoff time.Time) ([]mediasvc.StoredObject, error)
	Delete(ctx context.Context, key string) error
}

type PhotoKeyChecker interface {
	PhotoKeyInUse(ctx context.Context, key string) (bool, error)
}

// Job removes uploaded photos that no profile references any more. They are
// left behind when a replaced photo fails to delete or a profile update
// fails after the upload succeeded.
type Job struct {
	objects  ObjectStore
	profiles PhotoKeyChecker
	grace    time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewOrphanPhotoJob(objects ObjectStore, profiles PhotoKeyChecker, grace time.Duration, logger *zap.Logger) *Job {
	if grace <= 0 {
		grace = defaultOrphanGrace
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		objects:  objects,
		profiles: profiles,
		grace:    grace,
		now:      time.Now,
		logger:   logger,
	}
}

// Run does a single sweep and reports how many objects were deleted.
func (j *Job) Run(ctx context.Context) (int, error) {
	if j.objects == nil || j.profiles == nil {
		return 0, nil
	}

	// Objects younger than the grace period may belong to an upload in flight.
	cutoff := j.now().Add(-j.grace)
	stale, err := j.objects.ListOlderThan(ctx, mediasvc.PhotoPrefix, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list stale photos: %w", err)
	}

	deleted := 0
	for _, object := range stale {
		inUse, err := j.profiles.PhotoKeyInUse(ctx, object.Key)
		if err != nil {
			return deleted, fmt.Errorf("check photo key %q: %w", object.Key, err)
		}
		if inUse {
			continue
		}
		if err := j.objects.Delete(ctx, object.Key); err != nil {
			j.logger.Warn("failed to delete orphan photo", zap.Error(err), zap.String("object_key", object.Key))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		j.logger.Info("cleanup orphan photos completed", zap.Int("deleted", deleted))
	}
	return deleted, nil
}

// Start runs the sweep every interval until ctx is cancelled.
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := j.Run(ctx); err != nil {
					j.logger.Warn("cleanup orphan photos failed", zap.Error(err))
				}
			}
		}
	}()
}
