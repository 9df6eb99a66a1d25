package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
)

const totpSetupPrefix = "auth:totp_setup:"

type TOTPSetupRepo struct {
	client *goredis.Client
}

func NewTOTPSetupRepo(client *goredis.Client) *TOTPSetupRepo {
	return &TOTPSetupRepo{client: client}
}

// SavePending replaces any earlier setup the user started.
func (r *TOTPSetupRepo) SavePending(ctx context.Context, userID int64, secret string, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if userID <= 0 || secret == "" || ttl <= 0 {
		return authsvc.ErrValidation
	}
	if err := r.client.Set(ctx, totpSetupKey(userID), secret, ttl).Err(); err != nil {
		return fmt.Errorf("save totp setup: %w", err)
	}
	return nil
}

func (r *TOTPSetupRepo) GetPending(ctx context.Context, userID int64) (string, error) {
	if r.client == nil {
		return "", fmt.Errorf("redis client is nil")
	}

	secret, err := r.client.Get(ctx, totpSetupKey(userID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", authsvc.ErrTOTPSetupNotFound
		}
		return "", fmt.Errorf("get totp setup: %w", err)
	}
	return secret, nil
}

func (r *TOTPSetupRepo) DeletePending(ctx context.Context, userID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, totpSetupKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete totp setup: %w", err)
	}
	return nil
}

func totpSetupKey(userID int64) string {
	return totpSetupPrefix + strconv.FormatInt(userID, 10)
}
