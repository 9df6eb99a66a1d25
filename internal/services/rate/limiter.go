package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	ActionInterest = "interest"
	ActionMessage  = "message"
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// Rule allows at most Limit hits per Window. A zero Limit disables the rule.
type Rule struct {
	Window time.Duration
	Limit  int
}

type TooFastError struct {
	Action        string
	RetryAfterSec int64
}

func (e *TooFastError) Error() string {
	return fmt.Sprintf("too many %s actions, retry after %ds", e.Action, e.RetryAfterSec)
}

type Limiter struct {
	store WindowStore
	rules map[string][]Rule
}

func NewLimiter(store WindowStore) *Limiter {
	return &Limiter{
		store: store,
		rules: make(map[string][]Rule),
	}
}

// WithRule registers a window for action. Not safe to call once the limiter is in use.
func (l *Limiter) WithRule(action string, window time.Duration, limit int) *Limiter {
	if window <= 0 || limit <= 0 {
		return l
	}
	l.rules[action] = append(l.rules[action], Rule{Window: window, Limit: limit})
	return l
}

// Allow records one hit for every rule of action. When any window is
// exhausted it returns the longest wait among them.
func (l *Limiter) Allow(ctx context.Context, action string, userID int64) (int64, bool, error) {
	if userID <= 0 {
		return 0, false, fmt.Errorf("invalid user id")
	}
	rules := l.rules[action]
	if len(rules) == 0 {
		return 0, true, nil
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}

	retryAfterSec := int64(0)
	for _, rule := range rules {
		count, ttl, err := l.store.IncrementWindow(ctx, windowKey(action, rule.Window, userID), rule.Window)
		if err != nil {
			return 0, false, err
		}
		if count > int64(rule.Limit) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl), 1)
		}
	}

	if retryAfterSec > 0 {
		return retryAfterSec, false, nil
	}
	return 0, true, nil
}

// Check is Allow reported as an error; a blocked hit yields *TooFastError.
func (l *Limiter) Check(ctx context.Context, action string, userID int64) error {
	retryAfter, allowed, err := l.Allow(ctx, action, userID)
	if err != nil {
		return fmt.Errorf("rate limit %s: %w", action, err)
	}
	if !allowed {
		return &TooFastError{Action: action, RetryAfterSec: retryAfter}
	}
	return nil
}

// RetryAfter reports how long userID must wait before action is allowed,
// without recording a hit.
func (l *Limiter) RetryAfter(ctx context.Context, action string, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	rules := l.rules[action]
	if len(rules) == 0 {
		return 0, nil
	}
	if l.store == nil {
		return 0, fmt.Errorf("rate limiter store is nil")
	}

	retryAfterSec := int64(0)
	for _, rule := range rules {
		count, ttl, err := l.store.WindowState(ctx, windowKey(action, rule.Window, userID))
		if err != nil {
			return 0, err
		}
		if count >= int64(rule.Limit) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl), 1)
		}
	}

	return retryAfterSec, nil
}

func windowKey(action string, window time.Duration, userID int64) string {
	return action + ":" + window.String() + ":" + strconv.FormatInt(userID, 10)
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
