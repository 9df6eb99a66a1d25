package postgres

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileExists      = errors.New("profile already exists")
	ErrInterestNotFound   = errors.New("interest not found")
	ErrInterestExists     = errors.New("open interest already exists")
	ErrInterestNotPending = errors.New("interest is not pending")
	ErrNoAcceptedInterest = errors.New("no accepted interest between users")
)
