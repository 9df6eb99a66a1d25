package enums

import "strings"

type InterestView string

const (
	InterestViewSent     InterestView = "sent"
	InterestViewReceived InterestView = "received"
	InterestViewMatches  InterestView = "matches"
)

// ParseInterestView falls back to received for an empty value.
func ParseInterestView(raw string) (InterestView, bool) {
	switch InterestView(strings.ToLower(strings.TrimSpace(raw))) {
	case "", InterestViewReceived:
		return InterestViewReceived, true
	case InterestViewSent:
		return InterestViewSent, true
	case InterestViewMatches:
		return InterestViewMatches, true
	default:
		return "", false
	}
}
