package enums

import "strings"

type InterestStatus string

const (
	InterestStatusPending  InterestStatus = "pending"
	InterestStatusAccepted InterestStatus = "accepted"
	InterestStatusRejected InterestStatus = "rejected"
)

func ParseInterestStatus(raw string) (InterestStatus, bool) {
	switch InterestStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case InterestStatusPending:
		return InterestStatusPending, true
	case InterestStatusAccepted:
		return InterestStatusAccepted, true
	case InterestStatusRejected:
		return InterestStatusRejected, true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further resolution is possible.
func (s InterestStatus) IsTerminal() bool {
	return s == InterestStatusAccepted || s == InterestStatusRejected
}
