package rules

import "github.com/bandhan-app/matrimony/internal/domain/enums"

// CanResolve reports whether a receiver may move an interest from current to next.
// Only pending interests resolve, and only into a terminal state.
func CanResolve(current, next enums.InterestStatus) bool {
	if current != enums.InterestStatusPending {
		return false
	}
	return next.IsTerminal()
}

