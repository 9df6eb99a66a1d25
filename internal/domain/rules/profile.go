package rules

import (
	"strconv"
	"strings"
)

const (
	MinAge = 18

	defaultMaleAvatar   = "https://avatar.iran.liara.run/public/boy"
	defaultFemaleAvatar = "https://avatar.iran.liara.run/public/girl"
)

// DefaultAvatar picks a placeholder photo by gender; empty when none applies.
func DefaultAvatar(gender string) string {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male":
		return defaultMaleAvatar
	case "female":
		return defaultFemaleAvatar
	default:
		return ""
	}
}

// PhotoPath is the API path that redirects to a stored profile photo.
func PhotoPath(profileID int64) string {
	return "/api/profiles/" + strconv.FormatInt(profileID, 10) + "/photo"
}
