package model

import (
	"time"

	"github.com/bandhan-app/matrimony/internal/domain/enums"
)

type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	IsAdmin   bool       `json:"isAdmin"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
}

type UserWithProfile struct {
	User    User     `json:"user"`
	Profile *Profile `json:"profile"`
}
