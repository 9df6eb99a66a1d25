package model

import (
	"time"

	"github.com/bandhan-app/matrimony/internal/domain/enums"
)

type Interest struct {
	ID         int64                `json:"id"`
	SenderID   int64                `json:"senderId"`
	ReceiverID int64                `json:"receiverId"`
	Status     enums.InterestStatus `json:"status"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

// Counterpart returns the other side of the edge for userID.
func (i Interest) Counterpart(userID int64) (int64, bool) {
	switch userID {
	case i.SenderID:
		return i.ReceiverID, true
	case i.ReceiverID:
		return i.SenderID, true
	default:
		return 0, false
	}
}

type InterestWithProfile struct {
	Interest Interest `json:"interest"`
	Profile  Profile  `json:"profile"`
}
