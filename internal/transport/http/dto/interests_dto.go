package dto

type SendInterestRequest struct {
	ReceiverID int64 `json:"receiverId"`
}

type ResolveInterestRequest struct {
	Status string `json:"status"`
}
