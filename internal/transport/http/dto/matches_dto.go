package dto

type UnmatchResponse struct {
	OK      bool  `json:"ok"`
	Updated int64 `json:"updated"`
}
