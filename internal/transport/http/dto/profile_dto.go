package dto

import "github.com/bandhan-app/matrimony/internal/domain/model"

// ProfileRequest is the body of POST /api/profiles and PUT /api/my-profile.
type ProfileRequest struct {
	FullName           string                    `json:"fullName"`
	Age                int                       `json:"age"`
	Gender             string                    `json:"gender"`
	Religion           string                    `json:"religion"`
	Caste              string                    `json:"caste"`
	City               string                    `json:"city"`
	Profession         string                    `json:"profession"`
	Bio                string                    `json:"bio"`
	PhotoURL           string                    `json:"photoUrl"`
	Details            model.ProfileDetails      `json:"details"`
	PartnerPreferences *model.PartnerPreferences `json:"partnerPreferences"`
}
