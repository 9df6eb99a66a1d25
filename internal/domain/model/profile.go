package model

import "time"

type Profile struct {
	ID                 int64               `json:"id"`
	UserID             int64               `json:"userId"`
	FullName           string              `json:"fullName"`
	Age                int                 `json:"age"`
	Gender             string              `json:"gender"`
	Religion           string              `json:"religion"`
	Caste              string              `json:"caste,omitempty"`
	City               string              `json:"city"`
	Profession         string              `json:"profession,omitempty"`
	Bio                string              `json:"bio,omitempty"`
	PhotoURL           string              `json:"photoUrl,omitempty"`
	PhotoKey           string              `json:"-"`
	IsVerified         bool                `json:"isVerified"`
	Details            ProfileDetails      `json:"details"`
	PartnerPreferences *PartnerPreferences `json:"partnerPreferences,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// ProfileDetails holds the optional demographic and lifestyle answers
// collected by the profile wizard.
type ProfileDetails struct {
	DOB                string `json:"dob,omitempty"`
	Education          string `json:"education,omitempty"`
	Country            string `json:"country,omitempty"`
	ProfileCreatedFor  string `json:"profileCreatedFor,omitempty"`
	MaritalStatus      string `json:"maritalStatus,omitempty"`
	LivingInIndiaSince string `json:"livingInIndiaSince,omitempty"`
	PlaceOfBirth       string `json:"placeOfBirth,omitempty"`
	Nationality        string `json:"nationality,omitempty"`
	VisaStatus         string `json:"visaStatus,omitempty"`
	Ethnicity          string `json:"ethnicity,omitempty"`
	Income             string `json:"income,omitempty"`
	State              string `json:"state,omitempty"`
	LivingWithFamily   *bool  `json:"livingWithFamily,omitempty"`
	Height             string `json:"height,omitempty"`
	Weight             string `json:"weight,omitempty"`
	BodyType           string `json:"bodyType,omitempty"`
	FamilyStatus       string `json:"familyStatus,omitempty"`
	Complexion         string `json:"complexion,omitempty"`
	Diet               string `json:"diet,omitempty"`
	Drink              string `json:"drink,omitempty"`
	Smoke              string `json:"smoke,omitempty"`
}

// PartnerPreferences are shown to other users as search hints; nothing
// filters on them automatically.
type PartnerPreferences struct {
	MaritalStatus string   `json:"maritalStatus,omitempty"`
	Religion      string   `json:"religion,omitempty"`
	Education     string   `json:"education,omitempty"`
	Countries     []string `json:"countries,omitempty"`
	AgeMin        *int     `json:"ageMin,omitempty"`
	AgeMax        *int     `json:"ageMax,omitempty"`
	Drinking      string   `json:"drinking,omitempty"`
	Smoking       string   `json:"smoking,omitempty"`
	Residency     string   `json:"residency,omitempty"`
	Diet          string   `json:"diet,omitempty"`
}
