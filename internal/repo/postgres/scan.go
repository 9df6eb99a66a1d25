package postgres

import (
	"github.com/bandhan-app/matrimony/internal/domain/model"
	"github.com/bandhan-app/matrimony/internal/domain/rules"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const profileColumns = `
	p.id, p.user_id, p.full_name, p.age, p.gender, p.religion, p.caste, p.city,
	p.profession, p.bio, p.photo_url, p.photo_key, p.is_verified,
	p.details, p.partner_preferences, p.created_at, p.updated_at`

const interestColumns = `i.id, i.sender_id, i.receiver_id, i.status, i.created_at, i.updated_at`

// scanProfile reads profileColumns, preceded by any extra destinations.
func scanProfile(row rowScanner, extra ...any) (model.Profile, error) {
	var p model.Profile
	dest := append(extra,
		&p.ID, &p.UserID, &p.FullName, &p.Age, &p.Gender, &p.Religion, &p.Caste, &p.City,
		&p.Profession, &p.Bio, &p.PhotoURL, &p.PhotoKey, &p.IsVerified,
		&p.Details, &p.PartnerPreferences, &p.CreatedAt, &p.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return model.Profile{}, err
	}
	if p.PhotoKey != "" {
		p.PhotoURL = rules.PhotoPath(p.ID)
	}
	return p, nil
}

func scanInterest(row rowScanner) (model.Interest, error) {
	var i model.Interest
	err := row.Scan(&i.ID, &i.SenderID, &i.ReceiverID, &i.Status, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func scanInterestWithProfile(row rowScanner) (model.InterestWithProfile, error) {
	var i model.Interest
	p, err := scanProfile(row, &i.ID, &i.SenderID, &i.ReceiverID, &i.Status, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return model.InterestWithProfile{}, err
	}
	return model.InterestWithProfile{Interest: i, Profile: p}, nil
}
