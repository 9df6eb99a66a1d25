package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bandhan-app/matrimony/internal/domain/model"
)

type ProfileRepo struct {
	db Querier
}

// ProfileFilter zero values mean "no constraint".
type ProfileFilter struct {
	AgeMin        int
	AgeMax        int
	Religion      string
	City          string
	Gender        string
	Caste         string
	MaritalStatus string
	Limit         int
	Offset        int
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	if pool == nil {
		return &ProfileRepo{}
	}
	return &ProfileRepo{db: pool}
}

func (r *ProfileRepo) InTx(tx pgx.Tx) *ProfileRepo {
	return &ProfileRepo{db: tx}
}

func (r *ProfileRepo) Create(ctx context.Context, userID int64, p model.Profile) (model.Profile, error) {
	if r.db == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.db.QueryRow(ctx, `
INSERT INTO profiles AS p (
	user_id, full_name, age, gender, religion, caste, city,
	profession, bio, photo_url, is_verified, details, partner_preferences,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
RETURNING `+profileColumns,
		userID, p.FullName, p.Age, p.Gender, p.Religion, p.Caste, p.City,
		p.Profession, p.Bio, p.PhotoURL, p.IsVerified, p.Details, p.PartnerPreferences,
	)

	created, err := scanProfile(row)
	if err != nil {
		switch pgErrorCode(err) {
		case uniqueViolation:
			return model.Profile{}, ErrProfileExists
		case foreignKeyViolation:
			return model.Profile{}, ErrUserNotFound
		}
		return model.Profile{}, fmt.Errorf("insert profile: %w", err)
	}

	return created, nil
}

// Update replaces every editable column; photo_key and is_verified are kept.
func (r *ProfileRepo) Update(ctx context.Context, userID int64, p model.Profile) (model.Profile, error) {
	if r.db == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.db.QueryRow(ctx, `
UPDATE profiles AS p SET
	full_name = $2,
	age = $3,
	gender = $4,
	religion = $5,
	caste = $6,
	city = $7,
	profession = $8,
	bio = $9,
	photo_url = $10,
	details = $11,
	partner_preferences = $12,
	updated_at = NOW()
WHERE p.user_id = $1
RETURNING `+profileColumns,
		userID, p.FullName, p.Age, p.Gender, p.Religion, p.Caste, p.City,
		p.Profession, p.Bio, p.PhotoURL, p.Details, p.PartnerPreferences,
	)

	updated, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}

	return updated, nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, profileID int64) (model.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM profiles p WHERE p.id = $1`, profileID)
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM profiles p WHERE p.user_id = $1`, userID)
}

func (r *ProfileRepo) getOne(ctx context.Context, query string, id int64) (model.Profile, error) {
	if r.db == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (r *ProfileRepo) List(ctx context.Context, f ProfileFilter) ([]model.Profile, error) {
	if r.db == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.db.Query(ctx, `
SELECT `+profileColumns+`
FROM profiles p
WHERE ($1::int = 0 OR p.age >= $1)
	AND ($2::int = 0 OR p.age <= $2)
	AND ($3::text = '' OR lower(p.religion) = lower($3))
	AND ($4::text = '' OR lower(p.city) = lower($4))
	AND ($5::text = '' OR lower(p.gender) = lower($5))
	AND ($6::text = '' OR lower(p.caste) = lower($6))
	AND ($7::text = '' OR lower(p.details->>'maritalStatus') = lower($7))
ORDER BY p.created_at DESC, p.id DESC
LIMIT $8 OFFSET $9
`, f.AgeMin, f.AgeMax, f.Religion, f.City, f.Gender, f.Caste, f.MaritalStatus, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return collectProfiles(rows)
}

func (r *ProfileRepo) ListByUserIDs(ctx context.Context, userIDs []int64) ([]model.Profile, error) {
	if r.db == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if len(userIDs) == 0 {
		return []model.Profile{}, nil
	}

	rows, err := r.db.Query(ctx, `
SELECT `+profileColumns+`
FROM profiles p
WHERE p.user_id = ANY($1)
`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list profiles by user ids: %w", err)
	}

	return collectProfiles(rows)
}

// SetPhotoKey stores a new object key and returns the key it replaced.
func (r *ProfileRepo) SetPhotoKey(ctx context.Context, userID int64, key string) (model.Profile, string, error) {
	if r.db == nil {
		return model.Profile{}, "", fmt.Errorf("postgres pool is nil")
	}

	var previous string
	row := r.db.QueryRow(ctx, `
WITH prev AS (
	SELECT id, photo_key FROM profiles WHERE user_id = $1 FOR UPDATE
)
UPDATE profiles AS p
SET photo_key = $2, updated_at = NOW()
FROM prev
WHERE p.id = prev.id
RETURNING prev.photo_key, `+profileColumns, userID, key)

	profile, err := scanProfile(row, &previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, "", ErrProfileNotFound
		}
		return model.Profile{}, "", fmt.Errorf("set profile photo key: %w", err)
	}

	return profile, previous, nil
}

func (r *ProfileRepo) PhotoKeyInUse(ctx context.Context, key string) (bool, error) {
	if r.db == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var inUse bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE photo_key = $1)`, key).Scan(&inUse); err != nil {
		return false, fmt.Errorf("check photo key: %w", err)
	}
	return inUse, nil
}

func collectProfiles(rows pgx.Rows) ([]model.Profile, error) {
	defer rows.Close()

	profiles := make([]model.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return profiles, nil
}
