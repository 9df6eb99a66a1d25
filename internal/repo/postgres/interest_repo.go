package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bandhan-app/matrimony/internal/domain/enums"
	"github.com/bandhan-app/matrimony/internal/domain/model"
)

type InterestRepo struct {
	db Querier
}

func NewInterestRepo(pool *pgxpool.Pool) *InterestRepo {
	if pool == nil {
		return &InterestRepo{}
	}
	return &InterestRepo{db: pool}
}

func (r *InterestRepo) InTx(tx pgx.Tx) *InterestRepo {
	return &InterestRepo{db: tx}
}

// Create inserts a pending interest. The partial unique index on open pairs
// turns a duplicate into ErrInterestExists.
func (r *InterestRepo) Create(ctx context.Context, senderID, receiverID int64) (model.Interest, error) {
	if r.db == nil {
		return model.Interest{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.db.QueryRow(ctx, `
INSERT INTO interests AS i (sender_id, receiver_id, status, created_at, updated_at)
VALUES ($1, $2, 'pending', NOW(), NOW())
ON CONFLICT (sender_id, receiver_id) WHERE status IN ('pending', 'accepted') DO NOTHING
RETURNING `+interestColumns, senderID, receiverID)

	interest, err := scanInterest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Interest{}, ErrInterestExists
		}
		if pgErrorCode(err) == foreignKeyViolation {
			return model.Interest{}, ErrUserNotFound
		}
		return model.Interest{}, fmt.Errorf("insert interest: %w", err)
	}

	return interest, nil
}

func (r *InterestRepo) GetByID(ctx context.Context, interestID int64) (model.Interest, error) {
	if r.db == nil {
		return model.Interest{}, fmt.Errorf("postgres pool is nil")
	}

	interest, err := scanInterest(r.db.QueryRow(ctx, `SELECT `+interestColumns+` FROM interests i WHERE i.id = $1`, interestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Interest{}, ErrInterestNotFound
		}
		return model.Interest{}, fmt.Errorf("get interest: %w", err)
	}
	return interest, nil
}

func (r *InterestRepo) ListSent(ctx context.Context, userID int64) ([]model.InterestWithProfile, error) {
	return r.listJoined(ctx, `
SELECT `+interestColumns+`, `+profileColumns+`
FROM interests i
JOIN profiles p ON p.user_id = i.receiver_id
WHERE i.sender_id = $1
ORDER BY i.created_at DESC, i.id DESC
`, userID)
}

func (r *InterestRepo) ListReceived(ctx context.Context, userID int64) ([]model.InterestWithProfile, error) {
	return r.listJoined(ctx, `
SELECT `+interestColumns+`, `+profileColumns+`
FROM interests i
JOIN profiles p ON p.user_id = i.sender_id
WHERE i.receiver_id = $1
ORDER BY i.created_at DESC, i.id DESC
`, userID)
}

// ListMatches returns every accepted edge touching userID joined with the
// counterpart's profile. A pair accepted in both directions yields two rows.
func (r *InterestRepo) ListMatches(ctx context.Context, userID int64) ([]model.InterestWithProfile, error) {
	return r.listJoined(ctx, `
SELECT `+interestColumns+`, `+profileColumns+`
FROM interests i
JOIN profiles p ON p.user_id = CASE WHEN i.sender_id = $1 THEN i.receiver_id ELSE i.sender_id END
WHERE i.status = 'accepted'
	AND (i.sender_id = $1 OR i.receiver_id = $1)
ORDER BY i.created_at DESC, i.id DESC
`, userID)
}

func (r *InterestRepo) listJoined(ctx context.Context, query string, userID int64) ([]model.InterestWithProfile, error) {
	if r.db == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list interests: %w", err)
	}
	defer rows.Close()

	items := make([]model.InterestWithProfile, 0)
	for rows.Next() {
		item, err := scanInterestWithProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interest: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interests: %w", err)
	}

	return items, nil
}

// UpdateStatusIfPending applies next only while the row is still pending.
func (r *InterestRepo) UpdateStatusIfPending(ctx context.Context, interestID int64, next enums.InterestStatus) (model.Interest, error) {
	if r.db == nil {
		return model.Interest{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.db.QueryRow(ctx, `
UPDATE interests AS i
SET status = $2, updated_at = NOW()
WHERE i.id = $1 AND i.status = 'pending'
RETURNING `+interestColumns, interestID, string(next))

	interest, err := scanInterest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Interest{}, ErrInterestNotPending
		}
		return model.Interest{}, fmt.Errorf("update interest status: %w", err)
	}
	return interest, nil
}

// RejectAccepted moves accepted interests between the pair, in either
// direction, to rejected and reports how many changed.
func (r *InterestRepo) RejectAccepted(ctx context.Context, userID, counterpartID int64) (int64, error) {
	if r.db == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.db.Exec(ctx, `
UPDATE interests
SET status = 'rejected', updated_at = NOW()
WHERE status = 'accepted'
	AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
`, userID, counterpartID)
	if err != nil {
		return 0, fmt.Errorf("reject accepted interests: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *InterestRepo) HasAccepted(ctx context.Context, userID, counterpartID int64) (bool, error) {
	if r.db == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var matched bool
	err := r.db.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1 FROM interests
	WHERE status = 'accepted'
		AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
)
`, userID, counterpartID).Scan(&matched)
	if err != nil {
		return false, fmt.Errorf("check match: %w", err)
	}
	return matched, nil
}
