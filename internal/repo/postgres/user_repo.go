package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bandhan-app/matrimony/internal/domain/enums"
	"github.com/bandhan-app/matrimony/internal/domain/model"
)

type UserRepo struct {
	db Querier
}

type CredentialsRecord struct {
	User         model.User
	PasswordHash string
	// TOTPSecret is empty unless two-factor login is enabled.
	TOTPSecret string
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	if pool == nil {
		return &UserRepo{}
	}
	return &UserRepo{db: pool}
}

// InTx returns a repo bound to tx.
func (r *UserRepo) InTx(tx pgx.Tx) *UserRepo {
	return &UserRepo{db: tx}
}

func (r *UserRepo) Create(ctx context.Context, username, passwordHash string, isAdmin bool) (model.User, error) {
	if r.db == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	var user model.User
	err := r.db.QueryRow(ctx, `
INSERT INTO users (username, password_hash, is_admin, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, username, is_admin, created_at
`, strings.TrimSpace(username), passwordHash, isAdmin).Scan(&user.ID, &user.Username, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return model.User{}, ErrUsernameTaken
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	user.Role = enums.RoleFor(user.IsAdmin)

	return user, nil
}

func (r *UserRepo) FindCredentials(ctx context.Context, username string) (CredentialsRecord, error) {
	if r.db == nil {
		return CredentialsRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec CredentialsRecord
	err := r.db.QueryRow(ctx, `
SELECT id, username, is_admin, created_at, password_hash, totp_secret
FROM users
WHERE username = $1
`, strings.TrimSpace(username)).Scan(
		&rec.User.ID,
		&rec.User.Username,
		&rec.User.IsAdmin,
		&rec.User.CreatedAt,
		&rec.PasswordHash,
		&rec.TOTPSecret,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CredentialsRecord{}, ErrUserNotFound
		}
		return CredentialsRecord{}, fmt.Errorf("find user by username: %w", err)
	}
	rec.User.Role = enums.RoleFor(rec.User.IsAdmin)

	return rec, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (model.User, error) {
	if r.db == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	var user model.User
	err := r.db.QueryRow(ctx, `
SELECT id, username, is_admin, created_at
FROM users
WHERE id = $1
`, userID).Scan(&user.ID, &user.Username, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user by id: %w", err)
	}
	user.Role = enums.RoleFor(user.IsAdmin)

	return user, nil
}

func (r *UserRepo) SetTOTPSecret(ctx context.Context, userID int64, secret string) error {
	if r.db == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.db.Exec(ctx, `UPDATE users SET totp_secret = $2 WHERE id = $1`, userID, secret)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) Exists(ctx context.Context, userID int64) (bool, error) {
	if r.db == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	if r.db == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.db.Query(ctx, `
SELECT id, username, is_admin, created_at
FROM users
ORDER BY id ASC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, limit)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.IsAdmin, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user.Role = enums.RoleFor(user.IsAdmin)
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
