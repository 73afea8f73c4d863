package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TokenRepo persists refresh-token hashes and email-verification
// tokens.  Refresh tokens are stored as SHA-256 hashes (single
// 'token_hash' column); verification tokens are opaque UUIDs that can
// be consumed exactly once.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// ValidateRefresh returns userID if a non-revoked, non-expired token exists.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		return 0, err
	}
	if revokedAt.Valid {
		return 0, sql.ErrNoRows
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, sql.ErrNoRows
	}
	return userID, nil
}

// RevokeByHash marks a refresh token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser revokes all of a user's active refresh tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}

// Verification-token errors surfaced to the verify endpoint.
var (
	ErrTokenNotFound = errors.New("verification token not found")
	ErrTokenUsed     = errors.New("verification token already used")
	ErrTokenExpired  = errors.New("verification token expired")
)

// StoreVerification records a one-shot email verification token.
func (r *TokenRepo) StoreVerification(ctx context.Context, userID uint64, token string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO email_verifications (user_id, token, expires_at) VALUES (?,?,?)",
		userID, token, exp)
	return err
}

// ConsumeVerification validates a verification token and marks it used,
// returning the owning user ID.  The used/expired checks happen before
// the update so repeated calls report the precise failure.
func (r *TokenRepo) ConsumeVerification(ctx context.Context, token string) (uint64, error) {
	var (
		id        uint64
		userID    uint64
		expiresAt time.Time
		usedAt    sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, expires_at, used_at FROM email_verifications WHERE token=? LIMIT 1",
		token).Scan(&id, &userID, &expiresAt, &usedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, err
	}
	if usedAt.Valid {
		return 0, ErrTokenUsed
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, ErrTokenExpired
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE email_verifications SET used_at=NOW() WHERE id=?", id)
	if err != nil {
		return 0, err
	}
	return userID, nil
}
