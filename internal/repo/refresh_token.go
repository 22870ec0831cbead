package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"authd/internal/apperr"
	"authd/internal/model"
)

type RefreshTokenRepo struct{ db DBTX }

func (r *RefreshTokenRepo) Create(ctx context.Context, t *model.RefreshToken) error {
	scopes, err := marshalSlice(t.Scopes)
	if err != nil {
		return apperr.Internal(err)
	}
	t.CreatedAt = nowUTC()
	_, err = r.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, app_id, token_hash, scopes, device_id, expires_at, revoked, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		t.ID, t.UserID, t.AppID, t.TokenHash, scopes, t.DeviceID, t.ExpiresAt, t.Revoked, t.CreatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflict("token_hash", "refresh token collision")
	}
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *RefreshTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, app_id, token_hash, scopes, device_id, expires_at, revoked, created_at FROM refresh_tokens WHERE token_hash=$1`, tokenHash)
	t, err := scanRefreshToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.InvalidGrant("invalid_grant", "refresh token not found")
	}
	if err != nil {
		return nil, apperr.Database(err)
	}
	return t, nil
}

// Revoke flips revoked=false -> true and reports whether this call was the
// one that flipped it, the same conditional-update pattern as
// AuthorizationCodeRepo.MarkUsed, so presenting the same refresh token
// twice leaves exactly one caller successful.
func (r *RefreshTokenRepo) Revoke(ctx context.Context, tokenHash string) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE refresh_tokens SET revoked=TRUE WHERE token_hash=$1 AND revoked=FALSE`, tokenHash)
	if err != nil {
		return false, apperr.Database(err)
	}
	return tag.RowsAffected() == 1, nil
}

// RevokeAllForUser revokes every non-revoked refresh token for userID,
// optionally scoped to a single device, backing the logout operation (C6).
func (r *RefreshTokenRepo) RevokeAllForUser(ctx context.Context, userID string, deviceID *string) error {
	var err error
	if deviceID != nil {
		_, err = r.db.Exec(ctx, `UPDATE refresh_tokens SET revoked=TRUE WHERE user_id=$1 AND device_id=$2 AND revoked=FALSE`, userID, *deviceID)
	} else {
		_, err = r.db.Exec(ctx, `UPDATE refresh_tokens SET revoked=TRUE WHERE user_id=$1 AND revoked=FALSE`, userID)
	}
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func scanRefreshToken(row rowScanner) (*model.RefreshToken, error) {
	var t model.RefreshToken
	var scopes []byte
	if err := row.Scan(&t.ID, &t.UserID, &t.AppID, &t.TokenHash, &scopes, &t.DeviceID, &t.ExpiresAt, &t.Revoked, &t.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if t.Scopes, err = unmarshalSlice(scopes); err != nil {
		return nil, err
	}
	return &t, nil
}
