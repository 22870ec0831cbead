package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"authd/internal/apperr"
	"authd/internal/model"
)

type AuthorizationCodeRepo struct{ db DBTX }

func (r *AuthorizationCodeRepo) Create(ctx context.Context, c *model.AuthorizationCode) error {
	scopes, err := marshalSlice(c.Scopes)
	if err != nil {
		return apperr.Internal(err)
	}
	c.CreatedAt = nowUTC()
	_, err = r.db.Exec(ctx, `
		INSERT INTO authorization_codes (code, app_id, user_id, redirect_uri, scopes, code_challenge, code_challenge_method, expires_at, used, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.Code, c.AppID, c.UserID, c.RedirectURI, scopes, c.CodeChallenge, c.CodeChallengeMethod, c.ExpiresAt, c.Used, c.CreatedAt)
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *AuthorizationCodeRepo) Get(ctx context.Context, code string) (*model.AuthorizationCode, error) {
	row := r.db.QueryRow(ctx, `SELECT code, app_id, user_id, redirect_uri, scopes, code_challenge, code_challenge_method, expires_at, used, created_at FROM authorization_codes WHERE code=$1`, code)
	c, err := scanAuthCode(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.InvalidGrant("invalid_grant", "authorization code not found")
	}
	if err != nil {
		return nil, apperr.Database(err)
	}
	return c, nil
}

// MarkUsed flips used=false -> true and reports whether this call was the
// one that flipped it. A false result (with nil error) means the code was
// already used or does not exist, so the caller's redeem attempt must fail
// invalid_grant -- this is the conditional-update mechanism §5 requires for
// single-use replay defense.
func (r *AuthorizationCodeRepo) MarkUsed(ctx context.Context, code string) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE authorization_codes SET used=TRUE WHERE code=$1 AND used=FALSE`, code)
	if err != nil {
		return false, apperr.Database(err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanAuthCode(row rowScanner) (*model.AuthorizationCode, error) {
	var c model.AuthorizationCode
	var scopes []byte
	if err := row.Scan(&c.Code, &c.AppID, &c.UserID, &c.RedirectURI, &scopes, &c.CodeChallenge, &c.CodeChallengeMethod, &c.ExpiresAt, &c.Used, &c.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if c.Scopes, err = unmarshalSlice(scopes); err != nil {
		return nil, err
	}
	return &c, nil
}
