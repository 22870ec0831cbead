package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"authd/internal/apperr"
	"authd/internal/model"
)

type AccountRepo struct{ db DBTX }

const accountSelectCols = `id, user_id, provider_id, provider_account_id, credential, provider_metadata, created_at, updated_at`

func (r *AccountRepo) Create(ctx context.Context, a *model.Account) error {
	now := nowUTC()
	a.CreatedAt, a.UpdatedAt = now, now
	if a.ProviderMetadata == "" {
		a.ProviderMetadata = "{}"
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO accounts (id, user_id, provider_id, provider_account_id, credential, provider_metadata, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.UserID, a.ProviderID, a.ProviderAccountID, a.Credential, a.ProviderMetadata, a.CreatedAt, a.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflict("provider_id", "account already linked for this provider")
	}
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *AccountRepo) GetByUserAndProvider(ctx context.Context, userID, providerID string) (*model.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountSelectCols+` FROM accounts WHERE user_id=$1 AND provider_id=$2`, userID, providerID)
	a, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("account", "account not found")
	}
	if err != nil {
		return nil, apperr.Database(err)
	}
	return a, nil
}

func (r *AccountRepo) GetByProviderAccountID(ctx context.Context, providerID, providerAccountID string) (*model.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountSelectCols+` FROM accounts WHERE provider_id=$1 AND provider_account_id=$2`, providerID, providerAccountID)
	a, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("account", "account not found")
	}
	if err != nil {
		return nil, apperr.Database(err)
	}
	return a, nil
}

func (r *AccountRepo) ListByUser(ctx context.Context, userID string) ([]*model.Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountSelectCols+` FROM accounts WHERE user_id=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, apperr.Database(err)
	}
	defer rows.Close()
	var out []*model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, apperr.Database(err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *AccountRepo) UpdateCredential(ctx context.Context, accountID, credentialHash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET credential=$1, updated_at=$2 WHERE id=$3`, credentialHash, nowUTC(), accountID)
	if err != nil {
		return apperr.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("account", "account not found")
	}
	return nil
}

func (r *AccountRepo) DeleteByUserAndProvider(ctx context.Context, userID, providerID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE user_id=$1 AND provider_id=$2`, userID, providerID)
	if err != nil {
		return apperr.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("account", "account not found")
	}
	return nil
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var a model.Account
	if err := row.Scan(&a.ID, &a.UserID, &a.ProviderID, &a.ProviderAccountID, &a.Credential, &a.ProviderMetadata, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
