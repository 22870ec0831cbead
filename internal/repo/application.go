package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"authd/internal/apperr"
	"authd/internal/model"
)

type ApplicationRepo struct{ db DBTX }

func (r *ApplicationRepo) Create(ctx context.Context, a *model.Application) error {
	redirects, err := marshalSlice(a.RedirectURIs)
	if err != nil {
		return apperr.Internal(err)
	}
	scopes, err := marshalSlice(a.AllowedScopes)
	if err != nil {
		return apperr.Internal(err)
	}
	now := nowUTC()
	a.CreatedAt, a.UpdatedAt = now, now
	_, err = r.db.Exec(ctx, `
		INSERT INTO applications (id, name, client_id, client_secret_hash, redirect_uris, allowed_scopes, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.Name, a.ClientID, a.ClientSecretHash, redirects, scopes, a.IsActive, a.CreatedAt, a.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflict("client_id", "client_id already exists")
	}
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	return r.scanOne(ctx, `SELECT id, name, client_id, client_secret_hash, redirect_uris, allowed_scopes, is_active, created_at, updated_at FROM applications WHERE id = $1`, id)
}

func (r *ApplicationRepo) GetByClientID(ctx context.Context, clientID string) (*model.Application, error) {
	return r.scanOne(ctx, `SELECT id, name, client_id, client_secret_hash, redirect_uris, allowed_scopes, is_active, created_at, updated_at FROM applications WHERE client_id = $1`, clientID)
}

func (r *ApplicationRepo) List(ctx context.Context) ([]*model.Application, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, client_id, client_secret_hash, redirect_uris, allowed_scopes, is_active, created_at, updated_at FROM applications ORDER BY created_at`)
	if err != nil {
		return nil, apperr.Database(err)
	}
	defer rows.Close()

	var out []*model.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, apperr.Database(err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *ApplicationRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM applications`).Scan(&n); err != nil {
		return 0, apperr.Database(err)
	}
	return n, nil
}

func (r *ApplicationRepo) Update(ctx context.Context, a *model.Application) error {
	redirects, err := marshalSlice(a.RedirectURIs)
	if err != nil {
		return apperr.Internal(err)
	}
	scopes, err := marshalSlice(a.AllowedScopes)
	if err != nil {
		return apperr.Internal(err)
	}
	a.UpdatedAt = nowUTC()
	tag, err := r.db.Exec(ctx, `
		UPDATE applications SET name=$1, redirect_uris=$2, allowed_scopes=$3, is_active=$4, updated_at=$5
		WHERE id=$6`,
		a.Name, redirects, scopes, a.IsActive, a.UpdatedAt, a.ID)
	if err != nil {
		return apperr.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("application", "application not found")
	}
	return nil
}

// RotateSecret replaces the stored secret hash, e.g. after an admin
// triggers POST /applications/:id/rotate-secret.
func (r *ApplicationRepo) RotateSecret(ctx context.Context, id, newHash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE applications SET client_secret_hash=$1, updated_at=$2 WHERE id=$3`, newHash, nowUTC(), id)
	if err != nil {
		return apperr.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("application", "application not found")
	}
	return nil
}

func (r *ApplicationRepo) scanOne(ctx context.Context, query string, args ...interface{}) (*model.Application, error) {
	row := r.db.QueryRow(ctx, query, args...)
	a, err := scanApplication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("application", "application not found")
	}
	if err != nil {
		return nil, apperr.Database(err)
	}
	return a, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*model.Application, error) {
	var a model.Application
	var redirects, scopes []byte
	if err := row.Scan(&a.ID, &a.Name, &a.ClientID, &a.ClientSecretHash, &redirects, &scopes, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if a.RedirectURIs, err = unmarshalSlice(redirects); err != nil {
		return nil, err
	}
	if a.AllowedScopes, err = unmarshalSlice(scopes); err != nil {
		return nil, err
	}
	return &a, nil
}
