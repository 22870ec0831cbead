package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"authd/internal/apperr"
	"authd/internal/model"
)

type AppProviderRepo struct{ db DBTX }

func (r *AppProviderRepo) Create(ctx context.Context, p *model.AppProvider) error {
	now := nowUTC()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := r.db.Exec(ctx, `
		INSERT INTO app_providers (id, app_id, provider_id, config, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.AppID, p.ProviderID, p.Config, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflict("provider_id", "provider already configured for this application")
	}
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *AppProviderRepo) Get(ctx context.Context, appID, providerID string) (*model.AppProvider, error) {
	row := r.db.QueryRow(ctx, `SELECT id, app_id, provider_id, config, is_active, created_at, updated_at FROM app_providers WHERE app_id=$1 AND provider_id=$2`, appID, providerID)
	var p model.AppProvider
	err := row.Scan(&p.ID, &p.AppID, &p.ProviderID, &p.Config, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("app_provider", "provider not configured for this application")
	}
	if err != nil {
		return nil, apperr.Database(err)
	}
	return &p, nil
}

func (r *AppProviderRepo) ListByApp(ctx context.Context, appID string) ([]*model.AppProvider, error) {
	rows, err := r.db.Query(ctx, `SELECT id, app_id, provider_id, config, is_active, created_at, updated_at FROM app_providers WHERE app_id=$1 ORDER BY created_at`, appID)
	if err != nil {
		return nil, apperr.Database(err)
	}
	defer rows.Close()
	var out []*model.AppProvider
	for rows.Next() {
		var p model.AppProvider
		if err := rows.Scan(&p.ID, &p.AppID, &p.ProviderID, &p.Config, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, apperr.Database(err)
		}
		out = append(out, &p)
	}
	return out, nil
}

func (r *AppProviderRepo) Delete(ctx context.Context, appID, providerID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM app_providers WHERE app_id=$1 AND provider_id=$2`, appID, providerID)
	if err != nil {
		return apperr.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("app_provider", "provider not configured for this application")
	}
	return nil
}
