package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"authd/internal/apperr"
	"authd/internal/model"
)

type UserRepo struct{ db DBTX }

func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	now := nowUTC()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, name, avatar_url, email_verified, role, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		u.ID, u.Email, u.Name, u.AvatarURL, u.EmailVerified, string(u.Role), u.IsActive, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflict("email", "email already registered")
	}
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

const userSelectCols = `id, email, name, avatar_url, email_verified, role, is_active, created_at, updated_at`

func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.scanOne(ctx, `SELECT `+userSelectCols+` FROM users WHERE id=$1`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanOne(ctx, `SELECT `+userSelectCols+` FROM users WHERE email=$1`, email)
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, apperr.Database(err)
	}
	return n, nil
}

func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userSelectCols+` FROM users ORDER BY created_at LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, apperr.Database(err)
	}
	defer rows.Close()
	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Database(err)
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	u.UpdatedAt = nowUTC()
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET name=$1, avatar_url=$2, email_verified=$3, role=$4, is_active=$5, updated_at=$6
		WHERE id=$7`,
		u.Name, u.AvatarURL, u.EmailVerified, string(u.Role), u.IsActive, u.UpdatedAt, u.ID)
	if err != nil {
		return apperr.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user", "user not found")
	}
	return nil
}

func (r *UserRepo) scanOne(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	row := r.db.QueryRow(ctx, query, args...)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user", "user not found")
	}
	if err != nil {
		return nil, apperr.Database(err)
	}
	return u, nil
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.EmailVerified, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}
