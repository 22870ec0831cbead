// Package repo implements the persistence layer (C2): one narrow-signature
// function per operation, grounded on the teacher's
// services/identify/repositories package. No ORM; every query is an
// explicit, parameterized SQL statement.
package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"authd/internal/model"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx so every repository
// function can run standalone or inside a caller-managed transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Repos aggregates every entity repository for convenient injection,
// mirroring the teacher's repositories.Repositories aggregate.
type Repos struct {
	Applications  *ApplicationRepo
	AppProviders  *AppProviderRepo
	Users         *UserRepo
	Accounts      *AccountRepo
	AuthCodes     *AuthorizationCodeRepo
	RefreshTokens *RefreshTokenRepo
	pool          *pgxpool.Pool
}

// New builds all repositories against pool.
func New(pool *pgxpool.Pool) *Repos {
	return &Repos{
		Applications:  &ApplicationRepo{db: pool},
		AppProviders:  &AppProviderRepo{db: pool},
		Users:         &UserRepo{db: pool},
		Accounts:      &AccountRepo{db: pool},
		AuthCodes:     &AuthorizationCodeRepo{db: pool},
		RefreshTokens: &RefreshTokenRepo{db: pool},
		pool:          pool,
	}
}

// WithTx runs fn inside a single database transaction and commits iff fn
// returns nil, matching §4.2's required transactional boundaries
// (refresh-token rotation, user+account creation).
func (r *Repos) WithTx(ctx context.Context, fn func(ctx context.Context, tx *Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	txRepos := &Repos{
		Applications:  &ApplicationRepo{db: tx},
		AppProviders:  &AppProviderRepo{db: tx},
		Users:         &UserRepo{db: tx},
		Accounts:      &AccountRepo{db: tx},
		AuthCodes:     &AuthorizationCodeRepo{db: tx},
		RefreshTokens: &RefreshTokenRepo{db: tx},
	}
	if err := fn(ctx, txRepos); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func marshalSlice(s model.StringSlice) ([]byte, error) {
	if s == nil {
		s = model.StringSlice{}
	}
	return json.Marshal(s)
}

func unmarshalSlice(b []byte) (model.StringSlice, error) {
	if len(b) == 0 {
		return model.StringSlice{}, nil
	}
	var out model.StringSlice
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nowUTC() time.Time { return time.Now().UTC() }
