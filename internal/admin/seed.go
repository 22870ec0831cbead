// Package admin implements C10, the idempotent admin seed/bootstrap
// command, grounded on the teacher's oauth2.SeedDefaultClients
// (INSERT ... ON CONFLICT DO NOTHING idempotency).
package admin

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"authd/internal/apperr"
	"authd/internal/credential"
	"authd/internal/model"
	"authd/internal/repo"
)

// Result reports what Seed did, so the CLI can print the right message.
type Result struct {
	UserID          string
	AlreadyAdmin    bool
	ClientSecret    string // only set on first creation
	AdminAppID      string
	AdminAppCreated bool
}

// Seed materializes the first admin user and its "Admin Dashboard"
// application when no user has the given email, returning the generated
// client secret. When a user with that email already exists, nothing is
// created: an existing admin is reported as AlreadyAdmin, and an existing
// regular user is promoted to admin and also reported as AlreadyAdmin; no
// Admin Dashboard application is created and no secret is returned in
// either case. Calling it twice with the same email therefore never returns
// the client secret a second time, satisfying invariant 7.
func Seed(ctx context.Context, repos *repo.Repos, email, password string) (*Result, error) {
	if err := credential.ValidatePassword(password); err != nil {
		return nil, apperr.BadRequest("password", err.Error())
	}

	existing, err := repos.Users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role == model.RoleAdmin {
			return &Result{UserID: existing.ID, AlreadyAdmin: true}, nil
		}
		existing.Role = model.RoleAdmin
		if err := repos.Users.Update(ctx, existing); err != nil {
			return nil, err
		}
		return &Result{UserID: existing.ID, AlreadyAdmin: true}, nil
	}
	if ae, ok := apperr.As(err); !ok || ae.Kind != apperr.KindNotFound {
		return nil, err
	}

	hash, err := credential.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &model.User{
		ID:            uuid.NewString(),
		Email:         &email,
		Name:          "Administrator",
		EmailVerified: true,
		Role:          model.RoleAdmin,
		IsActive:      true,
	}

	var clientSecret string
	var adminApp *model.Application

	err = repos.WithTx(ctx, func(ctx context.Context, tx *repo.Repos) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		if err := tx.Accounts.Create(ctx, &model.Account{
			ID:               uuid.NewString(),
			UserID:           user.ID,
			ProviderID:       "password",
			Credential:       &hash,
			ProviderMetadata: "{}",
		}); err != nil {
			return err
		}

		secret, err := credential.GenerateRandomToken()
		if err != nil {
			return apperr.Internal(err)
		}
		secretHash, err := credential.HashSecret(secret)
		if err != nil {
			return apperr.Internal(err)
		}
		clientSecret = secret

		adminApp = &model.Application{
			ID:               uuid.NewString(),
			Name:             "Admin Dashboard",
			ClientID:         uuid.NewString(),
			ClientSecretHash: secretHash,
			RedirectURIs:     model.StringSlice{},
			AllowedScopes:    model.StringSlice{"admin"},
			IsActive:         true,
		}
		return tx.Applications.Create(ctx, adminApp)
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		UserID:          user.ID,
		ClientSecret:    clientSecret,
		AdminAppID:      adminApp.ID,
		AdminAppCreated: true,
	}, nil
}

// Summary renders a one-line human summary for the CLI, printing the
// secret exactly once.
func (r *Result) Summary() string {
	if r.AlreadyAdmin {
		return "already_admin"
	}
	return fmt.Sprintf("created admin user %s, admin app %s, client_secret=%s", r.UserID, r.AdminAppID, r.ClientSecret)
}
