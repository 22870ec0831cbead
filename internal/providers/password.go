package providers

import (
	"context"

	"github.com/google/uuid"

	"authd/internal/apperr"
	"authd/internal/credential"
	"authd/internal/model"
	"authd/internal/repo"
)

const ProviderPassword = "password"

// PasswordProvider authenticates and registers users against an Account
// row whose credential column stores an Argon2id password hash, per §4.5.
type PasswordProvider struct {
	repos *repo.Repos
}

func NewPasswordProvider(repos *repo.Repos) *PasswordProvider {
	return &PasswordProvider{repos: repos}
}

func (p *PasswordProvider) ID() string { return ProviderPassword }

// Authenticate resolves credentials["identifier"] (email or user id) and
// verifies credentials["password"] against the stored Argon2id hash.
func (p *PasswordProvider) Authenticate(ctx context.Context, app *model.Application, cfg *model.AppProvider, credentials map[string]string) (*model.User, error) {
	identifier := credentials["identifier"]
	password := credentials["password"]
	if identifier == "" || password == "" {
		return nil, apperr.BadRequest("identifier", "identifier and password are required")
	}

	user, err := p.resolveUser(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized("user_disabled", "user is disabled")
	}

	account, err := p.repos.Accounts.GetByUserAndProvider(ctx, user.ID, ProviderPassword)
	if err != nil {
		return nil, apperr.Unauthorized("invalid_credentials", "invalid identifier or password")
	}
	if account.Credential == nil {
		return nil, apperr.Unauthorized("invalid_credentials", "invalid identifier or password")
	}

	ok, err := credential.VerifyPassword(*account.Credential, password)
	if err != nil || !ok {
		return nil, apperr.Unauthorized("invalid_credentials", "invalid identifier or password")
	}
	return user, nil
}

func (p *PasswordProvider) resolveUser(ctx context.Context, identifier string) (*model.User, error) {
	if user, err := p.repos.Users.GetByEmail(ctx, identifier); err == nil {
		return user, nil
	}
	user, err := p.repos.Users.GetByID(ctx, identifier)
	if err != nil {
		return nil, apperr.Unauthorized("invalid_credentials", "invalid identifier or password")
	}
	return user, nil
}

// Register creates a new user plus its password Account in one
// transaction, satisfying §4.2's "user creation with initial account"
// transactional boundary.
func (p *PasswordProvider) Register(ctx context.Context, app *model.Application, cfg *model.AppProvider, input map[string]string) (*model.User, error) {
	email := input["email"]
	name := input["name"]
	password := input["password"]

	if err := credential.ValidatePassword(password); err != nil {
		return nil, apperr.BadRequest("password", err.Error())
	}
	hash, err := credential.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Name:     name,
		Role:     model.RoleUser,
		IsActive: true,
	}
	if email != "" {
		user.Email = &email
	}

	err = p.repos.WithTx(ctx, func(ctx context.Context, tx *repo.Repos) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		return tx.Accounts.Create(ctx, &model.Account{
			ID:               uuid.NewString(),
			UserID:           user.ID,
			ProviderID:       ProviderPassword,
			Credential:       &hash,
			ProviderMetadata: "{}",
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Link attaches a password credential to an already-registered user, e.g.
// when an account created via another provider later sets a password.
func (p *PasswordProvider) Link(ctx context.Context, user *model.User, cfg *model.AppProvider, input map[string]string) (*model.Account, error) {
	password := input["password"]
	if err := credential.ValidatePassword(password); err != nil {
		return nil, apperr.BadRequest("password", err.Error())
	}
	hash, err := credential.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	account := &model.Account{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		ProviderID:       ProviderPassword,
		Credential:       &hash,
		ProviderMetadata: "{}",
	}
	if err := p.repos.Accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}
