package providers

import (
	"context"

	"github.com/google/uuid"

	"authd/internal/apperr"
	"authd/internal/model"
	"authd/internal/repo"
)

const ProviderTest = "test"

// TestProvider returns a deterministic user for a predetermined id,
// existing solely for integration tests. It must never be registered in a
// production Registry -- see NewRegistry's enableTest gate.
type TestProvider struct {
	repos *repo.Repos
}

func NewTestProvider(repos *repo.Repos) *TestProvider {
	return &TestProvider{repos: repos}
}

func (p *TestProvider) ID() string { return ProviderTest }

func (p *TestProvider) Authenticate(ctx context.Context, app *model.Application, cfg *model.AppProvider, credentials map[string]string) (*model.User, error) {
	predeterminedID := credentials["predetermined_id"]
	if predeterminedID == "" {
		return nil, apperr.BadRequest("predetermined_id", "predetermined_id is required")
	}

	account, err := p.repos.Accounts.GetByProviderAccountID(ctx, ProviderTest, predeterminedID)
	if err != nil {
		return p.Register(ctx, app, cfg, credentials)
	}
	user, err := p.repos.Users.GetByID(ctx, account.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized("user_disabled", "user is disabled")
	}
	return user, nil
}

func (p *TestProvider) Register(ctx context.Context, app *model.Application, cfg *model.AppProvider, input map[string]string) (*model.User, error) {
	predeterminedID := input["predetermined_id"]
	user := &model.User{
		ID:       uuid.NewString(),
		Name:     "Test User " + predeterminedID,
		Role:     model.RoleUser,
		IsActive: true,
	}
	err := p.repos.WithTx(ctx, func(ctx context.Context, tx *repo.Repos) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		return tx.Accounts.Create(ctx, &model.Account{
			ID:                uuid.NewString(),
			UserID:            user.ID,
			ProviderID:        ProviderTest,
			ProviderAccountID: &predeterminedID,
			ProviderMetadata:  "{}",
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (p *TestProvider) Link(ctx context.Context, user *model.User, cfg *model.AppProvider, input map[string]string) (*model.Account, error) {
	predeterminedID := input["predetermined_id"]
	account := &model.Account{
		ID:                uuid.NewString(),
		UserID:            user.ID,
		ProviderID:        ProviderTest,
		ProviderAccountID: &predeterminedID,
		ProviderMetadata:  "{}",
	}
	if err := p.repos.Accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}
