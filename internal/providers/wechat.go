package providers

import (
	"context"

	"github.com/google/uuid"

	"authd/internal/apperr"
	"authd/internal/model"
	"authd/internal/repo"
)

const ProviderWeChat = "wechat"

// WeChatClient abstracts the upstream code-exchange call. §4.5 explicitly
// leaves the upstream protocol out of scope ("the trait boundary is what
// matters"). The only implementation in this module is the unconfigured
// client cmd/authd wires in, whose every exchange fails.
type WeChatClient interface {
	ExchangeCode(ctx context.Context, code string) (externalID string, profile map[string]string, err error)
}

// WeChatProvider authenticates/registers users via an external OAuth-like
// exchange. credentials = (code, optional metadata), per §4.5.
type WeChatProvider struct {
	repos  *repo.Repos
	client WeChatClient
}

func NewWeChatProvider(repos *repo.Repos, client WeChatClient) *WeChatProvider {
	return &WeChatProvider{repos: repos, client: client}
}

func (p *WeChatProvider) ID() string { return ProviderWeChat }

func (p *WeChatProvider) Authenticate(ctx context.Context, app *model.Application, cfg *model.AppProvider, credentials map[string]string) (*model.User, error) {
	code := credentials["code"]
	if code == "" {
		return nil, apperr.BadRequest("code", "code is required")
	}
	externalID, _, err := p.client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, apperr.Unauthorized("invalid_grant", "wechat code exchange failed")
	}

	account, err := p.findByExternalID(ctx, externalID)
	if err != nil {
		return nil, apperr.Unauthorized("invalid_credentials", "no linked wechat account")
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

func (p *WeChatProvider) Register(ctx context.Context, app *model.Application, cfg *model.AppProvider, input map[string]string) (*model.User, error) {
	code := input["code"]
	externalID, profile, err := p.client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, apperr.BadRequest("code", "wechat code exchange failed")
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Name:     profile["name"],
		Role:     model.RoleUser,
		IsActive: true,
	}
	err = p.repos.WithTx(ctx, func(ctx context.Context, tx *repo.Repos) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		return tx.Accounts.Create(ctx, &model.Account{
			ID:                uuid.NewString(),
			UserID:            user.ID,
			ProviderID:        ProviderWeChat,
			ProviderAccountID: &externalID,
			ProviderMetadata:  "{}",
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (p *WeChatProvider) Link(ctx context.Context, user *model.User, cfg *model.AppProvider, input map[string]string) (*model.Account, error) {
	externalID, _, err := p.client.ExchangeCode(ctx, input["code"])
	if err != nil {
		return nil, apperr.BadRequest("code", "wechat code exchange failed")
	}
	account := &model.Account{
		ID:                uuid.NewString(),
		UserID:            user.ID,
		ProviderID:        ProviderWeChat,
		ProviderAccountID: &externalID,
		ProviderMetadata:  "{}",
	}
	if err := p.repos.Accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (p *WeChatProvider) findByExternalID(ctx context.Context, externalID string) (*model.Account, error) {
	// The WeChat-side id is stored in the account's provider_account_id
	// column, unique per provider, so the account is found through it.
	return p.repos.Accounts.GetByProviderAccountID(ctx, ProviderWeChat, externalID)
}
