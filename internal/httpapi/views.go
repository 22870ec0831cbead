package httpapi

import (
	"time"

	"authd/internal/model"
)

// UserView is the public projection of model.User served over HTTP.
type UserView struct {
	ID            string    `json:"id"`
	Email         *string   `json:"email,omitempty"`
	Name          string    `json:"name"`
	AvatarURL     *string   `json:"avatar_url,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	Role          string    `json:"role"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func userResponse(u *model.User) UserView {
	return UserView{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		AvatarURL:     u.AvatarURL,
		EmailVerified: u.EmailVerified,
		Role:          string(u.Role),
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
	}
}

func usersResponse(users []*model.User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	return out
}

// AccountView is the public projection of model.Account; Credential is
// deliberately never included.
type AccountView struct {
	ID                string  `json:"id"`
	ProviderID        string  `json:"provider_id"`
	ProviderAccountID *string `json:"provider_account_id,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

func accountsResponse(accounts []*model.Account) []AccountView {
	out := make([]AccountView, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountView{
			ID:                a.ID,
			ProviderID:        a.ProviderID,
			ProviderAccountID: a.ProviderAccountID,
			CreatedAt:         a.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

// ApplicationView is the public projection of model.Application;
// ClientSecretHash is deliberately never included.
type ApplicationView struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ClientID      string    `json:"client_id"`
	RedirectURIs  []string  `json:"redirect_uris"`
	AllowedScopes []string  `json:"allowed_scopes"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func applicationResponse(a *model.Application) ApplicationView {
	return ApplicationView{
		ID:            a.ID,
		Name:          a.Name,
		ClientID:      a.ClientID,
		RedirectURIs:  []string(a.RedirectURIs),
		AllowedScopes: []string(a.AllowedScopes),
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
	}
}

func applicationsResponse(apps []*model.Application) []ApplicationView {
	out := make([]ApplicationView, 0, len(apps))
	for _, a := range apps {
		out = append(out, applicationResponse(a))
	}
	return out
}

// AppProviderView is the public projection of model.AppProvider.
type AppProviderView struct {
	ProviderID string `json:"provider_id"`
	IsActive   bool   `json:"is_active"`
}

func appProvidersResponse(providers []*model.AppProvider) []AppProviderView {
	out := make([]AppProviderView, 0, len(providers))
	for _, p := range providers {
		out = append(out, AppProviderView{ProviderID: p.ProviderID, IsActive: p.IsActive})
	}
	return out
}
