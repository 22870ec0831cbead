// Package model defines the six persisted entities of the authorization
// server and the small value types shared between them.
package model

import "time"

// StringSlice is a JSON-array-in-text column, following the teacher's
// StringArray pattern (pkg/common/model/model_oauth2_client.go) but backed
// by jsonb rather than a Postgres array literal, since the persistence
// layer here targets plain TEXT/JSONB columns rather than native arrays.
type StringSlice []string

// Role is the coarse authorization role carried on a User and embedded in
// issued access tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Application is a registered OAuth2 client.
type Application struct {
	ID               string
	Name             string
	ClientID         string
	ClientSecretHash string
	RedirectURIs     StringSlice
	AllowedScopes    StringSlice
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AppProvider binds an Application to one configured AuthProvider variant.
type AppProvider struct {
	ID         string
	AppID      string
	ProviderID string
	Config     string // raw JSON
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// User is an end-user identity, optionally emailless for third-party-only
// accounts.
type User struct {
	ID            string
	Email         *string
	Name          string
	AvatarURL     *string
	EmailVerified bool
	Role          Role
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Account binds a User to a provider-specific credential or external
// identity.
type Account struct {
	ID                string
	UserID            string
	ProviderID        string
	ProviderAccountID *string
	Credential        *string
	ProviderMetadata  string // raw JSON
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AuthorizationCode is a single-use, short-lived code minted during the
// authorization_code + PKCE flow.
type AuthorizationCode struct {
	Code                string
	AppID               string
	UserID              string
	RedirectURI         string
	Scopes              StringSlice
	CodeChallenge       *string
	CodeChallengeMethod *string
	ExpiresAt           time.Time
	Used                bool
	CreatedAt           time.Time
}

// RefreshToken is an opaque, rotating credential; only its hash is
// persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	AppID     string
	TokenHash string
	Scopes    StringSlice
	DeviceID  *string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}
