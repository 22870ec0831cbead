// Package tokens implements C6, the token engine: issuing, rotating,
// revoking, and introspecting access/refresh token pairs.
package tokens

import (
	"context"
	"time"

	"github.com/google/uuid"

	"authd/internal/apperr"
	"authd/internal/credential"
	"authd/internal/model"
	"authd/internal/repo"
	"authd/internal/tokenize"
)

// Pair is the RFC 6749-shaped token response.
type Pair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
}

// IntrospectionResult is the body introspect() returns per §4.6.
type IntrospectionResult struct {
	Active bool     `json:"active"`
	Sub    string   `json:"sub,omitempty"`
	Aud    string   `json:"aud,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
	Exp    int64    `json:"exp,omitempty"`
	Iat    int64    `json:"iat,omitempty"`
	Role   string   `json:"role,omitempty"`
}

// Engine ties together the persistence layer and the JWT service to
// implement the five token operations of §4.6.
type Engine struct {
	repos              *repo.Repos
	jwt                *tokenize.Service
	accessLifetime     time.Duration
	refreshLifetime    time.Duration
}

func NewEngine(repos *repo.Repos, jwt *tokenize.Service, accessLifetime, refreshLifetime time.Duration) *Engine {
	return &Engine{repos: repos, jwt: jwt, accessLifetime: accessLifetime, refreshLifetime: refreshLifetime}
}

// IssueTokens validates the requested scopes against the application's
// allowed set, mints a refresh token, and signs an access token.
func (e *Engine) IssueTokens(ctx context.Context, user *model.User, app *model.Application, scopes []string, deviceID *string) (*Pair, error) {
	if err := validateScopes(scopes, app.AllowedScopes); err != nil {
		return nil, err
	}

	refreshValue, err := credential.GenerateRandomToken()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	refreshRow := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		AppID:     app.ID,
		TokenHash: credential.HashRefreshToken(refreshValue),
		Scopes:    scopes,
		DeviceID:  deviceID,
		ExpiresAt: time.Now().UTC().Add(e.refreshLifetime),
	}
	if err := e.repos.RefreshTokens.Create(ctx, refreshRow); err != nil {
		return nil, err
	}

	accessToken, expiresAt, err := e.jwt.Issue(user, app, scopes, e.accessLifetime)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &Pair{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		TokenType:    "Bearer",
		ExpiresIn:    int64(time.Until(expiresAt).Seconds()),
	}, nil
}

// Refresh rotates a refresh token: the old row is revoked and a new pair is
// issued, inside one transaction so a crash mid-rotation cannot leave both
// the old token usable and a new one issued (§4.6, §5).
func (e *Engine) Refresh(ctx context.Context, refreshTokenValue, clientID string) (*Pair, error) {
	tokenHash := credential.HashRefreshToken(refreshTokenValue)

	existing, err := e.repos.RefreshTokens.GetByHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if existing.Revoked || time.Now().UTC().After(existing.ExpiresAt) {
		return nil, apperr.InvalidGrant("invalid_grant", "refresh token is revoked or expired")
	}

	app, err := e.repos.Applications.GetByID(ctx, existing.AppID)
	if err != nil {
		return nil, apperr.InvalidGrant("invalid_grant", "application not found")
	}
	if app.ClientID != clientID {
		return nil, apperr.InvalidGrant("invalid_grant", "refresh token was not issued to this client")
	}

	user, err := e.repos.Users.GetByID(ctx, existing.UserID)
	if err != nil {
		return nil, apperr.InvalidGrant("invalid_grant", "user not found")
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized("user_disabled", "user is disabled")
	}

	var pair *Pair
	err = e.repos.WithTx(ctx, func(ctx context.Context, tx *repo.Repos) error {
		flipped, err := tx.RefreshTokens.Revoke(ctx, tokenHash)
		if err != nil {
			return err
		}
		if !flipped {
			// Someone else rotated or revoked this token first: the
			// conditional update is how §5's "first committer wins" plays
			// out for refresh rotation.
			return apperr.InvalidGrant("invalid_grant", "refresh token already used")
		}

		refreshValue, err := credential.GenerateRandomToken()
		if err != nil {
			return apperr.Internal(err)
		}
		newRow := &model.RefreshToken{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			AppID:     app.ID,
			TokenHash: credential.HashRefreshToken(refreshValue),
			Scopes:    existing.Scopes,
			DeviceID:  existing.DeviceID,
			ExpiresAt: time.Now().UTC().Add(e.refreshLifetime),
		}
		if err := tx.RefreshTokens.Create(ctx, newRow); err != nil {
			return err
		}

		accessToken, expiresAt, err := e.jwt.Issue(user, app, existing.Scopes, e.accessLifetime)
		if err != nil {
			return apperr.Internal(err)
		}
		pair = &Pair{
			AccessToken:  accessToken,
			RefreshToken: refreshValue,
			TokenType:    "Bearer",
			ExpiresIn:    int64(time.Until(expiresAt).Seconds()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Revoke marks a refresh token revoked if one matches the presented
// string. Access tokens are stateless; revoking one is a no-op that still
// reports success, per RFC 7009 and §4.6.
func (e *Engine) Revoke(ctx context.Context, tokenValue string) {
	tokenHash := credential.HashRefreshToken(tokenValue)
	_, _ = e.repos.RefreshTokens.Revoke(ctx, tokenHash)
}

// Introspect decodes tokenValue as a JWT and reports its active claims.
// Decode failures of any kind collapse to {active:false}; the reason is
// never surfaced, per §4.6 and §7.
func (e *Engine) Introspect(tokenValue string) IntrospectionResult {
	claims, err := e.jwt.Verify(tokenValue)
	if err != nil {
		return IntrospectionResult{Active: false}
	}
	var aud string
	if len(claims.Audience) > 0 {
		aud = claims.Audience[0]
	}
	return IntrospectionResult{
		Active: true,
		Sub:    claims.Subject,
		Aud:    aud,
		Scopes: claims.Scopes,
		Exp:    claims.ExpiresAt.Unix(),
		Iat:    claims.IssuedAt.Unix(),
		Role:   claims.Role,
	}
}

// Logout revokes every non-revoked refresh token for userID, optionally
// scoped to one device. Already-issued access tokens remain valid until
// expiry, documented in §4.6 rather than hidden.
func (e *Engine) Logout(ctx context.Context, userID string, deviceID *string) error {
	return e.repos.RefreshTokens.RevokeAllForUser(ctx, userID, deviceID)
}

func validateScopes(requested, allowed model.StringSlice) error {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, s := range allowed {
		allowedSet[s] = struct{}{}
	}
	for _, s := range requested {
		if _, ok := allowedSet[s]; !ok {
			return apperr.InvalidGrant("invalid_scope", "scope not permitted for this application: "+s)
		}
	}
	return nil
}
