// Package authcode implements C7, the authorization-code engine: minting
// single-use codes bound to (app, user, redirect_uri, scopes, PKCE
// challenge) and redeeming them for a token pair.
package authcode

import (
	"context"
	"time"

	"authd/internal/apperr"
	"authd/internal/credential"
	"authd/internal/model"
	"authd/internal/repo"
	"authd/internal/tokens"
)

type Engine struct {
	repos    *repo.Repos
	tokens   *tokens.Engine
	lifetime time.Duration
}

func NewEngine(repos *repo.Repos, tokenEngine *tokens.Engine, lifetime time.Duration) *Engine {
	return &Engine{repos: repos, tokens: tokenEngine, lifetime: lifetime}
}

// MintInput carries the parameters §4.7's Mint operation validates.
type MintInput struct {
	User                *model.User
	App                 *model.Application
	RedirectURI         string
	Scopes              []string
	CodeChallenge       string
	CodeChallengeMethod string
}

// Mint validates redirect_uri and scopes, then inserts a single-use code
// row with a 10-minute (configurable) expiry.
func (e *Engine) Mint(ctx context.Context, in MintInput) (string, error) {
	if !containsExact(in.App.RedirectURIs, in.RedirectURI) {
		return "", apperr.BadRequest("redirect_uri", "redirect_uri is not registered for this application")
	}
	if err := validateScopes(in.Scopes, in.App.AllowedScopes); err != nil {
		return "", err
	}

	code, err := credential.GenerateAuthorizationCode()
	if err != nil {
		return "", apperr.Internal(err)
	}

	row := &model.AuthorizationCode{
		Code:        code,
		AppID:       in.App.ID,
		UserID:      in.User.ID,
		RedirectURI: in.RedirectURI,
		Scopes:      in.Scopes,
		ExpiresAt:   time.Now().UTC().Add(e.lifetime),
	}
	if in.CodeChallenge != "" {
		row.CodeChallenge = &in.CodeChallenge
		method := in.CodeChallengeMethod
		if method == "" {
			method = "S256"
		}
		row.CodeChallengeMethod = &method
	}

	if err := e.repos.AuthCodes.Create(ctx, row); err != nil {
		return "", err
	}
	return code, nil
}

// RedeemInput carries the parameters §4.7's Redeem operation validates.
type RedeemInput struct {
	Code         string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	CodeVerifier string
}

// Redeem implements the six-step check of §4.7, ending in a call to the
// token engine's IssueTokens for the code's user and scopes.
func (e *Engine) Redeem(ctx context.Context, in RedeemInput) (*tokens.Pair, error) {
	row, err := e.repos.AuthCodes.Get(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if row.Used || time.Now().UTC().After(row.ExpiresAt) {
		return nil, apperr.InvalidGrant("invalid_grant", "authorization code is used or expired")
	}

	flipped, err := e.repos.AuthCodes.MarkUsed(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if !flipped {
		// Lost the race to another concurrent redemption: §5 and §8
		// invariant 2 require exactly one success.
		return nil, apperr.InvalidGrant("invalid_grant", "authorization code already redeemed")
	}

	app, err := e.repos.Applications.GetByID(ctx, row.AppID)
	if err != nil {
		return nil, apperr.InvalidGrant("invalid_grant", "application not found")
	}
	if app.ClientID != in.ClientID {
		return nil, apperr.InvalidGrant("invalid_client", "client_id does not match")
	}
	ok, err := credential.VerifySecret(app.ClientSecretHash, in.ClientSecret)
	if err != nil || !ok {
		return nil, apperr.InvalidGrant("invalid_client", "client authentication failed")
	}

	if row.RedirectURI != in.RedirectURI {
		return nil, apperr.InvalidGrant("invalid_grant", "redirect_uri does not match")
	}

	if row.CodeChallenge != nil {
		method := ""
		if row.CodeChallengeMethod != nil {
			method = *row.CodeChallengeMethod
		}
		if !credential.VerifyPKCE(*row.CodeChallenge, method, in.CodeVerifier) {
			return nil, apperr.InvalidGrant("invalid_grant", "PKCE verification failed")
		}
	}

	user, err := e.repos.Users.GetByID(ctx, row.UserID)
	if err != nil {
		return nil, apperr.InvalidGrant("invalid_grant", "user not found")
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized("user_disabled", "user is disabled")
	}

	return e.tokens.IssueTokens(ctx, user, app, row.Scopes, nil)
}

func containsExact(haystack model.StringSlice, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
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
