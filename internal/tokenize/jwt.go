// Package tokenize implements C4, the JWT service: RS256 encode/decode of
// access-token claims with a configurable issuer and lifetime. Audience
// validation is deliberately never performed by the library on decode —
// per §4.4/§9 this is a documented contract, not an oversight; callers
// that need to check aud do so explicitly against the decoded claim.
package tokenize

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"authd/internal/keys"
	"authd/internal/model"
)

// Claims is the access-token payload. Scopes and Role are authd-specific
// claims layered on top of the registered JWT claim set.
type Claims struct {
	jwt.RegisteredClaims
	Scopes []string `json:"scopes"`
	Role   string   `json:"role"`
}

// Service signs and verifies access tokens using a loaded key pair.
type Service struct {
	keys   *keys.Store
	issuer string
}

func New(keyStore *keys.Store, issuer string) *Service {
	return &Service{keys: keyStore, issuer: issuer}
}

// Issue mints a signed access token for user, scoped to app's client_id as
// aud, carrying scopes and the user's current role.
func (s *Service) Issue(user *model.User, app *model.Application, scopes []string, lifetime time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(lifetime)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Audience:  jwt.ClaimStrings{app.ClientID},
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Scopes: scopes,
		Role:   string(user.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.keys.KeyID()

	signed, err := token.SignedString(s.keys.PrivateKey())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify decodes and validates signature, issuer, and expiry. Audience is
// intentionally not checked here -- see package doc.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithIssuer(s.issuer))

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.keys.PublicKey(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid access token")
	}
	return claims, nil
}
