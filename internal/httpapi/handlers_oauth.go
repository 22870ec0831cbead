package httpapi

import (
	"github.com/gin-gonic/gin"

	"authd/internal/apperr"
	"authd/internal/authcode"
)

// handleAuthorize mints an authorization code for the already-authenticated
// user and client application (C7 Mint). It is intentionally not part of
// §6's literal table, which only fixes /oauth/token, /oauth/revoke and
// /oauth/introspect -- something has to invoke Mint, and an end-user must
// be authenticated to do so, so this route sits on AuthenticatedUser +
// ClientApp rather than the Basic client-secret auth the redemption routes
// use.
func (d *Dependencies) handleAuthorize(c *gin.Context) {
	var req AuthorizeRequest
	if err := d.bind(c, &req); err != nil {
		respondError(c, apperr.BadRequest("invalid_request", err.Error()))
		return
	}
	user := UserFromContext(c)
	app := AppFromContext(c)

	code, err := d.AuthCode.Mint(c.Request.Context(), authcode.MintInput{
		User:                user,
		App:                 app,
		RedirectURI:         req.RedirectURI,
		Scopes:              req.Scopes,
		CodeChallenge:       req.CodeChallenge,
		CodeChallengeMethod: req.CodeChallengeMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, gin.H{"code": code})
}

func (d *Dependencies) handleToken(c *gin.Context) {
	var req TokenGrantRequest
	if err := d.bind(c, &req); err != nil {
		respondError(c, apperr.BadRequest("invalid_request", err.Error()))
		return
	}
	app := AppFromContext(c)

	switch req.GrantType {
	case "authorization_code":
		// AuthenticatedApp middleware already verified client_id:secret via
		// Basic auth; Redeem verifies the same pair again per §4.7 step 3,
		// against the application the code was minted for, so a code
		// minted for another application fails its client_id check.
		pair, err := d.AuthCode.Redeem(c.Request.Context(), authcode.RedeemInput{
			Code:         req.Code,
			ClientID:     app.ClientID,
			ClientSecret: basicSecretFromContext(c),
			RedirectURI:  req.RedirectURI,
			CodeVerifier: req.CodeVerifier,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, 200, tokenResponse(pair))

	case "refresh_token":
		pair, err := d.Tokens.Refresh(c.Request.Context(), req.RefreshToken, app.ClientID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, 200, tokenResponse(pair))

	default:
		respondError(c, apperr.BadRequest("unsupported_grant_type", "grant_type must be authorization_code or refresh_token"))
	}
}

func (d *Dependencies) handleRevoke(c *gin.Context) {
	var req RevokeRequest
	if err := d.bind(c, &req); err != nil {
		respondError(c, apperr.BadRequest("invalid_request", err.Error()))
		return
	}
	d.Tokens.Revoke(c.Request.Context(), req.Token)
	respondOK(c, 200, gin.H{"status": "ok"})
}

func (d *Dependencies) handleIntrospect(c *gin.Context) {
	var req IntrospectRequest
	if err := d.bind(c, &req); err != nil {
		respondError(c, apperr.BadRequest("invalid_request", err.Error()))
		return
	}
	respondOK(c, 200, d.Tokens.Introspect(req.Token))
}

// basicSecretFromContext recovers the client secret from the Basic header
// already parsed by AuthenticatedApp, so redemption can pass it through
// VerifySecret a second time as §4.7 step 3 specifies.
func basicSecretFromContext(c *gin.Context) string {
	_, secret, _ := basicAuth(c)
	return secret
}
