package httpapi

import (
	"github.com/gin-gonic/gin"

	"authd/internal/apperr"
	"authd/internal/credential"
	"authd/internal/tokens"
)

func (d *Dependencies) handleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := d.bind(c, &req); err != nil {
		respondError(c, apperr.BadRequest("invalid_request", err.Error()))
		return
	}
	app := AppFromContext(c)

	provider, err := d.Providers.Get("password")
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := provider.Register(c.Request.Context(), app, nil, map[string]string{
		"email":    req.Email,
		"name":     req.Name,
		"password": req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	pair, err := d.Tokens.IssueTokens(c.Request.Context(), user, app, app.AllowedScopes, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 201, tokenResponse(pair))
}

func (d *Dependencies) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := d.bind(c, &req); err != nil {
		respondError(c, apperr.BadRequest("invalid_request", err.Error()))
		return
	}
	app := AppFromContext(c)

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}

	provider, err := d.Providers.Get("password")
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := provider.Authenticate(c.Request.Context(), app, nil, map[string]string{
		"identifier": identifier,
		"password":   req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	var deviceID *string
	if req.DeviceID != "" {
		deviceID = &req.DeviceID
	}
	pair, err := d.Tokens.IssueTokens(c.Request.Context(), user, app, app.AllowedScopes, deviceID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, tokenResponse(pair))
}

func (d *Dependencies) handleAPIRefresh(c *gin.Context) {
	var req RefreshRequest
	if err := d.bind(c, &req); err != nil {
		respondError(c, apperr.BadRequest("invalid_request", err.Error()))
		return
	}
	app := AppFromContext(c)

	pair, err := d.Tokens.Refresh(c.Request.Context(), req.RefreshToken, app.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, tokenResponse(pair))
}

// handleAPILogout revokes every refresh token belonging to the user who
// owns the presented refresh token, optionally scoped to one device, per
// §4.6's Logout operation. The route is bound to X-Client-Id rather than a
// user session (§6), so the refresh token is what identifies the user.
func (d *Dependencies) handleAPILogout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
		DeviceID     string `json:"device_id,omitempty"`
	}
	if err := d.bind(c, &req); err != nil {
		respondError(c, apperr.BadRequest("invalid_request", err.Error()))
		return
	}

	tokenHash := credential.HashRefreshToken(req.RefreshToken)
	existing, err := d.Repos.RefreshTokens.GetByHash(c.Request.Context(), tokenHash)
	if err != nil {
		// Logout on an already-invalid token is still a successful no-op.
		respondOK(c, 200, gin.H{"status": "ok"})
		return
	}

	var deviceID *string
	if req.DeviceID != "" {
		deviceID = &req.DeviceID
	}
	if err := d.Tokens.Logout(c.Request.Context(), existing.UserID, deviceID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, gin.H{"status": "ok"})
}

func tokenResponse(pair *tokens.Pair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}
}
