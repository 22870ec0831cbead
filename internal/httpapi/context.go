// Package httpapi implements C8 (request context extractors) and C9 (the
// handler surface), grounded on the teacher's routes/handlers/middleware
// packages and gin-gonic/gin itself.
package httpapi

import (
	"encoding/base64"
	"strings"

	"github.com/gin-gonic/gin"

	"authd/internal/apperr"
	"authd/internal/credential"
	"authd/internal/model"
)

const (
	ctxKeyUser   = "authd.user"
	ctxKeyClaims = "authd.claims"
	ctxKeyApp    = "authd.app"
)

// AuthenticatedUser requires a Bearer JWT, decodes it, loads the user, and
// rejects inactive users. Populates ctxKeyUser and ctxKeyClaims. It does not
// call c.Next itself (gin runs the next handler once it returns), so that
// AdminAuth can wrap it and check the role before the handler runs.
func (d *Dependencies) AuthenticatedUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			respondError(c, apperr.Unauthorized("missing_token", "Authorization: Bearer token is required"))
			return
		}
		claims, err := d.JWT.Verify(tokenString)
		if err != nil {
			respondError(c, apperr.Unauthorized("invalid_token", "access token is invalid or expired"))
			return
		}
		user, err := d.Repos.Users.GetByID(c.Request.Context(), claims.Subject)
		if err != nil {
			respondError(c, apperr.Unauthorized("invalid_token", "access token subject does not exist"))
			return
		}
		if !user.IsActive {
			respondError(c, apperr.Unauthorized("user_disabled", "user is disabled"))
			return
		}
		c.Set(ctxKeyUser, user)
		c.Set(ctxKeyClaims, claims)
	}
}

// AdminAuth runs AuthenticatedUser and additionally requires role=="admin".
func (d *Dependencies) AdminAuth() gin.HandlerFunc {
	authUser := d.AuthenticatedUser()
	return func(c *gin.Context) {
		authUser(c)
		if c.IsAborted() {
			return
		}
		user := UserFromContext(c)
		if user == nil || user.Role != model.RoleAdmin {
			respondError(c, apperr.Forbidden("forbidden", "admin role required"))
			return
		}
		c.Next()
	}
}

// ClientApp requires header X-Client-Id and resolves it to an active
// Application, without checking any secret.
func (d *Dependencies) ClientApp() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader("X-Client-Id")
		if clientID == "" {
			respondError(c, apperr.BadRequest("x_client_id", "X-Client-Id header is required"))
			return
		}
		app, err := d.Repos.Applications.GetByClientID(c.Request.Context(), clientID)
		if err != nil {
			respondError(c, apperr.Unauthorized("invalid_client", "unknown client"))
			return
		}
		if !app.IsActive {
			respondError(c, apperr.Unauthorized("invalid_client", "client is disabled"))
			return
		}
		c.Set(ctxKeyApp, app)
		c.Next()
	}
}

// AuthenticatedApp requires HTTP Basic client_id:secret and verifies the
// secret against the stored Argon2id hash.
func (d *Dependencies) AuthenticatedApp() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, secret, ok := basicAuth(c)
		if !ok {
			respondError(c, apperr.Unauthorized("invalid_client", "Basic client authentication is required"))
			return
		}
		app, err := d.Repos.Applications.GetByClientID(c.Request.Context(), clientID)
		if err != nil {
			respondError(c, apperr.Unauthorized("invalid_client", "client authentication failed"))
			return
		}
		if !app.IsActive {
			respondError(c, apperr.Unauthorized("invalid_client", "client is disabled"))
			return
		}
		ok2, err := credential.VerifySecret(app.ClientSecretHash, secret)
		if err != nil || !ok2 {
			respondError(c, apperr.Unauthorized("invalid_client", "client authentication failed"))
			return
		}
		c.Set(ctxKeyApp, app)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	return strings.TrimPrefix(header, prefix), true
}

func basicAuth(c *gin.Context) (clientID, secret string, ok bool) {
	header := c.GetHeader("Authorization")
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil {
		return "", "", false
	}
	parts := strings.SplitN(string(decoded), ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func UserFromContext(c *gin.Context) *model.User {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

func AppFromContext(c *gin.Context) *model.Application {
	v, ok := c.Get(ctxKeyApp)
	if !ok {
		return nil
	}
	a, _ := v.(*model.Application)
	return a
}
