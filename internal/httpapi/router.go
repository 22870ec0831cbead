package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"authd/internal/authcode"
	"authd/internal/config"
	"authd/internal/keys"
	"authd/internal/logging"
	"authd/internal/providers"
	"authd/internal/repo"
	"authd/internal/tokenize"
	"authd/internal/tokens"
)

// Dependencies aggregates everything the handler surface needs, mirroring
// the teacher's routes.Dependencies.
type Dependencies struct {
	Config    *config.Config
	Log       *logging.Logger
	Repos     *repo.Repos
	Keys      *keys.Store
	JWT       *tokenize.Service
	Tokens    *tokens.Engine
	AuthCode  *authcode.Engine
	Providers *providers.Registry
	Validate  *validator.Validate
}

// NewRouter builds the gin engine and mounts every route group of §6.
func NewRouter(d *Dependencies) *gin.Engine {
	if d.Config.Server.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(d.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Client-Id"},
		AllowCredentials: true,
	}))

	r.GET("/health", d.handleHealth)

	oauth := r.Group("/oauth")
	{
		oauth.POST("/authorize", d.AuthenticatedUser(), d.ClientApp(), d.handleAuthorize)
		oauth.GET("/jwks.json", d.handleJWKS)

		basicAuthed := oauth.Group("")
		basicAuthed.Use(d.AuthenticatedApp())
		basicAuthed.POST("/token", d.handleToken)
		basicAuthed.POST("/revoke", d.handleRevoke)
		basicAuthed.POST("/introspect", d.handleIntrospect)
	}

	apiAuth := r.Group("/api/auth")
	apiAuth.Use(d.ClientApp())
	{
		apiAuth.POST("/register", d.handleRegister)
		apiAuth.POST("/login", d.handleLogin)
		apiAuth.POST("/refresh", d.handleAPIRefresh)
		apiAuth.POST("/logout", d.handleAPILogout)
	}

	apiUsers := r.Group("/api/users")
	apiUsers.Use(d.AuthenticatedUser())
	{
		apiUsers.GET("/me", d.handleMe)
		apiUsers.GET("/me/accounts", d.handleMeAccounts)
		apiUsers.DELETE("/me/accounts/:provider_id", d.handleDeleteMeAccount)
	}

	admin := r.Group("/admin")
	admin.Use(d.AdminAuth())
	{
		admin.GET("/applications", d.handleAdminListApplications)
		admin.POST("/applications", d.handleAdminCreateApplication)
		admin.PATCH("/applications/:id", d.handleAdminUpdateApplication)
		admin.POST("/applications/:id/rotate-secret", d.handleAdminRotateSecret)
		admin.GET("/applications/:id/providers", d.handleAdminListProviders)
		admin.POST("/applications/:id/providers", d.handleAdminCreateProvider)
		admin.DELETE("/applications/:id/providers/:provider_id", d.handleAdminDeleteProvider)
		admin.GET("/users", d.handleAdminListUsers)
		admin.POST("/users", d.handleAdminCreateUser)
		admin.GET("/users/:id", d.handleAdminGetUser)
		admin.PATCH("/users/:id", d.handleAdminUpdateUser)
		admin.GET("/users/:id/accounts", d.handleAdminListUserAccounts)
		admin.DELETE("/users/:id/accounts/:provider_id", d.handleAdminDeleteUserAccount)
		admin.GET("/stats", d.handleAdminStats)
	}

	return r
}

func requestLogger(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Infof("%s %s -> %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}

func (d *Dependencies) handleHealth(c *gin.Context) {
	respondOK(c, 200, gin.H{"status": "ok"})
}

func (d *Dependencies) handleJWKS(c *gin.Context) {
	respondOK(c, 200, d.Keys.JWKSDocument())
}
