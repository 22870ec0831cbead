package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"authd/internal/apperr"
	"authd/internal/credential"
	"authd/internal/model"
)

func (d *Dependencies) handleAdminListApplications(c *gin.Context) {
	apps, err := d.Repos.Applications.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, applicationsResponse(apps))
}

func (d *Dependencies) handleAdminCreateApplication(c *gin.Context) {
	var req CreateApplicationRequest
	if err := d.bind(c, &req); err != nil {
		respondError(c, apperr.BadRequest("invalid_request", err.Error()))
		return
	}

	secret, err := credential.GenerateRandomToken()
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	hash, err := credential.HashSecret(secret)
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}

	app := &model.Application{
		ID:               uuid.NewString(),
		Name:             req.Name,
		ClientID:         uuid.NewString(),
		ClientSecretHash: hash,
		RedirectURIs:     req.RedirectURIs,
		AllowedScopes:    req.AllowedScopes,
		IsActive:         true,
	}
	if err := d.Repos.Applications.Create(c.Request.Context(), app); err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"application": applicationResponse(app), "client_secret": secret}
	respondOK(c, 201, resp)
}

func (d *Dependencies) handleAdminUpdateApplication(c *gin.Context) {
	id := c.Param("id")
	var req UpdateApplicationRequest
	if err := d.bind(c, &req); err != nil {
		respondError(c, apperr.BadRequest("invalid_request", err.Error()))
		return
	}

	app, err := d.Repos.Applications.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Name != nil {
		app.Name = *req.Name
	}
	if req.RedirectURIs != nil {
		app.RedirectURIs = req.RedirectURIs
	}
	if req.AllowedScopes != nil {
		app.AllowedScopes = req.AllowedScopes
	}
	if req.IsActive != nil {
		app.IsActive = *req.IsActive
	}
	if err := d.Repos.Applications.Update(c.Request.Context(), app); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, applicationResponse(app))
}

func (d *Dependencies) handleAdminRotateSecret(c *gin.Context) {
	id := c.Param("id")
	secret, err := credential.GenerateRandomToken()
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	hash, err := credential.HashSecret(secret)
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	if err := d.Repos.Applications.RotateSecret(c.Request.Context(), id, hash); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, gin.H{"client_secret": secret})
}

func (d *Dependencies) handleAdminListProviders(c *gin.Context) {
	appID := c.Param("id")
	providers, err := d.Repos.AppProviders.ListByApp(c.Request.Context(), appID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, appProvidersResponse(providers))
}

func (d *Dependencies) handleAdminCreateProvider(c *gin.Context) {
	appID := c.Param("id")
	var req CreateAppProviderRequest
	if err := d.bind(c, &req); err != nil {
		respondError(c, apperr.BadRequest("invalid_request", err.Error()))
		return
	}
	cfg := req.Config
	if cfg == "" {
		cfg = "{}"
	}
	provider := &model.AppProvider{
		ID:         uuid.NewString(),
		AppID:      appID,
		ProviderID: req.ProviderID,
		Config:     cfg,
		IsActive:   true,
	}
	if err := d.Repos.AppProviders.Create(c.Request.Context(), provider); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 201, AppProviderView{ProviderID: provider.ProviderID, IsActive: provider.IsActive})
}

func (d *Dependencies) handleAdminDeleteProvider(c *gin.Context) {
	appID := c.Param("id")
	providerID := c.Param("provider_id")
	if err := d.Repos.AppProviders.Delete(c.Request.Context(), appID, providerID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, gin.H{"status": "ok"})
}

func (d *Dependencies) handleAdminListUsers(c *gin.Context) {
	users, err := d.Repos.Users.List(c.Request.Context(), 100, 0)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, usersResponse(users))
}

func (d *Dependencies) handleAdminCreateUser(c *gin.Context) {
	var req CreateUserRequest
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
	if req.Role == string(model.RoleAdmin) {
		user.Role = model.RoleAdmin
		if err := d.Repos.Users.Update(c.Request.Context(), user); err != nil {
			respondError(c, err)
			return
		}
	}
	respondOK(c, 201, userResponse(user))
}

func (d *Dependencies) handleAdminGetUser(c *gin.Context) {
	user, err := d.Repos.Users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, userResponse(user))
}

func (d *Dependencies) handleAdminUpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := d.bind(c, &req); err != nil {
		respondError(c, apperr.BadRequest("invalid_request", err.Error()))
		return
	}
	user, err := d.Repos.Users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Role != nil {
		user.Role = model.Role(*req.Role)
	}
	if err := d.Repos.Users.Update(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, userResponse(user))
}

func (d *Dependencies) handleAdminListUserAccounts(c *gin.Context) {
	accounts, err := d.Repos.Accounts.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, accountsResponse(accounts))
}

func (d *Dependencies) handleAdminDeleteUserAccount(c *gin.Context) {
	if err := d.Repos.Accounts.DeleteByUserAndProvider(c.Request.Context(), c.Param("id"), c.Param("provider_id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, gin.H{"status": "ok"})
}

func (d *Dependencies) handleAdminStats(c *gin.Context) {
	appCount, err := d.Repos.Applications.Count(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	userCount, err := d.Repos.Users.Count(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, gin.H{
		"applications": appCount,
		"users":        userCount,
	})
}
