package httpapi

import (
	"github.com/gin-gonic/gin"
)

func (d *Dependencies) handleMe(c *gin.Context) {
	user := UserFromContext(c)
	respondOK(c, 200, userResponse(user))
}

func (d *Dependencies) handleMeAccounts(c *gin.Context) {
	user := UserFromContext(c)
	accounts, err := d.Repos.Accounts.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, accountsResponse(accounts))
}

func (d *Dependencies) handleDeleteMeAccount(c *gin.Context) {
	user := UserFromContext(c)
	providerID := c.Param("provider_id")
	if err := d.Repos.Accounts.DeleteByUserAndProvider(c.Request.Context(), user.ID, providerID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, gin.H{"status": "ok"})
}
