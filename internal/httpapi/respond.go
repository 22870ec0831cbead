package httpapi

import (
	"github.com/gin-gonic/gin"

	"authd/internal/apperr"
)

// errorBody is the {error, message?} shape §6/§7 mandate.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func respondError(c *gin.Context, err error) {
	ae, ok := apperr.As(err)
	if !ok {
		ae = apperr.Internal(err)
	}
	c.AbortWithStatusJSON(ae.Kind.HTTPStatus(), errorBody{
		Error:   ae.Code,
		Message: ae.SafeMessage(),
	})
}

func respondOK(c *gin.Context, status int, body interface{}) {
	c.JSON(status, body)
}
