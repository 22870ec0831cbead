package httpapi

import "github.com/gin-gonic/gin"

// bind decodes the JSON body into req and runs it through the shared
// validator.Validate instance, so request validation is driven by
// go-playground/validator rather than gin's built-in "binding" tag path.
func (d *Dependencies) bind(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return err
	}
	return d.Validate.Struct(req)
}
