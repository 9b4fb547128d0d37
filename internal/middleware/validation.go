package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yigit/coursehub/internal/app/models/dto"
)

// BindJSON decodes the request body into obj. Field rules are checked by the
// services; a body that cannot be decoded is answered with 400 here. The raw
// body stays cached under gin.BodyBytesKey for error logging.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindBodyWith(obj, binding.JSON); err != nil {
		resp := dto.NewErrorResponse(dto.ErrorCodeBadRequest, "Invalid request body").
			WithErrors([]dto.FieldErrorDetail{{Field: "body", Message: err.Error()}})
		c.AbortWithStatusJSON(http.StatusBadRequest, resp)
		return false
	}
	return true
}
