package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole is a middleware that checks if the user has the required role.
// It must run after JWTAuth.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, userRole, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.NewAPIError(models.ErrUnauthorized, "User not authenticated"))
			return
		}

		if userRole != requiredRole {
			log.WithFields(map[string]interface{}{
				"user_id":       userID,
				"user_role":     userRole,
				"required_role": requiredRole,
				"path":          c.FullPath(),
			}).Warn("Insufficient permissions")
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(
				models.ErrForbidden,
				"Insufficient permissions",
				map[string]interface{}{"required_role": requiredRole},
			))
			return
		}

		c.Next()
	}
}
