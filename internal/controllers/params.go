package controllers

import (
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/middleware"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"github.com/gin-gonic/gin"
)

// parseID reads a positive numeric path parameter. It writes the 400
// response itself and reports false when the value is malformed.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid "+name+" format"))
		return 0, false
	}
	return uint(id), true
}

// parseUintQuery reads an optional numeric query parameter; absent means 0.
func parseUintQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, "Invalid "+name+" filter",
			map[string]interface{}{name: "must be a positive integer"}))
		return 0, false
	}
	return uint(id), true
}

// currentRequester returns the authenticated identity set by JWTAuth.
func currentRequester(c *gin.Context) (services.Requester, bool) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "User not authenticated"))
		return services.Requester{}, false
	}
	return services.Requester{UserID: userID, Role: role}, true
}
