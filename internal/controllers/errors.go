package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel aligns the controller logger with the application log level.
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// respondWithError translates a service error into the APIError envelope.
func respondWithError(c *gin.Context, err error) {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, validation.Error(),
			map[string]interface{}{validation.Field: validation.Message}))
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, "Resource not found"))
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, err.Error()))
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, models.NewAPIError(models.ErrInvalidTransition, err.Error()))
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, models.NewAPIError(models.ErrConflict, err.Error()))
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrInvalidCredential, "Invalid email or password"))
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Unhandled error")
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Internal server error"))
	}
}

// respondWithBindError reports a malformed request body or query.
func respondWithBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
}
