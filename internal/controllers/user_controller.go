package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService services.UserService
}

func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

type updateUserRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=15"`
}

// GetProfile godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /api/v1/user [get]
func (uc *UserController) GetProfile(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	user, err := uc.userService.GetUserByID(c.Request.Context(), req.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update current user
// @Tags users
// @Accept json
// @Produce json
// @Param user body updateUserRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/user [patch]
func (uc *UserController) UpdateProfile(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	var body updateUserRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindError(c, err)
		return
	}

	user, err := uc.userService.UpdateUser(c.Request.Context(), req.UserID, services.UserUpdate{
		Name:        body.Name,
		Email:       body.Email,
		Address:     body.Address,
		PhoneNumber: body.PhoneNumber,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
