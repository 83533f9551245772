package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/auth"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	userService services.UserService
	issuer      *auth.TokenIssuer
}

func NewAuthController(userService services.UserService, issuer *auth.TokenIssuer) *AuthController {
	return &AuthController{
		userService: userService,
		issuer:      issuer,
	}
}

type registerRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=6"`
	Name        string  `json:"name" binding:"max=100"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=15"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *models.User `json:"user"`
}

// Register godoc
// @Summary Register a user
// @Description Create a customer account and return a bearer token for it
// @Tags auth
// @Accept json
// @Produce json
// @Param user body registerRequest true "Account details"
// @Success 201 {object} TokenResponse
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Router /api/v1/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	user := &models.User{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Role:        models.RoleCustomer,
	}
	if err := user.HashPassword(); err != nil {
		respondWithError(c, err)
		return
	}

	if err := ac.userService.CreateUser(c.Request.Context(), user); err != nil {
		respondWithError(c, err)
		return
	}

	ac.respondWithToken(c, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Exchange email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} models.APIError
// @Router /api/v1/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	user, err := ac.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ac.respondWithToken(c, http.StatusOK, user)
}

func (ac *AuthController) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, ttl, err := ac.issuer.Issue(user)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(status, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		User:        user,
	})
}
