package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"github.com/gin-gonic/gin"
)

type RestaurantController struct {
	service services.RestaurantService
}

func NewRestaurantController(service services.RestaurantService) *RestaurantController {
	return &RestaurantController{service: service}
}

type createRestaurantRequest struct {
	Name           string `json:"name" binding:"required,max=200"`
	Location       string `json:"location" binding:"max=255"`
	Description    string `json:"description"`
	ProfilePicture string `json:"profile_picture"`
}

type updateRestaurantRequest struct {
	Name           *string `json:"name" binding:"omitempty,max=200"`
	Location       *string `json:"location" binding:"omitempty,max=255"`
	Description    *string `json:"description"`
	ProfilePicture *string `json:"profile_picture"`
}

// ListRestaurants godoc
// @Summary List restaurants
// @Description Public list of restaurants ordered by name
// @Tags restaurants
// @Produce json
// @Param name query string false "Filter by name (partial match)"
// @Param owner_id query int false "Filter by owner"
// @Success 200 {array} models.Restaurant
// @Router /api/v1/restaurants [get]
func (rc *RestaurantController) ListRestaurants(c *gin.Context) {
	ownerID, ok := parseUintQuery(c, "owner_id")
	if !ok {
		return
	}
	restaurants, err := rc.service.ListRestaurants(c.Request.Context(), services.RestaurantFilter{
		Name:    c.Query("name"),
		OwnerID: ownerID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

// GetRestaurant godoc
// @Summary Get a restaurant
// @Tags restaurants
// @Produce json
// @Param id path int true "Restaurant ID"
// @Success 200 {object} models.Restaurant
// @Failure 404 {object} models.APIError
// @Router /api/v1/restaurants/{id} [get]
func (rc *RestaurantController) GetRestaurant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	restaurant, err := rc.service.GetRestaurantByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

// CreateRestaurant godoc
// @Summary Create a restaurant
// @Description The authenticated user becomes the owner
// @Tags restaurants
// @Accept json
// @Produce json
// @Param restaurant body createRestaurantRequest true "Restaurant"
// @Success 201 {object} models.Restaurant
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/restaurants [post]
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	var body createRestaurantRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindError(c, err)
		return
	}

	restaurant, err := rc.service.CreateRestaurant(c.Request.Context(), req, services.RestaurantInput{
		Name:           &body.Name,
		Location:       &body.Location,
		Description:    &body.Description,
		ProfilePicture: &body.ProfilePicture,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, restaurant)
}

// UpdateRestaurant godoc
// @Summary Update a restaurant
// @Description Only the owner or an admin may update a restaurant
// @Tags restaurants
// @Accept json
// @Produce json
// @Param id path int true "Restaurant ID"
// @Param restaurant body updateRestaurantRequest true "Fields to change"
// @Success 200 {object} models.Restaurant
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/restaurants/{id} [patch]
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body updateRestaurantRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindError(c, err)
		return
	}

	restaurant, err := rc.service.UpdateRestaurant(c.Request.Context(), req, id, services.RestaurantInput{
		Name:           body.Name,
		Location:       body.Location,
		Description:    body.Description,
		ProfilePicture: body.ProfilePicture,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

// DeleteRestaurant godoc
// @Summary Delete a restaurant and its menu
// @Tags restaurants
// @Param id path int true "Restaurant ID"
// @Success 204
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/restaurants/{id} [delete]
func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rc.service.DeleteRestaurant(c.Request.Context(), req, id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
