package controllers

import (
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"github.com/gin-gonic/gin"
)

type MenuItemController struct {
	service services.MenuItemService
}

func NewMenuItemController(service services.MenuItemService) *MenuItemController {
	return &MenuItemController{service: service}
}

type createMenuItemRequest struct {
	Restaurant  uint          `json:"restaurant_id" binding:"required"`
	Name        string        `json:"name" binding:"required,max=200"`
	Category    string        `json:"category"`
	Price       *models.Money `json:"price" binding:"required"`
	Description string        `json:"description"`
	Image       string        `json:"image"`
	Available   *bool         `json:"available"`
}

type updateMenuItemRequest struct {
	Restaurant  *uint         `json:"restaurant_id"`
	Name        *string       `json:"name" binding:"omitempty,max=200"`
	Category    *string       `json:"category"`
	Price       *models.Money `json:"price"`
	Description *string       `json:"description"`
	Image       *string       `json:"image"`
	Available   *bool         `json:"available"`
}

// ListMenuItems godoc
// @Summary List menu items
// @Tags menu-items
// @Produce json
// @Param restaurant_id query int false "Filter by restaurant"
// @Param category query string false "Filter by category"
// @Param available query bool false "Filter by availability"
// @Success 200 {array} models.MenuItem
// @Failure 400 {object} models.APIError
// @Router /api/v1/menu-items [get]
func (mc *MenuItemController) ListMenuItems(c *gin.Context) {
	restaurantID, ok := parseUintQuery(c, "restaurant_id")
	if !ok {
		return
	}
	filter := services.MenuItemFilter{
		RestaurantID: restaurantID,
		Category:     c.Query("category"),
	}
	if raw := c.Query("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, "Invalid available filter",
				map[string]interface{}{"available": "must be true or false"}))
			return
		}
		filter.Available = &available
	}

	items, err := mc.service.ListMenuItems(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetMenuItem godoc
// @Summary Get a menu item
// @Tags menu-items
// @Produce json
// @Param id path int true "Menu item ID"
// @Success 200 {object} models.MenuItem
// @Failure 404 {object} models.APIError
// @Router /api/v1/menu-items/{id} [get]
func (mc *MenuItemController) GetMenuItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := mc.service.GetMenuItemByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateMenuItem godoc
// @Summary Add a menu item
// @Description The restaurant must belong to the authenticated user
// @Tags menu-items
// @Accept json
// @Produce json
// @Param item body createMenuItemRequest true "Menu item"
// @Success 201 {object} models.MenuItem
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/menu-items [post]
func (mc *MenuItemController) CreateMenuItem(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	var body createMenuItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindError(c, err)
		return
	}

	input := services.MenuItemInput{
		RestaurantID: &body.Restaurant,
		Name:         &body.Name,
		Price:        body.Price,
		Description:  &body.Description,
		Image:        &body.Image,
		Available:    body.Available,
	}
	if body.Category != "" {
		input.Category = &body.Category
	}

	item, err := mc.service.CreateMenuItem(c.Request.Context(), req, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateMenuItem godoc
// @Summary Update a menu item
// @Description A price change is reflected in every cart holding the item; existing orders keep their price.
// @Tags menu-items
// @Accept json
// @Produce json
// @Param id path int true "Menu item ID"
// @Param item body updateMenuItemRequest true "Fields to change"
// @Success 200 {object} models.MenuItem
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/menu-items/{id} [patch]
func (mc *MenuItemController) UpdateMenuItem(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body updateMenuItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindError(c, err)
		return
	}

	item, err := mc.service.UpdateMenuItem(c.Request.Context(), req, id, services.MenuItemInput{
		RestaurantID: body.Restaurant,
		Name:         body.Name,
		Category:     body.Category,
		Price:        body.Price,
		Description:  body.Description,
		Image:        body.Image,
		Available:    body.Available,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteMenuItem godoc
// @Summary Delete a menu item
// @Tags menu-items
// @Param id path int true "Menu item ID"
// @Success 204
// @Security BearerAuth
// @Router /api/v1/menu-items/{id} [delete]
func (mc *MenuItemController) DeleteMenuItem(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := mc.service.DeleteMenuItem(c.Request.Context(), req, id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCategories godoc
// @Summary Menu categories
// @Tags categories
// @Produce json
// @Success 200 {array} models.Choice
// @Router /api/v1/categories [get]
func (mc *MenuItemController) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.MenuCategories())
}

// ListCategoryItems godoc
// @Summary Available menu items of a category
// @Tags categories
// @Produce json
// @Param category path string true "Category key"
// @Success 200 {array} models.MenuItem
// @Failure 400 {object} models.APIError
// @Router /api/v1/categories/{category} [get]
func (mc *MenuItemController) ListCategoryItems(c *gin.Context) {
	items, err := mc.service.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
