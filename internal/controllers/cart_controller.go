package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CartController serves the requester's cart and its items. Every route is
// scoped to the authenticated user; other users' items are reported as missing.
type CartController struct {
	carts  services.CartService
	orders services.OrderService
}

func NewCartController(carts services.CartService, orders services.OrderService) *CartController {
	return &CartController{carts: carts, orders: orders}
}

type cartItemRequest struct {
	MenuItem uint `json:"menu_item" binding:"required"`
	Quantity int  `json:"quantity"`
}

type cartItemQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type checkoutRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method"`
}

// GetCart godoc
// @Summary Current cart
// @Description Returns the cart with live-priced items; the cart is created on first access
// @Tags cart
// @Produce json
// @Success 200 {object} models.Cart
// @Security BearerAuth
// @Router /api/v1/cart [get]
func (cc *CartController) GetCart(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	cart, err := cc.carts.GetCart(c.Request.Context(), req.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// UpdateCart re-saves the cart. The body is ignored; the total is recomputed.
// @Summary Recompute cart
// @Tags cart
// @Produce json
// @Success 200 {object} models.Cart
// @Security BearerAuth
// @Router /api/v1/cart [patch]
func (cc *CartController) UpdateCart(c *gin.Context) {
	cc.GetCart(c)
}

// ClearCart godoc
// @Summary Empty the cart
// @Tags cart
// @Produce json
// @Success 200 {object} models.Cart
// @Security BearerAuth
// @Router /api/v1/cart [delete]
func (cc *CartController) ClearCart(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	cart, err := cc.carts.ClearCart(c.Request.Context(), req.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// Checkout godoc
// @Summary Check out
// @Description Creates an order from the cart at current prices and empties the cart
// @Tags cart
// @Accept json
// @Produce json
// @Param checkout body checkoutRequest false "Payment method (defaults to mobile_money)"
// @Success 201 {object} models.Order
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/cart/checkout [post]
func (cc *CartController) Checkout(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	var body checkoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			respondWithBindError(c, err)
			return
		}
	}
	order, err := cc.orders.Checkout(c.Request.Context(), req.UserID, body.PaymentMethod)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListCartItems godoc
// @Summary List cart items
// @Tags cart-items
// @Produce json
// @Success 200 {array} models.CartItem
// @Security BearerAuth
// @Router /api/v1/cart-items [get]
func (cc *CartController) ListCartItems(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	items, err := cc.carts.ListCartItems(c.Request.Context(), req.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateCartItem godoc
// @Summary Put a menu item in the cart
// @Description Sets the quantity when the item is already in the cart
// @Tags cart-items
// @Accept json
// @Produce json
// @Param item body cartItemRequest true "Cart item"
// @Success 201 {object} models.CartItem
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/cart-items [post]
func (cc *CartController) CreateCartItem(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	var body cartItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindError(c, err)
		return
	}
	item, err := cc.carts.UpsertCartItem(c.Request.Context(), req.UserID, body.MenuItem, body.Quantity)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetCartItem godoc
// @Summary Get a cart item
// @Tags cart-items
// @Produce json
// @Param id path int true "Cart item ID"
// @Success 200 {object} models.CartItem
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/cart-items/{id} [get]
func (cc *CartController) GetCartItem(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := cc.carts.GetCartItem(c.Request.Context(), req.UserID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateCartItem godoc
// @Summary Change a cart item quantity
// @Tags cart-items
// @Accept json
// @Produce json
// @Param id path int true "Cart item ID"
// @Param item body cartItemQuantityRequest true "Quantity"
// @Success 200 {object} models.CartItem
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/cart-items/{id} [patch]
func (cc *CartController) UpdateCartItem(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body cartItemQuantityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindError(c, err)
		return
	}
	item, err := cc.carts.UpdateCartItem(c.Request.Context(), req.UserID, id, body.Quantity)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteCartItem godoc
// @Summary Remove a cart item
// @Tags cart-items
// @Param id path int true "Cart item ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/cart-items/{id} [delete]
func (cc *CartController) DeleteCartItem(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := cc.carts.RemoveCartItem(c.Request.Context(), req.UserID, id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
