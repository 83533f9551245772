package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	service services.OrderService
}

func NewOrderController(service services.OrderService) *OrderController {
	return &OrderController{service: service}
}

type orderLineRequest struct {
	MenuItem uint `json:"menu_item" binding:"required"`
	Quantity int  `json:"quantity"`
}

type createOrderRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	OrderItems    []orderLineRequest   `json:"orderitems" binding:"required,dive"`
}

type updateOrderRequest struct {
	Status        *models.OrderStatus   `json:"status"`
	PaymentMethod *models.PaymentMethod `json:"payment_method"`
}

type orderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type createOrderItemRequest struct {
	Order    uint `json:"order" binding:"required"`
	MenuItem uint `json:"menu_item" binding:"required"`
	Quantity int  `json:"quantity"`
}

// ListOrders godoc
// @Summary List my orders
// @Tags orders
// @Produce json
// @Success 200 {array} models.Order
// @Security BearerAuth
// @Router /api/v1/orders [get]
func (oc *OrderController) ListOrders(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	orders, err := oc.service.ListOrders(c.Request.Context(), req.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// CreateOrder godoc
// @Summary Place an order
// @Description Each line captures the current menu item price; later price changes do not affect the order
// @Tags orders
// @Accept json
// @Produce json
// @Param order body createOrderRequest true "Order lines and payment method"
// @Success 201 {object} models.Order
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders [post]
func (oc *OrderController) CreateOrder(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	var body createOrderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindError(c, err)
		return
	}

	lines := make([]services.LineItem, 0, len(body.OrderItems))
	for _, line := range body.OrderItems {
		lines = append(lines, services.LineItem{MenuItemID: line.MenuItem, Quantity: line.Quantity})
	}
	order, err := oc.service.CreateOrder(c.Request.Context(), req.UserID, lines, body.PaymentMethod)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrder godoc
// @Summary Get one of my orders
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id} [get]
func (oc *OrderController) GetOrder(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := oc.service.GetOrder(c.Request.Context(), req.UserID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrder godoc
// @Summary Update one of my orders
// @Description Customers may cancel an order or change its payment method while it is pending
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param order body updateOrderRequest true "Fields to change"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id} [patch]
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body updateOrderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindError(c, err)
		return
	}
	order, err := oc.service.UpdateOrder(c.Request.Context(), req, id, services.OrderUpdate{
		Status:        body.Status,
		PaymentMethod: body.PaymentMethod,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// SetOrderStatus godoc
// @Summary Move an order along its lifecycle
// @Description pending -> ready|cancelled, ready -> delivered|cancelled
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param status body orderStatusRequest true "New status"
// @Success 200 {object} models.Order
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/orders/{id}/status [patch]
func (oc *OrderController) SetOrderStatus(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body orderStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindError(c, err)
		return
	}
	order, err := oc.service.SetOrderStatus(c.Request.Context(), req, id, body.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListOrderItems godoc
// @Summary List my order items
// @Tags order-items
// @Produce json
// @Param order query int false "Filter by order"
// @Success 200 {array} models.OrderItem
// @Security BearerAuth
// @Router /api/v1/order-items [get]
func (oc *OrderController) ListOrderItems(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	orderID, ok := parseUintQuery(c, "order")
	if !ok {
		return
	}
	items, err := oc.service.ListOrderItems(c.Request.Context(), req.UserID, orderID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateOrderItem godoc
// @Summary Add a line to a pending order
// @Tags order-items
// @Accept json
// @Produce json
// @Param item body createOrderItemRequest true "Order item"
// @Success 201 {object} models.OrderItem
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/order-items [post]
func (oc *OrderController) CreateOrderItem(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	var body createOrderItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindError(c, err)
		return
	}
	item, err := oc.service.AddOrderItem(c.Request.Context(), req.UserID, body.Order, services.LineItem{
		MenuItemID: body.MenuItem,
		Quantity:   body.Quantity,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetOrderItem godoc
// @Summary Get an order item
// @Tags order-items
// @Produce json
// @Param id path int true "Order item ID"
// @Success 200 {object} models.OrderItem
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/order-items/{id} [get]
func (oc *OrderController) GetOrderItem(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := oc.service.GetOrderItem(c.Request.Context(), req.UserID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteOrderItem godoc
// @Summary Remove a line from a pending order
// @Tags order-items
// @Param id path int true "Order item ID"
// @Success 204
// @Security BearerAuth
// @Router /api/v1/order-items/{id} [delete]
func (oc *OrderController) DeleteOrderItem(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := oc.service.RemoveOrderItem(c.Request.Context(), req.UserID, id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
