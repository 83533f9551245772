package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"github.com/gin-gonic/gin"
)

type TransactionController struct {
	service services.TransactionService
}

func NewTransactionController(service services.TransactionService) *TransactionController {
	return &TransactionController{service: service}
}

type createTransactionRequest struct {
	Order uint `json:"order" binding:"required"`
}

type transactionStatusRequest struct {
	Status models.TransactionStatus `json:"status" binding:"required"`
}

// ListTransactions godoc
// @Summary List my transactions
// @Tags transactions
// @Produce json
// @Success 200 {array} models.Transaction
// @Security BearerAuth
// @Router /api/v1/transactions [get]
func (tc *TransactionController) ListTransactions(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	txns, err := tc.service.ListTransactions(c.Request.Context(), req.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

// CreateTransaction godoc
// @Summary Start a payment
// @Description Copies the order total and payment method into a pending transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body createTransactionRequest true "Order to pay"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/transactions [post]
func (tc *TransactionController) CreateTransaction(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	var body createTransactionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindError(c, err)
		return
	}
	txn, err := tc.service.CreateTransaction(c.Request.Context(), req.UserID, body.Order)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/transactions/{id} [get]
func (tc *TransactionController) GetTransaction(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	txn, err := tc.service.GetTransaction(c.Request.Context(), req.UserID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

// UpdateTransaction godoc
// @Summary Update a transaction status
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param transaction body transactionStatusRequest true "Status"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/transactions/{id} [patch]
func (tc *TransactionController) UpdateTransaction(c *gin.Context) {
	req, ok := currentRequester(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body transactionStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindError(c, err)
		return
	}
	txn, err := tc.service.UpdateTransactionStatus(c.Request.Context(), req.UserID, id, body.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}
