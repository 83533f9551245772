package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/events"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateTransactionCopiesOrder(t *testing.T) {
	f := newOrderFixture(t, nil)
	ctx := context.Background()
	txns := NewTransactionService(f.db, nil)

	// 9.99 + 2 x 4.25 + 6.01 = 24.50
	side := createTestMenuItem(t, f.db, f.owner, f.pasta.RestaurantID, "Bread", "6.01")
	order, err := f.orders.CreateOrder(ctx, f.buyer.UserID, []LineItem{
		{MenuItemID: f.pasta.ID, Quantity: 1},
		{MenuItemID: f.salad.ID, Quantity: 2},
		{MenuItemID: side.ID, Quantity: 1},
	}, models.PaymentCash)
	require.NoError(t, err)

	txn, err := txns.CreateTransaction(ctx, f.buyer.UserID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "24.50", txn.AmountDue.String())
	assert.Equal(t, models.PaymentCash, txn.PaymentMethod)
	assert.Equal(t, models.TransactionPending, txn.Status)
	assert.Equal(t, order.ID, txn.OrderRef)

	// Later order changes do not touch the copy.
	_, err = f.orders.AddOrderItem(ctx, f.buyer.UserID, order.ID, LineItem{MenuItemID: f.pasta.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.orders.UpdateOrder(ctx, f.buyer, order.ID, OrderUpdate{PaymentMethod: paymentPtr(models.PaymentPayPal)})
	require.NoError(t, err)

	stored, err := txns.GetTransaction(ctx, f.buyer.UserID, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "24.50", stored.AmountDue.String())
	assert.Equal(t, models.PaymentCash, stored.PaymentMethod)
}

func TestCreateTransactionRejections(t *testing.T) {
	f := newOrderFixture(t, nil)
	ctx := context.Background()
	txns := NewTransactionService(f.db, nil)

	order, err := f.orders.CreateOrder(ctx, f.buyer.UserID, []LineItem{{MenuItemID: f.pasta.ID, Quantity: 1}}, "")
	require.NoError(t, err)

	_, err = txns.CreateTransaction(ctx, f.owner.UserID, order.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	var vErr *ValidationError
	_, err = txns.CreateTransaction(ctx, f.buyer.UserID, 999)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "order", vErr.Field)

	_, err = txns.CreateTransaction(ctx, f.buyer.UserID, 0)
	require.ErrorAs(t, err, &vErr)

	_, err = f.orders.UpdateOrder(ctx, f.buyer, order.ID, OrderUpdate{Status: statusPtr(models.OrderCancelled)})
	require.NoError(t, err)
	_, err = txns.CreateTransaction(ctx, f.buyer.UserID, order.ID)
	require.ErrorAs(t, err, &vErr)
}

func TestTransactionsAreScopedToTheirOwner(t *testing.T) {
	f := newOrderFixture(t, nil)
	ctx := context.Background()
	txns := NewTransactionService(f.db, nil)

	order, err := f.orders.CreateOrder(ctx, f.buyer.UserID, []LineItem{{MenuItemID: f.pasta.ID, Quantity: 1}}, "")
	require.NoError(t, err)
	txn, err := txns.CreateTransaction(ctx, f.buyer.UserID, order.ID)
	require.NoError(t, err)

	_, err = txns.GetTransaction(ctx, f.owner.UserID, txn.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = txns.UpdateTransactionStatus(ctx, f.owner.UserID, txn.ID, models.TransactionSuccess)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := txns.ListTransactions(ctx, f.owner.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = txns.ListTransactions(ctx, f.buyer.UserID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateTransactionStatus(t *testing.T) {
	publisher := new(mockPublisher)
	f := newOrderFixture(t, nil)
	ctx := context.Background()
	txns := NewTransactionService(f.db, publisher)

	order, err := f.orders.CreateOrder(ctx, f.buyer.UserID, []LineItem{{MenuItemID: f.pasta.ID, Quantity: 1}}, "")
	require.NoError(t, err)

	publisher.On("Publish", mock.Anything, events.TransactionCreated, mock.Anything).Return(nil).Once()
	publisher.On("Publish", mock.Anything, events.TransactionStatusChanged, mock.MatchedBy(func(p events.TransactionPayload) bool {
		return p.Status == "success" && p.PreviousStatus == "pending" && p.AmountDue == "9.99"
	})).Return(nil).Once()

	txn, err := txns.CreateTransaction(ctx, f.buyer.UserID, order.ID)
	require.NoError(t, err)

	updated, err := txns.UpdateTransactionStatus(ctx, f.buyer.UserID, txn.ID, models.TransactionSuccess)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionSuccess, updated.Status)

	_, err = txns.UpdateTransactionStatus(ctx, f.buyer.UserID, txn.ID, models.TransactionSuccess)
	require.NoError(t, err)

	var vErr *ValidationError
	_, err = txns.UpdateTransactionStatus(ctx, f.buyer.UserID, txn.ID, "refunded")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "status", vErr.Field)

	publisher.AssertExpectations(t)
}
