package services

import (
	"context"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/events"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TransactionService records payment attempts against orders.
type TransactionService interface {
	// CreateTransaction copies the amount due and payment method of orderID.
	// The copy is made once; later order changes do not reach the transaction.
	CreateTransaction(ctx context.Context, userID, orderID uint) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID uint) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id uint) (*models.Transaction, error)
	// UpdateTransactionStatus changes only the transaction's own status.
	UpdateTransactionStatus(ctx context.Context, userID, id uint, status models.TransactionStatus) (*models.Transaction, error)
}

type transactionService struct {
	db        *gorm.DB
	publisher events.Publisher
}

func NewTransactionService(db *gorm.DB, publisher events.Publisher) TransactionService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &transactionService{db: db, publisher: publisher}
}

func (s *transactionService) CreateTransaction(ctx context.Context, userID, orderID uint) (*models.Transaction, error) {
	if orderID == 0 {
		return nil, invalid("order", "this field is required")
	}

	var txn models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := forUpdate(tx).First(&order, orderID).Error; err != nil {
			if translate(err) == ErrNotFound {
				return invalid("order", "order %d does not exist", orderID)
			}
			return err
		}
		if order.UserID != userID {
			return forbidden("you can only pay for your own orders")
		}
		if order.Status == models.OrderCancelled {
			return invalid("order", "order %d is cancelled", orderID)
		}

		id := order.ID
		txn = models.Transaction{
			OrderID:       &id,
			OrderRef:      order.ID,
			AmountDue:     order.TotalPrice,
			PaymentMethod: order.PaymentMethod,
			Status:        models.TransactionPending,
			UserID:        userID,
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"user_id":        userID,
		"order_id":       orderID,
		"transaction_id": txn.ID,
		"amount_due":     txn.AmountDue.String(),
	}).Info("Transaction created")
	publish(ctx, s.publisher, events.TransactionCreated, transactionPayload(&txn, ""))
	return &txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, userID uint) ([]models.Transaction, error) {
	txns := []models.Transaction{}
	if err := s.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Order("created_at DESC").Order("id DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, userID, id uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.WithContext(ctx).Scopes(ownedBy(userID)).First(&txn, id).Error; err != nil {
		return nil, translate(err)
	}
	return &txn, nil
}

func (s *transactionService) UpdateTransactionStatus(ctx context.Context, userID, id uint, status models.TransactionStatus) (*models.Transaction, error) {
	if !status.Valid() {
		return nil, invalid("status", "%q is not a valid choice", status)
	}

	var (
		txn      models.Transaction
		previous models.TransactionStatus
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Scopes(ownedBy(userID)).First(&txn, id).Error; err != nil {
			return translate(err)
		}
		previous = txn.Status
		if previous == status {
			return nil
		}
		txn.Status = status
		return tx.Model(&txn).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}

	if previous != status {
		log.WithFields(logrus.Fields{
			"user_id":        userID,
			"transaction_id": txn.ID,
			"from":           previous,
			"to":             status,
		}).Info("Transaction status changed")
		publish(ctx, s.publisher, events.TransactionStatusChanged, transactionPayload(&txn, previous))
	}
	return &txn, nil
}

func transactionPayload(txn *models.Transaction, previous models.TransactionStatus) events.TransactionPayload {
	return events.TransactionPayload{
		TransactionID:  txn.ID,
		OrderID:        txn.OrderRef,
		UserID:         txn.UserID,
		Status:         string(txn.Status),
		PreviousStatus: string(previous),
		AmountDue:      txn.AmountDue.String(),
		PaymentMethod:  string(txn.PaymentMethod),
	}
}
