package models

import "time"

// Transaction records one payment attempt. AmountDue and PaymentMethod are
// copied from the order when the transaction is created and never again.
type Transaction struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	OrderID       *uint             `gorm:"index" json:"order"`
	Order         *Order            `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	OrderRef      uint              `gorm:"not null" json:"order_id"`
	AmountDue     Money             `gorm:"type:decimal(12,2);not null" json:"amount_due"`
	PaymentMethod PaymentMethod     `gorm:"size:20;not null" json:"payment_method"`
	Status        TransactionStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	UserID        uint              `gorm:"not null;index" json:"user_id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
