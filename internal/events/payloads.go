package events

// OrderPayload is the data of order.* events.
type OrderPayload struct {
	OrderID        uint   `json:"order_id"`
	UserID         uint   `json:"user_id"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"`
	TotalPrice     string `json:"total_price"`
	PaymentMethod  string `json:"payment_method"`
}

// TransactionPayload is the data of transaction.* events.
type TransactionPayload struct {
	TransactionID  uint   `json:"transaction_id"`
	OrderID        uint   `json:"order_id"`
	UserID         uint   `json:"user_id"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"`
	AmountDue      string `json:"amount_due"`
	PaymentMethod  string `json:"payment_method"`
}
