package models

import "time"

// Order is a purchase. TotalPrice is the sum of its items' frozen prices.
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	UserID        uint          `gorm:"not null;index" json:"user_id"`
	Status        OrderStatus   `gorm:"size:20;not null;default:'pending'" json:"status"`
	TotalPrice    Money         `gorm:"type:decimal(12,2);not null" json:"total_price"`
	PaymentMethod PaymentMethod `gorm:"size:20;not null;default:'mobile_money'" json:"payment_method"`
	Items         []OrderItem   `gorm:"constraint:OnDelete:CASCADE" json:"orderitems"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// OrderItem captures the menu item price at the time it was created.
// MenuItemID becomes NULL when the menu item is deleted; the name and
// price snapshots survive.
type OrderItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      uint      `gorm:"not null;index" json:"order"`
	MenuItemID   *uint     `gorm:"index" json:"menu_item"`
	MenuItem     *MenuItem `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	MenuItemName string    `gorm:"size:200;not null" json:"menu_item_name"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	OrderedPrice Money     `gorm:"type:decimal(7,2);not null" json:"ordered_price"`
	Subtotal     Money     `gorm:"-" json:"subtotal"`
	CreatedAt    time.Time `json:"created_at"`
}

// LineTotal is quantity times the frozen price.
func (oi *OrderItem) LineTotal() Money {
	return oi.OrderedPrice.Times(oi.Quantity)
}

func (oi *OrderItem) Hydrate() {
	oi.Subtotal = oi.LineTotal()
}

// SumOrderItems returns the frozen total of items.
func SumOrderItems(items []OrderItem) Money {
	total := ZeroMoney()
	for i := range items {
		total = total.Plus(items[i].LineTotal())
	}
	return total
}

func (o *Order) Hydrate() {
	for i := range o.Items {
		o.Items[i].Hydrate()
	}
}
