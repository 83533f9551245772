package models

import "time"

// Cart is the single shopping cart of a user. TotalPrice is derived from
// Items and is rewritten every time an item changes.
type Cart struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalPrice Money      `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Items      []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"cartitems"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartItem is live-priced: its subtotal follows the current catalog price.
type CartItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CartID       uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_menu_item" json:"cart"`
	MenuItemID   uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_menu_item;index" json:"menu_item"`
	MenuItem     *MenuItem `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	MenuItemName string    `gorm:"-" json:"menu_item_name"`
	Subtotal     Money     `gorm:"-" json:"subtotal"`
}

// LineTotal is quantity times the current price of the referenced menu item.
// A missing menu item contributes nothing.
func (ci *CartItem) LineTotal() Money {
	if ci.MenuItem == nil {
		return ZeroMoney()
	}
	return ci.MenuItem.Price.Times(ci.Quantity)
}

// Hydrate fills the read-only display fields from the loaded menu item.
func (ci *CartItem) Hydrate() {
	if ci.MenuItem != nil {
		ci.MenuItemName = ci.MenuItem.Name
	}
	ci.Subtotal = ci.LineTotal()
}

// SumCartItems returns the live total of items.
func SumCartItems(items []CartItem) Money {
	total := ZeroMoney()
	for i := range items {
		total = total.Plus(items[i].LineTotal())
	}
	return total
}

// Hydrate fills the display fields of every loaded item.
func (c *Cart) Hydrate() {
	for i := range c.Items {
		c.Items[i].Hydrate()
	}
}
