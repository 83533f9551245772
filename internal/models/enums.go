package models

// Roles carried in the "role" claim of issued tokens.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Choice is a key/label pair of an enumerated value.
type Choice struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// MenuCategory classifies a menu item.
type MenuCategory string

const (
	CategoryAppetizer  MenuCategory = "appetizer"
	CategoryMainCourse MenuCategory = "main_course"
	CategorySideDish   MenuCategory = "side_dish"
	CategoryDessert    MenuCategory = "dessert"
	CategoryBeverage   MenuCategory = "beverage"
	CategoryKidsMenu   MenuCategory = "kids_menu"
)

var menuCategories = []Choice{
	{Key: string(CategoryAppetizer), Label: "Appetizer"},
	{Key: string(CategoryMainCourse), Label: "Main Course"},
	{Key: string(CategorySideDish), Label: "Side Dish"},
	{Key: string(CategoryDessert), Label: "Dessert"},
	{Key: string(CategoryBeverage), Label: "Beverage"},
	{Key: string(CategoryKidsMenu), Label: "Kids Menu"},
}

// MenuCategories lists every category in display order.
func MenuCategories() []Choice {
	out := make([]Choice, len(menuCategories))
	copy(out, menuCategories)
	return out
}

func (c MenuCategory) Valid() bool {
	for _, choice := range menuCategories {
		if choice.Key == string(c) {
			return true
		}
	}
	return false
}

// PaymentMethod is how an order is paid for.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentDebitCard   PaymentMethod = "debit_card"
	PaymentMobileMoney PaymentMethod = "mobile_money"
	PaymentPayPal      PaymentMethod = "paypal"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentDebitCard, PaymentMobileMoney, PaymentPayPal:
		return true
	}
	return false
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderReady, OrderCancelled},
	OrderReady:   {OrderDelivered, OrderCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderReady, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether s may move to next.
// Staying in the same status is always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransactionStatus is the state of a payment attempt.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "pending"
	TransactionSuccess TransactionStatus = "success"
	TransactionFailed  TransactionStatus = "failed"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionSuccess, TransactionFailed:
		return true
	}
	return false
}
