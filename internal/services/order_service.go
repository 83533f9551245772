package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/events"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LineItem is one requested order line.
type LineItem struct {
	MenuItemID uint
	Quantity   int
}

// OrderUpdate carries the fields a customer may change; nil means unchanged.
type OrderUpdate struct {
	Status        *models.OrderStatus
	PaymentMethod *models.PaymentMethod
}

// OrderService creates and tracks orders. Line prices are frozen when a
// line is created and the order total is re-summed from them on every save.
type OrderService interface {
	CreateOrder(ctx context.Context, userID uint, lines []LineItem, method models.PaymentMethod) (*models.Order, error)
	// Checkout turns the requester's cart into an order and empties the cart.
	Checkout(ctx context.Context, userID uint, method models.PaymentMethod) (*models.Order, error)
	ListOrders(ctx context.Context, userID uint) ([]models.Order, error)
	GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error)
	UpdateOrder(ctx context.Context, req Requester, orderID uint, update OrderUpdate) (*models.Order, error)
	// SetOrderStatus moves any order along the transition table. Admin only.
	SetOrderStatus(ctx context.Context, req Requester, orderID uint, status models.OrderStatus) (*models.Order, error)

	ListOrderItems(ctx context.Context, userID uint, orderID uint) ([]models.OrderItem, error)
	GetOrderItem(ctx context.Context, userID, itemID uint) (*models.OrderItem, error)
	// AddOrderItem appends a line to a pending order at the current price.
	AddOrderItem(ctx context.Context, userID, orderID uint, line LineItem) (*models.OrderItem, error)
	// RemoveOrderItem deletes a line of a pending order.
	RemoveOrderItem(ctx context.Context, userID, itemID uint) error
}

type orderService struct {
	db        *gorm.DB
	publisher events.Publisher
}

func NewOrderService(db *gorm.DB, publisher events.Publisher) OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &orderService{db: db, publisher: publisher}
}

func (s *orderService) CreateOrder(ctx context.Context, userID uint, lines []LineItem, method models.PaymentMethod) (*models.Order, error) {
	method, err := paymentMethodOrDefault(method)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, invalid("orderitems", "an order needs at least one item")
	}
	for i, line := range lines {
		if line.Quantity < 1 {
			return nil, invalid(fmt.Sprintf("orderitems[%d].quantity", i), "ensure this value is greater than or equal to 1")
		}
	}

	var order *models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = placeOrder(tx, userID, lines, method)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.orderCreated(ctx, order)
	return order, nil
}

func (s *orderService) Checkout(ctx context.Context, userID uint, method models.PaymentMethod) (*models.Order, error) {
	method, err := paymentMethodOrDefault(method)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := ensureCart(tx, userID)
		if err != nil {
			return err
		}
		var cartItems []models.CartItem
		if err := tx.Where("cart_id = ?", cart.ID).Order("id").Find(&cartItems).Error; err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return invalid("cart", "the cart is empty")
		}

		lines := make([]LineItem, 0, len(cartItems))
		for _, ci := range cartItems {
			lines = append(lines, LineItem{MenuItemID: ci.MenuItemID, Quantity: ci.Quantity})
		}
		order, err = placeOrder(tx, userID, lines, method)
		if err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		_, err = recomputeCartTotal(tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"user_id": userID, "order_id": order.ID}).Info("Cart checked out")
	s.orderCreated(ctx, order)
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Preload("Items", orderItemsByID).
		Order("updated_at DESC").Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Hydrate()
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	return loadOrder(s.db.WithContext(ctx).Scopes(ownedBy(userID)), orderID)
}

func (s *orderService) UpdateOrder(ctx context.Context, req Requester, orderID uint, update OrderUpdate) (*models.Order, error) {
	var (
		order    *models.Order
		previous models.OrderStatus
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Order
		if err := forUpdate(tx).Scopes(ownedBy(req.UserID)).First(&current, orderID).Error; err != nil {
			return translate(err)
		}
		previous = current.Status

		if update.Status != nil && *update.Status != current.Status {
			if !req.IsAdmin() && *update.Status != models.OrderCancelled {
				return forbidden("customers can only cancel an order")
			}
			if err := checkTransition(current.Status, *update.Status); err != nil {
				return err
			}
			current.Status = *update.Status
		}
		if update.PaymentMethod != nil {
			if !update.PaymentMethod.Valid() {
				return invalid("payment_method", "%q is not a valid choice", *update.PaymentMethod)
			}
			if *update.PaymentMethod != current.PaymentMethod && current.Status != models.OrderPending {
				return invalid("payment_method", "the payment method can only change while the order is pending")
			}
			current.PaymentMethod = *update.PaymentMethod
		}

		var err error
		order, err = saveOrder(tx, &current)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"user_id": req.UserID, "order_id": order.ID}).Info("Order updated")
	if order.Status != previous {
		s.statusChanged(ctx, order, previous)
	}
	return order, nil
}

func (s *orderService) SetOrderStatus(ctx context.Context, req Requester, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !req.IsAdmin() {
		return nil, forbidden("only staff can change the status of an order")
	}

	var (
		order    *models.Order
		previous models.OrderStatus
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Order
		if err := forUpdate(tx).First(&current, orderID).Error; err != nil {
			return translate(err)
		}
		previous = current.Status
		if err := checkTransition(current.Status, status); err != nil {
			return err
		}
		current.Status = status

		var err error
		order, err = saveOrder(tx, &current)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"user_id":  req.UserID,
		"order_id": order.ID,
		"from":     previous,
		"to":       order.Status,
	}).Info("Order status set")
	if order.Status != previous {
		s.statusChanged(ctx, order, previous)
	}
	return order, nil
}

func (s *orderService) ListOrderItems(ctx context.Context, userID uint, orderID uint) ([]models.OrderItem, error) {
	query := s.db.WithContext(ctx).Scopes(inOrdersOf(userID)).Order("id")
	if orderID != 0 {
		query = query.Where("order_id = ?", orderID)
	}
	items := []models.OrderItem{}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Hydrate()
	}
	return items, nil
}

func (s *orderService) GetOrderItem(ctx context.Context, userID, itemID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := s.db.WithContext(ctx).Scopes(inOrdersOf(userID)).First(&item, itemID).Error; err != nil {
		return nil, translate(err)
	}
	item.Hydrate()
	return &item, nil
}

func (s *orderService) AddOrderItem(ctx context.Context, userID, orderID uint, line LineItem) (*models.OrderItem, error) {
	if err := validateQuantity(line.Quantity); err != nil {
		return nil, err
	}

	var item models.OrderItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockPendingOrder(tx, userID, orderID)
		if err != nil {
			return err
		}
		item, err = freezeLine(tx, order.ID, line)
		if err != nil {
			return err
		}
		if err := tx.Create(&item).Error; err != nil {
			return translate(err)
		}
		_, err = recomputeOrderTotal(tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	item.Hydrate()
	log.WithFields(logrus.Fields{
		"user_id":       userID,
		"order_id":      orderID,
		"order_item_id": item.ID,
	}).Info("Order item added")
	return &item, nil
}

func (s *orderService) RemoveOrderItem(ctx context.Context, userID, itemID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.OrderItem
		if err := tx.Scopes(inOrdersOf(userID)).First(&item, itemID).Error; err != nil {
			return translate(err)
		}
		order, err := lockPendingOrder(tx, userID, item.OrderID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		_, err = recomputeOrderTotal(tx, order.ID)
		return err
	})
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"user_id": userID, "order_item_id": itemID}).Info("Order item removed")
	return nil
}

func (s *orderService) orderCreated(ctx context.Context, order *models.Order) {
	log.WithFields(logrus.Fields{
		"user_id":     order.UserID,
		"order_id":    order.ID,
		"total_price": order.TotalPrice.String(),
	}).Info("Order created")
	publish(ctx, s.publisher, events.OrderCreated, orderPayload(order, ""))
}

func (s *orderService) statusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus) {
	publish(ctx, s.publisher, events.OrderStatusChanged, orderPayload(order, previous))
}

// placeOrder creates an order with one frozen-price line per entry of lines.
func placeOrder(tx *gorm.DB, userID uint, lines []LineItem, method models.PaymentMethod) (*models.Order, error) {
	order := models.Order{
		UserID:        userID,
		Status:        models.OrderPending,
		PaymentMethod: method,
		TotalPrice:    models.ZeroMoney(),
	}
	if err := tx.Omit("Items").Create(&order).Error; err != nil {
		return nil, err
	}
	for i, line := range lines {
		item, err := freezeLine(tx, order.ID, line)
		if err != nil {
			var vErr *ValidationError
			if errors.As(err, &vErr) {
				vErr.Field = fmt.Sprintf("orderitems[%d].%s", i, vErr.Field)
			}
			return nil, err
		}
		if err := tx.Create(&item).Error; err != nil {
			return nil, err
		}
	}
	if _, err := recomputeOrderTotal(tx, order.ID); err != nil {
		return nil, err
	}
	return loadOrder(tx, order.ID)
}

// freezeLine resolves the menu item of line and captures its current name and price.
func freezeLine(tx *gorm.DB, orderID uint, line LineItem) (models.OrderItem, error) {
	menuItem, err := orderableMenuItem(tx, line.MenuItemID)
	if err != nil {
		return models.OrderItem{}, err
	}
	id := menuItem.ID
	return models.OrderItem{
		OrderID:      orderID,
		MenuItemID:   &id,
		MenuItemName: menuItem.Name,
		Quantity:     line.Quantity,
		OrderedPrice: menuItem.Price,
	}, nil
}

// saveOrder persists the scalar fields of order and re-sums its total.
func saveOrder(tx *gorm.DB, order *models.Order) (*models.Order, error) {
	if err := tx.Model(&models.Order{ID: order.ID}).Updates(map[string]interface{}{
		"status":         order.Status,
		"payment_method": order.PaymentMethod,
	}).Error; err != nil {
		return nil, err
	}
	if _, err := recomputeOrderTotal(tx, order.ID); err != nil {
		return nil, err
	}
	return loadOrder(tx, order.ID)
}

func lockPendingOrder(tx *gorm.DB, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := forUpdate(tx).Scopes(ownedBy(userID)).First(&order, orderID).Error; err != nil {
		if translate(err) == ErrNotFound {
			return nil, invalid("order", "order %d does not exist", orderID)
		}
		return nil, err
	}
	if order.Status != models.OrderPending {
		return nil, invalid("order", "items can only change while the order is pending")
	}
	return &order, nil
}

func loadOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := tx.Preload("Items", orderItemsByID).First(&order, orderID).Error; err != nil {
		return nil, translate(err)
	}
	order.Hydrate()
	return &order, nil
}

func orderItemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func checkTransition(from, to models.OrderStatus) error {
	if !to.Valid() {
		return invalid("status", "%q is not a valid choice", to)
	}
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func paymentMethodOrDefault(method models.PaymentMethod) (models.PaymentMethod, error) {
	if method == "" {
		return models.PaymentMobileMoney, nil
	}
	if !method.Valid() {
		return "", invalid("payment_method", "%q is not a valid choice", method)
	}
	return method, nil
}

func orderPayload(order *models.Order, previous models.OrderStatus) events.OrderPayload {
	return events.OrderPayload{
		OrderID:        order.ID,
		UserID:         order.UserID,
		Status:         string(order.Status),
		PreviousStatus: string(previous),
		TotalPrice:     order.TotalPrice.String(),
		PaymentMethod:  string(order.PaymentMethod),
	}
}
