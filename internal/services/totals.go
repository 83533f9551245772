package services

import (
	"errors"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Every mutation of cart or order lines runs inside one transaction that
// locks the parent row, changes the lines, then calls the matching
// recompute function. Totals are always re-summed from a fresh read.

func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// ensureCart returns the locked cart of userID, creating it on first access.
func ensureCart(tx *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := forUpdate(tx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// A concurrent first access may insert the same row; the unique index
	// on user_id turns the loser into a no-op and both read the winner.
	cart = models.Cart{UserID: userID, TotalPrice: models.ZeroMoney()}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&cart).Error; err != nil {
		return nil, err
	}

	cart = models.Cart{}
	if err := forUpdate(tx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	log.WithField("user_id", userID).Debug("Cart provisioned")
	return &cart, nil
}

// recomputeCartTotal re-sums the live price of every line in cartID and persists it.
func recomputeCartTotal(tx *gorm.DB, cartID uint) (models.Money, error) {
	var items []models.CartItem
	if err := tx.Preload("MenuItem").Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return models.Money{}, err
	}
	total := models.SumCartItems(items)
	if err := tx.Model(&models.Cart{ID: cartID}).Update("total_price", total).Error; err != nil {
		return models.Money{}, err
	}
	return total, nil
}

// recomputeCartsContaining re-sums every cart that holds menuItemID.
func recomputeCartsContaining(tx *gorm.DB, menuItemIDs ...uint) error {
	if len(menuItemIDs) == 0 {
		return nil
	}
	var cartIDs []uint
	if err := tx.Model(&models.CartItem{}).
		Where("menu_item_id IN ?", menuItemIDs).
		Distinct().Pluck("cart_id", &cartIDs).Error; err != nil {
		return err
	}
	return recomputeCarts(tx, cartIDs)
}

func recomputeCarts(tx *gorm.DB, cartIDs []uint) error {
	for _, id := range cartIDs {
		var cart models.Cart
		if err := forUpdate(tx).First(&cart, id).Error; err != nil {
			return err
		}
		if _, err := recomputeCartTotal(tx, id); err != nil {
			return err
		}
	}
	return nil
}

// recomputeOrderTotal re-sums the frozen price of every line in orderID and persists it.
func recomputeOrderTotal(tx *gorm.DB, orderID uint) (models.Money, error) {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return models.Money{}, err
	}
	total := models.SumOrderItems(items)
	if err := tx.Model(&models.Order{ID: orderID}).Update("total_price", total).Error; err != nil {
		return models.Money{}, err
	}
	return total, nil
}

// detachMenuItems removes menu items from every cart and orphans their
// order lines, keeping the frozen name and price. Affected carts are
// recomputed. Callers delete the menu item rows afterwards.
func detachMenuItems(tx *gorm.DB, menuItemIDs []uint) error {
	if len(menuItemIDs) == 0 {
		return nil
	}
	var cartIDs []uint
	if err := tx.Model(&models.CartItem{}).
		Where("menu_item_id IN ?", menuItemIDs).
		Distinct().Pluck("cart_id", &cartIDs).Error; err != nil {
		return err
	}
	if err := tx.Where("menu_item_id IN ?", menuItemIDs).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.OrderItem{}).
		Where("menu_item_id IN ?", menuItemIDs).
		Update("menu_item_id", nil).Error; err != nil {
		return err
	}
	return recomputeCarts(tx, cartIDs)
}
