package services

import (
	"context"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CartService manages the single cart of each user. Every line change
// re-totals the cart in the same transaction.
type CartService interface {
	// GetCart returns the requester's cart, creating it on first access.
	GetCart(ctx context.Context, userID uint) (*models.Cart, error)
	// ClearCart removes every line from the requester's cart.
	ClearCart(ctx context.Context, userID uint) (*models.Cart, error)
	ListCartItems(ctx context.Context, userID uint) ([]models.CartItem, error)
	GetCartItem(ctx context.Context, userID, itemID uint) (*models.CartItem, error)
	// UpsertCartItem puts quantity of a menu item in the cart. If the item
	// is already there its quantity is replaced.
	UpsertCartItem(ctx context.Context, userID, menuItemID uint, quantity int) (*models.CartItem, error)
	UpdateCartItem(ctx context.Context, userID, itemID uint, quantity int) (*models.CartItem, error)
	RemoveCartItem(ctx context.Context, userID, itemID uint) error
}

type cartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) CartService {
	return &cartService{db: db}
}

func (s *cartService) GetCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart *models.Cart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := ensureCart(tx, userID)
		if err != nil {
			return err
		}
		// Prices may have moved since the last write.
		if _, err := recomputeCartTotal(tx, locked.ID); err != nil {
			return err
		}
		cart, err = loadCart(tx, locked.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) ClearCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart *models.Cart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := ensureCart(tx, userID)
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", locked.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if _, err := recomputeCartTotal(tx, locked.ID); err != nil {
			return err
		}
		cart, err = loadCart(tx, locked.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.WithField("user_id", userID).Info("Cart cleared")
	return cart, nil
}

func (s *cartService) ListCartItems(ctx context.Context, userID uint) ([]models.CartItem, error) {
	items := []models.CartItem{}
	if err := s.db.WithContext(ctx).
		Scopes(inCartOf(userID)).
		Preload("MenuItem").
		Order("id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Hydrate()
	}
	return items, nil
}

func (s *cartService) GetCartItem(ctx context.Context, userID, itemID uint) (*models.CartItem, error) {
	return findCartItem(s.db.WithContext(ctx), userID, itemID)
}

func (s *cartService) UpsertCartItem(ctx context.Context, userID, menuItemID uint, quantity int) (*models.CartItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	var item *models.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := ensureCart(tx, userID)
		if err != nil {
			return err
		}
		if _, err := orderableMenuItem(tx, menuItemID); err != nil {
			return err
		}

		var line models.CartItem
		err = tx.Where("cart_id = ? AND menu_item_id = ?", cart.ID, menuItemID).First(&line).Error
		switch translate(err) {
		case nil:
			line.Quantity = quantity
			if err := tx.Model(&line).Update("quantity", quantity).Error; err != nil {
				return err
			}
		case ErrNotFound:
			line = models.CartItem{CartID: cart.ID, MenuItemID: menuItemID, Quantity: quantity}
			if err := tx.Create(&line).Error; err != nil {
				return translate(err)
			}
		default:
			return err
		}

		if _, err := recomputeCartTotal(tx, cart.ID); err != nil {
			return err
		}
		item, err = findCartItem(tx, userID, line.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"user_id":      userID,
		"menu_item_id": menuItemID,
		"quantity":     quantity,
	}).Debug("Cart item saved")
	return item, nil
}

func (s *cartService) UpdateCartItem(ctx context.Context, userID, itemID uint, quantity int) (*models.CartItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	var item *models.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := ensureCart(tx, userID)
		if err != nil {
			return err
		}
		var line models.CartItem
		if err := tx.Scopes(inCartOf(userID)).First(&line, itemID).Error; err != nil {
			return translate(err)
		}
		if err := tx.Model(&line).Update("quantity", quantity).Error; err != nil {
			return err
		}
		if _, err := recomputeCartTotal(tx, cart.ID); err != nil {
			return err
		}
		item, err = findCartItem(tx, userID, line.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *cartService) RemoveCartItem(ctx context.Context, userID, itemID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := ensureCart(tx, userID)
		if err != nil {
			return err
		}
		result := tx.Scopes(inCartOf(userID)).Where("id = ?", itemID).Delete(&models.CartItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		_, err = recomputeCartTotal(tx, cart.ID)
		return err
	})
}

func loadCart(tx *gorm.DB, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).Preload("Items.MenuItem").First(&cart, cartID).Error; err != nil {
		return nil, translate(err)
	}
	cart.Hydrate()
	return &cart, nil
}

func findCartItem(tx *gorm.DB, userID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := tx.Scopes(inCartOf(userID)).Preload("MenuItem").First(&item, itemID).Error; err != nil {
		return nil, translate(err)
	}
	item.Hydrate()
	return &item, nil
}

// orderableMenuItem loads a menu item that may be put in a cart or order.
func orderableMenuItem(tx *gorm.DB, menuItemID uint) (*models.MenuItem, error) {
	var menuItem models.MenuItem
	if err := tx.First(&menuItem, menuItemID).Error; err != nil {
		if translate(err) == ErrNotFound {
			return nil, invalid("menu_item", "menu item %d does not exist", menuItemID)
		}
		return nil, err
	}
	if !menuItem.Available {
		return nil, invalid("menu_item", "%s is currently unavailable", menuItem.Name)
	}
	return &menuItem, nil
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return invalid("quantity", "ensure this value is greater than or equal to 1")
	}
	return nil
}
