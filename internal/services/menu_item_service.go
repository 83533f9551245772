package services

import (
	"context"
	"strings"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/cache"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MenuItemInput carries the writable menu item fields; nil means unchanged on update.
type MenuItemInput struct {
	RestaurantID *uint
	Name         *string
	Category     *string
	Price        *models.Money
	Description  *string
	Image        *string
	Available    *bool
}

// MenuItemFilter narrows ListMenuItems.
type MenuItemFilter struct {
	RestaurantID uint
	Category     string
	Available    *bool
}

// MenuItemService manages the catalog. Reads are public; writes require
// ownership of the restaurant the item belongs to.
type MenuItemService interface {
	ListMenuItems(ctx context.Context, filter MenuItemFilter) ([]models.MenuItem, error)
	// ListByCategory returns the available items of category, served from the catalog cache when possible.
	ListByCategory(ctx context.Context, category string) ([]models.MenuItem, error)
	GetMenuItemByID(ctx context.Context, id uint) (*models.MenuItem, error)
	CreateMenuItem(ctx context.Context, req Requester, input MenuItemInput) (*models.MenuItem, error)
	// UpdateMenuItem changes an item; a price change re-totals every cart holding it.
	UpdateMenuItem(ctx context.Context, req Requester, id uint, input MenuItemInput) (*models.MenuItem, error)
	// DeleteMenuItem removes an item from carts and orphans its order lines.
	DeleteMenuItem(ctx context.Context, req Requester, id uint) error
}

type menuItemService struct {
	db      *gorm.DB
	catalog cache.CatalogCache
}

func NewMenuItemService(db *gorm.DB, catalog cache.CatalogCache) MenuItemService {
	if catalog == nil {
		catalog = cache.NopCatalogCache{}
	}
	return &menuItemService{db: db, catalog: catalog}
}

func (s *menuItemService) ListMenuItems(ctx context.Context, filter MenuItemFilter) ([]models.MenuItem, error) {
	query := s.db.WithContext(ctx).Preload("Restaurant").Order("name").Order("id")
	if filter.RestaurantID != 0 {
		query = query.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.Category != "" {
		if !models.MenuCategory(filter.Category).Valid() {
			return nil, invalid("category", "%q is not a valid choice", filter.Category)
		}
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Available != nil {
		query = query.Where("available = ?", *filter.Available)
	}
	items := []models.MenuItem{}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *menuItemService) ListByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	if !models.MenuCategory(category).Valid() {
		return nil, invalid("category", "%q is not a valid choice", category)
	}

	items := []models.MenuItem{}
	found, err := s.catalog.GetCategory(ctx, category, &items)
	if err != nil {
		log.WithError(err).WithField("category", category).Warn("Catalog cache read failed")
	}
	if found {
		return items, nil
	}

	available := true
	items, err = s.ListMenuItems(ctx, MenuItemFilter{Category: category, Available: &available})
	if err != nil {
		return nil, err
	}
	if err := s.catalog.SetCategory(ctx, category, items); err != nil {
		log.WithError(err).WithField("category", category).Warn("Catalog cache write failed")
	}
	return items, nil
}

func (s *menuItemService) GetMenuItemByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).Preload("Restaurant").First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *menuItemService) CreateMenuItem(ctx context.Context, req Requester, input MenuItemInput) (*models.MenuItem, error) {
	if input.RestaurantID == nil || *input.RestaurantID == 0 {
		return nil, invalid("restaurant_id", "this field is required")
	}
	if input.Price == nil {
		return nil, invalid("price", "this field is required")
	}
	item := models.MenuItem{
		RestaurantID: *input.RestaurantID,
		Category:     models.CategoryMainCourse,
		Available:    true,
	}
	if err := applyMenuItemInput(&item, input, true); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		restaurant, err := loadRestaurantFor(tx, item.RestaurantID)
		if err != nil {
			return err
		}
		if err := Authorize(req, restaurant.UserID, "add items to your own restaurant"); err != nil {
			return err
		}
		if err := checkMenuItemName(tx, item.RestaurantID, item.Name, 0); err != nil {
			return err
		}
		if err := tx.Create(&item).Error; err != nil {
			return translate(err)
		}
		item.Restaurant = restaurant
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx)
	log.WithFields(logrus.Fields{
		"user_id":       req.UserID,
		"restaurant_id": item.RestaurantID,
		"menu_item_id":  item.ID,
	}).Info("Menu item created")
	return &item, nil
}

func (s *menuItemService) UpdateMenuItem(ctx context.Context, req Requester, id uint, input MenuItemInput) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&item, id).Error; err != nil {
			return translate(err)
		}
		current, err := loadRestaurantFor(tx, item.RestaurantID)
		if err != nil {
			return err
		}
		if err := Authorize(req, current.UserID, "modify items of your own restaurant"); err != nil {
			return err
		}

		restaurant := current
		if input.RestaurantID != nil && *input.RestaurantID != item.RestaurantID {
			target, err := loadRestaurantFor(tx, *input.RestaurantID)
			if err != nil {
				return err
			}
			if err := Authorize(req, target.UserID, "move items to your own restaurant"); err != nil {
				return err
			}
			item.RestaurantID = target.ID
			restaurant = target
		}

		previousPrice := item.Price
		if err := applyMenuItemInput(&item, input, false); err != nil {
			return err
		}
		if input.Name != nil || input.RestaurantID != nil {
			if err := checkMenuItemName(tx, item.RestaurantID, item.Name, item.ID); err != nil {
				return err
			}
		}
		if err := tx.Omit("Restaurant").Save(&item).Error; err != nil {
			return translate(err)
		}
		if !item.Price.Equal(previousPrice.Decimal) {
			if err := recomputeCartsContaining(tx, item.ID); err != nil {
				return err
			}
		}
		item.Restaurant = restaurant
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx)
	log.WithFields(logrus.Fields{
		"user_id":      req.UserID,
		"menu_item_id": item.ID,
	}).Info("Menu item updated")
	return &item, nil
}

func (s *menuItemService) DeleteMenuItem(ctx context.Context, req Requester, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := forUpdate(tx).First(&item, id).Error; err != nil {
			return translate(err)
		}
		restaurant, err := loadRestaurantFor(tx, item.RestaurantID)
		if err != nil {
			return err
		}
		if err := Authorize(req, restaurant.UserID, "delete items of your own restaurant"); err != nil {
			return err
		}
		if err := detachMenuItems(tx, []uint{item.ID}); err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	log.WithFields(logrus.Fields{
		"user_id":      req.UserID,
		"menu_item_id": id,
	}).Info("Menu item deleted")
	return nil
}

func (s *menuItemService) invalidateCatalog(ctx context.Context) {
	if err := s.catalog.Invalidate(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate catalog cache")
	}
}

func loadRestaurantFor(tx *gorm.DB, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := tx.First(&restaurant, id).Error; err != nil {
		if translate(err) == ErrNotFound {
			return nil, invalid("restaurant_id", "restaurant %d does not exist", id)
		}
		return nil, err
	}
	return &restaurant, nil
}

func applyMenuItemInput(item *models.MenuItem, input MenuItemInput, creating bool) error {
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if (creating || input.Name != nil) && item.Name == "" {
		return invalid("name", "this field may not be blank")
	}
	if len(item.Name) > 200 {
		return invalid("name", "ensure this field has no more than 200 characters")
	}
	if input.Category != nil {
		category := models.MenuCategory(*input.Category)
		if !category.Valid() {
			return invalid("category", "%q is not a valid choice", *input.Category)
		}
		item.Category = category
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return err
		}
		item.Price = *input.Price
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Image != nil {
		item.Image = *input.Image
	}
	if input.Available != nil {
		item.Available = *input.Available
	}
	return nil
}

func validatePrice(price models.Money) error {
	switch {
	case price.IsNegative():
		return invalid("price", "ensure this value is greater than or equal to 0")
	case !price.WholeCents():
		return invalid("price", "ensure that there are no more than 2 decimal places")
	case price.GreaterThan(models.MaxPrice):
		return invalid("price", "ensure that there are no more than 7 digits in total")
	}
	return nil
}

func checkMenuItemName(tx *gorm.DB, restaurantID uint, name string, exceptID uint) error {
	var count int64
	if err := tx.Model(&models.MenuItem{}).
		Where("restaurant_id = ? AND name = ? AND id <> ?", restaurantID, name, exceptID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return invalid("name", "the restaurant already has a menu item named %q", name)
	}
	return nil
}
