package services

import (
	"context"
	"strings"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/cache"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RestaurantInput carries the writable restaurant fields; nil means unchanged on update.
type RestaurantInput struct {
	Name           *string
	Location       *string
	Description    *string
	ProfilePicture *string
}

// RestaurantFilter narrows ListRestaurants.
type RestaurantFilter struct {
	Name    string // partial match
	OwnerID uint
}

// RestaurantService manages restaurants. Reads are public, writes follow Authorize.
type RestaurantService interface {
	ListRestaurants(ctx context.Context, filter RestaurantFilter) ([]models.Restaurant, error)
	GetRestaurantByID(ctx context.Context, id uint) (*models.Restaurant, error)
	CreateRestaurant(ctx context.Context, req Requester, input RestaurantInput) (*models.Restaurant, error)
	UpdateRestaurant(ctx context.Context, req Requester, id uint, input RestaurantInput) (*models.Restaurant, error)
	// DeleteRestaurant removes the restaurant and its menu items.
	DeleteRestaurant(ctx context.Context, req Requester, id uint) error
}

type restaurantService struct {
	db      *gorm.DB
	catalog cache.CatalogCache
}

func NewRestaurantService(db *gorm.DB, catalog cache.CatalogCache) RestaurantService {
	if catalog == nil {
		catalog = cache.NopCatalogCache{}
	}
	return &restaurantService{db: db, catalog: catalog}
}

func (s *restaurantService) ListRestaurants(ctx context.Context, filter RestaurantFilter) ([]models.Restaurant, error) {
	query := s.db.WithContext(ctx).Order("name")
	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.OwnerID != 0 {
		query = query.Where("user_id = ?", filter.OwnerID)
	}
	restaurants := []models.Restaurant{}
	if err := query.Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (s *restaurantService) GetRestaurantByID(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := s.db.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		return nil, translate(err)
	}
	return &restaurant, nil
}

func (s *restaurantService) CreateRestaurant(ctx context.Context, req Requester, input RestaurantInput) (*models.Restaurant, error) {
	restaurant := models.Restaurant{UserID: req.UserID}
	if err := applyRestaurantInput(&restaurant, input, true); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkRestaurantName(tx, restaurant.Name, 0); err != nil {
			return err
		}
		return translate(tx.Create(&restaurant).Error)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"user_id":       req.UserID,
		"restaurant_id": restaurant.ID,
	}).Info("Restaurant created")
	return &restaurant, nil
}

func (s *restaurantService) UpdateRestaurant(ctx context.Context, req Requester, id uint, input RestaurantInput) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&restaurant, id).Error; err != nil {
			return translate(err)
		}
		if err := Authorize(req, restaurant.UserID, "modify your own restaurants"); err != nil {
			return err
		}
		if err := applyRestaurantInput(&restaurant, input, false); err != nil {
			return err
		}
		if input.Name != nil {
			if err := checkRestaurantName(tx, restaurant.Name, restaurant.ID); err != nil {
				return err
			}
		}
		return translate(tx.Save(&restaurant).Error)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx)
	log.WithFields(logrus.Fields{
		"user_id":       req.UserID,
		"restaurant_id": restaurant.ID,
	}).Info("Restaurant updated")
	return &restaurant, nil
}

func (s *restaurantService) DeleteRestaurant(ctx context.Context, req Requester, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := forUpdate(tx).First(&restaurant, id).Error; err != nil {
			return translate(err)
		}
		if err := Authorize(req, restaurant.UserID, "delete your own restaurants"); err != nil {
			return err
		}

		var menuItemIDs []uint
		if err := tx.Model(&models.MenuItem{}).Where("restaurant_id = ?", id).Pluck("id", &menuItemIDs).Error; err != nil {
			return err
		}
		if err := detachMenuItems(tx, menuItemIDs); err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&restaurant).Error
	})
	if err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	log.WithFields(logrus.Fields{
		"user_id":       req.UserID,
		"restaurant_id": id,
	}).Info("Restaurant deleted")
	return nil
}

func (s *restaurantService) invalidateCatalog(ctx context.Context) {
	if err := s.catalog.Invalidate(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate catalog cache")
	}
}

func applyRestaurantInput(r *models.Restaurant, input RestaurantInput, creating bool) error {
	if input.Name != nil {
		r.Name = strings.TrimSpace(*input.Name)
	}
	if input.Location != nil {
		r.Location = strings.TrimSpace(*input.Location)
	}
	if input.Description != nil {
		r.Description = *input.Description
	}
	if input.ProfilePicture != nil {
		r.ProfilePicture = *input.ProfilePicture
	}

	if (creating || input.Name != nil) && r.Name == "" {
		return invalid("name", "this field may not be blank")
	}
	if len(r.Name) > 255 {
		return invalid("name", "ensure this field has no more than 255 characters")
	}
	if (creating || input.Location != nil) && r.Location == "" {
		return invalid("location", "this field may not be blank")
	}
	if len(r.Description) > 255 {
		return invalid("description", "ensure this field has no more than 255 characters")
	}
	return nil
}

func checkRestaurantName(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	if err := tx.Model(&models.Restaurant{}).Where("name = ? AND id <> ?", name, exceptID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return invalid("name", "restaurant with this name already exists")
	}
	return nil
}
