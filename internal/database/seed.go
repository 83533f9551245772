package database

import (
	"errors"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOAuthClient registers the first-party client used for the password
// grant. An existing client with the same id is left untouched.
func SeedOAuthClient(db *gorm.DB, clientID, clientSecret string, userID uint, grantTypes string) error {
	var existing models.OAuthClient
	err := db.Where("id = ?", clientID).First(&existing).Error
	if err == nil {
		log.WithField("client_id", clientID).Debug("OAuth client already present")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	client := &models.OAuthClient{
		ID:         clientID,
		Secret:     string(hash),
		Name:       "First party web client",
		UserID:     userID,
		Scopes:     "read write",
		GrantTypes: grantTypes,
	}
	if err := db.Create(client).Error; err != nil {
		return err
	}
	log.WithField("client_id", clientID).Info("OAuth client seeded")
	return nil
}

// SeedDemoData creates an owner, a restaurant and a few menu items when
// the database has no restaurants yet.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Restaurant{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("Database already seeded with initial data")
		return nil
	}

	log.Info("Database is empty, seeding initial data")
	return db.Transaction(func(tx *gorm.DB) error {
		owner := &models.User{
			Email:    "owner@fooddelivery.local",
			Name:     "Demo Owner",
			Password: "owner-password",
			Role:     models.RoleCustomer,
		}
		if err := owner.HashPassword(); err != nil {
			return err
		}
		if err := tx.Create(owner).Error; err != nil {
			return err
		}

		restaurant := &models.Restaurant{
			UserID:      owner.ID,
			Name:        "Mama Mia Trattoria",
			Location:    "12 Harbour Road",
			Description: "Wood fired pizza and fresh pasta",
		}
		if err := tx.Create(restaurant).Error; err != nil {
			return err
		}

		items := []models.MenuItem{
			{RestaurantID: restaurant.ID, Name: "Bruschetta", Category: models.CategoryAppetizer, Price: models.MustMoney("5.50"), Available: true},
			{RestaurantID: restaurant.ID, Name: "Margherita", Category: models.CategoryMainCourse, Price: models.MustMoney("10.99"), Available: true},
			{RestaurantID: restaurant.ID, Name: "Pepperoni", Category: models.CategoryMainCourse, Price: models.MustMoney("12.99"), Available: true},
			{RestaurantID: restaurant.ID, Name: "Tiramisu", Category: models.CategoryDessert, Price: models.MustMoney("6.25"), Available: true},
			{RestaurantID: restaurant.ID, Name: "Lemonade", Category: models.CategoryBeverage, Price: models.MustMoney("2.75"), Available: true},
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		log.WithFields(logrus.Fields{
			"restaurant_id": restaurant.ID,
			"menu_items":    len(items),
		}).Info("Database seeded successfully")
		return nil
	})
}
