package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/database"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps the in-memory database alive and serializes writers.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) Requester {
	user := &models.User{Email: email, Name: email, Password: "password", Role: role}
	require.NoError(t, user.HashPassword())
	require.NoError(t, NewUserService(db).CreateUser(context.Background(), user))
	return Requester{UserID: user.ID, Role: user.Role}
}

func createTestRestaurant(t *testing.T, db *gorm.DB, owner Requester, name string) *models.Restaurant {
	location := "Main street"
	restaurant, err := NewRestaurantService(db, nil).CreateRestaurant(context.Background(), owner, RestaurantInput{
		Name:     &name,
		Location: &location,
	})
	require.NoError(t, err)
	return restaurant
}

func createTestMenuItem(t *testing.T, db *gorm.DB, owner Requester, restaurantID uint, name, price string) *models.MenuItem {
	p := models.MustMoney(price)
	item, err := NewMenuItemService(db, nil).CreateMenuItem(context.Background(), owner, MenuItemInput{
		RestaurantID: &restaurantID,
		Name:         &name,
		Price:        &p,
	})
	require.NoError(t, err)
	return item
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func moneyPtr(s string) *models.Money {
	m := models.MustMoney(s)
	return &m
}

// mockPublisher records published events.
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, data interface{}) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

func (m *mockPublisher) Close() error { return nil }
