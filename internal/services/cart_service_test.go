package services

import (
	"context"
	"sync"
	"testing"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCartProvisionsEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "a@example.com", models.RoleCustomer)

	cart, err := NewCartService(db).GetCart(context.Background(), user.UserID)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, cart.UserID)
	assert.Equal(t, "0.00", cart.TotalPrice.String())
	assert.Empty(t, cart.Items)

	// A second read returns the same cart.
	again, err := NewCartService(db).GetCart(context.Background(), user.UserID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartTotalFollowsEveryMutation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@example.com", models.RoleCustomer)
	buyer := createTestUser(t, db, "buyer@example.com", models.RoleCustomer)
	restaurant := createTestRestaurant(t, db, owner, "Pasta Place")
	pasta := createTestMenuItem(t, db, owner, restaurant.ID, "Pasta", "9.99")
	soda := createTestMenuItem(t, db, owner, restaurant.ID, "Soda", "1.50")
	carts := NewCartService(db)

	pastaLine, err := carts.UpsertCartItem(ctx, buyer.UserID, pasta.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "19.98", pastaLine.Subtotal.String())
	assert.Equal(t, "Pasta", pastaLine.MenuItemName)
	assertCartTotal(t, carts, buyer.UserID, "19.98")

	sodaLine, err := carts.UpsertCartItem(ctx, buyer.UserID, soda.ID, 3)
	require.NoError(t, err)
	assertCartTotal(t, carts, buyer.UserID, "24.48")

	_, err = carts.UpdateCartItem(ctx, buyer.UserID, sodaLine.ID, 1)
	require.NoError(t, err)
	assertCartTotal(t, carts, buyer.UserID, "21.48")

	require.NoError(t, carts.RemoveCartItem(ctx, buyer.UserID, sodaLine.ID))
	assertCartTotal(t, carts, buyer.UserID, "19.98")

	require.NoError(t, carts.RemoveCartItem(ctx, buyer.UserID, pastaLine.ID))
	assertCartTotal(t, carts, buyer.UserID, "0.00")
}

func TestUpsertCartItemSetsQuantity(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@example.com", models.RoleCustomer)
	restaurant := createTestRestaurant(t, db, owner, "Grill")
	burger := createTestMenuItem(t, db, owner, restaurant.ID, "Burger", "5.00")
	carts := NewCartService(db)

	first, err := carts.UpsertCartItem(ctx, owner.UserID, burger.ID, 2)
	require.NoError(t, err)
	second, err := carts.UpsertCartItem(ctx, owner.UserID, burger.ID, 5)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)
	assertCartTotal(t, carts, owner.UserID, "25.00")
}

func TestUpsertCartItemValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@example.com", models.RoleCustomer)
	restaurant := createTestRestaurant(t, db, owner, "Grill")
	burger := createTestMenuItem(t, db, owner, restaurant.ID, "Burger", "5.00")
	carts := NewCartService(db)

	var vErr *ValidationError
	_, err := carts.UpsertCartItem(ctx, owner.UserID, burger.ID, 0)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "quantity", vErr.Field)

	_, err = carts.UpsertCartItem(ctx, owner.UserID, 999, 1)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "menu_item", vErr.Field)

	_, err = NewMenuItemService(db, nil).UpdateMenuItem(ctx, owner, burger.ID, MenuItemInput{Available: boolPtr(false)})
	require.NoError(t, err)
	_, err = carts.UpsertCartItem(ctx, owner.UserID, burger.ID, 1)
	require.ErrorAs(t, err, &vErr)

	assertCartTotal(t, carts, owner.UserID, "0.00")
}

func TestCartItemsAreScopedToTheirOwner(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice@example.com", models.RoleCustomer)
	bob := createTestUser(t, db, "bob@example.com", models.RoleCustomer)
	restaurant := createTestRestaurant(t, db, alice, "Deli")
	sandwich := createTestMenuItem(t, db, alice, restaurant.ID, "Sandwich", "4.00")
	carts := NewCartService(db)

	line, err := carts.UpsertCartItem(ctx, alice.UserID, sandwich.ID, 1)
	require.NoError(t, err)

	_, err = carts.GetCartItem(ctx, bob.UserID, line.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = carts.UpdateCartItem(ctx, bob.UserID, line.ID, 3)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, carts.RemoveCartItem(ctx, bob.UserID, line.ID), ErrNotFound)

	items, err := carts.ListCartItems(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Empty(t, items)

	assertCartTotal(t, carts, alice.UserID, "4.00")
}

func TestCartFollowsCatalogPrice(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@example.com", models.RoleCustomer)
	buyer := createTestUser(t, db, "buyer@example.com", models.RoleCustomer)
	restaurant := createTestRestaurant(t, db, owner, "Noodles")
	ramen := createTestMenuItem(t, db, owner, restaurant.ID, "Ramen", "9.99")
	carts := NewCartService(db)

	_, err := carts.UpsertCartItem(ctx, buyer.UserID, ramen.ID, 2)
	require.NoError(t, err)

	_, err = NewMenuItemService(db, nil).UpdateMenuItem(ctx, owner, ramen.ID, MenuItemInput{Price: moneyPtr("12.00")})
	require.NoError(t, err)

	// The stored total was rewritten with the price change.
	var stored models.Cart
	require.NoError(t, db.Where("user_id = ?", buyer.UserID).First(&stored).Error)
	assert.Equal(t, "24.00", stored.TotalPrice.String())
	assertCartTotal(t, carts, buyer.UserID, "24.00")
}

func TestClearCart(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@example.com", models.RoleCustomer)
	restaurant := createTestRestaurant(t, db, owner, "Bakery")
	bread := createTestMenuItem(t, db, owner, restaurant.ID, "Bread", "3.20")
	carts := NewCartService(db)

	_, err := carts.UpsertCartItem(ctx, owner.UserID, bread.ID, 2)
	require.NoError(t, err)

	cart, err := carts.ClearCart(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "0.00", cart.TotalPrice.String())
}

func TestConcurrentCartWritesKeepTotalConsistent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@example.com", models.RoleCustomer)
	buyer := createTestUser(t, db, "buyer@example.com", models.RoleCustomer)
	restaurant := createTestRestaurant(t, db, owner, "Tapas")
	carts := NewCartService(db)

	const workers = 8
	items := make([]*models.MenuItem, workers)
	for i := range items {
		items[i] = createTestMenuItem(t, db, owner, restaurant.ID, "Dish "+string(rune('A'+i)), "2.50")
	}

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(item *models.MenuItem) {
			defer wg.Done()
			_, err := carts.UpsertCartItem(ctx, buyer.UserID, item.ID, 2)
			errs <- err
		}(items[i])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var stored models.Cart
	require.NoError(t, db.Where("user_id = ?", buyer.UserID).First(&stored).Error)
	assert.Equal(t, "40.00", stored.TotalPrice.String())

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", buyer.UserID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func assertCartTotal(t *testing.T, carts CartService, userID uint, want string) {
	t.Helper()
	cart, err := carts.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, want, cart.TotalPrice.String())
	assert.Equal(t, want, models.SumCartItems(cart.Items).String())
}
