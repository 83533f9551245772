package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/auth"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/database"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-jwt-secret-key-32-characters"

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	issuer *auth.TokenIssuer
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	issuer := auth.NewTokenIssuer(testSecret, time.Hour)
	return &testAPI{
		t:      t,
		db:     db,
		issuer: issuer,
		router: NewRouter(Dependencies{DB: db, Issuer: issuer}),
	}
}

// do sends body as JSON and decodes the response into out when non-nil.
func (api *testAPI) do(method, path, token string, body interface{}, out interface{}) int {
	api.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(api.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	if out != nil && w.Body.Len() > 0 {
		require.NoError(api.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func (api *testAPI) register(email string) string {
	api.t.Helper()
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	code := api.do(http.MethodPost, "/api/v1/register", "", gin.H{
		"email":    email,
		"password": "secret123",
		"name":     email,
	}, &resp)
	require.Equal(api.t, http.StatusCreated, code)
	require.NotEmpty(api.t, resp.AccessToken)
	return resp.AccessToken
}

func (api *testAPI) adminToken() string {
	api.t.Helper()
	user := &models.User{Email: "admin@example.com", Password: "secret123", Role: models.RoleAdmin}
	require.NoError(api.t, user.HashPassword())
	require.NoError(api.t, services.NewUserService(api.db).CreateUser(context.Background(), user))
	token, _, err := api.issuer.Issue(user)
	require.NoError(api.t, err)
	return token
}

type idResponse struct {
	ID uint `json:"id"`
}

type cartResponse struct {
	TotalPrice string `json:"total_price"`
	Items      []struct {
		ID       uint   `json:"id"`
		Subtotal string `json:"subtotal"`
	} `json:"cartitems"`
}

type orderResponse struct {
	ID            uint   `json:"id"`
	Status        string `json:"status"`
	TotalPrice    string `json:"total_price"`
	PaymentMethod string `json:"payment_method"`
	Items         []struct {
		ID           uint   `json:"id"`
		OrderedPrice string `json:"ordered_price"`
	} `json:"orderitems"`
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)
	api.register("jane@example.com")

	var apiErr models.APIError
	code := api.do(http.MethodPost, "/api/v1/register", "", gin.H{"email": "JANE@example.com", "password": "secret123"}, &apiErr)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, models.ErrConflict, apiErr.Code)

	var login struct {
		AccessToken string       `json:"access_token"`
		User        *models.User `json:"user"`
	}
	code = api.do(http.MethodPost, "/api/v1/login", "", gin.H{"email": "jane@example.com", "password": "secret123"}, &login)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.RoleCustomer, login.User.Role)

	var profile models.User
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/user", login.AccessToken, nil, &profile))
	assert.Equal(t, "jane@example.com", profile.Email)

	code = api.do(http.MethodPost, "/api/v1/login", "", gin.H{"email": "jane@example.com", "password": "nope"}, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, models.ErrInvalidCredential, apiErr.Code)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/cart", "", nil, nil))
}

func TestOrderingScenario(t *testing.T) {
	api := newTestAPI(t)
	owner := api.register("owner@example.com")
	buyer := api.register("buyer@example.com")

	var restaurant idResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/restaurants", owner,
		gin.H{"name": "Trattoria", "location": "Main street"}, &restaurant))

	var pasta idResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/menu-items", owner,
		gin.H{"restaurant_id": restaurant.ID, "name": "Pasta", "price": "9.99"}, &pasta))

	// Adding to the cart uses the live price.
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/cart-items", buyer,
		gin.H{"menu_item": pasta.ID, "quantity": 2}, nil))
	var cart cartResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/cart", buyer, nil, &cart))
	assert.Equal(t, "19.98", cart.TotalPrice)

	// The order freezes the price.
	var order orderResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/orders", buyer, gin.H{
		"orderitems":     []gin.H{{"menu_item": pasta.ID, "quantity": 2}},
		"payment_method": "cash",
	}, &order))
	assert.Equal(t, "19.98", order.TotalPrice)
	assert.Equal(t, "pending", order.Status)

	require.Equal(t, http.StatusOK, api.do(http.MethodPatch, fmt.Sprintf("/api/v1/menu-items/%d", pasta.ID), owner,
		gin.H{"price": "12.00"}, nil))

	require.Equal(t, http.StatusOK, api.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.ID), buyer, nil, &order))
	assert.Equal(t, "19.98", order.TotalPrice)
	assert.Equal(t, "9.99", order.Items[0].OrderedPrice)

	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/cart", buyer, nil, &cart))
	assert.Equal(t, "24.00", cart.TotalPrice)

	// The transaction copies the order at creation time.
	var txn struct {
		ID            uint   `json:"id"`
		AmountDue     string `json:"amount_due"`
		PaymentMethod string `json:"payment_method"`
		Status        string `json:"status"`
	}
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/transactions", buyer, gin.H{"order": order.ID}, &txn))
	assert.Equal(t, "19.98", txn.AmountDue)
	assert.Equal(t, "cash", txn.PaymentMethod)
	assert.Equal(t, "pending", txn.Status)

	require.Equal(t, http.StatusOK, api.do(http.MethodPatch, fmt.Sprintf("/api/v1/transactions/%d", txn.ID), buyer,
		gin.H{"status": "success"}, &txn))
	assert.Equal(t, "success", txn.Status)

	// Removing the last cart line zeroes the total.
	require.Len(t, cart.Items, 1)
	require.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, fmt.Sprintf("/api/v1/cart-items/%d", cart.Items[0].ID), buyer, nil, nil))
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/cart", buyer, nil, &cart))
	assert.Equal(t, "0.00", cart.TotalPrice)
	assert.Empty(t, cart.Items)
}

func TestCrossTenantAccess(t *testing.T) {
	api := newTestAPI(t)
	owner := api.register("owner@example.com")
	alice := api.register("alice@example.com")
	bob := api.register("bob@example.com")

	var restaurant, soup idResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/restaurants", owner,
		gin.H{"name": "Soup Kitchen", "location": "Corner"}, &restaurant))
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/menu-items", owner,
		gin.H{"restaurant_id": restaurant.ID, "name": "Soup", "price": "3.00"}, &soup))

	var line, order idResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/cart-items", alice,
		gin.H{"menu_item": soup.ID, "quantity": 1}, &line))
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/orders", alice,
		gin.H{"orderitems": []gin.H{{"menu_item": soup.ID, "quantity": 1}}}, &order))

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, fmt.Sprintf("/api/v1/cart-items/%d", line.ID), bob, nil, nil))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, fmt.Sprintf("/api/v1/cart-items/%d", line.ID), bob, nil, nil))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.ID), bob, nil, nil))
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/v1/transactions", bob, gin.H{"order": order.ID}, nil))

	// Only the restaurant owner may add items to it.
	var apiErr models.APIError
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/v1/menu-items", bob,
		gin.H{"restaurant_id": restaurant.ID, "name": "Bread", "price": "1.00"}, &apiErr))
	assert.Equal(t, models.ErrForbidden, apiErr.Code)

	var orders []orderResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/orders", bob, nil, &orders))
	assert.Empty(t, orders)
}

func TestValidationErrors(t *testing.T) {
	api := newTestAPI(t)
	owner := api.register("owner@example.com")

	var restaurant idResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/restaurants", owner,
		gin.H{"name": "Grill", "location": "Harbour"}, &restaurant))

	var apiErr models.APIError
	code := api.do(http.MethodPost, "/api/v1/menu-items", owner,
		gin.H{"restaurant_id": restaurant.ID, "name": "Steak", "price": "12.345"}, &apiErr)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, models.ErrValidationFailed, apiErr.Code)
	assert.Contains(t, apiErr.Details, "price")

	code = api.do(http.MethodPost, "/api/v1/cart-items", owner, gin.H{"menu_item": 999, "quantity": 1}, &apiErr)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, apiErr.Details, "menu_item")

	code = api.do(http.MethodGet, "/api/v1/restaurants/abc", "", nil, &apiErr)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdminStatusChanges(t *testing.T) {
	api := newTestAPI(t)
	owner := api.register("owner@example.com")
	admin := api.adminToken()

	var restaurant, tea idResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/restaurants", owner,
		gin.H{"name": "Tea House", "location": "Hill"}, &restaurant))
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/menu-items", owner,
		gin.H{"restaurant_id": restaurant.ID, "name": "Tea", "price": "2.00"}, &tea))

	var order orderResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/orders", owner,
		gin.H{"orderitems": []gin.H{{"menu_item": tea.ID, "quantity": 1}}}, &order))
	assert.Equal(t, "mobile_money", order.PaymentMethod)

	path := fmt.Sprintf("/api/v1/admin/orders/%d/status", order.ID)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPatch, path, owner, gin.H{"status": "ready"}, nil))

	require.Equal(t, http.StatusOK, api.do(http.MethodPatch, path, admin, gin.H{"status": "ready"}, &order))
	assert.Equal(t, "ready", order.Status)
	require.Equal(t, http.StatusOK, api.do(http.MethodPatch, path, admin, gin.H{"status": "delivered"}, &order))

	var apiErr models.APIError
	assert.Equal(t, http.StatusConflict, api.do(http.MethodPatch, fmt.Sprintf("/api/v1/orders/%d", order.ID), owner,
		gin.H{"status": "cancelled"}, &apiErr))
	assert.Equal(t, models.ErrInvalidTransition, apiErr.Code)
}
