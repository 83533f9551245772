package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserProvisionsCart(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "  New@Example.com ", "")
	assert.Equal(t, models.RoleCustomer, user.Role)

	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", user.UserID).First(&cart).Error)
	assert.Equal(t, "0.00", cart.TotalPrice.String())

	stored, err := NewUserService(db).GetUserByID(context.Background(), user.UserID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", stored.Email)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "taken@example.com", models.RoleCustomer)

	err := NewUserService(db).CreateUser(context.Background(), &models.User{Email: "TAKEN@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	ctx := context.Background()
	created := createTestUser(t, db, "login@example.com", models.RoleCustomer)

	user, err := users.Authenticate(ctx, "Login@Example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, user.ID)

	_, err = users.Authenticate(ctx, "login@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.Authenticate(ctx, "nobody@example.com", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "profile@example.com", models.RoleCustomer)
	createTestUser(t, db, "other@example.com", models.RoleCustomer)

	updated, err := users.UpdateUser(ctx, user.UserID, UserUpdate{
		Name:        strPtr("Ada"),
		Address:     strPtr("1 Loop Road"),
		PhoneNumber: strPtr("+254700000000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "1 Loop Road", *updated.Address)
	assert.Equal(t, models.RoleCustomer, updated.Role)

	_, err = users.UpdateUser(ctx, user.UserID, UserUpdate{Email: strPtr("other@example.com")})
	assert.ErrorIs(t, err, ErrConflict)

	var vErr *ValidationError
	_, err = users.UpdateUser(ctx, user.UserID, UserUpdate{PhoneNumber: strPtr("1234567890123456")})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "phone_number", vErr.Field)

	_, err = users.UpdateUser(ctx, 999, UserUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		req     Requester
		ownerID uint
		allowed bool
	}{
		{"owner", Requester{UserID: 1, Role: models.RoleCustomer}, 1, true},
		{"admin", Requester{UserID: 2, Role: models.RoleAdmin}, 1, true},
		{"stranger", Requester{UserID: 3, Role: models.RoleCustomer}, 1, false},
		{"anonymous", Requester{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.req, tt.ownerID, "edit")
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestClientService(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	clients := NewClientService(db)
	user := createTestUser(t, db, "dev@example.com", models.RoleCustomer)
	other := createTestUser(t, db, "other@example.com", models.RoleCustomer)

	client, secret, err := clients.CreateClient(ctx, user.UserID, ClientInput{Name: "Integration", Scopes: "read"})
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.NotEqual(t, secret, client.Secret)
	assert.True(t, client.VerifyPassword(secret))
	assert.True(t, client.AllowsGrant("client_credentials"))

	_, _, err = clients.CreateClient(ctx, user.UserID, ClientInput{Name: " "})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	list, err := clients.GetClientsByUserID(ctx, user.UserID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, clients.DeleteClient(ctx, client.ID, other.UserID), ErrNotFound)
	require.NoError(t, clients.DeleteClient(ctx, client.ID, user.UserID))
	_, err = clients.GetClientByID(ctx, client.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
