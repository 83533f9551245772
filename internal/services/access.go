package services

import (
	"fmt"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"gorm.io/gorm"
)

// Requester is the authenticated identity a service operation runs for.
type Requester struct {
	UserID uint
	Role   string
}

func (r Requester) IsAdmin() bool {
	return r.Role == models.RoleAdmin
}

// Authorize is the single ownership policy for catalog writes: the owner of
// the resource or an admin may proceed, anyone else gets ErrForbidden.
func Authorize(r Requester, ownerID uint, action string) error {
	if r.UserID != 0 && (r.UserID == ownerID || r.IsAdmin()) {
		return nil
	}
	return forbidden(fmt.Sprintf("you can only %s", action))
}

// Scoped queries. Rows outside the scope simply do not exist for the caller.

func ownedBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

func inCartOf(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("cart_id IN (SELECT id FROM carts WHERE user_id = ?)", userID)
	}
}

func inOrdersOf(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("order_id IN (SELECT id FROM orders WHERE user_id = ?)", userID)
	}
}
