package services

import (
	"context"
	"errors"
	"strings"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UserUpdate carries the writable profile fields; nil means unchanged.
type UserUpdate struct {
	Name        *string
	Email       *string
	Address     *string
	PhoneNumber *string
}

type UserService interface {
	// CreateUser stores a user whose password is already hashed and provisions its cart.
	CreateUser(ctx context.Context, user *models.User) error
	// Authenticate returns the user matching email and password.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, update UserUpdate) (*models.User, error)
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return conflict("a user with this email already exists")
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		_, err := ensureCart(tx, user.ID)
		return err
	})
	if err != nil {
		return translate(err)
	}

	log.WithFields(logrus.Fields{"user_id": user.ID}).Info("User registered")
	return nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, update UserUpdate) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&user, id).Error; err != nil {
			return translate(err)
		}
		if update.Name != nil {
			user.Name = strings.TrimSpace(*update.Name)
		}
		if update.Email != nil {
			email := models.NormalizeEmail(*update.Email)
			if email == "" {
				return invalid("email", "email cannot be blank")
			}
			var taken int64
			if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return conflict("a user with this email already exists")
			}
			user.Email = email
		}
		if update.Address != nil {
			user.Address = update.Address
		}
		if update.PhoneNumber != nil {
			if len(*update.PhoneNumber) > 15 {
				return invalid("phone_number", "ensure this field has no more than 15 characters")
			}
			user.PhoneNumber = update.PhoneNumber
		}
		return translate(tx.Save(&user).Error)
	})
	if err != nil {
		return nil, err
	}
	log.WithField("user_id", id).Info("User profile updated")
	return &user, nil
}
