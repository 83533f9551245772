package services

import (
	"context"
	"strings"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ClientInput describes a new OAuth2 API client.
type ClientInput struct {
	Name   string
	Domain string
	Scopes string
}

// ClientService manages the OAuth2 clients a user owns.
type ClientService interface {
	// CreateClient registers a client_credentials client for userID and
	// returns it with the plain secret, which is not retrievable later.
	CreateClient(ctx context.Context, userID uint, input ClientInput) (*models.OAuthClient, string, error)
	GetClientsByUserID(ctx context.Context, userID uint) ([]models.OAuthClient, error)
	GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error)
	DeleteClient(ctx context.Context, clientID string, userID uint) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) CreateClient(ctx context.Context, userID uint, input ClientInput) (*models.OAuthClient, string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, "", invalid("name", "this field may not be blank")
	}

	secret := strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	client := &models.OAuthClient{
		ID:         uuid.NewString(),
		Secret:     string(hashed),
		Name:       name,
		Domain:     input.Domain,
		UserID:     userID,
		Scopes:     input.Scopes,
		GrantTypes: "client_credentials",
	}
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, "", translate(err)
	}

	log.WithFields(logrus.Fields{"user_id": userID, "client_id": client.ID}).Info("OAuth client created")
	return client, secret, nil
}

func (s *clientService) GetClientsByUserID(ctx context.Context, userID uint) ([]models.OAuthClient, error) {
	clients := []models.OAuthClient{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID string, userID uint) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", clientID, userID).Delete(&models.OAuthClient{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	log.WithFields(logrus.Fields{"user_id": userID, "client_id": clientID}).Info("OAuth client deleted")
	return nil
}
