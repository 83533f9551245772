package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/database"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"gorm.io/gorm"
)

func main() {
	// Parse command line flags
	role := flag.String("role", models.RoleAdmin, "User role (admin or customer)")
	dbPath := flag.String("db", "food_delivery.sqlite", "SQLite database path")
	flag.Parse()

	if *role != models.RoleAdmin && *role != models.RoleCustomer {
		log.Fatalf("Unsupported role %q (admin or customer)", *role)
	}

	db, err := database.InitDatabase(database.DatabaseConfig{Driver: "sqlite", Path: *dbPath})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Determine client credentials based on role
	clientID := fmt.Sprintf("dev-%s-client", *role)
	clientSecret := fmt.Sprintf("dev-%s-secret-123", *role)

	// Get or create user with specified role
	userID, err := getUserIDForRole(db, *role)
	if err != nil {
		log.Fatal("Failed to get user for role: ", err)
	}

	if err := database.SeedOAuthClient(db, clientID, clientSecret, userID, "client_credentials"); err != nil {
		log.Fatal("Failed to create client:", err)
	}

	fmt.Printf("✓ Development OAuth client ready for role '%s'!\n", *role)
	fmt.Printf("Client ID: %s\n", clientID)
	fmt.Printf("Client Secret: %s\n", clientSecret)
	fmt.Printf("User ID: %d\n", userID)
	fmt.Println("\nUse these credentials for testing:")
	fmt.Printf("curl -X POST http://localhost:8080/api/v1/oauth/token \\\n")
	fmt.Printf("  -d 'grant_type=client_credentials' \\\n")
	fmt.Printf("  -d 'client_id=%s' \\\n", clientID)
	fmt.Printf("  -d 'client_secret=%s'\n", clientSecret)
}

// getUserIDForRole gets or creates a user with the specified role
func getUserIDForRole(db *gorm.DB, role string) (uint, error) {
	ctx := context.Background()
	users := services.NewUserService(db)
	email := fmt.Sprintf("%s@fooddelivery.local", role)

	user, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		fmt.Printf("Found existing user: %s (ID: %d, Role: %s)\n", user.Email, user.ID, user.Role)
		return user.ID, nil
	}
	if !errors.Is(err, services.ErrNotFound) {
		return 0, err
	}

	user = &models.User{
		Email:    email,
		Name:     fmt.Sprintf("%s User", role),
		Password: fmt.Sprintf("%s-password", role),
		Role:     role,
	}
	if err := user.HashPassword(); err != nil {
		return 0, err
	}
	if err := users.CreateUser(ctx, user); err != nil {
		return 0, err
	}

	fmt.Printf("Created new user: %s (ID: %d, Role: %s)\n", user.Email, user.ID, user.Role)
	return user.ID, nil
}
