package main

import (
	"context"
	"fmt"
	"time"

	_ "github.com/franciscosanchezn/gin-food-delivery-api/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/auth"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/cache"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/config"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/controllers"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/database"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/events"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/middleware"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/routes"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// @title Food Delivery API
// @version 1.0
// @description Restaurants, menus, carts, orders and payments for a food delivery platform
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()

	// Initialize database connection
	db := setupDatabase(configuration)

	catalog := setupCatalogCache(configuration)
	publisher := setupPublisher(configuration)
	defer publisher.Close()

	if configuration.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.NewRouter(routes.Dependencies{
		DB:          db,
		Issuer:      auth.NewTokenIssuer(configuration.JWTSecret, time.Duration(configuration.JWTTTLHours)*time.Hour),
		Catalog:     catalog,
		Publisher:   publisher,
		CORSOrigins: configuration.CORSOrigins,
		Swagger:     configuration.Environment != "production",
	})

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	checkPanicErr(router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
	if raw := config.GetEnvWithDefault("LOG_LEVEL", ""); raw != "" {
		level, err := log.ParseLevel(raw)
		if err != nil {
			log.WithError(err).Warn("Ignoring invalid LOG_LEVEL")
		} else {
			log.SetLevel(level)
		}
	}

	// Package loggers follow the process level.
	services.SetLogLevel(log.GetLevel())
	controllers.SetLogLevel(log.GetLevel())
	middleware.SetLogLevel(log.GetLevel())
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %s", conf)
	return conf
}

// setupDatabase connects, migrates and seeds the database
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.DBPath,
	})
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))

	if conf.WebClientID != "" && conf.WebClientSecret != "" {
		checkPanicErr(database.SeedOAuthClient(db, conf.WebClientID, conf.WebClientSecret, 0, "password"))
	}
	if conf.SeedDemo {
		checkPanicErr(database.SeedDemoData(db))
	}
	return db
}

// setupCatalogCache connects to Redis when configured. The API works without it.
func setupCatalogCache(conf *config.Config) cache.CatalogCache {
	if conf.RedisURL == "" {
		log.Info("REDIS_URL not set, catalog cache disabled")
		return cache.NopCatalogCache{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	catalog, err := cache.NewRedisCatalogCache(ctx, conf.RedisURL, time.Duration(conf.CatalogCacheTTL)*time.Second)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, catalog cache disabled")
		return cache.NopCatalogCache{}
	}
	return catalog
}

// setupPublisher connects to RabbitMQ when configured. Events are dropped otherwise.
func setupPublisher(conf *config.Config) events.Publisher {
	if conf.RabbitMQURL == "" {
		log.Info("RABBITMQ_URL not set, domain events disabled")
		return events.NopPublisher{}
	}
	publisher, err := events.NewRabbitPublisher(conf.RabbitMQURL, conf.EventsExchange)
	if err != nil {
		log.WithError(err).Warn("RabbitMQ unavailable, domain events disabled")
		return events.NopPublisher{}
	}
	return publisher
}
