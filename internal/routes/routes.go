// Package routes mounts every HTTP endpoint on a gin engine.
package routes

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/auth"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/cache"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/controllers"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/events"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/middleware"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the router is built from. Nil cache
// and publisher fall back to no-op implementations.
type Dependencies struct {
	DB          *gorm.DB
	Issuer      *auth.TokenIssuer
	Catalog     cache.CatalogCache
	Publisher   events.Publisher
	CORSOrigins []string
	// Swagger mounts /swagger/*any when true.
	Swagger bool
}

// NewRouter builds the engine with the standard middleware chain and all routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(), middleware.CORS(deps.CORSOrigins))
	Register(router, deps)
	return router
}

// Register defines the routes for the Gin router.
func Register(router *gin.Engine, deps Dependencies) {
	userService := services.NewUserService(deps.DB)
	restaurantService := services.NewRestaurantService(deps.DB, deps.Catalog)
	menuItemService := services.NewMenuItemService(deps.DB, deps.Catalog)
	cartService := services.NewCartService(deps.DB)
	orderService := services.NewOrderService(deps.DB, deps.Publisher)
	transactionService := services.NewTransactionService(deps.DB, deps.Publisher)
	clientService := services.NewClientService(deps.DB)

	oauthService := auth.NewOAuthService(deps.DB, deps.Issuer, userService)

	authController := controllers.NewAuthController(userService, deps.Issuer)
	userController := controllers.NewUserController(userService)
	restaurantController := controllers.NewRestaurantController(restaurantService)
	menuItemController := controllers.NewMenuItemController(menuItemService)
	cartController := controllers.NewCartController(cartService, orderService)
	orderController := controllers.NewOrderController(orderService)
	transactionController := controllers.NewTransactionController(transactionService)
	clientController := controllers.NewClientController(clientService)

	router.GET("/health", healthCheckHandler)

	v1 := router.Group("/api/v1")
	{
		// Public routes
		v1.POST("/register", authController.Register)
		v1.POST("/login", authController.Login)
		v1.POST("/oauth/token", oauthService.HandleToken)

		v1.GET("/restaurants", restaurantController.ListRestaurants)
		v1.GET("/restaurants/:id", restaurantController.GetRestaurant)
		v1.GET("/menu-items", menuItemController.ListMenuItems)
		v1.GET("/menu-items/:id", menuItemController.GetMenuItem)
		v1.GET("/categories", menuItemController.ListCategories)
		v1.GET("/categories/:category", menuItemController.ListCategoryItems)

		// Protected routes (requires a bearer token)
		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(deps.Issuer.Secret()))
		{
			protected.GET("/user", userController.GetProfile)
			protected.PATCH("/user", userController.UpdateProfile)

			protected.POST("/restaurants", restaurantController.CreateRestaurant)
			protected.PATCH("/restaurants/:id", restaurantController.UpdateRestaurant)
			protected.DELETE("/restaurants/:id", restaurantController.DeleteRestaurant)

			protected.POST("/menu-items", menuItemController.CreateMenuItem)
			protected.PATCH("/menu-items/:id", menuItemController.UpdateMenuItem)
			protected.DELETE("/menu-items/:id", menuItemController.DeleteMenuItem)

			protected.GET("/cart", cartController.GetCart)
			protected.PATCH("/cart", cartController.UpdateCart)
			protected.DELETE("/cart", cartController.ClearCart)
			protected.POST("/cart/checkout", cartController.Checkout)

			protected.GET("/cart-items", cartController.ListCartItems)
			protected.POST("/cart-items", cartController.CreateCartItem)
			protected.GET("/cart-items/:id", cartController.GetCartItem)
			protected.PATCH("/cart-items/:id", cartController.UpdateCartItem)
			protected.DELETE("/cart-items/:id", cartController.DeleteCartItem)

			protected.GET("/orders", orderController.ListOrders)
			protected.POST("/orders", orderController.CreateOrder)
			protected.GET("/orders/:id", orderController.GetOrder)
			protected.PATCH("/orders/:id", orderController.UpdateOrder)

			protected.GET("/order-items", orderController.ListOrderItems)
			protected.POST("/order-items", orderController.CreateOrderItem)
			protected.GET("/order-items/:id", orderController.GetOrderItem)
			protected.DELETE("/order-items/:id", orderController.DeleteOrderItem)

			protected.GET("/transactions", transactionController.ListTransactions)
			protected.POST("/transactions", transactionController.CreateTransaction)
			protected.GET("/transactions/:id", transactionController.GetTransaction)
			protected.PATCH("/transactions/:id", transactionController.UpdateTransaction)

			protected.GET("/clients", clientController.ListClients)
			protected.POST("/clients", clientController.CreateClient)
			protected.DELETE("/clients/:id", clientController.DeleteClient)

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.PATCH("/orders/:id/status", orderController.SetOrderStatus)
			}
		}
	}

	if deps.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-food-delivery-api",
	})
}
