// internal/router/router.go
package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/brewhouse-backend/internal/config"
	"github.com/javajoker/brewhouse-backend/internal/handlers"
	"github.com/javajoker/brewhouse-backend/internal/middleware"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/services"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

const version = "1.0.0"

// Initialize wires services, handlers and middleware onto a new engine. The
// rate limiters' cleanup loops run until ctx is done.
func Initialize(ctx context.Context, store repository.Store, cfg *config.Config) (*gin.Engine, error) {
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return New(ctx, store, storageService, cfg), nil
}

// New is Initialize with a prebuilt storage service.
func New(ctx context.Context, store repository.Store, storageService *services.StorageService, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(store)
	authService := services.NewAuthService(store, cfg)
	userService := services.NewUserService(store)
	productService := services.NewProductService(store)
	productLocks := services.NewProductLocks()
	inventoryService := services.NewInventoryService(store, notificationService, productLocks, cfg.Ledger)
	reviewService := services.NewReviewService(store, productLocks)
	adminService := services.NewAdminService(store, cfg.Ledger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	imageHandler := handlers.NewImageHandler()
	adminHandler := handlers.NewAdminHandler(adminService, notificationService)

	generalLimiter := middleware.NewRateLimiterFromConfig(cfg.RateLimit)
	authLimiter := middleware.AuthRateLimiter()
	uploadLimiter := middleware.UploadRateLimiter()
	for _, limiter := range []*middleware.RateLimiter{generalLimiter, authLimiter, uploadLimiter} {
		go limiter.Run(ctx)
	}

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(generalLimiter.Middleware())
	r.Use(middleware.HostContext())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "UNHEALTHY", "store unreachable", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
			"store":   cfg.Store.Driver,
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authLimiter.Middleware(), authHandler.Register)
			auth.POST("/login", authLimiter.Middleware(), authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.PUT("/me", userHandler.UpdateProfile)
		}

		// Product routes
		products := v1.Group("/products")
		{
			// Public routes
			public := products.Group("")
			public.Use(middleware.OptionalAuth())
			{
				public.GET("", productHandler.GetProducts)
				public.GET("/featured", productHandler.GetFeaturedProducts)
				public.GET("/slug/:slug", productHandler.GetProductBySlug)
				public.GET("/:id", productHandler.GetProduct)
				public.GET("/:id/reviews", reviewHandler.GetReviews)
			}

			// Authenticated routes
			protected := products.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/:id/reviews", reviewHandler.AddReview)
				protected.DELETE("/:id/reviews/:reviewId", reviewHandler.DeleteReview)
			}

			// Staff routes
			staff := products.Group("")
			staff.Use(middleware.AuthRequired(), middleware.StaffRequired())
			{
				staff.POST("", productHandler.CreateProduct)
				staff.PUT("/:id", productHandler.UpdateProduct)
				staff.DELETE("/:id", productHandler.DeleteProduct)
				staff.POST("/upload-images", uploadLimiter.Middleware(), productHandler.UploadProductImages)
			}
		}

		// Inventory routes
		inventory := v1.Group("/inventory")
		inventory.Use(middleware.AuthRequired(), middleware.StaffRequired())
		{
			inventory.POST("/:productId/operations", inventoryHandler.ApplyOperation)
			inventory.GET("/:productId/history", inventoryHandler.GetHistory)
			inventory.GET("/:productId/verify", inventoryHandler.VerifyLedger)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)

			adminInventory := admin.Group("/inventory")
			{
				adminInventory.POST("/audit", inventoryHandler.AuditAll)
				adminInventory.GET("/low-stock", adminHandler.GetLowStockProducts)
			}

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PUT("/:id/role", adminHandler.UpdateUserRole)
			}

			notifications := admin.Group("/notifications")
			{
				notifications.GET("", adminHandler.GetNotifications)
				notifications.PUT("/:id/read", adminHandler.MarkNotificationRead)
			}
		}

		// Image routes
		v1.GET("/images/resolve", imageHandler.Resolve)

		// Category routes
		v1.GET("/categories", productHandler.GetCategories)
	}

	// Locally stored images are served where the resolver points
	if dir := storageService.LocalDir(); dir != "" {
		r.Static("/images", dir)
	}

	return r
}
