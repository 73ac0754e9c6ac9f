package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"motorbay/m1/internal/api/handlers"
	"motorbay/m1/internal/api/middleware"
	"motorbay/m1/internal/config"
	"motorbay/m1/internal/services"
	"motorbay/m1/internal/storage"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, db *mongo.Database, taskClient handlers.IAsynqClient) *gin.Engine {
	// Initialize services needed by API handlers
	userService := services.NewUserService(db)
	listingService := services.NewListingService(db, cfg)
	favouriteService := services.NewFavouriteService(db)
	reportService := services.NewReportService(db)
	metricsService := services.NewMetricsService(db)
	notifier := services.NewNotificationService(db, taskClient)
	threadService := services.NewThreadService(db, notifier)

	s3StorageService, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatalf("CRITICAL: Failed to initialize S3 storage for API: %v", err)
	}

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit(false))

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg, userService)
	listingHandler := handlers.NewListingHandler(listingService, favouriteService, s3StorageService, taskClient)
	favouriteHandler := handlers.NewFavouriteHandler(favouriteService)
	threadHandler := handlers.NewThreadHandler(threadService)
	reportHandler := handlers.NewReportHandler(reportService)
	adminHandler := handlers.NewAdminHandler(listingService, reportService, metricsService, userService, notifier)

	optionalAuth := middleware.OptionalAuthMiddleware(cfg.JwtSecret, userService)
	requireAuth := middleware.AuthMiddleware(cfg.JwtSecret, userService)
	writeLimit := rateLimiter.Limit(true)

	v1 := r.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Public auth endpoints
		v1.POST("/auth/register", writeLimit, authHandler.Register)
		v1.POST("/auth/login", writeLimit, authHandler.Login)

		// Browse endpoints: identity optional, widens visibility when present
		v1.GET("/listings", optionalAuth, listingHandler.Search)
		v1.GET("/listings/:id", optionalAuth, listingHandler.Get)

		// Authenticated routes
		authRequired := v1.Group("/", requireAuth)
		{
			authRequired.POST("/listings", writeLimit, listingHandler.Create)
			authRequired.PUT("/listings/:id", writeLimit, listingHandler.Update)
			authRequired.POST("/listings/:id/submit", writeLimit, listingHandler.Submit)
			authRequired.POST("/listings/:id/unpublish", writeLimit, listingHandler.Unpublish)
			authRequired.POST("/listings/:id/photos/upload-url", writeLimit, listingHandler.PhotoUploadURL)
			authRequired.POST("/listings/:id/photos/complete", writeLimit, listingHandler.PhotoComplete)
			authRequired.POST("/listings/:id/enquire", writeLimit, threadHandler.Open)
			authRequired.POST("/listings/:id/report", writeLimit, reportHandler.Create)

			authRequired.GET("/my/listings", listingHandler.Mine)
			authRequired.GET("/my/favourites", favouriteHandler.List)
			authRequired.PUT("/my/favourites/:listing_id", writeLimit, favouriteHandler.Add)
			authRequired.DELETE("/my/favourites/:listing_id", writeLimit, favouriteHandler.Remove)
			authRequired.GET("/my/threads", threadHandler.List)

			authRequired.GET("/threads/:id", threadHandler.Get)
			authRequired.GET("/threads/:id/messages", threadHandler.Messages)
			authRequired.POST("/threads/:id/messages", writeLimit, threadHandler.Send)
		}

		// Admin routes
		adminRequired := v1.Group("/admin", requireAuth, middleware.AdminMiddleware())
		{
			adminRequired.GET("/listings", adminHandler.Listings)
			adminRequired.POST("/listings/:id/approve", adminHandler.Approve)
			adminRequired.POST("/listings/:id/reject", adminHandler.Reject)
			adminRequired.POST("/listings/:id/remove", adminHandler.Remove)
			adminRequired.GET("/listings/:id/reports", adminHandler.ListingReports)
			adminRequired.GET("/reports", adminHandler.Reports)
			adminRequired.GET("/metrics", adminHandler.Metrics)
			adminRequired.GET("/users", adminHandler.Users)
			adminRequired.POST("/users/:id/suspend", adminHandler.SuspendUser)
			adminRequired.POST("/users/:id/unsuspend", adminHandler.UnsuspendUser)
		}
	}

	return r
}
