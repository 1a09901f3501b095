package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/servehub/servehub-api/config"
	"github.com/servehub/servehub-api/controllers"
	"github.com/servehub/servehub-api/middleware"
	"github.com/servehub/servehub-api/models"
	"github.com/servehub/servehub-api/services"
)

func main() {
	log.Println("Starting ServeHub API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Booking{},
		&models.Review{},
		&models.Report{},
		&models.Product{},
		&models.ProductComment{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize S3 and image services. Images are optional; without an S3
	// bucket configured the API serves raw keys and skips URL resolution.
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
		log.Printf("S3 image service initialized (bucket %s)", cfg.AWSS3Bucket)
	} else {
		log.Println("AWS_S3_BUCKET not set, image URL resolution disabled")
	}

	router := setupRouter()

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter configures the Gin engine with CORS and all API routes
func setupRouter() *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Authentication
		auth := v1.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/refresh", controllers.Refresh)
		}

		// Profiles
		profile := v1.Group("/profile", middleware.RequireAuth())
		{
			profile.GET("", controllers.GetMyProfile)
			profile.PUT("", controllers.UpdateMyProfile)
			profile.POST("/become-provider", controllers.BecomeProvider)
		}

		// Provider directory (public)
		providers := v1.Group("/providers")
		{
			providers.GET("", controllers.ListProviders)
			providers.GET("/:id/reviews", controllers.ListProviderReviews)
		}

		// Bookings
		bookings := v1.Group("/bookings", middleware.RequireAuth())
		{
			bookings.POST("", controllers.CreateBooking)
			bookings.GET("", controllers.ListBookings)
			bookings.GET("/:id", controllers.GetBooking)
			bookings.PUT("/:id", controllers.UpdateBooking)
		}

		// Reviews
		v1.POST("/reviews", middleware.RequireAuth(), controllers.CreateReview)

		// Reports
		reports := v1.Group("/reports", middleware.RequireAuth())
		{
			reports.POST("", controllers.CreateReport)
			reports.GET("/mine", controllers.ListMyReports)
		}

		// Marketplace
		marketplace := v1.Group("/marketplace")
		{
			marketplace.GET("", controllers.ListProducts)
			marketplace.POST("", middleware.RequireAuth(), controllers.CreateProduct)
			marketplace.GET("/mine", middleware.RequireAuth(), controllers.ListMyProducts)
			marketplace.GET("/comments/mine", middleware.RequireAuth(), controllers.ListMyProductComments)
			marketplace.DELETE("/comments/:id", middleware.RequireAuth(), controllers.DeleteComment)
			marketplace.GET("/:id", middleware.OptionalAuth(), controllers.GetProduct)
			marketplace.PUT("/:id", middleware.RequireAuth(), controllers.UpdateProduct)
			marketplace.DELETE("/:id", middleware.RequireAuth(), controllers.DeleteProduct)
			marketplace.GET("/:id/comments", middleware.OptionalAuth(), controllers.ListComments)
			marketplace.POST("/:id/comments", middleware.RequireAuth(), controllers.CreateComment)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ServeHub API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
