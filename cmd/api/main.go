package main

import (
	"fmt"
	"net/http"
	"os"

	"finken/internal/avatar"
	"finken/internal/config"
	"finken/internal/database"
	"finken/internal/email"
	"finken/internal/handlers"
	"finken/internal/logger"
	"finken/internal/middleware"
	"finken/internal/services"
	"finken/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "finken/internal/docs" // Import swagger docs
)

// @title           FinKen API
// @version         1.0
// @description     FinKen is a financial management application backend covering user registration and approval, authentication, password resets, and chart-of-accounts maintenance.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom validators with the Gin binding engine
	validator.Register()

	// Profile picture storage
	avatarStore, err := avatar.NewStore(getEnv("AVATAR_DIR", "data/avatars"))
	if err != nil {
		return fmt.Errorf("failed to initialize avatar storage: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	mailer := email.NewClient(appConfig.SendGridAPIKey, appConfig.EmailSender)
	auditService := services.NewAuditService(db)
	registrationService := services.NewRegistrationService(db, mailer, appConfig.BaseURL)
	authService := services.NewAuthService(db)
	resetService := services.NewResetService(db)
	userService := services.NewUserAdminService(db, auditService)
	chartService := services.NewChartService(db, auditService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService, auditService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	resetHandler := handlers.NewResetHandler(resetService)
	adminHandler := handlers.NewAdminHandler(registrationService, userService, appConfig.InviteTTL)
	accountHandler := handlers.NewAccountHandler(chartService)
	profileHandler := handlers.NewProfileHandler(avatarStore, userService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", registrationHandler.Register)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/forgot-password/find", resetHandler.FindUser)
	auth.POST("/forgot-password/verify", resetHandler.VerifyAnswer)
	auth.POST("/forgot-password/reset", resetHandler.ResetPassword)

	// Signup invitation redemption
	v1.GET("/signup", registrationHandler.GetSignupContext)
	v1.POST("/signup", registrationHandler.FinalizeSignup)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/profile/picture", profileHandler.UploadPicture)
	protected.GET("/profile/picture", profileHandler.GetPicture)
	protected.DELETE("/profile/picture", profileHandler.DeletePicture)

	// Chart of accounts routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeactivateAccount)
	protected.GET("/ledger/:number", accountHandler.GetLedger)

	// Administrator routes
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/requests", adminHandler.ListRequests)
	admin.GET("/requests/:id", adminHandler.GetRequest)
	admin.POST("/requests/:id/approve", adminHandler.ApproveRequest)
	admin.POST("/requests/:id/reject", adminHandler.RejectRequest)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/expiring-passwords", adminHandler.GetExpiringPasswords)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.POST("/users/:id/suspend", adminHandler.SuspendUser)
	admin.POST("/users/:id/unsuspend", adminHandler.UnsuspendUser)

	log.Infof("Starting FinKen backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
