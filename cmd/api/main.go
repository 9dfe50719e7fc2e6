package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"configly/internal/config"
	"configly/internal/database"
	"configly/internal/email"
	"configly/internal/handlers"
	"configly/internal/logger"
	"configly/internal/middleware"
	"configly/internal/payments"
	"configly/internal/services"
	"configly/internal/storage"
	"configly/internal/validator"
)

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

	// Register custom binding validators
	validator.Register()

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

	// External providers
	mailer := email.NewDispatcher(buildMailer(appConfig))
	paymentProvider := payments.NewStripeProvider(
		appConfig.StripeSecretKey,
		appConfig.StripeBlockPriceID,
		appConfig.BillingSuccessURL,
		appConfig.BillingCancelURL,
	)
	blobStore, err := storage.NewS3Store(context.Background(), appConfig.AWSRegion, appConfig.S3Bucket)
	if err != nil {
		return fmt.Errorf("failed to initialize blob storage: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	clientService := services.NewClientService(db)
	configuratorService := services.NewConfiguratorService(db)
	categoryService := services.NewCategoryService(db)
	optionService := services.NewOptionService(db)
	quoteService := services.NewQuoteService(db, mailer, appConfig.TeamNotifyAddr, appConfig.QuoteEnforceTerminal)
	themeService := services.NewThemeService(db)
	billingService := services.NewBillingService(db, paymentProvider)
	fileService := services.NewFileService(db, blobStore)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(clientService)
	configuratorHandler := handlers.NewConfiguratorHandler(configuratorService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	optionHandler := handlers.NewOptionHandler(optionService)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	embedHandler := handlers.NewEmbedHandler(configuratorService, quoteService, themeService)
	themeHandler := handlers.NewThemeHandler(themeService)
	billingHandler := handlers.NewBillingHandler(billingService)
	fileHandler := handlers.NewFileHandler(fileService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Dashboard CORS middleware. Embed routes replace this with
	// origin-scoped headers inside EmbedAuth.
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Public-Key, X-Embed-Origin")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Public quote lookup by code
	v1.GET("/quotes/code/:quoteCode", quoteHandler.GetByCode)

	// Embed routes: key-authenticated, origin-checked, rate limited per
	// public key.
	embedLimiter := middleware.NewInProcessLimiter(appConfig.RateLimitMax, appConfig.RateLimitWindow)
	embed := v1.Group("/embed")
	embed.Use(middleware.RateLimit(embedLimiter, embedRateKey))
	embed.Use(middleware.EmbedAuth(db, appConfig))
	embed.GET("/configurator/:publicId", embedHandler.GetConfigurator)
	embed.OPTIONS("/configurator/:publicId", noContent)
	embed.POST("/quote", embedHandler.CreateQuote)
	embed.OPTIONS("/quote", noContent)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Client profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile/domains", authHandler.UpdateDomains)

	// Configurator routes
	configurators := protected.Group("/configurators")
	configurators.POST("", configuratorHandler.Create)
	configurators.GET("", configuratorHandler.List)
	configurators.GET("/:id", configuratorHandler.Get)
	configurators.PUT("/:id", configuratorHandler.Update)
	configurators.POST("/:id/publish", configuratorHandler.SetPublished)
	configurators.DELETE("/:id", configuratorHandler.Delete)
	configurators.POST("/:id/categories", categoryHandler.Create)
	configurators.GET("/:id/categories", categoryHandler.List)

	// Category routes
	categories := protected.Group("/categories")
	categories.GET("/:id", categoryHandler.Get)
	categories.PUT("/:id", categoryHandler.Update)
	categories.DELETE("/:id", categoryHandler.Delete)
	categories.POST("/:id/options", optionHandler.Create)

	// Option routes
	options := protected.Group("/options")
	options.GET("/:id", optionHandler.Get)
	options.PUT("/:id", optionHandler.Update)
	options.DELETE("/:id", optionHandler.Delete)
	options.POST("/:id/incompatibilities", optionHandler.AddIncompatibilities)
	options.POST("/:id/dependencies", optionHandler.AddDependency)

	// Quote routes
	quotes := protected.Group("/quotes")
	quotes.POST("", quoteHandler.Create)
	quotes.GET("", quoteHandler.List)
	quotes.GET("/:id", quoteHandler.Get)
	quotes.PUT("/:id/contact", quoteHandler.UpdateContact)
	quotes.PUT("/:id/status", quoteHandler.UpdateStatus)
	quotes.DELETE("/:id", quoteHandler.Delete)

	// Theme routes
	themes := protected.Group("/themes")
	themes.GET("/active", themeHandler.GetActive)
	themes.PUT("", themeHandler.Upsert)
	themes.POST("/reset", themeHandler.Reset)

	// Billing routes
	billing := protected.Group("/billing")
	billing.GET("/usage", billingHandler.Usage)
	billing.POST("/blocks/checkout", billingHandler.StartCheckout)
	billing.POST("/blocks/verify", billingHandler.VerifyCheckout)

	// File routes
	files := protected.Group("/files")
	files.POST("", fileHandler.Upload)
	files.GET("", fileHandler.List)
	files.GET("/:id/url", fileHandler.GetURL)
	files.DELETE("/:id", fileHandler.Delete)

	log.Infof("Starting Configly API server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// buildMailer returns nil when SendGrid is not configured, which turns
// email dispatch into a logged no-op.
func buildMailer(cfg *config.Config) email.Mailer {
	if cfg.SendGridAPIKey == "" {
		return nil
	}
	return email.NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailFromName, cfg.EmailFromAddr)
}

// embedRateKey buckets embed traffic by public key, falling back to the
// caller's IP before a key is presented.
func embedRateKey(c *gin.Context) string {
	if key := c.Query("publicKey"); key != "" {
		return key
	}
	if key := c.GetHeader("X-Public-Key"); key != "" {
		return key
	}
	return c.ClientIP()
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
