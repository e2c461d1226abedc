package main

import (
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/skillswap/skill-swap-api/internal/config"
	"github.com/skillswap/skill-swap-api/internal/constants"
	"github.com/skillswap/skill-swap-api/internal/database"
	"github.com/skillswap/skill-swap-api/internal/handlers"
	"github.com/skillswap/skill-swap-api/internal/logger"
	"github.com/skillswap/skill-swap-api/internal/middleware"
	"github.com/skillswap/skill-swap-api/internal/repository"
	"github.com/skillswap/skill-swap-api/internal/services"
	"github.com/skillswap/skill-swap-api/pkg/rabbitmq"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Configure(cfg.LogLevel, cfg.LogPretty)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatal().Err(err).Msg("Failed to create indexes")
	}

	// Connect to RabbitMQ when configured. Event publishing is optional;
	// the API runs fine without a broker.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
		}
		defer mqClient.Close()
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis store")
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	swapRepo := repository.NewSwapRepository(database.GetDB())

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	ratingService := services.NewRatingService(userRepo)
	swapService := services.NewSwapService(swapRepo, userRepo, ratingService, mqClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, ratingService)
	swapHandler := handlers.NewSwapHandler(swapService)
	adminHandler := handlers.NewAdminHandler(userService, swapService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Skill Swap API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.PUT("/change-password", middleware.RequireAuth(), authHandler.ChangePassword)
		}

		// User routes (browse and search are public, the rest require auth)
		users := api.Group("/users")
		{
			users.GET("/public", userHandler.ListPublic)
			users.GET("/search", userHandler.Search)
			users.GET("/:id", userHandler.GetUser)
			users.GET("/:id/feedback", userHandler.ListFeedback)
			users.PUT("/profile", middleware.RequireAuth(), userHandler.UpdateProfile)
			users.DELETE("/me", middleware.RequireAuth(), userHandler.DeactivateAccount)
			users.POST("/:id/feedback", middleware.RequireAuth(), userHandler.AddFeedback)
		}

		// Swap routes (protected)
		swaps := api.Group("/swaps")
		swaps.Use(middleware.RequireAuth())
		{
			swaps.POST("", swapHandler.Create)
			swaps.GET("/my", swapHandler.ListMy)
			swaps.GET("/stats/:userId", swapHandler.UserStats)
			swaps.GET("/:id", swapHandler.Get)
			swaps.PUT("/:id", swapHandler.UpdateStatus)
			swaps.DELETE("/:id", swapHandler.Delete)
			swaps.POST("/:id/feedback", swapHandler.SubmitFeedback)
		}

		// Admin routes (protected, admin only)
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
			admin.GET("/swaps", adminHandler.ListSwaps)
			admin.PUT("/swaps/:id/moderate", adminHandler.Moderate)
			admin.GET("/stats", adminHandler.Stats)
		}
	}

	// Start server
	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
