package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/raidroad/roadwatch/internal/cache"
	"github.com/raidroad/roadwatch/internal/config"
	"github.com/raidroad/roadwatch/internal/database"
	"github.com/raidroad/roadwatch/internal/handler"
	"github.com/raidroad/roadwatch/internal/journal"
	"github.com/raidroad/roadwatch/internal/middleware"
	"github.com/raidroad/roadwatch/internal/repository"
	"github.com/raidroad/roadwatch/internal/service"
	"github.com/raidroad/roadwatch/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	log.Println("Config loaded successfully")

	isProduction := cfg.Environment == "production"
	if err := logger.Init(!isProduction); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Initialize event journal
	eventJournal, err := journal.NewJournal(cfg.JournalPath)
	if err != nil {
		log.Fatalf("Failed to initialize journal: %v", err)
	}
	defer eventJournal.Close()

	// One Redis client shared by the rate limiter and the listing cache
	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()

	listingCache := cache.NewRedisListingCacheFromClient(redisClient, cfg.ListingCacheTTL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	reportRepo := repository.NewReportRepository(database.DB)
	voteRepo := repository.NewVoteRepository(database.DB)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry, cfg.TelegramBotToken, cfg.Environment)
	reportService := service.NewReportService(reportRepo, listingCache, eventJournal, cfg.VisibilityWindow, cfg.DisplayUTCOffset)
	voteService := service.NewVoteService(voteRepo, reportRepo, userRepo, reportService, cfg.GonePenalty, cfg.TrustThresholds)
	userService := service.NewUserService(userRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	reportHandler := handler.NewReportHandler(reportService)
	voteHandler := handler.NewVoteHandler(voteService)
	userHandler := handler.NewUserHandler(userService)

	// Setup Gin router
	router := gin.Default()

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(isProduction))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))

	rateLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})
	router.Use(rateLimiter.Middleware())

	// Public routes
	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/auth/telegram", authHandler.TelegramLogin)
	router.GET("/api/reports", reportHandler.List)
	router.GET("/api/leaderboard", userHandler.Leaderboard)

	// Protected routes (require session)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.POST("/report", reportHandler.Submit)
		protected.DELETE("/report/:id", reportHandler.Delete)
		protected.POST("/vote", voteHandler.Cast)
		protected.GET("/user", userHandler.Me)
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
