package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bookhaven/database"
	"bookhaven/internal/config"
	"bookhaven/internal/http-api/cache"
	"bookhaven/internal/http-api/handler"
	"bookhaven/internal/http-api/middleware"
	"bookhaven/internal/http-api/repository"
	"bookhaven/internal/http-api/service"
)

func main() {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// 2. Connect to the database
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// 3. Redis is optional: without it stats are computed fresh per request
	var statsCache *cache.StatsCache
	if rdb, err := cache.NewRedisClient(cfg.RedisURL, cfg.RedisPassword); err != nil {
		logger.Warn("redis unavailable, stats caching disabled", "error", err)
	} else {
		statsCache = cache.NewStatsCache(rdb, cfg.CacheTTL)
	}

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	bookRepo := repository.NewBookRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// 5. Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	bookService := service.NewBookService(bookRepo)
	progressService := service.NewProgressService(historyRepo, bookRepo, statsCache)
	historyService := service.NewHistoryService(historyRepo)
	statsService := service.NewStatsService(historyRepo, statsCache)

	// 6. Handlers
	authHandler := handler.NewAuthHandler(authService, int64(cfg.AccessTokenTTL.Seconds()))
	bookHandler := handler.NewBookHandler(bookService)
	progressHandler := handler.NewProgressHandler(progressService)
	historyHandler := handler.NewHistoryHandler(historyService, statsService)

	// 7. Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "E-Reader API is running"})
	})

	// auth routes get a per-IP rate limit on top
	authGroup := api.Group("/auth", middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst))
	authHandler.RegisterRoutes(authGroup)
	authProtected := api.Group("/auth", middleware.AuthMiddleware(authService))
	authHandler.RegisterProtectedRoutes(authProtected)

	booksPublic := api.Group("/books")
	bookHandler.RegisterPublicRoutes(booksPublic)
	booksProtected := api.Group("/books", middleware.AuthMiddleware(authService))
	bookHandler.RegisterProtectedRoutes(booksProtected)
	progressHandler.RegisterRoutes(booksProtected)

	userGroup := api.Group("", middleware.AuthMiddleware(authService))
	historyHandler.RegisterRoutes(userGroup)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting HTTP server", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
