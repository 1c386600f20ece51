package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"art-auction/internal/api/handlers"
	"art-auction/internal/config"
	"art-auction/internal/infrastructure/mysql"
	"art-auction/internal/infrastructure/redis"
	"art-auction/internal/services"
	"art-auction/pkg/logger"

	redisClient "github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	log := logger.New()
	log.Info("Starting art auction service")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Error("Failed to connect to MySQL", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			log.Error("Failed to close MySQL connection", "error", err)
		}
	}(db)

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		log.Error("Failed to ping MySQL", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to MySQL")

	// Initialize persistence and cache
	store := mysql.NewStore(db)
	notifier := mysql.NewMySQLNotificationRepository(db)
	stateCache := redis.NewRedisStateCache(rdb)

	// Initialize services
	auctionManager := services.NewAuctionManager(store, stateCache, log)
	bidService := services.NewBidService(store, notifier, stateCache, log)
	sweeper := services.NewLifecycleSweeper(auctionManager, cfg.Sweep.Interval, log)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Initialize handlers
	auctionHandler := handlers.NewAuctionHandler(auctionManager, log)
	bidHandler := handlers.NewBidHandler(bidService, notifier, log)

	// API routes
	api := e.Group("/api/v1")
	api.POST("/auctions", auctionHandler.CreateAuction)
	api.GET("/auctions/:id", auctionHandler.GetAuction)
	api.DELETE("/auctions/:id", auctionHandler.CancelAuction)
	api.GET("/auctions/:id/time-remaining", auctionHandler.GetTimeRemaining)
	api.GET("/auctions/:id/state", auctionHandler.GetState)
	api.POST("/auctions/:id/bids", bidHandler.PlaceBid)
	api.GET("/auctions/:id/bids", bidHandler.GetAuctionBids)
	api.GET("/auctions/:id/top-bidder/:userId", bidHandler.IsTopBidder)
	api.GET("/users/:id/notifications", bidHandler.ListNotifications)
	api.POST("/sweep", auctionHandler.RunSweep)

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "art-auction",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Start the lifecycle sweeper
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	if err := sweeper.Start(sweepCtx); err != nil {
		log.Error("Failed to start lifecycle sweeper", "error", err)
		os.Exit(1)
	}

	// Start server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting HTTP server", "address", serverAddr)

	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down art auction service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := sweeper.Stop(); err != nil {
		log.Error("Failed to stop sweeper", "error", err)
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Art auction service stopped")
}
