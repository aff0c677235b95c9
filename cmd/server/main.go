package main

import (
	"aiinterviewer/internal/cache"
	"aiinterviewer/internal/config"
	"aiinterviewer/internal/interview"
	"aiinterviewer/internal/repository"
	"aiinterviewer/internal/service"
	"aiinterviewer/internal/telemetry"
	"aiinterviewer/internal/transport/rest"
	"aiinterviewer/internal/transport/ws"
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title AI Interviewer Gateway API
// @version 1.0
// @description Drives AI mock interviews against the interview backend and pushes state over WebSocket.
// @host localhost:8081
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if _, err := telemetry.InitLogger(cfg.Log, os.Stdout); err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	meter, shutdownTelemetry, err := telemetry.Init(ctx, cfg.Log, "aiinterviewer-gateway")
	if err != nil {
		slog.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer shutdownTelemetry()

	metrics, err := interview.NewMetrics(meter)
	if err != nil {
		slog.Error("Failed to register metrics", "error", err)
		os.Exit(1)
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Server.MongoURI))
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		slog.Error("Failed to ping MongoDB", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to MongoDB", "db", cfg.Server.MongoDB)

	db := mongoClient.Database(cfg.Server.MongoDB)
	if err := repository.EnsureIndexes(pingCtx, db); err != nil {
		slog.Warn("Failed to create report indexes", "error", err)
	}

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Server.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Failed to ping Redis", "addr", cfg.Server.RedisAddr, "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to Redis", "addr", cfg.Server.RedisAddr)

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	defer wsHub.Close()

	// Initialize repositories
	reportRepo := repository.NewReportRepo(db)

	// Initialize caches
	tokenStore := cache.NewTokenStore(rdb)
	creditCache := cache.NewCreditCache(rdb)
	snapshotCache := cache.NewSnapshotCache(rdb)

	// Initialize services
	api := service.NewAPIClient(cfg.API, service.StaticCredentials(""))
	authSvc := service.NewAuthService(api, tokenStore, creditCache, cfg.Server.JWTSecret)
	interviewSvc := service.NewInterviewService(api, tokenStore, snapshotCache, creditCache, reportRepo, interview.Options{
		QuestionTimeout: cfg.Interview.QuestionTimeout(),
		ErrorDismiss:    cfg.Interview.ErrorDismiss(),
		InterviewCost:   cfg.Interview.Cost,
		DashboardPath:   cfg.Interview.DashboardPath,
		Metrics:         metrics,
	})
	defer interviewSvc.Shutdown()

	// Inject broadcaster (wsHub implements service.Broadcaster)
	interviewSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:        authSvc,
		InterviewService:   interviewSvc,
		WSHub:              wsHub,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port, "backend", cfg.API.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("ListenAndServe failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}
