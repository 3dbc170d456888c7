package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pulsecheck/internal/cache"
	"pulsecheck/internal/config"
	"pulsecheck/internal/repository"
	"pulsecheck/internal/service"
	"pulsecheck/internal/transport/rest"
	"pulsecheck/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoURI := cfg.MongoURI
	// Remove redis:// prefix if present
	redisAddr := cfg.RedisAddr
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepo(db)
	submissionRepo := repository.NewSubmissionRepo(db)

	// Initialize caches
	stateCache := cache.NewStateCache(rdb)
	catalogCache := cache.NewCatalogCache(rdb)
	funnelCache := cache.NewFunnelCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService()
	catalogSvc := service.NewCatalogService(catalogRepo, catalogCache)
	analyticsSvc := service.NewAnalyticsService(funnelCache)
	assessmentSvc := service.NewAssessmentService(catalogSvc, authSvc, stateCache, submissionRepo)

	// Inject feed (wsHub implements service.Feed) and funnel notifier
	analyticsSvc.SetFeed(wsHub)
	assessmentSvc.SetNotifier(analyticsSvc)

	// Seed built-in catalogs so they are editable in the store
	catalogSvc.EnsureDefaults(ctx)

	// Create router with container
	container := &rest.Container{
		AuthService:       authSvc,
		AssessmentService: assessmentSvc,
		AnalyticsService:  analyticsSvc,
		WSHub:             wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/assessments")
		log.Println("  GET  /v1/assessments/{sessionId}")
		log.Println("  POST /v1/assessments/{sessionId}/answers")
		log.Println("  POST /v1/assessments/{sessionId}/advance")
		log.Println("  POST /v1/assessments/{sessionId}/retreat")
		log.Println("  POST /v1/assessments/{sessionId}/abandon")
		log.Println("  POST /v1/assessments/{sessionId}/submit")
		log.Println("  GET  /v1/assessments/{sessionId}/result")
		log.Println("  GET  /v1/catalogs/{assessmentType}/{version}")
		log.Println("  GET  /v1/analytics/{assessmentType}")
		log.Println("  WS   /v1/ws/ops/feed")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
