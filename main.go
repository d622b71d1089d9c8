package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ArmaanM08/WikiDoCollab/handlers"
	"github.com/ArmaanM08/WikiDoCollab/internal/config"
	"github.com/ArmaanM08/WikiDoCollab/internal/database"
	"github.com/ArmaanM08/WikiDoCollab/internal/document/repository"
	"github.com/ArmaanM08/WikiDoCollab/internal/document/service"
	"github.com/ArmaanM08/WikiDoCollab/internal/realtime"
	"github.com/ArmaanM08/WikiDoCollab/internal/sessions"
	"github.com/ArmaanM08/WikiDoCollab/internal/snapshots"
	"github.com/ArmaanM08/WikiDoCollab/internal/users"
	"github.com/ArmaanM08/WikiDoCollab/pkg/logger"
	"github.com/ArmaanM08/WikiDoCollab/pkg/metrics"
	"github.com/ArmaanM08/WikiDoCollab/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging level controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	ctx := context.Background()

	// Mongo is the system of record; retry to tolerate startup races.
	var client *mongo.Client
	backoff := time.Second
	const maxAttempts = 5
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err == nil {
			break
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if err != nil {
		logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, err)
	}
	defer func() { _ = client.Disconnect(ctx) }()
	db := client.Database(cfg.MongoDB.Database)

	// Redis holds refresh sessions and, when enabled, the rate-limit windows.
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatalf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		}
		logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
	} else {
		logger.Fatalf("REDIS_HOST is required for session storage")
	}

	// optional snapshot archive
	var archive service.Archive
	if cfg.MinIO.Endpoint != "" {
		a, err := snapshots.NewMinIOArchive(&cfg.MinIO)
		if err != nil {
			logger.Warnf("snapshot archive unavailable: %v", err)
		} else {
			archive = a
			logger.Infof("snapshot archive enabled (bucket %s)", cfg.MinIO.Bucket)
		}
	}

	userRepo := users.NewMongoUserRepository(db.Collection("users"))
	usersSvc := users.NewService(userRepo)
	sessionsSvc := sessions.NewService(sessions.NewRedisRepository(rdb, ""))
	docRepo := repository.NewMongoDocumentRepo(db.Collection("documents"))
	versionRepo := repository.NewMongoVersionRepo(db.Collection("versions"))
	docSvc := service.NewService(docRepo, versionRepo, userRepo, archive)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS for dev/test; production should sit behind a stricter proxy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "uptime": time.Since(startTime).String()})
	})

	api := r.Group("/api")
	handlers.NewAuthHandler(cfg, usersSvc, sessionsSvc).Register(api)
	handlers.NewDocumentHandler(docSvc, cfg.JWT.Secret).Register(api)
	handlers.RegisterSwagger(r)

	hub := realtime.NewHub(docSvc)
	r.GET("/ws", realtime.Handler(hub, cfg.JWT.Secret))

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("forced shutdown: %v", err)
	}
}
