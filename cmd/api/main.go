package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sjperalta/antecipa-api/docs" // Swagger docs
	"github.com/sjperalta/antecipa-api/internal/config"
	"github.com/sjperalta/antecipa-api/internal/database"
	"github.com/sjperalta/antecipa-api/internal/events"
	"github.com/sjperalta/antecipa-api/internal/handlers"
	"github.com/sjperalta/antecipa-api/internal/jobs"
	"github.com/sjperalta/antecipa-api/internal/lock"
	"github.com/sjperalta/antecipa-api/internal/middleware"
	"github.com/sjperalta/antecipa-api/internal/monitoring"
	"github.com/sjperalta/antecipa-api/internal/repository"
	"github.com/sjperalta/antecipa-api/internal/services"
	"github.com/sjperalta/antecipa-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Antecipa API
// @version 1.0
// @description Payment plan engine for receivables anticipation
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment, cfg.LogLevel)

	// Initialize Sentry (GlitchTip) when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Error("Failed to migrate database", "error", err)
			os.Exit(1)
		}
		logger.Info("Database migrated")
	}

	// Per-plan lock: Redis when configured so several instances serialize on the same plan
	locker, redisClient := newPlanLocker(cfg)

	// Domain events for the billing issuer
	publisher := newPublisher(cfg)

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, locker, publisher, cfg)

	// Schedule recurring jobs
	if err := scheduleJobs(worker, svcs, cfg); err != nil {
		logger.Error("Failed to schedule jobs", "error", err)
		os.Exit(1)
	}

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(worker.Context(), h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	if err := publisher.Close(); err != nil {
		logger.Warn("Failed to close event publisher", "error", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("Failed to close redis client", "error", err)
		}
	}
	if err := database.Close(db); err != nil {
		logger.Warn("Failed to close database", "error", err)
	}

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func newPlanLocker(cfg *config.Config) (lock.PlanLocker, *redis.Client) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set: plan locks are local to this process")
		return lock.NewLocalLocker(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("Invalid REDIS_URL", "error", err)
		os.Exit(1)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to redis", "addr", opts.Addr)

	return lock.NewRedisLocker(client, cfg.PlanLockTTL), client
}

func newPublisher(cfg *config.Config) events.Publisher {
	if cfg.RabbitMQURL == "" {
		logger.Warn("RABBITMQ_URL not set: domain events are only logged")
		return events.NewLogPublisher(logger.Log)
	}

	publisher, err := events.Dial(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger.Log)
	if err != nil {
		logger.Error("Failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to rabbitmq", "exchange", cfg.RabbitMQExchange)
	return publisher
}

func setupRouter(ctx context.Context, h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Protected routes (admin and company users)
		protected := v1.Group("")
		if cfg.RateLimitEnabled {
			protected.Use(middleware.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())
		}
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Read access, scoped to the caller's project for company users
			protected.GET("/anticipations/:anticipation_id", h.Anticipation.Show)
			protected.GET("/plans/:plan_id", h.Plan.Show)
			protected.GET("/plans/:plan_id/projection", h.Plan.Projection)
			protected.GET("/plans/:plan_id/export", h.Plan.Export)
			protected.GET("/plans/:plan_id/statement", h.Plan.Statement)
			protected.GET("/plans/:plan_id/installments/:installment_id/receivables", h.Ledger.Index)
			protected.GET("/indexes/:index_id/adjustment", h.Index.Adjustment)

			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireRole(middleware.RoleAdmin))
			{
				// Anticipation lifecycle
				admin.POST("/anticipations/:anticipation_id/approve", h.Anticipation.Approve)
				admin.POST("/anticipations/:anticipation_id/reject", h.Anticipation.Reject)
				admin.POST("/anticipations/:anticipation_id/complete", h.Anticipation.Complete)

				// Plan maintenance
				admin.DELETE("/plans/:plan_id", h.Plan.Delete)
				admin.POST("/plans/:plan_id/recalculate", h.Plan.Recalculate)
				admin.PUT("/plans/:plan_id/index", h.Plan.UpdateIndex)
				admin.GET("/plans/:plan_id/audit", h.Plan.Audit)

				// Receivable allocation
				admin.POST("/plans/:plan_id/installments/:installment_id/receivables", h.Ledger.Attach)
				admin.DELETE("/plans/:plan_id/installments/:installment_id/receivables/:link_id", h.Ledger.Detach)

				// Background jobs
				admin.GET("/jobs/status", h.Job.Status)
				admin.POST("/jobs/reconcile", h.Job.Reconcile)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) error {
	// Recalculate every plan to heal any left stale by an interrupted mutation
	if err := worker.ScheduleCron(cfg.ReconcileSchedule, "reconcile-plans", svcs.Plan.ReconcileAll); err != nil {
		return err
	}

	// Sample worker gauges for /metrics
	worker.ScheduleEvery(15*time.Second, func(ctx context.Context) error {
		stats := worker.GetStats()
		monitoring.RecordWorkerStats(stats.QueueLength, stats.ActiveJobs, stats.FailedJobs)
		return nil
	})

	logger.Info("Scheduled recurring jobs", "reconcile", cfg.ReconcileSchedule)
	return nil
}
