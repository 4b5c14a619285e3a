package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/kbzala12/Yt2026Ab/internal/cache"
	"github.com/kbzala12/Yt2026Ab/internal/catalog"
	"github.com/kbzala12/Yt2026Ab/internal/config"
	"github.com/kbzala12/Yt2026Ab/internal/events"
	"github.com/kbzala12/Yt2026Ab/internal/ledger"
	"github.com/kbzala12/Yt2026Ab/internal/logging"
	"github.com/kbzala12/Yt2026Ab/internal/metrics"
	"github.com/kbzala12/Yt2026Ab/internal/middleware"
	"github.com/kbzala12/Yt2026Ab/internal/resolver"
	"github.com/kbzala12/Yt2026Ab/internal/store"
	"github.com/kbzala12/Yt2026Ab/internal/workflow"
	"github.com/kbzala12/Yt2026Ab/pkg/models"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewDefaultLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Initialize record store collections
	users, submissions, videos, cleanup, err := openCollections(cfg)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer cleanup()

	// Initialize optional read cache
	var rcache *cache.Cache
	if cfg.Redis.Enabled {
		rcache, err = cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rcache.Close()
	}

	// Initialize event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		p, err := events.NewAMQPPublisher(cfg.Events)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	// Initialize domain services
	accounts := ledger.New(users, cfg.Rewards, cfg.Admin.Username, log)
	published := catalog.New(videos, log)
	channels := resolver.NewClient(cfg.Resolver.Endpoint, cfg.Resolver.Timeout)
	wf := workflow.New(accounts, published, submissions, channels, publisher, log)

	api := &API{
		ledger:   accounts,
		workflow: wf,
		catalog:  published,
		cache:    rcache,
		log:      log,
	}

	// Setup router
	router := setupRouter(api, accounts, cfg, log)

	// Start metrics server
	if cfg.Metrics.Enabled {
		metricsSrv := metrics.NewServer(cfg.Metrics.Port)
		go func() {
			log.Infof("Starting metrics server on :%d", cfg.Metrics.Port)
			if err := metricsSrv.Start(); err != nil {
				log.ErrorWithErr("Metrics server failed", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			metricsSrv.Shutdown(ctx)
		}()
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}

// openCollections builds the three record collections for the
// configured store driver.
func openCollections(cfg *config.Config) (
	users store.Collection[models.User],
	submissions store.Collection[models.Submission],
	videos store.Collection[models.ApprovedVideo],
	cleanup func(),
	err error,
) {
	cleanup = func() {}

	switch cfg.Store.Driver {
	case "file":
		users, err = store.NewFileCollection[models.User](cfg.Store.Dir, store.UsersCollection)
		if err != nil {
			return
		}
		submissions, err = store.NewFileCollection[models.Submission](cfg.Store.Dir, store.SubmissionsCollection)
		if err != nil {
			return
		}
		videos, err = store.NewFileCollection[models.ApprovedVideo](cfg.Store.Dir, store.VideosCollection)
		return

	case "postgres":
		var pg *store.PostgresStore
		pg, err = store.NewPostgresStore(cfg.Database)
		if err != nil {
			return
		}
		cleanup = pg.Close
		users, err = store.NewPostgresCollection[models.User](pg, store.UsersCollection)
		if err != nil {
			return
		}
		submissions, err = store.NewPostgresCollection[models.Submission](pg, store.SubmissionsCollection)
		if err != nil {
			return
		}
		videos, err = store.NewPostgresCollection[models.ApprovedVideo](pg, store.VideosCollection)
		return

	case "memory":
		users = store.NewMemoryCollection[models.User]()
		submissions = store.NewMemoryCollection[models.Submission]()
		videos = store.NewMemoryCollection[models.ApprovedVideo]()
		return

	default:
		err = fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
		return
	}
}

func setupRouter(api *API, accounts *ledger.Ledger, cfg *config.Config, log *logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log))
	router.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)))

	// Health check
	router.GET("/health", api.healthCheck)

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", api.login)

		// Users
		v1.GET("/users", api.listUsers)
		v1.GET("/users/:id", api.getUser)
		v1.POST("/users/:id/daily-bonus", api.claimDailyBonus)
		v1.POST("/users/:id/watch-reward", api.awardWatchReward)

		// Submissions
		v1.POST("/submissions", api.submitVideo)

		// Published catalog
		v1.GET("/videos", api.listVideos)

		// Operator surface
		admin := v1.Group("", middleware.RequireAdmin(accounts))
		{
			admin.GET("/submissions", api.listSubmissions)
			admin.POST("/submissions/:id/approve", api.approveSubmission)
			admin.POST("/submissions/:id/reject", api.rejectSubmission)
			admin.DELETE("/submissions", api.deleteAllSubmissions)
			admin.POST("/videos", api.addVideo)
			admin.DELETE("/videos/:id", api.deleteVideo)
		}
	}

	return router
}

// Health check endpoint
func (api *API) healthCheck(c *gin.Context) {
	if api.cache != nil {
		if err := api.cache.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
