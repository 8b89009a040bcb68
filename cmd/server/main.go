package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/marketplace/internal/config"
	"github.com/forgo/marketplace/internal/database"
	"github.com/forgo/marketplace/internal/handler"
	"github.com/forgo/marketplace/internal/jobs"
	"github.com/forgo/marketplace/internal/metrics"
	"github.com/forgo/marketplace/internal/middleware"
	"github.com/forgo/marketplace/internal/repository"
	"github.com/forgo/marketplace/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	slog.SetDefault(logger)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)

	var sessionStore service.SessionStore = repository.NewSessionRepository(db)
	if cfg.Redis.Addr != "" {
		rdb, err := repository.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() { _ = rdb.Close() }()
		sessionStore = repository.NewRedisSessionStore(rdb)
		slog.Info("using redis session store", slog.String("addr", cfg.Redis.Addr))
	}

	// Initialize services
	userService := service.NewUserService(service.UserServiceConfig{
		UserRepo: userRepo,
	})
	catalogService := service.NewCatalogService(service.CatalogServiceConfig{
		ServiceRepo: serviceRepo,
		UserRepo:    userRepo,
	})
	sessionService, err := service.NewSessionService(service.SessionServiceConfig{
		Store:    sessionStore,
		UserRepo: userRepo,
		Secret:   cfg.Session.Secret,
		TTL:      cfg.Session.TTL,
	})
	if err != nil {
		slog.Error("failed to initialize session service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	oauthService := service.NewOAuthService(service.OAuthServiceConfig{
		Providers: map[string]service.ProviderSettings{
			service.ProviderGoogle:   providerSettings(cfg.OAuth.Google),
			service.ProviderFacebook: providerSettings(cfg.OAuth.Facebook),
			service.ProviderLine:     providerSettings(cfg.OAuth.Line),
		},
		Users: userService,
	})
	if providers := oauthService.Providers(); len(providers) == 0 {
		slog.Warn("no OAuth providers configured; social login is disabled")
	} else {
		slog.Info("OAuth providers enabled", slog.Any("providers", providers))
	}

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService)
	serviceHandler := handler.NewServiceHandler(catalogService)
	authHandler := handler.NewAuthHandler(handler.AuthHandlerConfig{
		OAuthService:   oauthService,
		SessionService: sessionService,
		ClientURL:      cfg.Server.ClientURL,
		SecureCookies:  cfg.IsProduction(),
		CookieMaxAge:   cfg.Session.CookieMaxAge,
	})
	healthHandler := handler.NewHealthHandler(db)

	// Background jobs
	orphanSweeper := jobs.NewOrphanSweeper(catalogService, cfg.Jobs.OrphanSweepInterval)
	orphanSweeper.Start()
	sessionCleaner := jobs.NewSessionCleaner(sessionService, cfg.Jobs.SessionCleanupInterval)
	sessionCleaner.Start()

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RPS:   cfg.RateLimit.RPS,
		Burst: cfg.RateLimit.Burst,
	})

	// Set up router
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	userHandler.RegisterRoutes(mux)
	serviceHandler.RegisterRoutes(mux)
	authHandler.RegisterRoutes(mux)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Session(sessionService),
		middleware.RateLimit(rateLimiter),
		middleware.Compress,
		middleware.Metrics,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	orphanSweeper.Stop()
	sessionCleaner.Stop()
	rateLimiter.Stop()

	slog.Info("server exited")
}

func providerSettings(p config.ProviderConfig) service.ProviderSettings {
	return service.ProviderSettings{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RedirectURL:  p.RedirectURL,
	}
}
