package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/application/usecase"
	"github.com/pizzastore/pizzastore/application/usecase/catalog"
	"github.com/pizzastore/pizzastore/application/usecase/user_management"
	"github.com/pizzastore/pizzastore/infrastructure/adapter/filestore"
	"github.com/pizzastore/pizzastore/infrastructure/adapter/memory"
	"github.com/pizzastore/pizzastore/infrastructure/adapter/postgres"
	"github.com/pizzastore/pizzastore/infrastructure/config"
	httpserver "github.com/pizzastore/pizzastore/infrastructure/http"
	"github.com/pizzastore/pizzastore/infrastructure/http/handler"
	"github.com/pizzastore/pizzastore/infrastructure/http/middleware"
	"github.com/pizzastore/pizzastore/infrastructure/http/validator"
	"github.com/pizzastore/pizzastore/infrastructure/service/jwt"
	"github.com/pizzastore/pizzastore/infrastructure/service/logger"
	"github.com/pizzastore/pizzastore/infrastructure/service/metrics"
	"github.com/pizzastore/pizzastore/infrastructure/service/password"
	"github.com/pizzastore/pizzastore/infrastructure/service/ratelimit"
)

const publicImagePrefix = "static/img"

type repositories struct {
	users         outbound.UserRepository
	refreshTokens outbound.RefreshTokenRepository
	categories    outbound.CategoryRepository
	products      outbound.ProductRepository
}

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "pizzastore",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env":     cfg.Environment,
		"storage": cfg.Storage,
	})

	repos, closeStorage, err := openStorage(ctx, cfg, structuredLogger)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to open storage", err, map[string]interface{}{"storage": cfg.Storage})
		os.Exit(1)
	}
	defer closeStorage()

	permissions, err := config.LoadPermissionTable(cfg.PermissionsFile)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to load permission table", err, map[string]interface{}{
			"path": cfg.PermissionsFile,
		})
		os.Exit(1)
	}

	// Initialize services
	tokenService, err := jwt.NewJWTService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize JWT service", err, map[string]interface{}{
			"algorithm": cfg.JWTAlgorithm,
		})
		os.Exit(1)
	}
	passwordService, err := password.NewMultiPasswordService(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize password hasher", err, map[string]interface{}{
			"hasher": cfg.PasswordHasher,
		})
		os.Exit(1)
	}
	images, err := filestore.NewImageStore(cfg.ImageDir, publicImagePrefix)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to prepare image directory", err, map[string]interface{}{"dir": cfg.ImageDir})
		os.Exit(1)
	}

	rateLimitService, err := ratelimit.NewRateLimitService(ratelimit.RateLimitConfig{
		Enabled:  cfg.RateLimitEnabled,
		Backend:  cfg.RateLimitBackend,
		RedisURL: cfg.RedisURL,
	}, structuredLogger)
	if err != nil {
		// Serve without limits rather than refuse to start.
		structuredLogger.Error(ctx, "Failed to initialize rate limit service, continuing without it", err, map[string]interface{}{
			"backend": cfg.RateLimitBackend,
		})
		rateLimitService = ratelimit.NewNoopRateLimitService()
	}

	var appMetrics *metrics.Metrics
	authOpts := []usecase.AuthOption{}
	if cfg.MetricsEnabled {
		appMetrics = metrics.New()
		authOpts = append(authOpts, usecase.WithEventRecorder(appMetrics))
	}

	// Initialize use cases
	authUseCase := usecase.NewAuthUseCase(
		repos.users,
		repos.refreshTokens,
		tokenService,
		passwordService,
		permissions,
		cfg.RefreshTokenTTL,
		structuredLogger,
		authOpts...,
	)
	userManagementUseCase := user_management.NewUserManagementUseCase(repos.users, repos.refreshTokens, passwordService, permissions)
	categoryUseCase := catalog.NewCategoryUseCase(repos.categories)
	productUseCase := catalog.NewProductUseCase(repos.products, images)

	v := validator.New()
	routerConfig := httpserver.RouterConfig{
		AuthHandler: handler.NewAuthHandler(authUseCase, v, handler.CookieConfig{
			MaxAge: cfg.RefreshTokenTTL,
			Secure: cfg.CookieSecure,
		}, structuredLogger),
		CategoryHandler: handler.NewCategoryHandler(categoryUseCase, v, structuredLogger),
		ProductHandler:  handler.NewProductHandler(productUseCase, v, cfg.MaxUploadBytes, structuredLogger),
		UserHandler:     handler.NewUserHandler(userManagementUseCase, structuredLogger),
		AuthMiddleware:  middleware.NewAuthMiddleware(authUseCase),
		Metrics:         appMetrics,
		ImageDir:        cfg.ImageDir,
		Logger:          structuredLogger,
	}
	if cfg.RateLimitEnabled {
		routerConfig.RateLimit = middleware.NewRateLimitMiddleware(rateLimitService, middleware.RateLimitConfig{
			Attempts:      cfg.RateLimitSignInAttempts,
			Window:        cfg.RateLimitSignInWindow,
			BlockDuration: cfg.RateLimitBlockDuration,
		}, structuredLogger)
		routerConfig.Throttle = ratelimit.NewIPThrottle(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, 0, 10*time.Minute)
	}
	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		structuredLogger.Error(ctx, "Invalid TRUSTED_PROXIES", err, nil)
		os.Exit(1)
	}
	routerConfig.TrustedProxies = trustedProxies
	if cfg.CORSEnabled && len(cfg.CORSAllowedOrigins) > 0 {
		routerConfig.CORS = &httpserver.CORSConfig{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowCredentials: cfg.CORSAllowCredentials,
		}
	}

	server := httpserver.NewServer(httpserver.DefaultServerConfig(cfg.Addr()), httpserver.NewRouter(routerConfig), structuredLogger)

	go func() {
		if err := server.Start(); err != nil {
			structuredLogger.Error(ctx, "Server failed", err, map[string]interface{}{"addr": cfg.Addr()})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "Server exited", nil)
}

func openStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (repositories, func(), error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn(ctx, "Using in-memory storage, data is lost on restart", nil)
		tokens := memory.NewRefreshTokenRepository()
		store := memory.NewCatalog()
		return repositories{
			users:         memory.NewUserRepository(tokens),
			refreshTokens: tokens,
			categories:    store.Categories(),
			products:      store.Products(),
		}, func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.DefaultPoolConfig())
	if err != nil {
		return repositories{}, nil, err
	}
	if cfg.MigrateOnStart {
		if err := postgres.MigrateUp(db); err != nil {
			db.Close()
			return repositories{}, nil, err
		}
		log.Info(ctx, "Database migrations applied", nil)
	}
	log.Info(ctx, "Database connection established", nil)

	return repositories{
		users:         postgres.NewUserRepositoryAdapter(db),
		refreshTokens: postgres.NewRefreshTokenRepositoryAdapter(db),
		categories:    postgres.NewCategoryRepositoryAdapter(db),
		products:      postgres.NewProductRepositoryAdapter(db),
	}, closeDB(db), nil
}

func closeDB(db *sql.DB) func() {
	return func() { _ = db.Close() }
}
