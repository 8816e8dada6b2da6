package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"route-planner/internal/api"
	apimw "route-planner/internal/api/middleware"
	"route-planner/internal/config"
	"route-planner/internal/modules/catalog"
	"route-planner/internal/modules/routes"
	"route-planner/internal/modules/user"
	"route-planner/internal/modules/wizard"
	"route-planner/internal/planner"
	"route-planner/internal/storage"
	"route-planner/pkg/email"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	return config.Build()
}

// draftStore picks the backend that keeps wizard drafts between sessions.
func draftStore(ctx context.Context, cfg *config.Config, db *pgxpool.Pool) (planner.Store, func(), error) {
	switch cfg.DraftBackend {
	case config.BackendRedis:
		rs, err := storage.NewRedisStore(ctx, cfg.RedisURL, cfg.DraftTTL)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil
	case config.BackendPostgres:
		return storage.NewPostgresStore(db), func() {}, nil
	default:
		return planner.NewMemoryStore(), func() {}, nil
	}
}

func main() {
	// 1. --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// 2. --- Database Connection ---
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("unable to parse database configuration", zap.Error(err))
	}
	dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		logger.Fatal("unable to create connection pool", zap.Error(err))
	}
	defer dbPool.Close()
	if err := dbPool.Ping(ctx); err != nil {
		logger.Fatal("unable to ping database", zap.Error(err))
	}
	logger.Info("connected to the database")

	store, closeStore, err := draftStore(ctx, cfg, dbPool)
	if err != nil {
		logger.Fatal("unable to open draft store", zap.String("backend", cfg.DraftBackend), zap.Error(err))
	}
	defer closeStore()
	logger.Info("draft store ready", zap.String("backend", cfg.DraftBackend))

	// 3. --- Email (optional) ---
	templates, err := email.NewTemplateManager()
	if err != nil {
		logger.Fatal("unable to parse email templates", zap.Error(err))
	}
	var mailer email.ServiceInterface
	if cfg.EmailFrom != "" {
		sender, err := email.NewSESV2Sender(ctx, cfg.AWSRegion, cfg.EmailFrom, logger)
		if err != nil {
			logger.Fatal("unable to create email sender", zap.Error(err))
		}
		mailer = sender
	} else {
		logger.Warn("EMAIL_FROM not set, email delivery disabled")
	}

	// 4. --- Dependency Injection ---
	userService := user.NewService(user.NewRepository(dbPool), mailer, templates, cfg.JWTSecret, cfg.ClientOrigin, logger.Named("user"))

	catalogService := catalog.NewService(catalog.NewRepository(dbPool), cfg.CatalogLatency, logger.Named("catalog"))

	routeService := routes.NewService(routes.NewRepository(dbPool), routes.Options{
		PublicBaseURL: cfg.PublicBaseURL,
		PDFFontFile:   cfg.PDFFontFile,
		Mailer:        mailer,
		Templates:     templates,
		Logger:        logger.Named("routes"),
	})

	wizardService := wizard.NewService(catalogService, routeService, wizard.Options{
		Store:         store,
		Scheduler:     planner.SystemScheduler,
		AutosaveDelay: cfg.AutosaveDelay,
		IdleTimeout:   cfg.SessionIdle,
		Logger:        logger.Named("wizard"),
	})

	handlers := api.Handlers{
		User:    user.NewHandler(userService),
		Catalog: catalog.NewHandler(catalogService, wizardService),
		Routes:  routes.NewHandler(routeService),
		Wizard:  wizard.NewHandler(wizardService),
	}

	// 5. --- Echo & Middleware ---
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	api.SetupRoutes(e, handlers, cfg.JWTSecret, apimw.NewRateLimiter(cfg.SearchRateLimit, int(cfg.SearchRateLimit)+1))

	// 6. --- Start Server with graceful shutdown logic ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped unexpectedly", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	// Pending drafts are written before the store goes away.
	wizardService.FlushAll()
	wizardService.CloseAll()
	logger.Info("server exiting")
}
