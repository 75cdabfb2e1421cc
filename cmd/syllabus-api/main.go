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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/syllabus-api/api/swagger"
	"github.com/noah-isme/syllabus-api/internal/handler"
	"github.com/noah-isme/syllabus-api/internal/middleware"
	"github.com/noah-isme/syllabus-api/internal/models"
	"github.com/noah-isme/syllabus-api/internal/repository"
	"github.com/noah-isme/syllabus-api/internal/service"
	"github.com/noah-isme/syllabus-api/pkg/cache"
	"github.com/noah-isme/syllabus-api/pkg/config"
	"github.com/noah-isme/syllabus-api/pkg/database"
	"github.com/noah-isme/syllabus-api/pkg/export"
	"github.com/noah-isme/syllabus-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/syllabus-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/syllabus-api/pkg/middleware/requestid"
	"github.com/noah-isme/syllabus-api/pkg/storage"
)

// @title Syllabus API
// @version 1.0.0
// @description Course syllabus editing with commit history and change notifications
// @BasePath /
// @schemes http

type stores struct {
	syllabi       syllabusStore
	subscriptions subscriptionStore
	checks        map[string]handler.ReadinessCheck
	closers       []func() error
}

type syllabusStore interface {
	List(ctx context.Context) ([]models.Syllabus, error)
	Get(ctx context.Context, courseCode string) (*models.Syllabus, error)
	Save(ctx context.Context, s *models.Syllabus) error
	Delete(ctx context.Context, courseCode string) error
	CreateCommit(ctx context.Context, c *models.Commit) error
	ListCommits(ctx context.Context, courseCode string) ([]models.Commit, error)
}

type subscriptionStore interface {
	Load(ctx context.Context) ([]models.Subscription, bool, error)
	Save(ctx context.Context, subs []models.Subscription) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer func() {
		for _, closeFn := range st.closers {
			if err := closeFn(); err != nil {
				logr.Warn("failed to close resource", zap.Error(err))
			}
		}
	}()

	metricsSvc := service.NewMetricsService()
	cacheSvc := openCache(ctx, cfg, logr, metricsSvc, st)
	validate := validator.New()
	directory := repository.NewUserDirectory()

	subscriptionSvc := service.NewSubscriptionService(st.subscriptions, logr)
	notifierParams := service.NotificationServiceParams{
		Directory: directory,
		Fallback:  fallbackRecipients(cfg.Notifications),
		Metrics:   metricsSvc,
		Logger:    logr,
	}
	if cfg.Notifications.SubscriptionsEnabled {
		if err := subscriptionSvc.Load(ctx); err != nil {
			return fmt.Errorf("load subscriptions: %w", err)
		}
		notifierParams.Subscribers = subscriptionSvc
	}
	notifier := service.NewNotificationService(notifierParams)

	syllabusSvc := service.NewSyllabusService(service.SyllabusServiceParams{
		Repo:      st.syllabi,
		Notifier:  notifier,
		Cache:     cacheSvc,
		Metrics:   metricsSvc,
		Validator: validate,
		Logger:    logr,
		CacheTTL:  cfg.Cache.TTL,
	})
	if cfg.SeedData {
		if err := syllabusSvc.EnsureSeedData(ctx); err != nil {
			return fmt.Errorf("seed syllabi: %w", err)
		}
	}

	exportSvc := service.NewExportService(syllabusSvc, logr, export.NewCSVExporter(), export.NewPDFExporter())
	authSvc := service.NewAuthService(directory, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metricsSvc, st.checks, logr)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), routeHandlers{
		auth:          handler.NewAuthHandler(authSvc),
		syllabi:       handler.NewSyllabusHandler(syllabusSvc, exportSvc),
		subscriptions: handler.NewSubscriptionHandler(subscriptionSvc),
		metrics:       metricsHandler,
	}, authSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type routeHandlers struct {
	auth          *handler.AuthHandler
	syllabi       *handler.SyllabusHandler
	subscriptions *handler.SubscriptionHandler
	metrics       *handler.MetricsHandler
}

func registerRoutes(api *gin.RouterGroup, h routeHandlers, tokens middleware.TokenValidator) {
	api.POST("/auth/login", h.auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))
	instructor := middleware.RequireRoles(models.RoleInstructor)

	secured.GET("/auth/me", h.auth.Me)

	secured.GET("/syllabi", h.syllabi.List)
	secured.GET("/syllabi/:code", h.syllabi.Get)
	secured.POST("/syllabi", instructor, h.syllabi.Create)
	secured.PUT("/syllabi/:code", instructor, h.syllabi.Update)
	secured.DELETE("/syllabi/:code", instructor, h.syllabi.Delete)
	secured.GET("/syllabi/:code/history", h.syllabi.History)
	secured.GET("/syllabi/:code/history/:commitId", h.syllabi.GetCommit)
	secured.GET("/syllabi/:code/export", h.syllabi.Export)

	secured.GET("/subscriptions", h.subscriptions.ListMine)
	secured.GET("/subscriptions/all", instructor, h.subscriptions.ListAll)
	secured.POST("/subscriptions", h.subscriptions.Subscribe)
	secured.DELETE("/subscriptions/:id", h.subscriptions.Unsubscribe)

	secured.GET("/system/metrics", instructor, h.metrics.Snapshot)
}

func openStores(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*stores, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := repository.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		logr.Info("using postgres storage", zap.String("database", cfg.Database.Name))
		return &stores{
			syllabi:       repository.NewSyllabusRepository(db),
			subscriptions: repository.NewSubscriptionRepository(db),
			checks:        map[string]handler.ReadinessCheck{"postgres": pingDB(db)},
			closers:       []func() error{db.Close},
		}, nil
	case config.StorageDriverFile, "":
		store, err := storage.NewLocalStorage(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open data dir: %w", err)
		}
		logr.Info("using file storage", zap.String("data_dir", cfg.Storage.DataDir))
		return &stores{
			syllabi:       repository.NewSyllabusFileRepository(store),
			subscriptions: repository.NewSubscriptionFileRepository(store),
			checks:        map[string]handler.ReadinessCheck{"storage": store.Ready},
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// openCache connects Redis when enabled. A failed connection disables the
// cache instead of aborting startup.
func openCache(ctx context.Context, cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, st *stores) *service.CacheService {
	if !cfg.Cache.Enabled {
		return nil
	}
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, cache disabled", zap.Error(err))
		return nil
	}
	repo := repository.NewCacheRepository(client, logr)
	st.checks["redis"] = repo.Ping
	st.closers = append(st.closers, repo.Close)
	return service.NewCacheService(repo, metrics, cfg.Cache.TTL, logr)
}

func pingDB(db *sqlx.DB) handler.ReadinessCheck {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}

func fallbackRecipients(cfg config.NotificationsConfig) service.FallbackRecipients {
	fallback := service.DefaultFallbackRecipients()
	if cfg.HODName != "" {
		fallback.HODName = cfg.HODName
	}
	if cfg.HODPhone != "" {
		fallback.HODPhone = cfg.HODPhone
	}
	if cfg.HODEmail != "" {
		fallback.HODEmail = cfg.HODEmail
	}
	if len(cfg.HODPrefixes) > 0 {
		fallback.HODPrefixes = cfg.HODPrefixes
	}
	if cfg.AdminName != "" {
		fallback.AdminName = cfg.AdminName
	}
	if cfg.AdminPhone != "" {
		fallback.AdminPhone = cfg.AdminPhone
	}
	if cfg.AdminEmail != "" {
		fallback.AdminEmail = cfg.AdminEmail
	}
	return fallback
}
