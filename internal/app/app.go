package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"kandu_backend/database"
	"kandu_backend/internal/auth"
	"kandu_backend/internal/config"
	"kandu_backend/internal/handlers"
	"kandu_backend/internal/logger"
	"kandu_backend/internal/middleware"
	"kandu_backend/internal/repositories"
	"kandu_backend/internal/repositories/admin"
	"kandu_backend/internal/routes"
	"kandu_backend/internal/services"
	"kandu_backend/internal/storage"
	"kandu_backend/internal/validator"
	"kandu_backend/internal/views"
	"kandu_backend/internal/workers"
	"kandu_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

// App - собранное приложение: соединения, сервисы, роутер и воркеры
type App struct {
	cfg         *config.Config
	db          *gorm.DB
	pool        *pgxpool.Pool
	redis       *redis.Client
	services    *services.ServiceContainer
	router      *gin.Engine
	viewsWorker *workers.ViewsWorker
}

// Run - точка входа команды serve
func Run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Serve(ctx)
}

// New открывает соединения и собирает зависимости. Воркеры не запускаются.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	apperrors.SetDebug(cfg.IsDevelopment())
	auth.Configure(cfg.JWT.Secret, cfg.JWTTTL())

	a := &App{cfg: cfg}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	logger.Info("Connecting to database...")
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	a.db = db
	if cfg.Database.AutoMigrate {
		if err := database.Up(ctx, db, cfg.Database.DSN); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	logger.Info("Database connected", "postgres", database.IsPostgres(cfg.Database.DSN))

	wipeRepo, err := a.initWipe(ctx)
	if err != nil {
		return nil, err
	}
	counter, err := a.initViewCounter(ctx)
	if err != nil {
		return nil, err
	}

	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	emailProvider, err := newEmailProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email: %w", err)
	}

	a.services = services.NewServiceContainer(services.Dependencies{
		Storage:     storageInstance,
		Email:       emailProvider,
		AppURL:      cfg.Email.AppURL,
		ViewCounter: counter,
		Wipe:        wipeRepo,
		Upload: services.UploadConfig{
			MaxFileSize: cfg.Upload.MaxSize,
			Usages:      cfg.UploadUsageTypes(),
		},
	})

	if err := a.seedFirstAdmin(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed first admin user: %w", err)
	}

	a.router = SetupRouter(db, a.services)
	a.viewsWorker = workers.NewViewsWorker(db, repositories.NewJobRepository(), counter, cfg.Workers.ViewsFlushSpec)

	ok = true
	return a, nil
}

// initWipe - pgx-транзакция на PostgreSQL, GORM на SQLite
func (a *App) initWipe(ctx context.Context) (admin.WipeRepository, error) {
	if !database.IsPostgres(a.cfg.Database.DSN) {
		return admin.NewGormWipeRepository(a.db), nil
	}
	pool, err := admin.NewPool(ctx, a.cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgx pool: %w", err)
	}
	a.pool = pool
	return admin.NewWipeRepository(pool), nil
}

// initViewCounter - Redis, если задан URL, иначе память процесса
func (a *App) initViewCounter(ctx context.Context) (views.Counter, error) {
	if a.cfg.Redis.URL == "" {
		logger.Warn("Redis is not configured, job views are buffered in memory")
		return views.NewMemoryCounter(), nil
	}
	rdb, err := views.NewRedisClient(ctx, a.cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	a.redis = rdb
	return views.NewRedisCounter(rdb), nil
}

func (a *App) seedFirstAdmin(ctx context.Context) error {
	email := strings.ToLower(strings.TrimSpace(a.cfg.FirstAdminEmail))
	if email == "" || a.cfg.FirstAdminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}
	return a.services.AdminService.EnsureAdmin(ctx, a.db.WithContext(ctx), email, a.cfg.FirstAdminPassword)
}

// Router - http.Handler приложения
func (a *App) Router() *gin.Engine { return a.router }

func (a *App) DB() *gorm.DB { return a.db }

func (a *App) Services() *services.ServiceContainer { return a.services }

// Serve запускает воркеры и HTTP-сервер до отмены ctx
func (a *App) Serve(ctx context.Context) error {
	if err := a.viewsWorker.Start(ctx); err != nil {
		return err
	}
	defer a.viewsWorker.Stop(context.Background())

	srv := &http.Server{
		Addr:              a.cfg.Address(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server starting on %s", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)

	// письма уведомлений, начатые до остановки
	if werr := a.services.NotificationService.Wait(shutdownCtx); werr != nil {
		logger.Warn("notification emails still sending at shutdown, dropped", "error", werr)
	}
	return err
}

// Close освобождает соединения. Безопасен для частично собранного App.
func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// SetupRouter собирает gin-движок с middleware и маршрутами
func SetupRouter(db *gorm.DB, serviceContainer *services.ServiceContainer) *gin.Engine {
	appHandlers := handlers.NewAppHandlers(validator.New(), serviceContainer)

	ginRouter := initializeGinRouter(db)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
