package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"gamelog/internal/auth"
	"gamelog/internal/cache"
	"gamelog/internal/config"
	cronrunner "gamelog/internal/cron"
	"gamelog/internal/db"
	"gamelog/internal/handler"
	"gamelog/internal/logger"
	"gamelog/internal/logquery"
	"gamelog/internal/repository"
	badgerrepository "gamelog/internal/repository/badger"
	gormrepository "gamelog/internal/repository/gorm"
	memoryrepository "gamelog/internal/repository/memory"
	"gamelog/internal/service"

	_ "gamelog/docs"
)

func main() {
	cfgPath := os.Getenv("GL_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("GL_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("store open failed", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("store close failed", zap.Error(err))
		}
	}()

	cacheStore, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Fatal("cache init failed", zap.Error(err))
	}
	if rs, ok := cacheStore.(*cache.RedisStore); ok {
		defer rs.Close()
	}

	logService := &service.LogService{
		Repo:        store,
		PlayerCache: cache.NewSlot(cacheStore, cfg.Cache.KeyPrefix+service.PlayersCacheKey, cfg.Cache.TTL),
		Logger:      logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := cronrunner.New(logger, ctx)
	retention := &service.RetentionJob{Logs: logService, MaxAge: cfg.Retention.MaxAge, Logger: logger}
	if retention.Enabled() {
		if _, err := runner.Add("retention", cfg.Retention.Schedule, retention.Run); err != nil {
			logger.Fatal("retention schedule invalid", zap.Error(err), zap.String("schedule", cfg.Retention.Schedule))
		}
		runner.Start()
		defer runner.Stop()
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(gin.Recovery())
	engine.Use(handler.CORS())
	engine.Use(handler.RequestID())
	engine.Use(handler.AccessLog(logger))
	engine.NoMethod(handler.NoMethod)
	engine.NoRoute(handler.NoRoute)

	guard := auth.Middleware(auth.NewVerifier(cfg.Auth), logger)
	if cfg.Auth.Disabled {
		logger.Warn("auth disabled; /logs is open to anyone who can reach this port")
	}

	healthHandler := &handler.HealthHandler{Store: store}
	healthHandler.Register(engine)
	logHandler := &handler.LogHandler{
		Logs: logService,
		Options: logquery.Options{
			DefaultLimit: cfg.Query.DefaultLimit,
			MaxLimit:     cfg.Query.MaxLimit,
			Location:     cfg.Query.Location(),
		},
		Logger:       logger,
		Auth:         guard,
		PublicIngest: cfg.Auth.PublicIngest,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}
	logHandler.Register(engine)
	handler.RegisterDocs(engine, guard)
	engine.GET("/swagger/*any", guard, ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	logger.Info("http server stopped")
}

// openStore picks the storage driver. Postgres is opened lazily on the first
// request so the process starts even while the database is still coming up.
func openStore(cfg config.Config, logger *zap.Logger) (repository.LogRepository, error) {
	switch cfg.Storage.Driver {
	case "", "postgres":
		lazy := db.NewLazy(db.PostgresOpener(cfg.DB, logger))
		return gormrepository.New(lazy), nil
	case "badger":
		start := time.Now()
		store, err := badgerrepository.Open(cfg.Badger)
		if err != nil {
			return nil, err
		}
		logger.Info("badger opened", zap.String("path", cfg.Badger.Path), zap.Bool("in_memory", cfg.Badger.InMemory), zap.Duration("took", time.Since(start)))
		return store, nil
	case "memory":
		return memoryrepository.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
