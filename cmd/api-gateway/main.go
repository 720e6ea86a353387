package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/acadsuite/timetable-api/api/swagger"
	"github.com/acadsuite/timetable-api/internal/handler"
	"github.com/acadsuite/timetable-api/internal/middleware"
	"github.com/acadsuite/timetable-api/internal/repository"
	"github.com/acadsuite/timetable-api/internal/service"
	"github.com/acadsuite/timetable-api/pkg/cache"
	"github.com/acadsuite/timetable-api/pkg/config"
	"github.com/acadsuite/timetable-api/pkg/jobs"
	"github.com/acadsuite/timetable-api/pkg/logger"
	corsmiddleware "github.com/acadsuite/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acadsuite/timetable-api/pkg/middleware/requestid"
	"github.com/acadsuite/timetable-api/pkg/storage"
)

// @title AcadSuite Timetable API
// @version 1.0.0
// @description Automatic academic timetable generation and export service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.Env, cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	timetableRepo := repository.NewTimetableRepository()
	exportJobRepo := repository.NewExportJobRepository()

	localStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	metricsSvc := service.NewMetricsService()
	timetableSvc := service.NewTimetableService(timetableRepo, cacheRepo, metricsSvc, service.TimetableServiceConfig{
		Defaults: cfg.Engine,
		CacheTTL: cfg.Cache.TTL,
	}, logr)
	exportSvc := service.NewExportService(localStorage, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, nil, nil)

	var exportJobSvc *service.ExportJobService
	exportQueue := jobs.NewQueue("exports", func(ctx context.Context, task jobs.Task) error {
		return exportJobSvc.Handle(ctx, task)
	}, jobs.Options{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	exportJobSvc = service.NewExportJobService(exportJobRepo, timetableRepo, exportQueue, exportSvc, metricsSvc, service.ExportJobServiceConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
		MaxRetries:      cfg.Exports.WorkerRetries,
	}, logr)

	exportQueue.Start(ctx)
	defer exportQueue.Stop()
	exportJobSvc.StartCleanup(ctx)

	timetableHandler := handler.NewTimetableHandler(timetableSvc, exportSvc)
	exportHandler := handler.NewExportHandler(exportJobSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/timetables/generate", timetableHandler.Generate)
		api.GET("/timetables", timetableHandler.List)
		api.GET("/timetables/:id", timetableHandler.Get)
		api.DELETE("/timetables/:id", timetableHandler.Delete)
		api.POST("/timetables/:id/sheet", timetableHandler.Sheet)

		api.POST("/exports", exportHandler.Create)
		api.GET("/exports/:id", exportHandler.Status)
		api.GET("/exports/download/:token", exportHandler.Download)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
	if err := cacheRepo.Close(); err != nil {
		logr.Sugar().Warnw("failed to close redis", "error", err)
	}
}
