package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campus-hub/timetable-intake-api/api/swagger"
	"github.com/campus-hub/timetable-intake-api/internal/handler"
	"github.com/campus-hub/timetable-intake-api/internal/middleware"
	"github.com/campus-hub/timetable-intake-api/internal/repository"
	"github.com/campus-hub/timetable-intake-api/internal/service"
	"github.com/campus-hub/timetable-intake-api/pkg/cache"
	"github.com/campus-hub/timetable-intake-api/pkg/config"
	"github.com/campus-hub/timetable-intake-api/pkg/database"
	"github.com/campus-hub/timetable-intake-api/pkg/jobs"
	"github.com/campus-hub/timetable-intake-api/pkg/logger"
	corsmiddleware "github.com/campus-hub/timetable-intake-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campus-hub/timetable-intake-api/pkg/middleware/requestid"
	"github.com/campus-hub/timetable-intake-api/pkg/storage"
)

// @title Timetable Intake API
// @version 1.0.0
// @description Data intake backend for the university timetable builder
// @BasePath /api
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Cache.TTL, logr, true)
			defer cacheRepo.Close()
		}
	}
	if cacheService == nil {
		cacheService = service.NewCacheService(nil, metricsService, cfg.Cache.TTL, logr, false)
	}

	uploadStore, err := storage.NewUploadStore(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}

	validate := validator.New()

	teacherRepo := repository.NewTeacherRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	divisionRepo := repository.NewDivisionRepository(db)
	fixedSlotRepo := repository.NewFixedSlotRepository(db)
	userRepo := repository.NewUserRepository(db)
	uploadLock := repository.NewUploadLock()

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	uploadService := service.NewUploadService(
		teacherRepo, subjectRepo, roomRepo, fixedSlotRepo, divisionRepo,
		uploadLock, db, uploadStore, cacheService, logr,
	)
	assignmentService := service.NewAssignmentService(teacherRepo, subjectRepo, cacheService, validate, logr, cfg.Cache.TTL)
	timetableService := service.NewTimetableService(
		teacherRepo, subjectRepo, roomRepo, divisionRepo,
		&http.Client{Timeout: cfg.Scheduler.Timeout}, cfg.Scheduler.BaseURL,
		metricsService, logr,
	)
	exportService := service.NewExportService(
		teacherRepo, subjectRepo, roomRepo, divisionRepo, fixedSlotRepo,
		nil, nil, logr,
	)

	authHandler := handler.NewAuthHandler(authService)
	uploadHandler := handler.NewUploadHandler(uploadService, metricsService, cfg.Uploads.MaxFileSize)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService)
	timetableHandler := handler.NewTimetableHandler(timetableService)
	exportHandler := handler.NewExportHandler(exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/teachers-subjects", assignmentHandler.ListTeachersSubjects)

	protected := api.Group("", middleware.JWT(authService))
	protected.POST("/upload", uploadHandler.Upload)
	protected.POST("/assign", assignmentHandler.Assign)
	protected.PUT("/subjects/:id/assign", assignmentHandler.AssignOne)
	protected.GET("/timetable", timetableHandler.Generate)
	protected.POST("/timetable", timetableHandler.Generate)
	protected.GET("/timetable/payload", timetableHandler.Preview)
	protected.GET("/export/:entity", exportHandler.Export)

	maintenance := jobs.NewQueue("maintenance", func(ctx context.Context, job jobs.Job) error {
		removed, err := uploadStore.CleanupOlderThan(cfg.Uploads.RetentionTTL)
		if err != nil {
			return err
		}
		if len(removed) > 0 {
			logr.Sugar().Infow("expired uploads removed", "count", len(removed))
		}
		return nil
	}, jobs.QueueConfig{Workers: 1, Logger: logr})

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	maintenance.Start(rootCtx)
	defer maintenance.Stop()

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-rootCtx.Done():
				return
			case <-ticker.C:
				if err := maintenance.Enqueue(jobs.Job{Type: "uploads-cleanup"}); err != nil {
					logr.Sugar().Warnw("failed to enqueue cleanup", "error", err)
				}
			}
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
		_ = srv.Close()
	}
}
