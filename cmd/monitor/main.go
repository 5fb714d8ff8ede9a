package main

import (
	"context"
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

	"syncmonitor/internal/auth"
	"syncmonitor/internal/client/provider"
	"syncmonitor/internal/config"
	cronrunner "syncmonitor/internal/cron"
	"syncmonitor/internal/db"
	"syncmonitor/internal/handler"
	"syncmonitor/internal/logger"
	gormrepository "syncmonitor/internal/repository/gorm"
	"syncmonitor/internal/service"
)

func main() {
	cfgPath := os.Getenv("SM_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("SM_ENV_ONLY"); envOnlyRaw != "" {
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

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)

	telephonyClient := &provider.TelephonyClient{Client: provider.Client{
		BaseURL: cfg.Providers.Telephony.BaseURL,
		HTTP:    &http.Client{Timeout: cfg.Providers.Telephony.Timeout},
	}}
	calendarClient := &provider.CalendarClient{Client: provider.Client{
		BaseURL: cfg.Providers.Calendar.BaseURL,
		HTTP:    &http.Client{Timeout: cfg.Providers.Calendar.Timeout},
	}}

	healthUpdater := &service.HealthUpdater{
		Repo:   store,
		Logger: logger,
		Config: cfg.Health,
	}
	fallbackController := &service.FallbackController{
		Repo:   store,
		Logger: logger,
		Config: cfg.Fallback,
	}
	manualTrigger := &service.ManualSyncTrigger{
		Repo:      store,
		Telephony: telephonyClient,
		Calendar:  calendarClient,
		Logger:    logger,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(auth.RequireBearerMiddleware(cfg.Auth))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	statusHandler := &handler.SyncStatusHandler{Repo: store}
	statusHandler.Register(engine)
	jobListHandler := &handler.SyncJobHandler{Repo: store}
	jobListHandler.Register(engine)
	triggerHandler := &handler.TriggerHandler{Trigger: manualTrigger}
	triggerHandler.Register(engine)
	jobsHandler := &handler.JobsHandler{Fallback: fallbackController, Health: healthUpdater}
	jobsHandler.Register(engine)
	eventsHandler := &handler.EventsHandler{Repo: store}
	eventsHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add("fallback", cfg.Cron.Fallback, func(ctx context.Context) {
			result, err := fallbackController.RunOnce(ctx)
			if err != nil {
				logger.Warn("cron fallback pass failed", zap.Error(err))
				return
			}
			logger.Info("cron fallback pass ok",
				zap.Int("checked", result.Checked),
				zap.Int("demoted", result.Demoted),
				zap.Int("restored", result.Restored),
				zap.Int("failed", result.Failed),
			)
		})
		if err != nil {
			logger.Warn("cron register fallback failed", zap.Error(err))
		}

		_, err = cronRunner.Add("health-update", cfg.Cron.HealthUpdate, func(ctx context.Context) {
			processed, err := healthUpdater.RunOnce(ctx)
			if err != nil {
				logger.Warn("cron health update failed", zap.Error(err))
				return
			}
			logger.Info("cron health update ok", zap.Int("processed", processed))
		})
		if err != nil {
			logger.Warn("cron register health update failed", zap.Error(err))
		}

		cronRunner.Start()
		defer cronRunner.Stop()
	} else {
		logger.Info("cron disabled, periodic jobs run via HTTP only")
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
