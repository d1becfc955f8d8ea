package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/gym-manager/internal/audit"
	"github.com/BruksfildServices01/gym-manager/internal/cache"
	"github.com/BruksfildServices01/gym-manager/internal/chatws"
	"github.com/BruksfildServices01/gym-manager/internal/config"
	dbpkg "github.com/BruksfildServices01/gym-manager/internal/db"
	"github.com/BruksfildServices01/gym-manager/internal/jobs"
	"github.com/BruksfildServices01/gym-manager/internal/logger"
	"github.com/BruksfildServices01/gym-manager/internal/mailer"
	"github.com/BruksfildServices01/gym-manager/internal/metrics"
	"github.com/BruksfildServices01/gym-manager/internal/notify"
	"github.com/BruksfildServices01/gym-manager/internal/payments"
	"github.com/BruksfildServices01/gym-manager/internal/routes"
	"github.com/BruksfildServices01/gym-manager/internal/storage"
	"github.com/BruksfildServices01/gym-manager/internal/timezone"
)

const shutdownTimeout = 15 * time.Second

func main() {

	cfg := config.Load()

	log := logger.Init(cfg.Env)
	defer logger.Sync()

	timezone.SetDefault(cfg.Timezone)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db := dbpkg.NewDB(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// BACKGROUND SERVICES
	// ======================================================
	auditDispatcher := audit.NewDispatcher(audit.New(db))
	notifier := notify.NewService(db, mailer.New(cfg))
	statsCache := cache.NewStatsCache(cfg)

	store, err := storage.New(cfg)
	if err != nil {
		log.Fatal("failed to init storage", zap.Error(err))
	}

	gateway, err := payments.New(cfg)
	if err != nil {
		log.Fatal("failed to init payment gateway", zap.Error(err))
	}

	hub := chatws.NewHub()
	go hub.Run(ctx)

	runner := jobs.NewRunner(db, notifier)
	if err := runner.Start(cfg.ExpireJobSpec, cfg.ReminderJobSpec); err != nil {
		log.Fatal("failed to schedule jobs", zap.Error(err))
	}

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Audit:    auditDispatcher,
		Notify:   notifier,
		Stats:    statsCache,
		Storage:  store,
		Payments: gateway,
		Hub:      hub,
		Metrics:  metrics.New(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}

	runner.Stop(shutdownCtx)

	select {
	case <-hub.Done():
	case <-shutdownCtx.Done():
	}

	auditDispatcher.Close()
	notifier.Close()

	if closer, ok := statsCache.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
