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

	"parking-reservation-backend/config"
	"parking-reservation-backend/internal/api"
	"parking-reservation-backend/internal/auth"
	"parking-reservation-backend/internal/cache"
	"parking-reservation-backend/internal/db"
	"parking-reservation-backend/internal/jobs"
	"parking-reservation-backend/internal/mailer"
	"parking-reservation-backend/internal/refdata"
	"parking-reservation-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "parking-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Auth.Secret == "" {
		logger.Fatalf("auth.secret must be configured")
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	if err := appStore.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logger.Fatalf("failed to ensure admin account: %v", err)
	}

	appCache := cache.NewKeyed()
	authSvc := auth.NewService(cfg.Auth, appStore)
	mail := mailer.NewSMTPSender(cfg.SMTP)
	ref := refdata.New(cfg.RefData.CarsCSV, cfg.RefData.ColorsCSV)

	// Background job subsystem: shared queue for scheduled and on-demand
	// jobs, cron triggers for the recurring ones.
	queue := jobs.NewQueue(cfg.WorkerPool.Size, cfg.Jobs.QueueSize)
	queue.Start(ctx)

	scheduler := jobs.NewScheduler(queue)
	recurring := []struct {
		spec string
		job  jobs.Job
	}{
		{cfg.Jobs.DailyReminderSpec, &jobs.DailyReminder{
			Store:        appStore,
			Mail:         mail,
			DashboardURL: cfg.Jobs.DashboardURL,
			Inactivity:   time.Duration(cfg.Jobs.InactivityThresholdDays) * 24 * time.Hour,
		}},
		{cfg.Jobs.MonthlyReportSpec, &jobs.MonthlyReport{Store: appStore, Mail: mail}},
		{cfg.Jobs.TokenCleanupSpec, &jobs.TokenCleanup{
			Store:     appStore,
			Retention: time.Duration(cfg.Jobs.TokenRetentionDays) * 24 * time.Hour,
		}},
	}
	for _, entry := range recurring {
		if err := scheduler.Schedule(entry.spec, entry.job); err != nil {
			logger.Fatalf("failed to schedule %s: %v", entry.job.Name(), err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()
	logger.Println("background job scheduler started")

	router := api.NewRouter(cfg, appStore, appCache, authSvc, queue, mail, ref)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
