package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"estatequery/server/config"
	"estatequery/server/internal/api"
	"estatequery/server/internal/database"
	"estatequery/server/internal/geocoding"
	"estatequery/server/internal/metrics"
	"estatequery/server/internal/processor"
	"estatequery/server/internal/queue"
	"estatequery/server/internal/scheduler"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.WithError(err).Warn("Unknown LOG_LEVEL, falling back to info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database
	logger.WithField("driver", cfg.Database.Driver).Info("Opening database")
	db, err := database.NewDatabase(cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	m := metrics.New()

	// Listing import pipeline
	importQueue := queue.NewListingQueue(cfg.BatchProcessing.QueueSize, logger)
	batchProcessor := processor.NewBatchProcessor(db.GetDB(), importQueue, cfg, logger)
	batchProcessor.SetObserver(m)
	batchProcessor.Start()
	defer batchProcessor.Stop()

	// Coordinates backfill for locations imported without a position
	if cfg.Geocoding.Enabled {
		geocoder := geocoding.NewGeocoder(cfg.Geocoding, logger)
		backfiller := geocoding.NewBackfiller(db, geocoder, cfg.Geocoding.BatchSize, logger)
		jobs := scheduler.NewScheduler(cfg.Geocoding.Interval, logger, scheduler.Job{
			Name: "geocode-locations",
			Run: func(ctx context.Context) error {
				_, err := backfiller.Run(ctx)
				return err
			},
		})
		jobs.Start()
		defer jobs.Stop()
	}

	handler := api.NewHandler(db, importQueue, cfg, logger)
	router := api.NewRouter(cfg, handler, m)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
}
