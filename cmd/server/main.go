package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-booking/config"
	"event-booking/internal/database"
	"event-booking/internal/pipeline"
	"event-booking/internal/queue"
	"event-booking/internal/repository"
	"event-booking/internal/service"
	"event-booking/internal/worker"
	"event-booking/migrations"
	"event-booking/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	defer logger.Sync()
	log := logger.WithComponent("server")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lifecycle := database.LifecycleFor(cfg.IsProduction())
	pg := database.NewPostgresCache(cfg.Database.URL, lifecycle)
	rdb := database.NewRedisCache(cfg.Redis, lifecycle)
	defer teardown(pg, rdb)

	pool, err := pg.Acquire(ctx)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	if err := migrations.Apply(ctx, pool); err != nil {
		log.Fatal("failed to apply migrations", zap.Error(err))
	}

	eventRepo := repository.NewEventRepository(pg)
	bookingRepo := repository.NewBookingRepository(pg)
	records := pipeline.NewRecordPipeline(eventRepo)

	bookingQueue, err := queue.NewRedisStreamBookingQueue(ctx, rdb, cfg.Queue.ConsumerID, nil)
	if err != nil {
		log.Fatal("failed to initialize booking queue", zap.Error(err))
	}
	bookingService := service.NewBookingService(bookingRepo, records, bookingQueue)

	bookingWorker := worker.NewBookingWorker(bookingService, bookingQueue)
	if err := bookingWorker.Start(ctx); err != nil {
		log.Fatal("failed to start booking worker", zap.Error(err))
	}
	log.Info("booking worker started", zap.String("environment", cfg.Environment))

	<-ctx.Done()
	log.Info("shutting down")
	bookingWorker.Wait()
}

func teardown(closers ...interface{ Teardown(context.Context) error }) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, c := range closers {
		if err := c.Teardown(ctx); err != nil {
			logger.WithComponent("server").Error("teardown failed", zap.Error(err))
		}
	}
}
