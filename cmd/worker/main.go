package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eco-nexion/econexion/internal/cache"
	"github.com/Eco-nexion/econexion/internal/config"
	"github.com/Eco-nexion/econexion/internal/database"
	"github.com/Eco-nexion/econexion/internal/log"
	"github.com/Eco-nexion/econexion/internal/repository"
	"github.com/Eco-nexion/econexion/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New("worker", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer redisClient.Close()

	processor := worker.NewProcessor(
		repository.NewNotificationRepository(dbPool),
		repository.NewOfferRepository(dbPool),
		logger,
	)
	consumer := worker.NewConsumer(
		redisClient,
		cfg.Events.Stream,
		cfg.Events.Group,
		cfg.Events.Consumer,
		cfg.Events.ClaimInterval,
		logger,
		processor,
	)

	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")
	time.Sleep(500 * time.Millisecond)
}
