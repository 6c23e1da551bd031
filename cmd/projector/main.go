package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-storefront/internal/config"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logging.New(cfg.ServiceName+"-projector", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	proj := &orders.Projector{
		Cache: &orders.StatusCache{Redis: rdb},
		Redis: rdb,
		Name:  cfg.ProjectorGroup,
		Log:   log,
	}

	// one consumer per topic, same group
	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range []string{orders.TopicOrderCreated, orders.TopicOrderStatusChanged} {
		topic := topic
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ProjectorGroup, topic, cfg.ProjectorWorkers, log)
		g.Go(func() error {
			log.Info("projector consumer started",
				zap.String("group", cfg.ProjectorGroup),
				zap.String("topic", topic),
				zap.Int("workers", cfg.ProjectorWorkers))
			return cons.Start(gctx, proj.Handle)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("consumer exit", zap.Error(err))
		os.Exit(1)
	}
	log.Info("projector stopped")
}
