package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/octabyte/bm-queue-console/config"
	"github.com/octabyte/bm-queue-console/consumer"
	"github.com/octabyte/bm-queue-console/mailer"
	"github.com/octabyte/bm-queue-console/queue"
	"github.com/octabyte/bm-queue-console/utils/logger"
)

type Consume struct{}

func (cmd Consume) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	c := &cobra.Command{
		Use:   "consume",
		Short: "Deliver queued messages as emails",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.run(ctx, cfg)
		},
	}
	c.Flags().StringVar(&cfg.Consumer.MetricsAddr, "metrics-addr", cfg.Consumer.MetricsAddr, "Prometheus listen address")
	c.Flags().IntVar(&cfg.Consumer.Prefetch, "prefetch", cfg.Consumer.Prefetch, "unacknowledged deliveries held at once")
	return c
}

func (cmd Consume) run(ctx context.Context, cfg *config.Config) error {
	shutdownTelemetry, err := initTelemetry(ctx, cfg, &logger.Config{
		Level:       cfg.LogLevel,
		Env:         cfg.Env,
		ServiceName: serviceName + "-consumer",
	})
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	sender, err := mailer.NewSMTPSender(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	conn, err := queue.NewConnection(queueConfig(cfg))
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("consume: failed to open channel: %w", err)
	}
	deliveries, err := queue.NewConsumerWithRetry(ch, queue.ConsumeWithRetryConfig{
		Queue:      cfg.Queue.Name,
		Consumer:   cfg.Consumer.Name,
		Prefetch:   cfg.Consumer.Prefetch,
		MaxRetries: cfg.Consumer.MaxRetries,
		RetryDelay: cfg.Consumer.RetryDelay,
	})
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	defer deliveries.Close()

	cache, closeCache := connectRedis(ctx, cfg)
	defer closeCache()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := consumer.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("consume: failed to create metrics: %w", err)
	}

	processor := consumer.NewProcessor(sender, consumer.Config{
		QueueName: cfg.Queue.Name,
		Subject:   cfg.SMTP.Subject,
	}, cache, m)

	metricsServer := consumer.NewMetricsServer(cfg.Consumer.MetricsAddr, registry)
	metricsErrCh := metricsServer.Start()
	logger.LogInfo("metrics server listening", zap.String("addr", cfg.Consumer.MetricsAddr))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := deliveries.Consume(gctx, processor.Handle); err != nil {
			return fmt.Errorf("consumer error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
			return gctx.Err()
		case err := <-metricsErrCh:
			if err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		}
	})

	err = g.Wait()

	logger.LogInfo("shutting down metrics server", zap.Int64("processed", processor.Processed()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := metricsServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.LogWarn("metrics server shutdown error", zap.Error(shutdownErr))
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
