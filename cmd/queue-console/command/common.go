package command

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/octabyte/bm-queue-console/config"
	rediscache "github.com/octabyte/bm-queue-console/db/redis"
	"github.com/octabyte/bm-queue-console/otel"
	"github.com/octabyte/bm-queue-console/otel/metrics"
	"github.com/octabyte/bm-queue-console/queue"
	"github.com/octabyte/bm-queue-console/utils/logger"
)

const serviceName = "queue-console"

// initTelemetry starts logging and, when enabled, OpenTelemetry. The returned
// function flushes both.
func initTelemetry(ctx context.Context, cfg *config.Config, logCfg *logger.Config) (func(), error) {
	logger.Init(logCfg)

	shutdown, err := otel.InitOpenTelemetry(ctx, otel.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		Endpoint:    cfg.Otel.Endpoint,
		ServiceName: logCfg.ServiceName,
		Headers:     cfg.Otel.Headers,
		Environment: cfg.Env,
		SampleRate:  cfg.Otel.SampleRate,
	})
	if err != nil {
		logger.Sync()
		return nil, err
	}

	if cfg.Otel.Enabled {
		if err := metrics.Init(logCfg.ServiceName); err != nil {
			logger.LogWarn("failed to create otel instruments", zap.Error(err))
		}
	}

	return func() {
		shutdown()
		logger.Sync()
	}, nil
}

func queueConfig(cfg *config.Config) queue.ConnectionConfig {
	return queue.ConnectionConfig{
		URI: cfg.Queue.URI,
		QueueConfig: &queue.Config{
			Name:    cfg.Queue.Name,
			Durable: cfg.Queue.Durable,
		},
	}
}

// connectRedis returns a nil Cmdable when Redis is not configured or not
// reachable; callers then run without cache.
func connectRedis(ctx context.Context, cfg *config.Config) (redis.Cmdable, func()) {
	if cfg.Redis.Addr == "" {
		return nil, func() {}
	}

	client, err := rediscache.NewRedisClient(ctx, rediscache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.LogWarn("redis unavailable, continuing without cache", zap.Error(err))
		return nil, func() {}
	}

	return client, func() { _ = client.Close() }
}
