// Package stats builds the queue snapshot served on /stats.
package stats

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	rediscache "github.com/octabyte/bm-queue-console/db/redis"
	"github.com/octabyte/bm-queue-console/models"
	"github.com/octabyte/bm-queue-console/queue"
	"github.com/octabyte/bm-queue-console/utils/logger"
)

const keyPrefix = "queue-console:"

type Config struct {
	QueueName   string
	DisplayName string
	Region      string
	// CacheTTL: how long a snapshot is served from Redis. Zero disables caching.
	CacheTTL time.Duration
}

type Service struct {
	inspector queue.Inspector
	cache     redis.Cmdable
	cfg       Config
	started   time.Time
	now       func() time.Time
	log       *zap.Logger
}

// NewService returns a stats service. cache may be nil.
func NewService(inspector queue.Inspector, cache redis.Cmdable, cfg Config) *Service {
	if cfg.DisplayName == "" {
		cfg.DisplayName = cfg.QueueName
	}

	return &Service{
		inspector: inspector,
		cache:     cache,
		cfg:       cfg,
		started:   time.Now(),
		now:       time.Now,
		log:       logger.Named("stats"),
	}
}

func (s *Service) Stats(ctx context.Context) (models.QueueStats, error) {
	if s.cache != nil && s.cfg.CacheTTL > 0 {
		var cached models.QueueStats
		err := rediscache.GetJSON(ctx, s.cache, s.snapshotKey(), &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, rediscache.ErrCacheMiss) {
			s.log.Warn("stats cache read failed", zap.Error(err))
		}
	}

	state, err := s.inspector.Inspect(ctx)
	if err != nil {
		return models.QueueStats{}, err
	}

	snapshot := models.QueueStats{
		Nome:         s.cfg.DisplayName,
		Estado:       string(state.State),
		Criado:       s.createdAt(ctx).Format(time.RFC3339),
		Regiao:       s.cfg.Region,
		Mensagens:    state.Messages,
		Consumidores: state.Consumers,
	}

	if s.cache != nil && s.cfg.CacheTTL > 0 {
		if err := rediscache.SetJSON(ctx, s.cache, s.snapshotKey(), snapshot, s.cfg.CacheTTL); err != nil {
			s.log.Warn("stats cache write failed", zap.Error(err))
		}
	}

	return snapshot, nil
}

// createdAt is the first time any console saw the queue, or the process start
// when no cache is configured.
func (s *Service) createdAt(ctx context.Context) time.Time {
	if s.cache == nil {
		return s.started
	}

	created, err := rediscache.FirstSeen(ctx, s.cache, keyPrefix+"created:"+s.cfg.QueueName, s.now())
	if err != nil {
		s.log.Warn("failed to read queue creation time", zap.Error(err))
		return s.started
	}
	return created
}

func (s *Service) snapshotKey() string {
	return keyPrefix + "stats:" + s.cfg.QueueName
}
