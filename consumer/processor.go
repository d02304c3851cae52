// Package consumer turns queued messages into emails.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	rediscache "github.com/octabyte/bm-queue-console/db/redis"
	"github.com/octabyte/bm-queue-console/mailer"
	"github.com/octabyte/bm-queue-console/models"
	otellogger "github.com/octabyte/bm-queue-console/otel/logger"
	"github.com/octabyte/bm-queue-console/queue"
	"github.com/octabyte/bm-queue-console/utils/logger"
)

const (
	previewLength = 50
	tracerName    = "queue-console/consumer"
)

var ErrInvalidMessage = errors.New("invalid queue message")

type Config struct {
	QueueName string
	Subject   string
}

type Processor struct {
	sender    mailer.Sender
	cfg       Config
	cache     redis.Cmdable
	metrics   *Metrics
	processed atomic.Int64
	log       *zap.Logger
}

// NewProcessor returns a processor. cache and metrics may be nil.
func NewProcessor(sender mailer.Sender, cfg Config, cache redis.Cmdable, metrics *Metrics) *Processor {
	return &Processor{
		sender:  sender,
		cfg:     cfg,
		cache:   cache,
		metrics: metrics,
		log:     logger.Named("consumer"),
	}
}

// Handle sends one message as an email. A returned error sends the delivery
// through the retry queue.
func (p *Processor) Handle(ctx context.Context, d queue.Delivery) error {
	if d.RetryCount > 0 {
		p.metrics.redelivered()
	}

	var msg models.QueueMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		p.metrics.observe(StatusInvalid, 0)
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if msg.Email == "" {
		p.metrics.observe(StatusInvalid, 0)
		return fmt.Errorf("%w: missing email", ErrInvalidMessage)
	}

	log := p.log.With(otellogger.WithTraceFields(ctx, []zap.Field{
		zap.String("message_id", d.MessageID),
		zap.String("channel_id", d.ChannelID),
		zap.Int("retry_count", d.RetryCount),
	})...)
	log.Info("message received", zap.String("email", msg.Email), zap.String("preview", Preview(msg.Msg)))

	if err := p.send(ctx, msg); err != nil {
		log.Error("failed to send email", zap.Error(err))
		return err
	}

	total := p.processed.Add(1)
	if p.cache != nil {
		n, err := rediscache.Incr(ctx, p.cache, p.counterKey())
		if err != nil {
			log.Warn("failed to update processed counter", zap.Error(err))
		} else {
			total = n
		}
	}

	log.Info("email sent", zap.String("email", msg.Email), zap.Int64("total_processed", total))
	return nil
}

func (p *Processor) send(ctx context.Context, msg models.QueueMessage) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "smtp send")
	defer span.End()

	start := time.Now()
	err := p.sender.Send(ctx, msg.Email, p.cfg.Subject, renderBody(msg.Msg))
	if err != nil {
		p.metrics.observe(StatusFailed, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	p.metrics.observe(StatusSent, time.Since(start))
	return nil
}

// Processed is the number of messages this process delivered.
func (p *Processor) Processed() int64 {
	return p.processed.Load()
}

func (p *Processor) counterKey() string {
	return "queue-console:processed:" + p.cfg.QueueName
}

// Preview shortens s to its first 50 characters, adding "..." when cut.
func Preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLength {
		return s
	}
	return string(r[:previewLength]) + "..."
}

func renderBody(text string) string {
	return "<html><body><p>" + html.EscapeString(text) + "</p></body></html>"
}
