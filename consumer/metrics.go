package consumer

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "queue_console"

	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusInvalid = "invalid"
)

type Metrics struct {
	messagesProcessed *prometheus.CounterVec
	sendDuration      prometheus.Histogram
	retries           prometheus.Counter
}

// NewMetrics creates the consumer collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		messagesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "consumer",
			Name:      "messages_processed_total",
			Help:      "Messages handled by the consumer, by outcome.",
		}, []string{"status"}),
		sendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "consumer",
			Name:      "email_send_duration_seconds",
			Help:      "Time spent delivering one email over SMTP.",
			Buckets:   prometheus.DefBuckets,
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "consumer",
			Name:      "redeliveries_total",
			Help:      "Deliveries that arrived through the retry queue.",
		}),
	}

	if err := errors.Join(
		reg.Register(m.messagesProcessed),
		reg.Register(m.sendDuration),
		reg.Register(m.retries),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) observe(status string, sendTime time.Duration) {
	if m == nil {
		return
	}
	m.messagesProcessed.WithLabelValues(status).Inc()
	if sendTime > 0 {
		m.sendDuration.Observe(sendTime.Seconds())
	}
}

func (m *Metrics) redelivered() {
	if m == nil {
		return
	}
	m.retries.Inc()
}
