package consumer

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer exposes /metrics and /health for the worker.
type MetricsServer struct {
	addr string
	e    *echo.Echo
}

func NewMetricsServer(addr string, gatherer prometheus.Gatherer) *MetricsServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})))
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	return &MetricsServer{addr: addr, e: e}
}

// Start serves in the background. The channel receives the error that stopped
// the server, if any, and is closed afterwards.
func (s *MetricsServer) Start() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.e.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// Handler returns the router without binding a port.
func (s *MetricsServer) Handler() http.Handler {
	return s.e
}
