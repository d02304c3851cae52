// Package echo serves the queue console page and its JSON API.
package echo

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"

	"github.com/octabyte/bm-queue-console/interfaces/http/echo/middleware"
	"github.com/octabyte/bm-queue-console/models"
	otelecho "github.com/octabyte/bm-queue-console/otel/echo"
	"github.com/octabyte/bm-queue-console/queue"
	"github.com/octabyte/bm-queue-console/utils/logger"
	"github.com/octabyte/bm-queue-console/web"
)

type Publisher interface {
	Publish(ctx context.Context, msg queue.Message) (string, error)
}

type StatsProvider interface {
	Stats(ctx context.Context) (models.QueueStats, error)
}

type Config struct {
	Addr        string
	ServiceName string
	// WasmDir: directory holding app.wasm and wasm_exec.js, served on /wasm.
	WasmDir string
	// Tracing enables the OpenTelemetry middleware.
	Tracing bool
	Debug   bool
}

type Server struct {
	cfg       Config
	e         *echo.Echo
	publisher Publisher
	stats     StatsProvider
	validate  *validator.Validate
	log       *zap.Logger
}

func NewServer(cfg Config, publisher Publisher, stats StatsProvider) *Server {
	s := &Server{
		cfg:       cfg,
		e:         echo.New(),
		publisher: publisher,
		stats:     stats,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		log:       logger.Named("http"),
	}

	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.JSONSerializer = jsonSerializer{}
	if cfg.Debug {
		s.e.Logger.SetLevel(log.DEBUG)
	} else {
		s.e.Logger.SetLevel(log.WARN)
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.e.Use(echomw.Recover())
	s.e.Use(middleware.SetRequestIDInContext())
	s.e.Use(middleware.RequestLogger(s.log, isAsset))
	if s.cfg.Tracing {
		s.e.Use(otelecho.Middleware(s.cfg.ServiceName, isAsset))
	}

	s.e.GET("/", s.index)
	s.e.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	if s.cfg.WasmDir != "" {
		s.e.Static("/wasm", s.cfg.WasmDir)
	}

	s.e.GET("/health", s.health)
	s.e.GET("/stats", s.getStats)
	s.e.POST("/publicar", s.publish)
	s.e.POST("/publicar-canal", s.publishToChannel)
}

func isAsset(c echo.Context) bool {
	p := c.Request().URL.Path
	return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/wasm/")
}

// Start serves in the background. The channel receives the error that stopped
// the server, if any, and is closed afterwards.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		s.log.Info("http server listening", zap.String("addr", s.cfg.Addr))
		if err := s.e.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.e
}
