package command

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octabyte/bm-queue-console/config"
	"github.com/octabyte/bm-queue-console/enums"
	httpserver "github.com/octabyte/bm-queue-console/interfaces/http/echo"
	"github.com/octabyte/bm-queue-console/queue"
	"github.com/octabyte/bm-queue-console/stats"
	"github.com/octabyte/bm-queue-console/utils/logger"
)

const serveLong = `Run the web console and its API.

The page is driven by the console controller compiled to WebAssembly. Build it
and collect the Go runtime shim into one directory, then pass it as --wasm-dir
(or CONSOLE_WASM_DIR):

  mkdir -p dist
  GOOS=js GOARCH=wasm go build -o dist/app.wasm ./cmd/console-wasm
  cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" dist/

Go releases before 1.24 ship wasm_exec.js under misc/wasm instead of lib/wasm.
Without --wasm-dir the page loads but stats and forms stay inert.`

type Serve struct{}

func (cmd Serve) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the web console and its API",
		Long:  serveLong,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.run(ctx, cfg)
		},
	}
	c.Flags().StringVar(&cfg.HTTP.Addr, "addr", cfg.HTTP.Addr, "HTTP listen address")
	c.Flags().StringVar(&cfg.HTTP.WasmDir, "wasm-dir", cfg.HTTP.WasmDir, "directory with app.wasm (GOOS=js GOARCH=wasm build of ./cmd/console-wasm) and wasm_exec.js, served on /wasm")
	return c
}

func (cmd Serve) run(ctx context.Context, cfg *config.Config) error {
	shutdownTelemetry, err := initTelemetry(ctx, cfg, &logger.Config{
		Level:       cfg.LogLevel,
		Env:         cfg.Env,
		ServiceName: serviceName,
	})
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	conn, err := queue.NewConnection(queueConfig(cfg))
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("serve: failed to open publish channel: %w", err)
	}
	publisher, err := queue.NewPublisher(ch, queue.PublishConfig{
		RoutingKey:   cfg.Queue.Name,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Confirm:      true,
	})
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer publisher.Close()

	if cfg.HTTP.WasmDir == "" {
		logger.LogWarn("no wasm directory configured, the page will not be interactive; see serve --help")
	}

	cache, closeCache := connectRedis(ctx, cfg)
	defer closeCache()

	statsService := stats.NewService(queue.NewInspector(conn.Conn, cfg.Queue.Name), cache, stats.Config{
		QueueName:   cfg.Queue.Name,
		DisplayName: cfg.Queue.DisplayName,
		Region:      cfg.Queue.Region,
		CacheTTL:    cfg.Redis.StatsTTL,
	})

	server := httpserver.NewServer(httpserver.Config{
		Addr:        cfg.HTTP.Addr,
		ServiceName: serviceName,
		WasmDir:     cfg.HTTP.WasmDir,
		Tracing:     cfg.Otel.Enabled,
		Debug:       cfg.LogLevel == enums.LogLevelDebug,
	}, publisher, statsService)

	errCh := server.Start()
	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	logger.LogInfo("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.LogWarn("http server shutdown error", zap.Error(shutdownErr))
	}

	return err
}
