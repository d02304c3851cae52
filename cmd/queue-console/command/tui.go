package command

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/octabyte/bm-queue-console/config"
	"github.com/octabyte/bm-queue-console/console"
	"github.com/octabyte/bm-queue-console/enums"
	"github.com/octabyte/bm-queue-console/tui"
	"github.com/octabyte/bm-queue-console/utils/logger"
)

type TUI struct{}

func (cmd TUI) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	c := &cobra.Command{
		Use:   "tui",
		Short: "Open the console in the terminal against a running server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.run(ctx, cfg)
		},
	}
	c.Flags().StringVar(&cfg.Console.ServerURL, "server", cfg.Console.ServerURL, "console server base URL")
	c.Flags().BoolVar(&cfg.Console.ValidateEmail, "validate-email", cfg.Console.ValidateEmail, "reject malformed email addresses before sending")
	return c
}

func (cmd TUI) run(ctx context.Context, cfg *config.Config) error {
	shutdownTelemetry, err := initTelemetry(ctx, cfg, &logger.Config{
		Level:       cfg.LogLevel,
		Env:         cfg.Env,
		ServiceName: serviceName + "-tui",
		Encoding:    enums.LogEncodingConsole,
		OutputPath:  cfg.Console.LogFile,
	})
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	api := console.NewClient(cfg.Console.ServerURL, cfg.Console.Timeout)
	model := tui.New(ctx, api, console.Options{ValidateEmail: cfg.Console.ValidateEmail})

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
