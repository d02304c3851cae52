package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/octabyte/bm-queue-console/cmd/queue-console/command"
	"github.com/octabyte/bm-queue-console/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	root := &cobra.Command{
		Use:           "queue-console",
		Short:         "Message queue web console, email worker and terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		command.Serve{}.Command(ctx, cfg),
		command.Consume{}.Command(ctx, cfg),
		command.TUI{}.Command(ctx, cfg),
	)

	return root.ExecuteContext(ctx)
}
