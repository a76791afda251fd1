package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/netsereno/internal/adapters/cli"
	"github.com/mikey/netsereno/internal/core"
	"github.com/mikey/netsereno/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(func(
		logger *zap.Logger,
		runner *cli.Runner,
		generator core.Generator,
	) error {
		defer logger.Sync()

		if closer, ok := generator.(io.Closer); ok {
			defer func() {
				if err := closer.Close(); err != nil {
					logger.Error("Failed to close generator", zap.Error(err))
				}
			}()
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		_, err := runner.Run(ctx, flags.Request())
		return err
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
