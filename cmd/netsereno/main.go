package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/netsereno/internal/core"
	"github.com/mikey/netsereno/internal/di"
	"github.com/mikey/netsereno/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	frontend ports.Frontend,
	generator core.Generator,
) error {
	defer logger.Sync()

	if err := frontend.Start(); err != nil {
		logger.Error("Failed to start front-end", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	if err := frontend.Stop(); err != nil {
		logger.Error("Failed to stop front-end", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := generator.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close generator", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
