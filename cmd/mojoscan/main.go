package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mojoscan.dev/cli/internal/interfaces/cli"
	"mojoscan.dev/cli/internal/interfaces/di"
)

func main() {
	container, err := di.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx, container.GetCLIContainer())
}
