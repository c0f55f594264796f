// Package main is the entry point for the qeb query engine bundler.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.trai.ch/qeb/cmd/qeb/commands"
	"go.trai.ch/qeb/internal/app"
	_ "go.trai.ch/qeb/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, err := app.NewComponents(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App)
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}
