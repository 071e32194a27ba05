package main

import (
	"context"
	"log"

	"github.com/sundayezeilo/toolbench/internal/app"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	application, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Shutdown(); err != nil {
			application.Logger.Error("shutdown failed", "error", err)
		}
	}()

	// Blocks until SIGINT/SIGTERM.
	return application.Start(ctx)
}
