package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/crossdeploy/internal/app"
	"github.com/vk/crossdeploy/internal/cli"
	"github.com/vk/crossdeploy/internal/hcl"
)

// main is the entrypoint for the crossdeploy application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	env, err := app.LoadEnvSettings(ctx)
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	appConfig, shouldExit, err := cli.Parse(ctx, args, outW, env)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Instantiate the concrete HCL loader to pass to the app.
	loader := hcl.NewLoader()
	return app.NewApp(outW, errW, appConfig, loader).Run(ctx)
}
