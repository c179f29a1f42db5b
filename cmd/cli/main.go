// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/expconf/conf"
	"github.com/specialistvlad/expconf/internal/app"
	"github.com/specialistvlad/expconf/internal/cli"
	"github.com/specialistvlad/expconf/internal/config"
	"github.com/specialistvlad/expconf/internal/loader"
)

// main is the entrypoint for the expconf application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitFailure)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Recover from unexpected panics so the user gets a clean message and a
	// failure exit code instead of a stack trace.
	defer func() {
		if r := recover(); r != nil {
			err = &cli.ExitError{Code: cli.ExitFailure, Message: fmt.Sprintf("application startup panicked | %v", r)}
		}
	}()

	expconfApp, err := app.NewApp(outW, errW, appConfig, newLoader(appConfig.ConfDir))
	if err != nil {
		return err
	}
	return expconfApp.Run(ctx)
}

// newLoader reads the conf tree from dir, or the bundled tree when dir is
// empty.
func newLoader(dir string) config.Loader {
	if dir == "" {
		return loader.New(conf.FS(), ".")
	}
	return loader.NewOS(dir)
}
