// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/studyhall-dev/studyhall/cmd/studyhall/cli"
	"github.com/studyhall-dev/studyhall/cmd/studyhall/commands"
	"github.com/studyhall-dev/studyhall/lib/config"
)

func main() {
	if err := run(); err != nil {
		// Commands that already printed their own output return an
		// ExitError; don't add a redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env in the working directory can set STUDYHALL_SERVER and
	// friends for development; missing files are fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The log level comes from the config file when it loads; load
	// errors surface later from the command's own Connect call, with a
	// default-level logger in the meantime.
	level := "info"
	if cfg, err := config.Load(); err == nil {
		level = cfg.LogLevel
	}

	logger := cli.NewCommandLogger(level)
	return commands.Root().Execute(ctx, os.Args[1:], logger)
}
