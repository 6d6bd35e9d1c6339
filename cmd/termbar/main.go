// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the termbar command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/termbar"
	"github.com/matt-FFFFFF/termbar/cmd/termbar/demo"
	"github.com/matt-FFFFFF/termbar/cmd/termbar/profile"
	"github.com/matt-FFFFFF/termbar/internal/ctxlog"
	"github.com/matt-FFFFFF/termbar/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		demo.DemoCmd,
		profile.ProfileCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "termbar",
	Description: `termbar draws progress bars that share the terminal safely.
One bar at a time owns standard output and standard error; everything else
written meanwhile is held back and printed once the bar is done.`,
	Usage:     "termbar demo master-detail",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
	Flags:                 []cli.Flag{newLogFormatFlag()},
	Before:                useLogFormat,
}

const logFormatFlag = "log-format"

func newLogFormatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    logFormatFlag,
		Usage:   "Log record format: text or json.",
		Sources: cli.EnvVars("TERMBAR_LOG_FORMAT"),
		Value:   ctxlog.FormatText,
	}
}

// useLogFormat replaces the logger in the context with the one selected by --log-format.
func useLogFormat(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logger, err := ctxlog.ForFormat(cmd.String(logFormatFlag))
	if err != nil {
		return ctx, cli.Exit(err.Error(), 1)
	}

	return ctxlog.New(ctx, logger), nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)
	defer signalbroker.Stop(sigCh)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", termbar.Version, termbar.Commit)

	err := rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(signalbroker.ExitCode) //nolint:gocritic
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	ctxlog.Logger(ctx).Info("command completed successfully")
}
