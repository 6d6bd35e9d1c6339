// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/termbar/internal/ctxlog"
)

// ExitCode is used when a signal is received twice.
const ExitCode = 130

// exitFunc is replaced in tests.
var exitFunc = os.Exit

// Watch monitors the signal channel until it is closed.
// The first signal cancels the context. A second signal of the same type
// exits the process with ExitCode.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Logger(ctx).Warn("watchdog", "detail", "received second signal of type, exiting", "signal", sig.String())
			exitFunc(ExitCode)

			return
		}

		ctxlog.Logger(ctx).Info("watchdog", "detail", "received signal, cancelling", "signal", sig.String())

		seen[sig] = struct{}{}

		cancel()
	}
}
