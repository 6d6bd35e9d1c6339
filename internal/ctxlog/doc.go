// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger in a context.Context.
//
// The default logger uses PrettyHandler and writes to the late-bound Stderr,
// so records logged while a progress bar owns the terminal are intercepted
// and replayed once the bar finishes.
// The level comes from TERMBAR_LOG_LEVEL, or from <EXECUTABLE>_LOG_LEVEL,
// and defaults to WARN.
package ctxlog
