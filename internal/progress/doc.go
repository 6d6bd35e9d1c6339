// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress lets many goroutines report progress to one renderer.
// A Feed queues events on a channel and a single listener goroutine applies
// them, which keeps bar.Renderer and composite.Progress single-writer.
package progress
