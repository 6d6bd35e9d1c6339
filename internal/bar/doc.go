// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package bar renders a single progress bar to a terminal.
//
// A Renderer moves through Idle, Active and then Finished or Cancelled.
// Begin claims the terminal through an Arbiter; when the claim is denied the
// renderer runs degraded, recording updates and drawing a single frame when it
// ends. Two drawing strategies exist: in-place rewrites the bar using cursor
// movement, batch only ever appends characters and suits CI logs.
//
// A Renderer is single-writer. Callers that update from several goroutines
// must serialize their calls, for example through a progress.Feed.
package bar
