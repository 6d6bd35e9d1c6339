// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package terminal arbitrates ownership of the process's output streams.
//
// At most one progress renderer owns the terminal at a time. While it does, the
// streams it claimed are diverted into interception buffers, so code that writes
// to os.Stdout or os.Stderr concurrently cannot tear the animation. The owner keeps
// writing to the original handles. When ownership is released the original handles
// are restored and whatever was intercepted is written out exactly once.
//
// Claims never block: a second claimant is denied and is expected to fall back to
// drawing a single final frame.
//
// FileTarget swaps the os.Stdout and os.Stderr variables. Writers that captured
// the *os.File before a claim keep writing to the real stream and are not intercepted.
package terminal
