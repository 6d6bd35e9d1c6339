// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package capture provides a Reader that records everything read through it while
// keeping track of complete lines. The terminal arbiter drains interception pipes
// through it so that output written by other code while a progress bar owns the
// terminal can be replayed verbatim afterwards.
package capture
