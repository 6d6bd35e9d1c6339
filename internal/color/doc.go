// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color decorates text with ANSI escape codes and decides whether color output
// should be used at all.
//
// The package checks the environment variables NO_COLOR and FORCE_COLOR to determine
// if color output should be enabled or disabled. Without either, color is enabled only
// when stdout is a terminal, as reported by the golang.org/x/term package.
//
// Renderers hold a Decorator picked once at construction time (ANSI when color is
// supported, Plain otherwise) and pass a Style snapshot on every draw.
package color
