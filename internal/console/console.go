// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package console

import (
	"os"
	"strconv"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/matt-FFFFFF/termbar/internal/color"
	"golang.org/x/term"
)

const (
	// BatchEnv forces (or, when false, suppresses) batch rendering.
	BatchEnv = "TERMBAR_BATCH"
	// TermEnv is consulted for dumb terminals that cannot move the cursor.
	TermEnv = "TERM"
)

// ciMarkers are environment variables set by CI systems whose logs cannot rewrite lines.
var ciMarkers = []string{
	"HUDSON_URL",
	"JENKINS_URL",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"TF_BUILD",
	"BUILDKITE",
}

// Cursor control sequences.
var (
	CursorUp       = ansi.CursorUp(1)
	CursorDown     = ansi.CursorDown(1)
	CarriageReturn = "\r"
)

// Capabilities describes what the attached console supports.
type Capabilities struct {
	// Cursor is true when previously printed lines can be rewritten.
	Cursor bool
	// Color is true when ANSI styling is rendered.
	Color bool
}

// Full is the capability set of a modern interactive terminal.
var Full = Capabilities{Cursor: true, Color: true}

// isTerminal is swapped in tests.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// stdout is captured before main runs. A claimed terminal replaces os.Stdout
// with a pipe, which must not change what the console supports.
var stdout = os.Stdout

// Detect inspects the environment and the process's original standard output.
func Detect() Capabilities {
	tty := isTerminal(stdout)

	return Capabilities{
		Cursor: tty && os.Getenv(TermEnv) != "dumb",
		Color:  color.CapableFor(tty),
	}
}

var detected = sync.OnceValue(Detect)

// Process returns the capabilities detected on first use. Renderers use it as
// their default so every bar in the process agrees on cursor and color support.
func Process() Capabilities {
	return detected()
}

// BatchFromEnv reports whether batch rendering should be the default.
// An explicit TERMBAR_BATCH value wins over CI detection.
func BatchFromEnv() bool {
	if v, ok := os.LookupEnv(BatchEnv); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}

	for _, m := range ciMarkers {
		if _, ok := os.LookupEnv(m); ok {
			return true
		}
	}

	return false
}

// Width returns the number of terminal cells the string occupies, ignoring escape sequences.
func Width(s string) int {
	return ansi.StringWidth(s)
}
