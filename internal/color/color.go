// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	sbPadding = 16 // padding for the strings.Builder
)

// Code represents an ANSI control code for text formatting.
type Code int

const (
	// NoColorEnv is the environment variable that disables color output.
	NoColorEnv = "NO_COLOR"
	// ForceColorEnv is the environment variable that forces color output.
	ForceColorEnv = "FORCE_COLOR"
	reset         = "\033[0m"
	prefix        = "\033["
	suffix        = "m"
)

// Control codes for text formatting.
const (
	Reset Code = iota
	Bold
	Faint
	Italic
	Underline
	BlinkSlow
	BlinkRapid
	ReverseVideo
	Concealed
	CrossedOut
)

// Foreground text colors.
const (
	FgBlack Code = iota + 30
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// Foreground Hi-Intensity text colors.
const (
	FgHiBlack Code = iota + 90
	FgHiRed
	FgHiGreen
	FgHiYellow
	FgHiBlue
	FgHiMagenta
	FgHiCyan
	FgHiWhite
)

// Background text colors.
const (
	BgBlack Code = iota + 40
	BgRed
	BgGreen
	BgYellow
	BgBlue
	BgMagenta
	BgCyan
	BgWhite
)

// Background Hi-Intensity text colors.
const (
	BgHiBlack Code = iota + 100
	BgHiRed
	BgHiGreen
	BgHiYellow
	BgHiBlue
	BgHiMagenta
	BgHiCyan
	BgHiWhite
)

// stdout is the process's standard output as it was before any stream was diverted.
var stdout = os.Stdout

var enabled bool

func init() {
	enabled = isColorCapable()
}

func colorize(str string, colorCodes []Code) string {
	if len(colorCodes) == 0 {
		return str
	}

	sb := strings.Builder{}
	sb.Grow(len(str) + len(prefix) + len(suffix) + len(reset) + sbPadding)
	sb.WriteString(prefix)

	for i, code := range colorCodes {
		if i > 0 {
			sb.WriteString(";")
		}

		sb.WriteString(strconv.Itoa(int(code)))
	}

	sb.WriteString(suffix)
	sb.WriteString(str)
	sb.WriteString(reset)

	return sb.String()
}

// Enabled is a function that indicates whether color output is enabled.
// It is initialized in package init().
//
// It is set to false if the NO_COLOR environment variable is set.
// Otherwise it is set to true if FORCE_COLOR is set or if stdout is a terminal.
// Terminal detection is done using the golang.org/x/term package.
func Enabled() bool {
	return enabled
}

// CapableFor evaluates NO_COLOR and FORCE_COLOR for an output whose terminal status is tty.
func CapableFor(tty bool) bool {
	if nc := os.Getenv(NoColorEnv); nc != "" {
		return false
	}

	if fc := os.Getenv(ForceColorEnv); fc != "" {
		return true
	}

	return tty
}

func isColorCapable() bool {
	return CapableFor(term.IsTerminal(int(stdout.Fd())))
}
