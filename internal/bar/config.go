// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package bar

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/termbar/internal/color"
	"github.com/matt-FFFFFF/termbar/internal/console"
	"github.com/matt-FFFFFF/termbar/internal/ctxlog"
	"github.com/matt-FFFFFF/termbar/internal/terminal"
)

// ErrInvalidConfig is returned by New when options are inconsistent.
var ErrInvalidConfig = errors.New("invalid bar configuration")

// Defaults.
const (
	DefaultWidth = 32
	DefaultMax   = 100
	DefaultFill  = '_'
	DefaultChar  = ' '
	NoColorFill  = '-'
	NoColorChar  = '*'
)

// Placement is where the status text goes relative to the bar.
type Placement int

const (
	// StatusBefore prints the status on its own line above the bar.
	StatusBefore Placement = iota
	// StatusInline prints the status after the bar on the same line.
	StatusInline
	// StatusAfter prints the status on its own line below the bar.
	StatusAfter
)

// String implements the Stringer interface for Placement.
func (p Placement) String() string {
	switch p {
	case StatusBefore:
		return "before"
	case StatusInline:
		return "inline"
	case StatusAfter:
		return "after"
	default:
		return fmt.Sprintf("placement(%d)", int(p))
	}
}

// ParsePlacement converts a name produced by Placement.String back into a Placement.
func ParsePlacement(s string) (Placement, error) {
	for _, p := range []Placement{StatusBefore, StatusInline, StatusAfter} {
		if p.String() == s {
			return p, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown status placement %q", ErrInvalidConfig, s)
}

// Arbiter hands out terminal ownership. *terminal.Arbiter implements it.
type Arbiter interface {
	Claim(wantStdout, wantStderr bool) terminal.Token
	Release(t terminal.Token) error
	// Stdout returns the currently visible standard output.
	Stdout() io.Writer
}

// Config is the construction-time configuration of a Renderer.
// It is not modified once the Renderer is built.
type Config struct {
	Width           int
	Max             int
	Fill            rune
	Char            rune
	Begin           string
	End             string
	Percent         bool
	Placement       Placement
	Batch           bool
	Header          bool
	ClaimStdout     bool
	ClaimStderr     bool
	KeepSingleColor bool
	Style           color.Style
	StatusStyle     color.Style
	Caps            console.Capabilities
	Arbiter         Arbiter
	Logger          *slog.Logger
}

// DefaultConfig returns the configuration used when no options are given.
// Batch mode and capabilities are read from the environment.
func DefaultConfig() Config {
	return Config{
		Width:       DefaultWidth,
		Max:         DefaultMax,
		Fill:        DefaultFill,
		Char:        DefaultChar,
		Percent:     true,
		Placement:   StatusBefore,
		Batch:       console.BatchFromEnv(),
		ClaimStdout: true,
		ClaimStderr: true,
		Style:       color.Style{Bg: color.BgGreen},
		Caps:        console.Process(),
	}
}

// Option implements a functional options pattern for Config.
type Option func(c *Config)

// WithWidth sets the number of cells of the bar.
func WithWidth(w int) Option {
	return func(c *Config) {
		c.Width = w
	}
}

// WithMax sets the value that represents completion.
func WithMax(m int) Option {
	return func(c *Config) {
		c.Max = m
	}
}

// WithFill sets the character drawn for remaining work and in the batch header.
func WithFill(r rune) Option {
	return func(c *Config) {
		c.Fill = r
	}
}

// WithChar sets the character drawn for completed work.
func WithChar(r rune) Option {
	return func(c *Config) {
		c.Char = r
	}
}

// WithMarkers sets the strings printed before and after the bar.
func WithMarkers(begin, end string) Option {
	return func(c *Config) {
		c.Begin = begin
		c.End = end
	}
}

// WithoutPercent disables the percentage shown by in-place bars.
func WithoutPercent() Option {
	return func(c *Config) {
		c.Percent = false
	}
}

// WithStatusPlacement sets where in-place bars print their status.
func WithStatusPlacement(p Placement) Option {
	return func(c *Config) {
		c.Placement = p
	}
}

// WithBatch selects the append-only strategy.
func WithBatch(b bool) Option {
	return func(c *Config) {
		c.Batch = b
	}
}

// WithHeader makes batch bars print a scale line of fill characters first.
func WithHeader() Option {
	return func(c *Config) {
		c.Header = true
	}
}

// WithClaims selects which streams Begin asks the arbiter for.
func WithClaims(stdout, stderr bool) Option {
	return func(c *Config) {
		c.ClaimStdout = stdout
		c.ClaimStderr = stderr
	}
}

// WithoutClaims draws without intercepting other writers.
func WithoutClaims() Option {
	return WithClaims(false, false)
}

// WithKeepSingleColor restyles the whole bar with the current style on each draw.
func WithKeepSingleColor() Option {
	return func(c *Config) {
		c.KeepSingleColor = true
	}
}

// WithStyle sets the initial style of completed cells.
func WithStyle(s color.Style) Option {
	return func(c *Config) {
		c.Style = s.Clone()
	}
}

// WithStatusStyle sets the style of the status text and percentage.
func WithStatusStyle(s color.Style) Option {
	return func(c *Config) {
		c.StatusStyle = s.Clone()
	}
}

// WithCapabilities overrides console detection.
func WithCapabilities(caps console.Capabilities) Option {
	return func(c *Config) {
		c.Caps = caps
	}
}

// WithArbiter sets the arbiter used by Begin. The default is terminal.Default().
func WithArbiter(a Arbiter) Option {
	return func(c *Config) {
		c.Arbiter = a
	}
}

// WithLogger sets the logger for ownership and drawing diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// Validate reports every inconsistency in c.
func (c Config) Validate() error {
	var result *multierror.Error

	if c.Width <= 0 {
		result = multierror.Append(result, fmt.Errorf("%w: width must be positive, got %d", ErrInvalidConfig, c.Width))
	}

	if c.Max <= 0 {
		result = multierror.Append(result, fmt.Errorf("%w: max must be positive, got %d", ErrInvalidConfig, c.Max))
	}

	if w := console.Width(string(c.Fill)); w != 1 {
		result = multierror.Append(result, fmt.Errorf("%w: fill %q must occupy one cell, occupies %d", ErrInvalidConfig, c.Fill, w))
	}

	if w := console.Width(string(c.Char)); w != 1 {
		result = multierror.Append(result, fmt.Errorf("%w: progress char %q must occupy one cell, occupies %d", ErrInvalidConfig, c.Char, w))
	}

	if c.Placement < StatusBefore || c.Placement > StatusAfter {
		result = multierror.Append(result, fmt.Errorf("%w: unknown status placement %d", ErrInvalidConfig, c.Placement))
	}

	return result.ErrorOrNil()
}

// adapt downgrades the configuration to what the console can show.
func (c Config) adapt() Config {
	if !c.Caps.Color {
		c.Style = color.Style{}
		c.StatusStyle = color.Style{}
		c.Char = noColorChar(c.Char)

		if c.Fill == DefaultFill {
			c.Fill = NoColorFill
		}
	}

	if !c.Caps.Cursor {
		c.Placement = StatusInline
	}

	if c.Arbiter == nil {
		c.Arbiter = terminal.Default()
	}

	if c.Logger == nil {
		c.Logger = ctxlog.DefaultLogger
	}

	return c
}

// noColorChar replaces characters that are invisible without a background color.
func noColorChar(r rune) rune {
	if r == DefaultChar {
		return NoColorChar
	}

	return r
}
