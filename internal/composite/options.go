// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package composite

import (
	"fmt"
	"log/slog"

	"github.com/matt-FFFFFF/termbar/internal/bar"
	"github.com/matt-FFFFFF/termbar/internal/console"
	"github.com/matt-FFFFFF/termbar/internal/ctxlog"
	"github.com/matt-FFFFFF/termbar/internal/terminal"
)

// FoldPolicy decides how much of an outgoing task counts towards the overall progress.
type FoldPolicy int

const (
	// FoldLastSeen adds the last progress reported for the task.
	FoldLastSeen FoldPolicy = iota
	// FoldComplete adds the task's maximum whatever was reported.
	FoldComplete
)

// String implements the Stringer interface for FoldPolicy.
func (f FoldPolicy) String() string {
	switch f {
	case FoldLastSeen:
		return "last-seen"
	case FoldComplete:
		return "complete"
	default:
		return fmt.Sprintf("fold(%d)", int(f))
	}
}

// ParseFoldPolicy converts a name produced by FoldPolicy.String back into a FoldPolicy.
func ParseFoldPolicy(s string) (FoldPolicy, error) {
	switch s {
	case FoldLastSeen.String():
		return FoldLastSeen, nil
	case FoldComplete.String():
		return FoldComplete, nil
	default:
		return 0, fmt.Errorf("%w: unknown fold policy %q", bar.ErrInvalidConfig, s)
	}
}

// Config is the construction-time configuration of a Progress.
type Config struct {
	// Master and Child are applied to the master bar and to every child bar.
	// Claims, batch mode, status placement and the child maximum are overridden.
	Master      []bar.Option
	Child       []bar.Option
	Batch       bool
	ClaimStdout bool
	ClaimStderr bool
	Fold        FoldPolicy
	Caps        console.Capabilities
	Arbiter     bar.Arbiter
	Logger      *slog.Logger
}

// Option implements a functional options pattern for Config.
type Option func(c *Config)

// WithMaster adds options for the master bar, usually including bar.WithMax.
func WithMaster(opts ...bar.Option) Option {
	return func(c *Config) {
		c.Master = append(c.Master, opts...)
	}
}

// WithChild adds options for every child bar.
func WithChild(opts ...bar.Option) Option {
	return func(c *Config) {
		c.Child = append(c.Child, opts...)
	}
}

// WithBatch selects batch mode, in which only the master is drawn.
func WithBatch(b bool) Option {
	return func(c *Config) {
		c.Batch = b
	}
}

// WithClaims selects which streams Begin asks the arbiter for.
func WithClaims(stdout, stderr bool) Option {
	return func(c *Config) {
		c.ClaimStdout = stdout
		c.ClaimStderr = stderr
	}
}

// WithFoldPolicy sets how finished tasks count towards the overall progress.
func WithFoldPolicy(f FoldPolicy) Option {
	return func(c *Config) {
		c.Fold = f
	}
}

// WithCapabilities overrides console detection for the composite and its bars.
func WithCapabilities(caps console.Capabilities) Option {
	return func(c *Config) {
		c.Caps = caps
	}
}

// WithArbiter sets the arbiter used by Begin.
func WithArbiter(a bar.Arbiter) Option {
	return func(c *Config) {
		c.Arbiter = a
	}
}

// WithLogger sets the logger for the composite and its bars.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func defaultConfig() Config {
	return Config{
		Batch:       console.BatchFromEnv(),
		ClaimStdout: true,
		ClaimStderr: true,
		Fold:        FoldLastSeen,
		Caps:        console.Process(),
		Arbiter:     terminal.Default(),
		Logger:      ctxlog.DefaultLogger,
	}
}

// masterOptions returns the options of the master bar with the composite's overrides last.
func (c Config) masterOptions(batch bool) []bar.Option {
	return append(append([]bar.Option{}, c.Master...),
		bar.WithoutClaims(),
		bar.WithStatusPlacement(bar.StatusInline),
		bar.WithBatch(batch),
		bar.WithCapabilities(c.Caps),
		bar.WithArbiter(c.Arbiter),
		bar.WithLogger(c.Logger),
	)
}

// childOptions returns the options of a child bar for a task with the given maximum.
func (c Config) childOptions(maxValue int) []bar.Option {
	return append(append([]bar.Option{}, c.Child...),
		bar.WithMax(maxValue),
		bar.WithoutClaims(),
		bar.WithStatusPlacement(bar.StatusBefore),
		bar.WithBatch(false),
		bar.WithCapabilities(c.Caps),
		bar.WithArbiter(c.Arbiter),
		bar.WithLogger(c.Logger),
	)
}
