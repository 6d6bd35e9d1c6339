// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/termbar/internal/bar"
	"github.com/matt-FFFFFF/termbar/internal/composite"
)

var (
	// ErrInvalidProfile is returned when a profile cannot be converted to options.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrUnknownProfile is returned when a named profile does not exist.
	ErrUnknownProfile = errors.New("unknown profile")
)

// Definition is the root of a profile file.
type Definition struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Profiles    map[string]Profile `yaml:"profiles"`
}

// Profile describes the look and behaviour of a bar. Nil and empty fields keep the defaults.
type Profile struct {
	Description     string          `yaml:"description,omitempty"`
	Width           *int            `yaml:"width,omitempty"`
	Max             *int            `yaml:"max,omitempty"`
	Fill            string          `yaml:"fill,omitempty"`
	Char            string          `yaml:"char,omitempty"`
	Begin           *string         `yaml:"begin,omitempty"`
	End             *string         `yaml:"end,omitempty"`
	Percent         *bool           `yaml:"percent,omitempty"`
	Status          string          `yaml:"status,omitempty"`
	Batch           *bool           `yaml:"batch,omitempty"`
	Header          bool            `yaml:"header,omitempty"`
	ClaimStdout     *bool           `yaml:"claim_stdout,omitempty"`
	ClaimStderr     *bool           `yaml:"claim_stderr,omitempty"`
	KeepSingleColor bool            `yaml:"keep_single_color,omitempty"`
	Style           StyleDefinition `yaml:"style,omitempty"`
	StatusStyle     StyleDefinition `yaml:"status_style,omitempty"`

	// Fold and Task only apply when the profile drives a composite.
	// Task names the profile used for the per-task bars.
	Fold string `yaml:"fold,omitempty"`
	Task string `yaml:"task,omitempty"`
}

// BarOptions converts the profile into bar options.
func (p Profile) BarOptions() ([]bar.Option, error) {
	var (
		opts   []bar.Option
		result *multierror.Error
	)

	if p.Width != nil {
		opts = append(opts, bar.WithWidth(*p.Width))
	}

	if p.Max != nil {
		opts = append(opts, bar.WithMax(*p.Max))
	}

	if p.Fill != "" {
		r, err := singleRune("fill", p.Fill)
		if err != nil {
			result = multierror.Append(result, err)
		}

		opts = append(opts, bar.WithFill(r))
	}

	if p.Char != "" {
		r, err := singleRune("char", p.Char)
		if err != nil {
			result = multierror.Append(result, err)
		}

		opts = append(opts, bar.WithChar(r))
	}

	if p.Begin != nil || p.End != nil {
		opts = append(opts, bar.WithMarkers(deref(p.Begin, ""), deref(p.End, "")))
	}

	if !deref(p.Percent, true) {
		opts = append(opts, bar.WithoutPercent())
	}

	if p.Status != "" {
		placement, err := bar.ParsePlacement(p.Status)
		if err != nil {
			result = multierror.Append(result, err)
		}

		opts = append(opts, bar.WithStatusPlacement(placement))
	}

	if p.Batch != nil {
		opts = append(opts, bar.WithBatch(*p.Batch))
	}

	if p.Header {
		opts = append(opts, bar.WithHeader())
	}

	if p.ClaimStdout != nil || p.ClaimStderr != nil {
		opts = append(opts, bar.WithClaims(deref(p.ClaimStdout, true), deref(p.ClaimStderr, true)))
	}

	if p.KeepSingleColor {
		opts = append(opts, bar.WithKeepSingleColor())
	}

	if !p.Style.IsZero() {
		s, err := p.Style.Style()
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("style: %w", err))
		}

		opts = append(opts, bar.WithStyle(s))
	}

	if !p.StatusStyle.IsZero() {
		s, err := p.StatusStyle.Style()
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("status_style: %w", err))
		}

		opts = append(opts, bar.WithStatusStyle(s))
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	cfg := bar.DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return opts, nil
}

// Names returns the profile names in order.
func (d *Definition) Names() []string {
	return slices.Sorted(maps.Keys(d.Profiles))
}

// Profile returns the named profile.
func (d *Definition) Profile(name string) (Profile, error) {
	p, ok := d.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}

	return p, nil
}

// BarOptions returns the options of the named profile.
func (d *Definition) BarOptions(name string) ([]bar.Option, error) {
	p, err := d.Profile(name)
	if err != nil {
		return nil, err
	}

	opts, err := p.BarOptions()
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}

	return opts, nil
}

// CompositeOptions returns the options of a composite whose master bar uses the named profile.
// Task bars use the profile named by Task, or the master's look when Task is empty.
func (d *Definition) CompositeOptions(name string) ([]composite.Option, error) {
	p, err := d.Profile(name)
	if err != nil {
		return nil, err
	}

	master, err := d.BarOptions(name)
	if err != nil {
		return nil, err
	}

	child := master

	if p.Task != "" {
		if child, err = d.BarOptions(p.Task); err != nil {
			return nil, fmt.Errorf("task bar of %q: %w", name, err)
		}
	}

	opts := []composite.Option{
		composite.WithMaster(master...),
		composite.WithChild(child...),
	}

	if p.Fold != "" {
		fold, err := composite.ParseFoldPolicy(p.Fold)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}

		opts = append(opts, composite.WithFoldPolicy(fold))
	}

	if p.Batch != nil {
		opts = append(opts, composite.WithBatch(*p.Batch))
	}

	if p.ClaimStdout != nil || p.ClaimStderr != nil {
		opts = append(opts, composite.WithClaims(deref(p.ClaimStdout, true), deref(p.ClaimStderr, true)))
	}

	return opts, nil
}

// Validate reports the problems of every profile.
func (d *Definition) Validate() error {
	var result *multierror.Error

	for _, name := range d.Names() {
		if _, err := d.CompositeOptions(name); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func singleRune(field, s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: %s must be a single character, got %q", ErrInvalidProfile, field, s)
	}

	r, _ := utf8.DecodeRuneInString(s)

	return r, nil
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}

	return *p
}
