// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"slices"
)

// Style is a set of text attributes applied to a span of text.
// The zero value is unstyled: a zero Fg or Bg means "no color".
type Style struct {
	Fg        Code
	Bg        Code
	Modifiers []Code
}

// Clone returns a copy of s that shares no memory with it.
func (s Style) Clone() Style {
	s.Modifiers = slices.Clone(s.Modifiers)
	return s
}

// With returns a copy of s with the modifier added.
func (s Style) With(modifier Code) Style {
	c := s.Clone()
	if !slices.Contains(c.Modifiers, modifier) {
		c.Modifiers = append(c.Modifiers, modifier)
	}

	return c
}

// IsZero reports whether the style carries no attributes.
func (s Style) IsZero() bool {
	return s.Fg == 0 && s.Bg == 0 && len(s.Modifiers) == 0
}

// Codes returns the ANSI codes for the style, modifiers first.
func (s Style) Codes() []Code {
	codes := make([]Code, 0, len(s.Modifiers)+2)
	codes = append(codes, s.Modifiers...)

	if s.Fg != 0 {
		codes = append(codes, s.Fg)
	}

	if s.Bg != 0 {
		codes = append(codes, s.Bg)
	}

	return codes
}

// Decorator styles text spans. Implementations must be free of side effects.
type Decorator interface {
	Decorate(text string, style Style) string
}

// ANSI decorates text with ANSI SGR sequences regardless of the environment.
type ANSI struct{}

// Decorate implements Decorator.
func (ANSI) Decorate(text string, style Style) string {
	if text == "" || style.IsZero() {
		return text
	}

	return colorize(text, style.Codes())
}

// Plain returns text unchanged.
type Plain struct{}

// Decorate implements Decorator.
func (Plain) Decorate(text string, _ Style) string {
	return text
}

// NewDecorator returns the ANSI decorator when withColor is true and Plain otherwise.
func NewDecorator(withColor bool) Decorator {
	if withColor {
		return ANSI{}
	}

	return Plain{}
}
