// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/termbar/internal/color"
)

// StyleDefinition names the colors and modifiers of a style.
// Colors are black, red, green, yellow, blue, magenta, cyan or white,
// optionally prefixed with "hi-".
type StyleDefinition struct {
	Fg        string   `yaml:"fg,omitempty"`
	Bg        string   `yaml:"bg,omitempty"`
	Modifiers []string `yaml:"modifiers,omitempty"`
}

var colorNames = []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

var modifiers = map[string]color.Code{
	"bold":        color.Bold,
	"faint":       color.Faint,
	"italic":      color.Italic,
	"underline":   color.Underline,
	"blink":       color.BlinkSlow,
	"blink-rapid": color.BlinkRapid,
	"reverse":     color.ReverseVideo,
	"concealed":   color.Concealed,
	"crossed-out": color.CrossedOut,
}

// IsZero reports whether nothing is set.
func (d StyleDefinition) IsZero() bool {
	return d.Fg == "" && d.Bg == "" && len(d.Modifiers) == 0
}

// Style converts the definition. Every unknown name is reported.
func (d StyleDefinition) Style() (color.Style, error) {
	var (
		s      color.Style
		result *multierror.Error
		err    error
	)

	if s.Fg, err = colorCode(d.Fg, color.FgBlack, color.FgHiBlack); err != nil {
		result = multierror.Append(result, fmt.Errorf("fg: %w", err))
	}

	if s.Bg, err = colorCode(d.Bg, color.BgBlack, color.BgHiBlack); err != nil {
		result = multierror.Append(result, fmt.Errorf("bg: %w", err))
	}

	for _, m := range d.Modifiers {
		code, ok := modifiers[strings.ToLower(m)]
		if !ok {
			result = multierror.Append(result, fmt.Errorf("%w: unknown modifier %q", ErrInvalidProfile, m))
			continue
		}

		s = s.With(code)
	}

	return s, result.ErrorOrNil()
}

// colorCode maps a color name onto the normal or hi-intensity range.
// An empty name is no color.
func colorCode(name string, base, hiBase color.Code) (color.Code, error) {
	if name == "" {
		return 0, nil
	}

	n := strings.ToLower(name)
	if rest, ok := strings.CutPrefix(n, "hi-"); ok {
		n, base = rest, hiBase
	}

	for i, c := range colorNames {
		if c == n {
			return base + color.Code(i), nil
		}
	}

	return 0, fmt.Errorf("%w: unknown color %q", ErrInvalidProfile, name)
}
