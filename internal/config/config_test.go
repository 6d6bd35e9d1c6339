// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"testing"

	"github.com/matt-FFFFFF/termbar/internal/bar"
	"github.com/matt-FFFFFF/termbar/internal/color"
	"github.com/matt-FFFFFF/termbar/internal/composite"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	stubs := gostub.StubFunc(&FsFactory, fs)
	t.Cleanup(stubs.Reset)

	return fs
}

func apply(opts []bar.Option) bar.Config {
	cfg := bar.DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	return cfg
}

func TestBuiltin(t *testing.T) {
	def := Builtin()

	assert.Equal(t, []string{"ci", "classic", "default", "minimal", "steps"}, def.Names())

	opts, err := def.BarOptions("classic")
	require.NoError(t, err)

	cfg := apply(opts)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, '#', cfg.Char)
	assert.Equal(t, '.', cfg.Fill)
	assert.Equal(t, "[", cfg.Begin)
	assert.Equal(t, "]", cfg.End)
	assert.Equal(t, bar.StatusInline, cfg.Placement)
	assert.True(t, cfg.Percent)

	opts, err = def.BarOptions("default")
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestProfile_BarOptions(t *testing.T) {
	t.Setenv("TERMBAR_BATCH", "false")

	def, err := Parse([]byte(`
profiles:
  loud:
    width: 12
    max: 50
    percent: false
    status: after
    batch: true
    header: true
    claim_stdout: true
    claim_stderr: false
    keep_single_color: true
    style:
      fg: hi-yellow
      bg: red
      modifiers: [bold, underline]
    status_style:
      fg: cyan
`))
	require.NoError(t, err)

	opts, err := def.BarOptions("loud")
	require.NoError(t, err)

	cfg := apply(opts)
	assert.Equal(t, 12, cfg.Width)
	assert.Equal(t, 50, cfg.Max)
	assert.False(t, cfg.Percent)
	assert.Equal(t, bar.StatusAfter, cfg.Placement)
	assert.True(t, cfg.Batch)
	assert.True(t, cfg.Header)
	assert.True(t, cfg.ClaimStdout)
	assert.False(t, cfg.ClaimStderr)
	assert.True(t, cfg.KeepSingleColor)
	assert.Equal(t, color.Style{Fg: color.FgHiYellow, Bg: color.BgRed, Modifiers: []color.Code{color.Bold, color.Underline}}, cfg.Style)
	assert.Equal(t, color.Style{Fg: color.FgCyan}, cfg.StatusStyle)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		wantErr  error
		contains []string
	}{
		{
			name:    "not yaml",
			yaml:    "profiles: [",
			wantErr: ErrInvalidYaml,
		},
		{
			name:     "unknown field",
			yaml:     "profiles:\n  a:\n    colour: red\n",
			wantErr:  ErrInvalidYaml,
			contains: []string{"colour"},
		},
		{
			name:    "no profiles",
			yaml:    "name: empty\n",
			wantErr: ErrNoProfiles,
		},
		{
			name:     "bad values are all reported",
			yaml:     "profiles:\n  a:\n    fill: ab\n    status: sideways\n    style:\n      bg: purple\n      modifiers: [shiny]\n",
			wantErr:  ErrInvalidProfile,
			contains: []string{`"ab"`, `"sideways"`, `"purple"`, `"shiny"`},
		},
		{
			name:     "bar validation",
			yaml:     "profiles:\n  a:\n    width: 0\n",
			wantErr:  bar.ErrInvalidConfig,
			contains: []string{"width must be positive"},
		},
		{
			name:    "unknown task profile",
			yaml:    "profiles:\n  a:\n    task: b\n",
			wantErr: ErrUnknownProfile,
		},
		{
			name:     "unknown fold policy",
			yaml:     "profiles:\n  a:\n    fold: sometimes\n",
			wantErr:  bar.ErrInvalidConfig,
			contains: []string{"sometimes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, def)

			for _, s := range tt.contains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestDefinition_CompositeOptions(t *testing.T) {
	def := Builtin()

	opts, err := def.CompositeOptions("steps")
	require.NoError(t, err)

	var cfg composite.Config
	for _, o := range opts {
		o(&cfg)
	}

	assert.Equal(t, composite.FoldComplete, cfg.Fold)
	assert.Equal(t, 300, apply(cfg.Master).Max)
	assert.Equal(t, color.Style{Bg: color.BgBlue}, apply(cfg.Master).Style)
	assert.Equal(t, '#', apply(cfg.Child).Char, "task bars use the classic profile")

	_, err = def.CompositeOptions("nope")
	require.ErrorIs(t, err, ErrUnknownProfile)
}

func TestStyleDefinition_Style(t *testing.T) {
	tests := []struct {
		name string
		def  StyleDefinition
		want color.Style
	}{
		{name: "empty", def: StyleDefinition{}, want: color.Style{}},
		{name: "normal colors", def: StyleDefinition{Fg: "black", Bg: "white"}, want: color.Style{Fg: color.FgBlack, Bg: color.BgWhite}},
		{name: "hi colors any case", def: StyleDefinition{Fg: "Hi-Magenta", Bg: "HI-GREEN"}, want: color.Style{Fg: color.FgHiMagenta, Bg: color.BgHiGreen}},
		{name: "duplicate modifiers collapse", def: StyleDefinition{Modifiers: []string{"reverse", "reverse"}}, want: color.Style{Modifiers: []color.Code{color.ReverseVideo}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.def.Style()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	stubFs(t, map[string]string{
		"/p/one.termbar.yaml": "profiles:\n  a:\n    width: 5\n",
	})

	def, err := Load("/p/one.termbar.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, def.Names())

	_, err = Load("/p/missing.termbar.yaml")
	require.ErrorIs(t, err, ErrReadFile)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDir(t *testing.T) {
	t.Run("merges files", func(t *testing.T) {
		stubFs(t, map[string]string{
			"/p/bars.termbar.yaml":  "profiles:\n  small:\n    width: 5\n",
			"/p/steps.termbar.yaml": "profiles:\n  big:\n    max: 200\n",
			"/p/ignored.yaml":       "not: read",
		})

		def, err := LoadDir("/p")
		require.NoError(t, err)
		assert.Equal(t, []string{"big", "small"}, def.Names())
		assert.Equal(t, "p", def.Name)
	})

	t.Run("no files", func(t *testing.T) {
		stubFs(t, nil)

		_, err := LoadDir("/p")
		require.ErrorIs(t, err, ErrNoProfileFile)
	})

	t.Run("duplicate names", func(t *testing.T) {
		stubFs(t, map[string]string{
			"/p/a.termbar.yaml": "profiles:\n  x:\n    width: 5\n",
			"/p/b.termbar.yaml": "profiles:\n  x:\n    width: 6\n",
		})

		_, err := LoadDir("/p")
		require.ErrorIs(t, err, ErrDuplicateProfile)
	})

	t.Run("broken file is reported", func(t *testing.T) {
		stubFs(t, map[string]string{
			"/p/a.termbar.yaml": "profiles:\n  x:\n    width: -1\n",
		})

		_, err := LoadDir("/p")
		require.ErrorIs(t, err, bar.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "/p/a.termbar.yaml")
	})
}

func TestResolve(t *testing.T) {
	stubFs(t, map[string]string{
		"/p/a.termbar.yaml": "profiles:\n  x:\n    width: 5\n",
	})

	tests := []struct {
		name    string
		path    string
		names   []string
		wantErr error
	}{
		{name: "builtin", path: "", names: Builtin().Names()},
		{name: "directory", path: "/p", names: []string{"x"}},
		{name: "file", path: "/p/a.termbar.yaml", names: []string{"x"}},
		{name: "missing", path: "/q", wantErr: ErrReadFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Resolve(tt.path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.names, def.Names())
		})
	}
}
