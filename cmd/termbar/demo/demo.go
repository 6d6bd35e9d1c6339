// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package demo contains the catalogue of progress bar demonstrations.
package demo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/termbar/internal/bar"
	"github.com/matt-FFFFFF/termbar/internal/composite"
	"github.com/matt-FFFFFF/termbar/internal/config"
	"github.com/matt-FFFFFF/termbar/internal/console"
	"github.com/matt-FFFFFF/termbar/internal/ctxlog"
	"github.com/matt-FFFFFF/termbar/internal/terminal"
	"github.com/urfave/cli/v3"
)

const (
	batchFlag       = "batch"
	delayFlag       = "delay"
	profileFlag     = "profile"
	profileFileFlag = "profile-file"

	defaultDelay = 25 * time.Millisecond
)

// Replaced in tests.
var (
	newArbiter   = func() bar.Arbiter { return terminal.Default() }
	capabilities = console.Process
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))
	usageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// DemoCmd runs one entry of the catalogue.
var DemoCmd = newDemoCmd()

func newDemoCmd() *cli.Command {
	return &cli.Command{
		Name:     "demo",
		Usage:    "Show what the progress bars can do",
		Commands: subcommands(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    profileFlag,
				Aliases: []string{"p"},
				Usage:   "Name of the bar profile to start from",
				Value:   "default",
			},
			&cli.StringFlag{
				Name:      profileFileFlag,
				Usage:     "Profile file or directory of *" + config.FileExt + " files, builtin profiles when empty",
				Sources:   cli.EnvVars("TERMBAR_PROFILE_FILE"),
				TakesFile: true,
			},
			&cli.DurationFlag{
				Name:  delayFlag,
				Usage: "Pause between updates",
				Value: defaultDelay,
			},
			&cli.BoolFlag{
				Name:  batchFlag,
				Usage: "Force batch rendering on or off, overriding the environment",
			},
		},
	}
}

func subcommands() []*cli.Command {
	cmds := make([]*cli.Command, 0, len(catalogue))

	for _, d := range catalogue {
		cmds = append(cmds, &cli.Command{
			Name:  d.name,
			Usage: d.usage,
			Action: func(ctx context.Context, cmd *cli.Command) error {
				e, err := newEnv(ctx, cmd)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}

				banner(e.out, d.name, d.usage)

				return d.run(ctx, e)
			},
		})
	}

	return cmds
}

func banner(w io.Writer, title, usage string) {
	_, _ = fmt.Fprintln(w, titleStyle.Render(title)+" "+usageStyle.Render(usage))
}

// env is what a demo needs to build its bars.
type env struct {
	out     io.Writer
	arbiter bar.Arbiter
	caps    console.Capabilities
	logger  *slog.Logger
	delay   time.Duration
	batch   *bool
	bars    []bar.Option
	multi   []composite.Option
}

func newEnv(ctx context.Context, cmd *cli.Command) (env, error) {
	def, err := config.Resolve(cmd.String(profileFileFlag))
	if err != nil {
		return env{}, err //nolint:wrapcheck
	}

	name := cmd.String(profileFlag)

	bars, err := def.BarOptions(name)
	if err != nil {
		return env{}, err //nolint:wrapcheck
	}

	multi, err := def.CompositeOptions(name)
	if err != nil {
		return env{}, err //nolint:wrapcheck
	}

	e := env{
		out:     cmd.Root().Writer,
		arbiter: newArbiter(),
		caps:    capabilities(),
		logger:  ctxlog.Logger(ctx),
		delay:   cmd.Duration(delayFlag),
		bars:    bars,
		multi:   multi,
	}

	if cmd.IsSet(batchFlag) {
		b := cmd.Bool(batchFlag)
		e.batch = &b
	}

	ctxlog.Debug(ctx, "demo", "detail", "environment", "profile", name, "caps", e.caps, "delay", e.delay.String())

	return e, nil
}

// newBar builds a renderer from the profile, the flags and then extra.
func (e env) newBar(extra ...bar.Option) (*bar.Renderer, error) {
	opts := slices.Clone(e.bars)

	if e.batch != nil {
		opts = append(opts, bar.WithBatch(*e.batch))
	}

	opts = append(opts, extra...)
	opts = append(opts,
		bar.WithArbiter(e.arbiter),
		bar.WithCapabilities(e.caps),
		bar.WithLogger(e.logger),
	)

	return bar.New(opts...) //nolint:wrapcheck
}

// newComposite builds a master/detail progress the same way newBar does.
func (e env) newComposite(extra ...composite.Option) (*composite.Progress, error) {
	opts := slices.Clone(e.multi)

	if e.batch != nil {
		opts = append(opts, composite.WithBatch(*e.batch))
	}

	opts = append(opts, extra...)
	opts = append(opts,
		composite.WithArbiter(e.arbiter),
		composite.WithCapabilities(e.caps),
		composite.WithLogger(e.logger),
	)

	return composite.New(opts...) //nolint:wrapcheck
}

// wait pauses between updates and reports false once ctx is cancelled.
func (e env) wait(ctx context.Context) bool {
	if e.delay <= 0 {
		return ctx.Err() == nil
	}

	t := time.NewTimer(e.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
