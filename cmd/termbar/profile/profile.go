// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package profile contains the commands that inspect bar profiles.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/termbar/internal/bar"
	"github.com/matt-FFFFFF/termbar/internal/config"
	"github.com/matt-FFFFFF/termbar/internal/console"
	"github.com/urfave/cli/v3"
)

const (
	nameArg         = "name"
	profileFileFlag = "profile-file"
)

// ErrNoName is returned when show is called without a profile name.
var ErrNoName = errors.New("please provide a profile name")

// capabilities is replaced in tests.
var capabilities = console.Process

var nameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// ProfileCmd lists and shows bar profiles.
var ProfileCmd = newProfileCmd()

func newProfileCmd() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Inspect bar profiles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      profileFileFlag,
				Usage:     "Profile file or directory of *" + config.FileExt + " files, builtin profiles when empty",
				Sources:   cli.EnvVars("TERMBAR_PROFILE_FILE"),
				TakesFile: true,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List the available profiles",
				Action: listAction,
			},
			{
				Name:  "show",
				Usage: "Print a profile and a preview of its bar",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name:      nameArg,
						UsageText: "NAME",
						Config: cli.StringConfig{
							TrimSpace: true,
						},
					},
				},
				Action: showAction,
			},
		},
	}
}

func listAction(_ context.Context, cmd *cli.Command) error {
	def, err := config.Resolve(cmd.String(profileFileFlag))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	w := cmd.Root().Writer

	for _, name := range def.Names() {
		p := def.Profiles[name]
		if _, err := fmt.Fprintf(w, "%s\t%s\n", nameStyle.Render(name), p.Description); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

func showAction(_ context.Context, cmd *cli.Command) error {
	name := cmd.StringArg(nameArg)
	if name == "" {
		return cli.Exit(ErrNoName.Error(), 1)
	}

	def, err := config.Resolve(cmd.String(profileFileFlag))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	p, err := def.Profile(name)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	out, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	w := cmd.Root().Writer

	if _, err := fmt.Fprintf(w, "%s\n%s", nameStyle.Render(name), out); err != nil {
		return err //nolint:wrapcheck
	}

	opts, err := def.BarOptions(name)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return preview(w, opts)
}

// preview draws the profile's bar half full without claiming the terminal.
func preview(w io.Writer, opts []bar.Option) error {
	r, err := bar.New(append(opts,
		bar.WithBatch(false),
		bar.WithCapabilities(capabilities()),
	)...)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err := r.BeginTo(w); err != nil {
		return err //nolint:wrapcheck
	}

	if err := r.Update(r.Max()/2, "preview"); err != nil {
		return err //nolint:wrapcheck
	}

	if err := r.Detach(); err != nil {
		return err //nolint:wrapcheck
	}

	_, err = io.WriteString(w, "\n")

	return err //nolint:wrapcheck
}
