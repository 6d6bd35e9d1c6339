// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package demo

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/termbar/internal/bar"
	"github.com/matt-FFFFFF/termbar/internal/color"
	"github.com/matt-FFFFFF/termbar/internal/composite"
	"github.com/matt-FFFFFF/termbar/internal/progress"
)

const feedBuffer = 16

type demo struct {
	name  string
	usage string
	run   func(ctx context.Context, e env) error
}

var catalogue = []demo{
	{name: "default", usage: "A bar drawn with the selected profile", run: simple()},
	{name: "batch", usage: "Append-only bar for logs and CI", run: simple(bar.WithBatch(true))},
	{name: "header", usage: "Batch bar under a scale header", run: simple(bar.WithBatch(true), bar.WithHeader())},
	{name: "no-percent", usage: "Bar without the percentage", run: simple(bar.WithoutPercent())},
	{
		name:  "status-before",
		usage: "Custom maximum with the status above the bar",
		run:   simple(bar.WithMax(250), bar.WithStatusPlacement(bar.StatusBefore)),
	},
	{
		name:  "status-after",
		usage: "Custom maximum with the status below the bar",
		run:   simple(bar.WithMax(250), bar.WithStatusPlacement(bar.StatusAfter)),
	},
	{name: "colors", usage: "Cells keep the color they were drawn with", run: colors()},
	{name: "keep-single-color", usage: "The whole bar takes the latest color", run: colors(bar.WithKeepSingleColor())},
	{name: "contention", usage: "A second bar and stray output wait for the first bar", run: contention},
	{name: "cancel", usage: "Abandon a bar halfway", run: cancelHalfway()},
	{name: "cancel-batch", usage: "Abandon a batch bar halfway", run: cancelHalfway(bar.WithBatch(true))},
	{name: "master-detail", usage: "Overall progress above the running task", run: masterDetail(false)},
	{name: "master-detail-batch", usage: "Overall progress only, for logs", run: masterDetail(true)},
}

var phases = []string{"resolving", "downloading", "unpacking", "linking", "done"}

// phase names the stage of work at value v out of maxValue.
func phase(v, maxValue int) string {
	return phases[v*(len(phases)-1)/maxValue]
}

// drive applies events from produce to l through a feed bound to ctx.
func drive(ctx context.Context, l progress.Listener, produce func(rep progress.Reporter)) error {
	feed := progress.NewFeed(ctx, feedBuffer)

	if err := feed.Listen(l); err != nil {
		return err //nolint:wrapcheck
	}

	produce(feed)

	return feed.Close() //nolint:wrapcheck
}

// count reports values 0 to last with a phase status, stopping early when ctx is cancelled.
func count(ctx context.Context, e env, rep progress.Reporter, maxValue, last int) bool {
	for v := 0; v <= last; v++ {
		if !e.wait(ctx) {
			return false
		}

		rep.Report(progress.Event{Type: progress.EventProgress, Value: v, Message: phase(v, maxValue)})
	}

	return true
}

func simple(opts ...bar.Option) func(context.Context, env) error {
	return func(ctx context.Context, e env) error {
		r, err := e.newBar(opts...)
		if err != nil {
			return err
		}

		return drive(ctx, progress.BarListener{Bar: r}, func(rep progress.Reporter) {
			if count(ctx, e, rep, r.Max(), r.Max()) {
				rep.Report(progress.Event{Type: progress.EventCompleted})
			}
		})
	}
}

func cancelHalfway(opts ...bar.Option) func(context.Context, env) error {
	return func(ctx context.Context, e env) error {
		r, err := e.newBar(opts...)
		if err != nil {
			return err
		}

		return drive(ctx, progress.BarListener{Bar: r}, func(rep progress.Reporter) {
			if count(ctx, e, rep, r.Max(), r.Max()/2) {
				rep.Report(progress.Event{Type: progress.EventFailed})
			}
		})
	}
}

// restyle changes the bar's style and character as the work moves on.
type restyle struct {
	progress.BarListener
	styles []color.Style
	chars  []rune
}

func (l restyle) OnEvent(ev progress.Event) error {
	if ev.Type == progress.EventProgress {
		stage := min(ev.Value*len(l.styles)/l.Bar.Max(), len(l.styles)-1)
		l.Bar.SetStyle(l.styles[stage])
		l.Bar.SetProgressChar(l.chars[stage])
	}

	return l.BarListener.OnEvent(ev)
}

func colors(opts ...bar.Option) func(context.Context, env) error {
	return func(ctx context.Context, e env) error {
		r, err := e.newBar(opts...)
		if err != nil {
			return err
		}

		l := restyle{
			BarListener: progress.BarListener{Bar: r},
			styles: []color.Style{
				{Bg: color.BgRed},
				{Bg: color.BgYellow},
				{Bg: color.BgGreen, Modifiers: []color.Code{color.Bold}},
			},
			chars: []rune{' ', '.', ' '},
		}

		return drive(ctx, l, func(rep progress.Reporter) {
			if count(ctx, e, rep, r.Max(), r.Max()) {
				rep.Report(progress.Event{Type: progress.EventCompleted})
			}
		})
	}
}

// contention runs a bar while a second bar and a plain writer try to use the terminal.
// Both are held back until the first bar ends.
func contention(ctx context.Context, e env) error {
	owner, err := e.newBar(bar.WithStatusPlacement(bar.StatusInline))
	if err != nil {
		return err
	}

	other, err := e.newBar(bar.WithStatusPlacement(bar.StatusInline))
	if err != nil {
		return err
	}

	if err := owner.Begin(); err != nil {
		return err //nolint:wrapcheck
	}

	if err := other.Begin(); err != nil {
		return err //nolint:wrapcheck
	}

	maxValue := owner.Max()
	finish := owner.End

	for v := 0; v <= maxValue; v++ {
		if !e.wait(ctx) {
			finish = owner.Cancel
			break
		}

		if err := owner.Update(v, "owner"); err != nil {
			return err //nolint:wrapcheck
		}

		if err := other.Update(v/2, "waiting"); err != nil {
			return err //nolint:wrapcheck
		}

		if v == maxValue/2 {
			_, _ = fmt.Fprintln(e.arbiter.Stdout(), "stray output written halfway through")
			e.logger.Warn("demo", "detail", "log line written while the bar owns the terminal")
		}
	}

	if err := finish(); err != nil {
		return err //nolint:wrapcheck
	}

	return other.Cancel() //nolint:wrapcheck
}

type task struct {
	label string
	size  int
}

var tasks = []task{
	{label: "fetch", size: 40},
	{label: "compile", size: 120},
	{label: "test", size: 80},
	{label: "package", size: 60},
}

func masterDetail(batch bool) func(context.Context, env) error {
	return func(ctx context.Context, e env) error {
		total := 0
		for _, t := range tasks {
			total += t.size
		}

		p, err := e.newComposite(
			composite.WithBatch(batch),
			composite.WithMaster(bar.WithMax(total)),
		)
		if err != nil {
			return err
		}

		return drive(ctx, progress.CompositeListener{Progress: p}, func(rep progress.Reporter) {
			for _, t := range tasks {
				rep.Report(progress.Event{Task: t.label, Type: progress.EventStarted, Value: t.size})

				for v := 1; v <= t.size; v++ {
					if !e.wait(ctx) {
						return
					}

					rep.Report(progress.Event{Task: t.label, Type: progress.EventProgress, Value: v})
				}
			}

			rep.Report(progress.Event{Type: progress.EventCompleted})
		})
	}
}
