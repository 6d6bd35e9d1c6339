// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package composite

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/termbar/internal/bar"
	"github.com/matt-FFFFFF/termbar/internal/console"
	"github.com/matt-FFFFFF/termbar/internal/terminal"
)

// ErrNoTask is returned when progress is reported before the first task.
var ErrNoTask = errors.New("no task started")

// The master sits two lines above the child's bar line: the label line is between them.
var (
	twoLinesUp   = console.CursorUp + console.CursorUp
	twoLinesDown = console.CursorDown + console.CursorDown
)

// Progress is a master bar over a sequence of task bars.
// Like bar.Renderer it is single-writer.
type Progress struct {
	cfg      Config
	batch    bool
	log      *slog.Logger
	master   *bar.Renderer
	child    *bar.Renderer
	state    bar.State
	token    terminal.Token
	out      io.Writer
	degraded bool
	overall  int
	current  int
	taskMax  int
	tasks    int
}

// New builds a Progress. The composite is batch when configured so or when
// the console cannot move the cursor.
func New(opts ...Option) (*Progress, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		opt(&cfg)
	}

	batch := cfg.Batch || !cfg.Caps.Cursor

	master, err := bar.New(cfg.masterOptions(batch)...)
	if err != nil {
		return nil, fmt.Errorf("building master bar: %w", err)
	}

	return &Progress{
		cfg:    cfg,
		batch:  batch,
		log:    cfg.Logger,
		master: master,
	}, nil
}

// Batch reports whether only the master bar is drawn.
func (p *Progress) Batch() bool {
	return p.batch
}

// State returns the lifecycle state.
func (p *Progress) State() bar.State {
	return p.state
}

// Overall returns the progress folded from finished tasks.
func (p *Progress) Overall() int {
	return p.overall
}

// Current returns the progress of the running task.
func (p *Progress) Current() int {
	return p.current
}

// Tasks returns the number of tasks started since Begin.
func (p *Progress) Tasks() int {
	return p.tasks
}

// Master returns the master bar.
func (p *Progress) Master() *bar.Renderer {
	return p.master
}

// Child returns the bar of the running task, or nil.
func (p *Progress) Child() *bar.Renderer {
	return p.child
}

// Begin claims the terminal and draws the master at zero.
// A denied claim is not an error: the composite records progress and draws once at the end.
func (p *Progress) Begin() error {
	if p.state == bar.Active {
		return fmt.Errorf("%w: begin while %s", bar.ErrInvalidTransition, p.state)
	}

	tok := p.cfg.Arbiter.Claim(p.cfg.ClaimStdout, p.cfg.ClaimStderr)
	if !tok.CanDraw() {
		p.log.Debug("composite", "detail", "terminal is owned elsewhere, running degraded")

		p.token = tok
		p.degraded = true
		p.state = bar.Active

		return nil
	}

	return p.start(tok)
}

// BeginTo starts the composite on w without arbitration.
func (p *Progress) BeginTo(w io.Writer) error {
	if p.state == bar.Active {
		return fmt.Errorf("%w: begin while %s", bar.ErrInvalidTransition, p.state)
	}

	return p.start(terminal.NewExternal(w))
}

func (p *Progress) start(tok terminal.Token) error {
	p.token = tok
	p.out = tok.Writer()
	p.degraded = false
	p.state = bar.Active

	if err := p.master.BeginTo(p.out); err != nil {
		return fmt.Errorf("starting master bar: %w", err)
	}

	return p.master.SetProgress(0)
}

func (p *Progress) ensureActive() error {
	if p.state == bar.Active {
		return nil
	}

	return p.Begin()
}

// NextTask folds the running task into the overall progress and starts a new task bar.
// If the new bar cannot be built or the running one cannot be finished, nothing is counted
// and the running task stays current.
func (p *Progress) NextTask(taskMax int, label string) error {
	if taskMax <= 0 {
		return fmt.Errorf("%w: task max must be positive, got %d", bar.ErrInvalidConfig, taskMax)
	}

	if err := p.ensureActive(); err != nil {
		return err
	}

	if p.batch || p.degraded {
		p.advance(taskMax)
		return nil
	}

	child, err := bar.New(p.cfg.childOptions(taskMax)...)
	if err != nil {
		return fmt.Errorf("building task bar: %w", err)
	}

	if err := p.closeChild(); err != nil {
		return err
	}

	p.advance(taskMax)
	p.child = child

	if err := child.BeginTo(p.out); err != nil {
		return fmt.Errorf("starting task bar: %w", err)
	}

	return child.Update(0, label)
}

// closeChild finishes the running task bar and moves back to the master line,
// or opens the child area below the master when there is no task yet.
func (p *Progress) closeChild() error {
	if p.child == nil {
		return p.write("\n")
	}

	if err := p.child.SetStatus(""); err != nil {
		return fmt.Errorf("clearing task status: %w", err)
	}

	if err := p.child.End(); err != nil {
		return fmt.Errorf("finishing task bar: %w", err)
	}

	return p.write(twoLinesUp, console.CarriageReturn)
}

func (p *Progress) advance(taskMax int) {
	p.fold()
	p.taskMax = taskMax
	p.tasks++

	p.log.Debug("composite", "detail", "next task", "task", p.tasks, "max", taskMax, "overall", p.overall)
}

// fold adds the outgoing task to the overall progress per the fold policy.
func (p *Progress) fold() {
	if p.tasks > 0 {
		switch p.cfg.Fold {
		case FoldComplete:
			p.overall += p.taskMax
		default:
			p.overall += p.current
		}
	}

	p.current = 0
}

// SetProgress reports the progress of the running task and redraws both bars.
func (p *Progress) SetProgress(taskProgress int, label string) error {
	if err := p.ensureActive(); err != nil {
		return err
	}

	if !p.batch && !p.degraded && p.child == nil {
		return ErrNoTask
	}

	p.current = taskProgress

	if p.degraded {
		return nil
	}

	if p.batch {
		return p.master.SetProgress(p.overall + p.current)
	}

	if err := p.write(twoLinesUp); err != nil {
		return err
	}

	if err := p.master.SetProgress(p.overall + p.current); err != nil {
		return fmt.Errorf("drawing master bar: %w", err)
	}

	if err := p.write(twoLinesDown); err != nil {
		return err
	}

	if err := p.child.Update(taskProgress, label); err != nil {
		return fmt.Errorf("drawing task bar: %w", err)
	}

	return nil
}

// End moves below the bars and releases the terminal. Neither bar is forced to completion.
func (p *Progress) End() error {
	return p.stop(bar.Finished)
}

// Cancel closes the composite the same way End does and records it as Cancelled.
func (p *Progress) Cancel() error {
	return p.stop(bar.Cancelled)
}

func (p *Progress) stop(next bar.State) error {
	if p.state != bar.Active {
		return nil
	}

	var result *multierror.Error

	if p.degraded {
		if err := p.drawOnce(); err != nil {
			result = multierror.Append(result, err)
		}
	} else if err := p.write("\n"); err != nil {
		result = multierror.Append(result, err)
	}

	for _, r := range []*bar.Renderer{p.master, p.child} {
		if r == nil {
			continue
		}

		if err := r.Detach(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if err := p.cfg.Arbiter.Release(p.token); err != nil {
		result = multierror.Append(result, fmt.Errorf("releasing terminal: %w", err))
	}

	p.log.Debug("composite", "detail", "stopped", "state", next.String(), "tasks", p.tasks, "overall", p.overall+p.current)

	p.child = nil
	p.token = terminal.Token{}
	p.out = nil
	p.degraded = false
	p.overall, p.current, p.taskMax, p.tasks = 0, 0, 0, 0
	p.state = next

	return result.ErrorOrNil()
}

// drawOnce draws the master frame a degraded composite never drew.
func (p *Progress) drawOnce() error {
	w := p.cfg.Arbiter.Stdout()
	p.out = w

	if err := p.master.BeginTo(w); err != nil {
		return fmt.Errorf("starting master bar: %w", err)
	}

	if err := p.master.SetProgress(p.overall + p.current); err != nil {
		return fmt.Errorf("drawing master bar: %w", err)
	}

	return p.write("\n")
}

func (p *Progress) write(parts ...string) error {
	for _, s := range parts {
		if _, err := io.WriteString(p.out, s); err != nil {
			return fmt.Errorf("writing layout: %w", err)
		}
	}

	return nil
}
