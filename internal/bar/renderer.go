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
	"github.com/matt-FFFFFF/termbar/internal/terminal"
)

// ErrInvalidTransition is returned when an operation is not allowed in the current state.
var ErrInvalidTransition = errors.New("invalid state transition")

// State is the lifecycle position of a Renderer.
type State int

const (
	// Idle is the initial state.
	Idle State = iota
	// Active means Begin succeeded and updates are accepted.
	Active
	// Finished is entered by End.
	Finished
	// Cancelled is entered by Cancel.
	Cancelled
)

// String implements the Stringer interface for State.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Finished:
		return "finished"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// frame is the immutable input of a single draw.
type frame struct {
	progress int
	status   string
	style    color.Style
	char     rune
}

// drawer is a rendering strategy.
type drawer interface {
	// header is written once when drawing starts.
	header(w io.Writer) error
	draw(w io.Writer, f frame) error
	// finish closes a completed bar and resets the drawer.
	finish(w io.Writer) error
	// cancel closes an abandoned bar and resets the drawer.
	cancel(w io.Writer) error
	reset()
	// printed returns what is on screen: columns, percentage (-1 if none) and visibility.
	printed() (columns, percent int, visible bool)
}

// Snapshot describes a Renderer at one point in time.
type Snapshot struct {
	State    State
	Progress int
	Status   string
	// Columns is the number of completed cells on screen.
	Columns int
	// Percent is the percentage on screen, -1 if none was drawn.
	Percent  int
	Visible  bool
	Degraded bool
}

// Renderer draws one progress bar.
type Renderer struct {
	cfg      Config
	drawer   drawer
	arbiter  Arbiter
	log      *slog.Logger
	state    State
	token    terminal.Token
	out      io.Writer
	degraded bool
	progress int
	status   string
	style    color.Style
	char     rune
}

// New builds a Renderer. Options are applied over DefaultConfig.
func New(opts ...Option) (*Renderer, error) {
	cfg := DefaultConfig()

	for _, opt := range opts {
		opt(&cfg)
	}

	return NewFromConfig(cfg)
}

// NewFromConfig builds a Renderer from a complete configuration.
func NewFromConfig(cfg Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg = cfg.adapt()
	deco := color.NewDecorator(cfg.Caps.Color)

	r := &Renderer{
		cfg:     cfg,
		arbiter: cfg.Arbiter,
		log:     cfg.Logger,
		style:   cfg.Style.Clone(),
		char:    cfg.Char,
	}

	if cfg.Batch {
		r.drawer = newBatch(cfg, deco)
	} else {
		r.drawer = newInPlace(cfg, deco)
	}

	return r, nil
}

// Config returns the effective configuration after capability downgrades.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Max returns the value that represents completion.
func (r *Renderer) Max() int {
	return r.cfg.Max
}

// State returns the lifecycle state.
func (r *Renderer) State() State {
	return r.state
}

// Snapshot returns the recorded and on-screen state.
func (r *Renderer) Snapshot() Snapshot {
	cols, pct, vis := r.drawer.printed()

	return Snapshot{
		State:    r.state,
		Progress: r.progress,
		Status:   r.status,
		Columns:  cols,
		Percent:  pct,
		Visible:  vis,
		Degraded: r.degraded,
	}
}

// Style returns the style used for cells drawn from now on.
func (r *Renderer) Style() color.Style {
	return r.style.Clone()
}

// SetStyle changes the style of cells drawn from now on.
// With KeepSingleColor the whole bar takes the new style on the next draw.
func (r *Renderer) SetStyle(s color.Style) {
	r.style = s.Clone()
}

// SetProgressChar changes the character of cells drawn from now on.
func (r *Renderer) SetProgressChar(c rune) {
	if !r.cfg.Caps.Color {
		c = noColorChar(c)
	}

	r.char = c
}

// Begin claims the terminal and starts the bar.
// A denied claim is not an error: the bar runs degraded.
func (r *Renderer) Begin() error {
	if r.state == Active {
		return fmt.Errorf("%w: begin while %s", ErrInvalidTransition, r.state)
	}

	tok := r.arbiter.Claim(r.cfg.ClaimStdout, r.cfg.ClaimStderr)
	if !tok.CanDraw() {
		r.log.Debug("bar", "detail", "terminal is owned elsewhere, running degraded")

		r.token = tok
		r.degraded = true
		r.state = Active

		return nil
	}

	return r.start(tok)
}

// BeginTo starts the bar on w without arbitration.
func (r *Renderer) BeginTo(w io.Writer) error {
	if r.state == Active {
		return fmt.Errorf("%w: begin while %s", ErrInvalidTransition, r.state)
	}

	return r.start(terminal.NewExternal(w))
}

func (r *Renderer) start(tok terminal.Token) error {
	r.token = tok
	r.out = tok.Writer()
	r.degraded = false
	r.state = Active

	r.log.Debug("bar", "detail", "started", "ownership", tok.Ownership().String(), "batch", r.cfg.Batch)

	if err := r.drawer.header(r.out); err != nil {
		return fmt.Errorf("drawing header: %w", err)
	}

	return nil
}

// SetProgress records progress and redraws. It begins the bar if needed.
func (r *Renderer) SetProgress(v int) error {
	return r.Update(v, r.status)
}

// SetStatus records the status text and redraws. An empty status means none.
func (r *Renderer) SetStatus(s string) error {
	return r.Update(r.progress, s)
}

// Update records progress and status together and redraws once.
// Values are clamped to [0, Max].
func (r *Renderer) Update(v int, status string) error {
	if r.state != Active {
		if err := r.Begin(); err != nil {
			return err
		}
	}

	r.progress = clamp(v, r.cfg.Max)
	r.status = status

	if r.degraded {
		return nil
	}

	return r.draw(r.out, r.progress)
}

func (r *Renderer) draw(w io.Writer, progress int) error {
	f := frame{
		progress: progress,
		status:   r.status,
		style:    r.style.Clone(),
		char:     r.char,
	}

	if err := r.drawer.draw(w, f); err != nil {
		return fmt.Errorf("drawing progress: %w", err)
	}

	return nil
}

// End completes the bar at Max and releases the terminal. It is a no-op unless Active.
func (r *Renderer) End() error {
	if r.state != Active {
		return nil
	}

	var err error

	if r.degraded {
		err = r.drawOnce(r.cfg.Max, r.drawer.finish)
	} else {
		r.progress = r.cfg.Max
		if err = r.draw(r.out, r.progress); err == nil {
			err = r.drawer.finish(r.out)
		}
	}

	return r.stop(Finished, err)
}

// Cancel closes the bar at the progress drawn so far and releases the terminal.
// It is a no-op unless Active.
func (r *Renderer) Cancel() error {
	if r.state != Active {
		return nil
	}

	var err error

	if r.degraded {
		err = r.drawOnce(r.progress, r.drawer.cancel)
	} else {
		err = r.drawer.cancel(r.out)
	}

	return r.stop(Cancelled, err)
}

// Detach leaves an Active bar as drawn, releases the terminal and marks the bar Finished.
// It is used by callers that own the surrounding layout and close it themselves.
func (r *Renderer) Detach() error {
	if r.state != Active {
		return nil
	}

	return r.stop(Finished, nil)
}

// drawOnce draws the whole bar in one go to the visible standard output.
func (r *Renderer) drawOnce(progress int, closing func(io.Writer) error) error {
	w := r.arbiter.Stdout()

	r.drawer.reset()

	if err := r.drawer.header(w); err != nil {
		return fmt.Errorf("drawing header: %w", err)
	}

	if err := r.draw(w, progress); err != nil {
		return err
	}

	return closing(w)
}

func (r *Renderer) stop(next State, drawErr error) error {
	var result *multierror.Error

	if drawErr != nil {
		result = multierror.Append(result, fmt.Errorf("closing bar: %w", drawErr))
	}

	if err := r.arbiter.Release(r.token); err != nil {
		result = multierror.Append(result, fmt.Errorf("releasing terminal: %w", err))
	}

	r.log.Debug("bar", "detail", "stopped", "state", next.String(), "degraded", r.degraded)

	r.drawer.reset()
	r.token = terminal.Token{}
	r.out = nil
	r.degraded = false
	r.progress = 0
	r.status = ""
	r.state = next

	return result.ErrorOrNil()
}

func clamp(v, maxValue int) int {
	return min(max(v, 0), maxValue)
}
