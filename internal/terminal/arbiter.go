// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package terminal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/termbar/internal/capture"
	"github.com/matt-FFFFFF/termbar/internal/ctxlog"
)

const lastLinePreview = 60

// Arbiter serializes access to a pair of output streams.
// Claim and Release share a single critical section.
type Arbiter struct {
	mu      sync.Mutex
	stdout  Target
	stderr  Target
	claimed bool
	holder  Token
	gen     uint64
	log     *slog.Logger
}

// Option implements a functional options pattern for Arbiter.
type Option func(a *Arbiter)

// WithLogger sets the logger used for claim and release diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Arbiter) {
		if l != nil {
			a.log = l
		}
	}
}

// New creates an Arbiter over the given targets.
func New(stdout, stderr Target, opts ...Option) *Arbiter {
	a := &Arbiter{
		stdout: stdout,
		stderr: stderr,
		log:    ctxlog.DefaultLogger,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

var defaultArbiter = sync.OnceValue(func() *Arbiter {
	return New(NewFileTarget(&os.Stdout), NewFileTarget(&os.Stderr))
})

// Default returns the process-wide arbiter over os.Stdout and os.Stderr.
func Default() *Arbiter {
	return defaultArbiter()
}

// Stdout returns the currently visible standard output handle.
func (a *Arbiter) Stdout() io.Writer {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.stdout.Writer()
}

// Stderr returns the currently visible standard error handle.
func (a *Arbiter) Stderr() io.Writer {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.stderr.Writer()
}

// Claimed reports whether an Owned token is outstanding.
func (a *Arbiter) Claimed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.claimed
}

// Claim requests ownership of the selected streams.
// It never blocks: if a claim is active the result is Denied and the active
// claimant's bookkeeping is left untouched.
func (a *Arbiter) Claim(wantStdout, wantStderr bool) Token {
	a.mu.Lock()
	defer a.mu.Unlock()

	visible := a.stdout.Writer()

	if a.claimed {
		a.log.Debug("terminal", "detail", "claim denied, terminal already owned", "owner", a.holder.gen)
		return Token{ownership: Denied, out: visible}
	}

	if !wantStdout && !wantStderr {
		return Token{ownership: NotApplicable, out: visible}
	}

	out := visible

	if wantStdout {
		orig, err := a.stdout.Divert()
		if err != nil {
			a.log.Warn("terminal", "detail", "cannot divert stdout, degrading", "error", err)
			return Token{ownership: Denied, out: visible}
		}

		out = orig
	}

	if wantStderr {
		if _, err := a.stderr.Divert(); err != nil {
			a.log.Warn("terminal", "detail", "cannot divert stderr, degrading", "error", err)

			if wantStdout {
				if _, rerr := a.stdout.Restore(); rerr != nil {
					a.log.Error("terminal", "detail", "cannot restore stdout", "error", rerr)
				}
			}

			return Token{ownership: Denied, out: visible}
		}
	}

	a.gen++
	a.claimed = true
	a.holder = Token{
		ownership: Owned,
		stdout:    wantStdout,
		stderr:    wantStderr,
		out:       out,
		gen:       a.gen,
	}

	a.log.Debug("terminal", "detail", "claim granted", "owner", a.gen, "stdout", wantStdout, "stderr", wantStderr)

	return a.holder
}

// Release gives up ownership. It is a no-op for tokens that are not Owned and for
// tokens that were already released. Intercepted output is replayed to the restored
// streams exactly once; restore and replay errors from both streams are returned together.
func (a *Arbiter) Release(t Token) error {
	if !t.Owned() {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.claimed || a.holder.gen != t.gen {
		a.log.Debug("terminal", "detail", "ignoring release of stale token", "token", t.gen)
		return nil
	}

	var (
		result  *multierror.Error
		outData *capture.Reader
		errData *capture.Reader
		err     error
	)

	if t.stdout {
		if outData, err = a.stdout.Restore(); err != nil {
			result = multierror.Append(result, fmt.Errorf("restoring stdout: %w", err))
		}
	}

	if t.stderr {
		if errData, err = a.stderr.Restore(); err != nil {
			result = multierror.Append(result, fmt.Errorf("restoring stderr: %w", err))
		}
	}

	a.claimed = false
	a.holder = Token{}

	if err := a.replay("stdout", a.stdout.Writer(), outData); err != nil {
		result = multierror.Append(result, err)
	}

	if err := a.replay("stderr", a.stderr.Writer(), errData); err != nil {
		result = multierror.Append(result, err)
	}

	a.log.Debug("terminal", "detail", "claim released", "owner", t.gen)

	return result.ErrorOrNil()
}

func (a *Arbiter) replay(name string, w io.Writer, c *capture.Reader) error {
	if c == nil || c.Len() == 0 {
		return nil
	}

	a.log.Debug("terminal", "detail", "replaying intercepted output",
		"stream", name, "bytes", c.Len(), "lines", c.Lines(), "last", c.LastLine(lastLinePreview))

	if _, err := w.Write(c.Bytes()); err != nil {
		return fmt.Errorf("replaying intercepted %s: %w", name, err)
	}

	return nil
}
