// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package bar

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/matt-FFFFFF/termbar/internal/console"
	"github.com/matt-FFFFFF/termbar/internal/terminal"
	"github.com/stretchr/testify/require"
)

var (
	discard  = slog.New(slog.DiscardHandler)
	plain    = console.Capabilities{Cursor: true}
	errWrite = errors.New("stream closed")
)

type countingWriter struct {
	buf    bytes.Buffer
	writes int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.writes++
	return c.buf.Write(p) //nolint:wrapcheck
}

func (c *countingWriter) String() string {
	return c.buf.String()
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWrite
}

// breakable records writes until broken is set.
type breakable struct {
	bytes.Buffer
	broken bool
}

func (b *breakable) Write(p []byte) (int, error) {
	if b.broken {
		return 0, errWrite
	}

	return b.Buffer.Write(p)
}

// recordingArbiter counts calls made to a real arbiter.
type recordingArbiter struct {
	*terminal.Arbiter
	claims   int
	releases int
}

func (r *recordingArbiter) Claim(o, e bool) terminal.Token {
	r.claims++
	return r.Arbiter.Claim(o, e)
}

func (r *recordingArbiter) Release(t terminal.Token) error {
	r.releases++
	return r.Arbiter.Release(t)
}

func newArbiter() (*recordingArbiter, *bytes.Buffer) {
	var out bytes.Buffer

	a := terminal.New(terminal.NewSwitch(&out), terminal.NewSwitch(io.Discard), terminal.WithLogger(discard))

	return &recordingArbiter{Arbiter: a}, &out
}

// newBar returns a ten-cell bar with readable characters and no colors.
func newBar(t *testing.T, a Arbiter, opts ...Option) *Renderer {
	t.Helper()

	base := []Option{
		WithCapabilities(plain),
		WithBatch(false),
		WithLogger(discard),
		WithArbiter(a),
		WithWidth(10),
		WithMarkers("[", "]"),
		WithChar('#'),
		WithFill('.'),
		WithStatusPlacement(StatusInline),
	}

	r, err := New(append(base, opts...)...)
	require.NoError(t, err)

	return r
}
