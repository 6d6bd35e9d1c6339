// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/termbar/internal/bar"
	"github.com/matt-FFFFFF/termbar/internal/composite"
	"github.com/matt-FFFFFF/termbar/internal/console"
	"github.com/matt-FFFFFF/termbar/internal/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var discard = slog.New(slog.DiscardHandler)

// lockedBuffer lets the test read output while the listener goroutine writes.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p) //nolint:wrapcheck
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func look() []bar.Option {
	return []bar.Option{
		bar.WithWidth(10),
		bar.WithMarkers("[", "]"),
		bar.WithChar('#'),
		bar.WithFill('.'),
	}
}

func newBar(t *testing.T, out io.Writer) (*bar.Renderer, *terminal.Arbiter) {
	t.Helper()

	a := terminal.New(terminal.NewSwitch(out), terminal.NewSwitch(io.Discard), terminal.WithLogger(discard))

	r, err := bar.New(append(look(),
		bar.WithArbiter(a),
		bar.WithLogger(discard),
		bar.WithCapabilities(console.Capabilities{Cursor: true}),
		bar.WithBatch(false),
		bar.WithStatusPlacement(bar.StatusInline),
	)...)
	require.NoError(t, err)

	return r, a
}

func TestBarListener_FeedDrivesBar(t *testing.T) {
	defer goleak.VerifyNone(t)

	out := &lockedBuffer{}
	r, a := newBar(t, out)

	f := NewFeed(context.Background(), 4)
	require.NoError(t, f.Listen(BarListener{Bar: r}))

	f.Report(Event{Type: EventStarted, Message: "copying"})
	f.Report(Event{Type: EventProgress, Value: 40})
	f.Report(Event{Type: EventStatus, Message: "almost"})
	f.Report(Event{Type: EventProgress, Value: 80, Message: "nearly"})
	f.Report(Event{Type: EventCompleted})

	require.NoError(t, f.Close())

	assert.Equal(t, bar.Finished, r.State())
	assert.False(t, a.Claimed())
	assert.True(t, strings.HasPrefix(out.String(), "[..........]   0% copying"))
	assert.Contains(t, out.String(), "\r[####......]  40% copying")
	assert.Contains(t, out.String(), "\r[####......]  40% almost ")
	assert.Contains(t, out.String(), "\r[########..]  80% nearly")
	assert.True(t, strings.HasSuffix(out.String(), "\r[##########] 100% nearly\n"))
}

func TestBarListener_FailedCancelsAtCurrentProgress(t *testing.T) {
	defer goleak.VerifyNone(t)

	out := &lockedBuffer{}
	r, _ := newBar(t, out)

	f := NewFeed(context.Background(), 1)
	require.NoError(t, f.Listen(BarListener{Bar: r}))

	f.Report(Event{Type: EventProgress, Value: 30})
	f.Report(Event{Type: EventFailed})
	require.NoError(t, f.Close())

	assert.Equal(t, bar.Cancelled, r.State())
	assert.Equal(t, "[###.......]  30% \n", out.String())
}

// signalling reports when the listener goroutine has applied an event or cancelled.
type signalling struct {
	BarListener
	applied   chan struct{}
	cancelled chan struct{}
}

func (l signalling) OnEvent(e Event) error {
	defer func() { l.applied <- struct{}{} }()

	return l.BarListener.OnEvent(e)
}

func (l signalling) OnCancel() error {
	defer close(l.cancelled)

	return l.BarListener.OnCancel()
}

func TestBarListener_ContextCancelClosesDisplay(t *testing.T) {
	defer goleak.VerifyNone(t)

	out := &lockedBuffer{}
	r, a := newBar(t, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := signalling{
		BarListener: BarListener{Bar: r},
		applied:     make(chan struct{}, 1),
		cancelled:   make(chan struct{}),
	}

	f := NewFeed(ctx, 1)
	require.NoError(t, f.Listen(l))

	f.Report(Event{Type: EventProgress, Value: 50})
	<-l.applied

	cancel()
	<-l.cancelled
	require.NoError(t, f.Close())

	assert.Equal(t, bar.Cancelled, r.State())
	assert.False(t, a.Claimed())
	assert.Equal(t, "[#####.....]  50% \n", out.String())
}

func TestBarListener_ConcurrentProducers(t *testing.T) {
	defer goleak.VerifyNone(t)

	out := &lockedBuffer{}
	r, _ := newBar(t, out)

	f := NewFeed(context.Background(), 8)
	require.NoError(t, f.Listen(BarListener{Bar: r}))

	var wg sync.WaitGroup

	for w := range 4 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 25 {
				f.Report(Event{Type: EventProgress, Value: w*25 + i})
			}
		}()
	}

	wg.Wait()
	f.Report(Event{Type: EventCompleted})
	require.NoError(t, f.Close())

	assert.Equal(t, bar.Finished, r.State())
	assert.True(t, strings.HasSuffix(out.String(), "[##########] 100% \n"))
}

func TestCompositeListener_Flow(t *testing.T) {
	defer goleak.VerifyNone(t)

	out := &lockedBuffer{}
	a := terminal.New(terminal.NewSwitch(out), terminal.NewSwitch(io.Discard), terminal.WithLogger(discard))

	p, err := composite.New(
		composite.WithArbiter(a),
		composite.WithLogger(discard),
		composite.WithCapabilities(console.Capabilities{Cursor: true}),
		composite.WithBatch(false),
		composite.WithMaster(append(look(), bar.WithMax(200))...),
		composite.WithChild(look()...),
	)
	require.NoError(t, err)

	f := NewFeed(context.Background(), 4)
	require.NoError(t, f.Listen(CompositeListener{Progress: p}))

	f.Report(Event{Task: "fetch", Type: EventStarted, Value: 100})
	f.Report(Event{Task: "fetch", Type: EventProgress, Value: 100})
	f.Report(Event{Task: "build", Type: EventStarted, Value: 100})
	f.Report(Event{Task: "build", Type: EventProgress, Value: 40})
	f.Report(Event{Task: "build", Type: EventStatus, Message: "linking"})
	f.Report(Event{Type: EventCompleted})

	require.NoError(t, f.Close())

	assert.Equal(t, bar.Finished, p.State())
	assert.False(t, a.Claimed())
	assert.Contains(t, out.String(), "fetch\n")
	assert.Contains(t, out.String(), "linking\n[####......]  40%")
}

func TestCompositeListener_InvalidTaskIsReported(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := terminal.New(terminal.NewSwitch(io.Discard), terminal.NewSwitch(io.Discard), terminal.WithLogger(discard))

	p, err := composite.New(
		composite.WithArbiter(a),
		composite.WithLogger(discard),
		composite.WithCapabilities(console.Capabilities{Cursor: true}),
		composite.WithBatch(false),
	)
	require.NoError(t, err)

	f := NewFeed(context.Background(), 1)
	require.NoError(t, f.Listen(CompositeListener{Progress: p}))

	f.Report(Event{Task: "ok", Type: EventStarted, Value: 10})
	f.Report(Event{Task: "empty", Type: EventStarted, Value: 0})
	f.Report(Event{Type: EventFailed})

	err = f.Close()
	require.ErrorIs(t, err, bar.ErrInvalidConfig)
	assert.Equal(t, bar.Cancelled, p.State())
}
