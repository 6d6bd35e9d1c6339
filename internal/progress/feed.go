// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/termbar/internal/ctxlog"
)

// ErrAlreadyListening is returned by Listen when a listener is already attached.
var ErrAlreadyListening = errors.New("feed already has a listener")

// Feed implements Reporter using a buffered channel and one listener goroutine.
// Report blocks while the buffer is full so that no update is lost.
type Feed struct {
	ch        chan Event
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.RWMutex // guards closed against sends
	closed    bool
	listenMu  sync.Mutex
	listening bool
	once      sync.Once
	errMu     sync.Mutex
	errs      *multierror.Error
}

// NewFeed creates a Feed with the given buffer size.
// Cancelling ctx stops the listener and, if it is a Canceller, cancels its display.
func NewFeed(ctx context.Context, bufferSize int) *Feed {
	feedCtx, cancel := context.WithCancel(ctx)

	return &Feed{
		ch:     make(chan Event, bufferSize),
		ctx:    feedCtx,
		cancel: cancel,
	}
}

// Report implements Reporter.Report. Events reported after Close or after
// the context is cancelled are dropped.
func (f *Feed) Report(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return
	}

	select {
	case f.ch <- event:
	case <-f.ctx.Done():
	}
}

// Close implements Reporter.Close.
func (f *Feed) Close() error {
	f.once.Do(func() {
		// Unblock reporters waiting on a full buffer with no listener.
		if !f.isListening() {
			f.cancel()
		}

		f.mu.Lock()
		f.closed = true
		close(f.ch)
		f.mu.Unlock()

		f.wg.Wait()
		f.cancel()
	})

	return f.Err()
}

// Err returns the errors produced by the listener so far.
func (f *Feed) Err() error {
	f.errMu.Lock()
	defer f.errMu.Unlock()

	return f.errs.ErrorOrNil()
}

func (f *Feed) record(err error) {
	if err == nil {
		return
	}

	ctxlog.Logger(f.ctx).Debug("progress", "detail", "listener error", "error", err)

	f.errMu.Lock()
	f.errs = multierror.Append(f.errs, err)
	f.errMu.Unlock()
}

func (f *Feed) isListening() bool {
	f.listenMu.Lock()
	defer f.listenMu.Unlock()

	return f.listening
}

// Listen starts the goroutine that applies events to listener.
// Only one listener may be attached.
func (f *Feed) Listen(listener Listener) error {
	f.listenMu.Lock()
	defer f.listenMu.Unlock()

	if f.listening {
		return ErrAlreadyListening
	}

	f.listening = true

	f.wg.Add(1)

	go func() {
		defer f.wg.Done()

		for {
			select {
			case event, ok := <-f.ch:
				if !ok {
					f.cancelled(listener)
					return
				}

				if err := listener.OnEvent(event); err != nil {
					f.record(fmt.Errorf("%s event for %q: %w", event.Type, event.Task, err))
				}
			case <-f.ctx.Done():
				f.cancelled(listener)
				return
			}
		}
	}()

	return nil
}

// cancelled closes the listener's display if the context was cancelled before Close.
func (f *Feed) cancelled(listener Listener) {
	if f.ctx.Err() == nil {
		return
	}

	if c, ok := listener.(Canceller); ok {
		f.record(c.OnCancel())
	}
}

// Context returns the feed's context. It is cancelled when the feed is closed.
func (f *Feed) Context() context.Context {
	return f.ctx
}
