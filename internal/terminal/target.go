// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/matt-FFFFFF/termbar/internal/capture"
)

var (
	// ErrAlreadyDiverted is returned when a target is diverted twice.
	ErrAlreadyDiverted = errors.New("target already diverted")
	// ErrNotDiverted is returned when a target that is not diverted is restored.
	ErrNotDiverted = errors.New("target not diverted")
)

// Target is one redirectable output stream.
type Target interface {
	// Writer returns the handle other code currently writes to.
	Writer() io.Writer
	// Divert starts intercepting writes and returns the original handle.
	Divert() (io.Writer, error)
	// Restore reinstates the original handle and returns what was intercepted.
	Restore() (*capture.Reader, error)
}

// FileTarget diverts a process-wide *os.File variable such as os.Stdout through an os.Pipe.
// A goroutine drains the pipe for the duration of the diversion.
type FileTarget struct {
	file   **os.File
	orig   *os.File
	pipeR  *os.File
	pipeW  *os.File
	reader *capture.Reader
	done   chan error
}

// NewFileTarget returns a target for the variable f points to.
func NewFileTarget(f **os.File) *FileTarget {
	return &FileTarget{file: f}
}

// Writer implements Target.
func (t *FileTarget) Writer() io.Writer {
	return *t.file
}

// Divert implements Target.
func (t *FileTarget) Divert() (io.Writer, error) {
	if t.pipeW != nil {
		return nil, ErrAlreadyDiverted
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating interception pipe: %w", err)
	}

	t.orig = *t.file
	t.pipeR, t.pipeW = r, w
	t.reader = capture.NewReader(r)
	t.done = make(chan error, 1)

	go func(c *capture.Reader, done chan<- error) {
		done <- c.Drain()
	}(t.reader, t.done)

	*t.file = w

	return t.orig, nil
}

// Restore implements Target. It waits for the drain goroutine to finish.
func (t *FileTarget) Restore() (*capture.Reader, error) {
	if t.pipeW == nil {
		return nil, ErrNotDiverted
	}

	*t.file = t.orig

	closeErr := t.pipeW.Close()
	drainErr := <-t.done
	readErr := t.pipeR.Close()

	c := t.reader
	t.orig, t.pipeR, t.pipeW, t.reader, t.done = nil, nil, nil, nil, nil

	if err := errors.Join(closeErr, drainErr, readErr); err != nil {
		return c, fmt.Errorf("closing interception pipe: %w", err)
	}

	return c, nil
}

// Switch is an in-process writer that forwards to a destination unless diverted.
// Code that routes its output through a Switch, rather than os.Stdout directly,
// can be arbitrated without touching process-wide variables.
// It is safe for concurrent use.
type Switch struct {
	mu   sync.Mutex
	dest io.Writer
	buf  *bytes.Buffer
}

// NewSwitch returns a Switch forwarding to dest.
func NewSwitch(dest io.Writer) *Switch {
	return &Switch{dest: dest}
}

// Write implements io.Writer.
func (s *Switch) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buf != nil {
		return s.buf.Write(p) //nolint:wrapcheck
	}

	return s.dest.Write(p) //nolint:wrapcheck
}

// Writer implements Target. The visible handle is the switch itself.
func (s *Switch) Writer() io.Writer {
	return s
}

// Divert implements Target.
func (s *Switch) Divert() (io.Writer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buf != nil {
		return nil, ErrAlreadyDiverted
	}

	s.buf = &bytes.Buffer{}

	return s.dest, nil
}

// Restore implements Target.
func (s *Switch) Restore() (*capture.Reader, error) {
	s.mu.Lock()
	buf := s.buf
	s.buf = nil
	s.mu.Unlock()

	if buf == nil {
		return nil, ErrNotDiverted
	}

	c := capture.NewReader(buf)
	if err := c.Drain(); err != nil {
		return c, fmt.Errorf("reading intercepted output: %w", err)
	}

	return c, nil
}

// Diverted reports whether writes are currently being intercepted.
func (s *Switch) Diverted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf != nil
}
