// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package capture

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
)

// Reader wraps an io.Reader and captures the complete output, the number of
// complete lines and the last complete line.
// It is safe for concurrent use.
type Reader struct {
	reader  io.Reader
	full    *bytes.Buffer
	last    string
	lines   int
	partial strings.Builder // incomplete trailing line
	mu      sync.RWMutex
}

// NewReader creates a new Reader that wraps the given reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		reader: r,
		full:   &bytes.Buffer{},
	}
}

// Read implements io.Reader. It reads from the underlying reader and records the data.
func (c *Reader) Read(p []byte) (n int, err error) {
	n, err = c.reader.Read(p)
	if n > 0 {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.full.Write(p[:n])
		c.track(string(p[:n]))
	}

	return n, err //nolint:wrapcheck
}

// Drain reads until EOF, discarding what it reads (the data stays captured).
// A closed pipe is treated as EOF.
func (c *Reader) Drain() error {
	_, err := io.Copy(io.Discard, c)
	if errors.Is(err, os.ErrClosed) {
		return nil
	}

	return err //nolint:wrapcheck
}

// track updates line bookkeeping. Must be called with the write lock held.
func (c *Reader) track(data string) {
	c.partial.WriteString(data)
	combined := c.partial.String()

	lines := strings.Split(combined, "\n")
	if len(lines) == 1 {
		return
	}

	c.lines += len(lines) - 1
	c.last = lines[len(lines)-2]
	c.partial.Reset()
	c.partial.WriteString(lines[len(lines)-1])
}

// LastLine returns the last complete line that was read.
// If maxLength > 3 and the line is longer, it is truncated and "..." is appended.
func (c *Reader) LastLine(maxLength int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := c.last
	if maxLength > 3 && len(result) > maxLength {
		result = result[:maxLength-3] + "..."
	}

	return result
}

// Lines returns the number of complete lines read so far.
func (c *Reader) Lines() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lines
}

// Bytes returns a copy of all data that has been read so far.
func (c *Reader) Bytes() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return bytes.Clone(c.full.Bytes())
}

// Len returns the number of bytes captured.
func (c *Reader) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.full.Len()
}
