// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package bar

import (
	"io"
	"strings"

	"github.com/matt-FFFFFF/termbar/internal/color"
)

// batchBar appends to the output and never moves the cursor.
// The number of cells written only grows until the bar is closed.
type batchBar struct {
	width      int
	max        int
	fill       string
	begin      string
	end        string
	withHeader bool
	deco       color.Decorator

	columns int
	headed  bool
	started bool
}

func newBatch(cfg Config, deco color.Decorator) *batchBar {
	return &batchBar{
		width:      cfg.Width,
		max:        cfg.Max,
		fill:       string(cfg.Fill),
		begin:      cfg.Begin,
		end:        cfg.End,
		withHeader: cfg.Header,
		deco:       deco,
	}
}

func (d *batchBar) header(w io.Writer) error {
	if !d.withHeader {
		return nil
	}

	d.headed = true

	_, err := io.WriteString(w, d.begin+strings.Repeat(d.fill, d.width)+d.end)

	return err //nolint:wrapcheck
}

// open writes the begin marker, on a fresh line if a header was printed.
func (d *batchBar) open(sb *strings.Builder) {
	if d.started {
		return
	}

	if d.headed {
		sb.WriteString("\n")
	}

	sb.WriteString(d.begin)
}

func (d *batchBar) draw(w io.Writer, f frame) error {
	var sb strings.Builder

	d.open(&sb)

	cols := max(f.progress*d.width/d.max, d.columns)
	for range cols - d.columns {
		sb.WriteString(d.deco.Decorate(string(f.char), f.style))
	}

	if sb.Len() == 0 {
		return nil
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err //nolint:wrapcheck
	}

	d.columns = cols
	d.started = true

	return nil
}

func (d *batchBar) finish(w io.Writer) error {
	var sb strings.Builder

	d.open(&sb)
	sb.WriteString(d.end)
	sb.WriteString("\n")
	d.reset()

	_, err := io.WriteString(w, sb.String())

	return err //nolint:wrapcheck
}

// cancel pads the bar to full width so it reads as closed in logs.
func (d *batchBar) cancel(w io.Writer) error {
	var sb strings.Builder

	d.open(&sb)
	sb.WriteString(strings.Repeat(d.fill, d.width-d.columns))
	sb.WriteString(d.end)
	sb.WriteString("\n")
	d.reset()

	_, err := io.WriteString(w, sb.String())

	return err //nolint:wrapcheck
}

func (d *batchBar) reset() {
	d.columns = 0
	d.headed = false
	d.started = false
}

func (d *batchBar) printed() (int, int, bool) {
	return d.columns, -1, d.started
}
