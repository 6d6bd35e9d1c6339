// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package bar

import (
	"io"
	"strconv"
	"strings"

	"github.com/matt-FFFFFF/termbar/internal/color"
	"github.com/matt-FFFFFF/termbar/internal/console"
)

// percentField is the width of the percentage including its leading separator.
const percentField = 5

// inPlace rewrites the bar and its status using cursor movement.
// It caches what is on screen and skips draws that would not change it.
type inPlace struct {
	width       int
	max         int
	fill        string
	begin       string
	end         string
	percent     bool
	placement   Placement
	keepSingle  bool
	statusStyle color.Style
	deco        color.Decorator

	cells   []string
	columns int
	shown   int
	status  string
	visible bool
}

func newInPlace(cfg Config, deco color.Decorator) *inPlace {
	d := &inPlace{
		width:       cfg.Width,
		max:         cfg.Max,
		fill:        string(cfg.Fill),
		begin:       cfg.Begin,
		end:         cfg.End,
		percent:     cfg.Percent,
		placement:   cfg.Placement,
		keepSingle:  cfg.KeepSingleColor,
		statusStyle: cfg.StatusStyle.Clone(),
		deco:        deco,
	}
	d.reset()

	return d
}

func (d *inPlace) header(io.Writer) error {
	return nil
}

// percentOf never reports 100 before progress reaches max.
func percentOf(progress, maxValue int) int {
	p := progress * 100 / maxValue
	if p >= 100 && progress < maxValue {
		return 99
	}

	return min(p, 100)
}

func (d *inPlace) draw(w io.Writer, f frame) error {
	cols := f.progress * d.width / d.max

	pct := -1
	if d.percent {
		pct = percentOf(f.progress, d.max)
	}

	if d.visible && cols == d.columns && f.status == d.status && (!d.percent || pct == d.shown) {
		return nil
	}

	d.paint(cols, f)

	var sb strings.Builder

	if d.visible {
		if d.placement != StatusInline {
			sb.WriteString(console.CursorUp)
		}

		sb.WriteString(console.CarriageReturn)
	}

	if d.placement == StatusBefore {
		d.writeStatus(&sb, f.status)
		sb.WriteString("\n")
	}

	sb.WriteString(d.begin)

	for _, c := range d.cells {
		sb.WriteString(c)
	}

	sb.WriteString(strings.Repeat(d.fill, d.width-cols))
	sb.WriteString(d.end)

	if d.percent {
		sb.WriteString(d.formatPercent(pct))
	}

	switch d.placement {
	case StatusInline:
		sb.WriteString(" ")
		d.writeStatus(&sb, f.status)
	case StatusAfter:
		sb.WriteString("\n")
		d.writeStatus(&sb, f.status)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err //nolint:wrapcheck
	}

	d.columns = cols
	d.shown = pct
	d.status = f.status
	d.visible = true

	return nil
}

// paint updates the styled cells for cols completed columns.
func (d *inPlace) paint(cols int, f frame) {
	if d.keepSingle {
		d.cells = append(d.cells[:0], d.deco.Decorate(strings.Repeat(string(f.char), cols), f.style))
		return
	}

	if cols < len(d.cells) {
		d.cells = d.cells[:cols]
		return
	}

	for range cols - len(d.cells) {
		d.cells = append(d.cells, d.deco.Decorate(string(f.char), f.style))
	}
}

// writeStatus prints the status and blanks whatever a longer previous status left behind.
func (d *inPlace) writeStatus(sb *strings.Builder, status string) {
	if status != "" {
		sb.WriteString(d.deco.Decorate(status, d.statusStyle))
	}

	sb.WriteString(strings.Repeat(" ", erase(d.status, status)))
}

// erase returns how many blanks are needed to hide the previous status.
// A removed status also clears the separator in front of it.
func erase(previous, next string) int {
	switch {
	case previous == "":
		return 0
	case next == "":
		return console.Width(previous) + 1
	default:
		return max(console.Width(previous)-console.Width(next), 0)
	}
}

func (d *inPlace) formatPercent(pct int) string {
	s := strconv.Itoa(pct) + "%"

	return strings.Repeat(" ", max(percentField-len(s), 1)) + d.deco.Decorate(s, d.statusStyle)
}

func (d *inPlace) finish(w io.Writer) error {
	d.reset()

	_, err := io.WriteString(w, "\n")

	return err //nolint:wrapcheck
}

func (d *inPlace) cancel(w io.Writer) error {
	return d.finish(w)
}

func (d *inPlace) reset() {
	d.cells = d.cells[:0]
	d.columns = 0
	d.shown = -1
	d.status = ""
	d.visible = false
}

func (d *inPlace) printed() (int, int, bool) {
	return d.columns, d.shown, d.visible
}
