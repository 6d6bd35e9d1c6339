// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"github.com/matt-FFFFFF/termbar/internal/bar"
	"github.com/matt-FFFFFF/termbar/internal/composite"
)

// BarListener drives a single bar. Task labels are ignored.
type BarListener struct {
	Bar *bar.Renderer
}

// OnEvent implements Listener.
func (l BarListener) OnEvent(e Event) error {
	switch e.Type {
	case EventStarted:
		return l.Bar.Update(0, e.Message)
	case EventProgress:
		if e.Message == "" {
			return l.Bar.SetProgress(e.Value)
		}

		return l.Bar.Update(e.Value, e.Message)
	case EventStatus:
		return l.Bar.SetStatus(e.Message)
	case EventCompleted:
		return l.Bar.End()
	case EventFailed:
		return l.Bar.Cancel()
	}

	return nil
}

// OnCancel implements Canceller.
func (l BarListener) OnCancel() error {
	return l.Bar.Cancel()
}

// CompositeListener drives a master bar and one bar per task.
// EventStarted begins a task whose maximum is the event value.
type CompositeListener struct {
	Progress *composite.Progress
}

// OnEvent implements Listener.
func (l CompositeListener) OnEvent(e Event) error {
	label := e.Message
	if label == "" {
		label = e.Task
	}

	switch e.Type {
	case EventStarted:
		return l.Progress.NextTask(e.Value, label)
	case EventProgress:
		return l.Progress.SetProgress(e.Value, label)
	case EventStatus:
		return l.Progress.SetProgress(l.Progress.Current(), label)
	case EventCompleted:
		return l.Progress.End()
	case EventFailed:
		return l.Progress.Cancel()
	}

	return nil
}

// OnCancel implements Canceller.
func (l CompositeListener) OnCancel() error {
	return l.Progress.Cancel()
}
