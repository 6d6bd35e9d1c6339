// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// Event is one progress update.
type Event struct {
	Task      string    // Task label, used by composite listeners
	Type      EventType // What happened
	Value     int       // Progress for EventProgress, task maximum for EventStarted
	Message   string    // Status text; empty keeps the current status
	Timestamp time.Time // Set by Report when zero
	Err       error     // Cause for EventFailed
}

// EventType represents the type of progress event.
type EventType int

const (
	// EventStarted starts a task.
	EventStarted EventType = iota
	// EventProgress reports a new value.
	EventProgress
	// EventStatus changes the status text only.
	EventStatus
	// EventCompleted finishes the display.
	EventCompleted
	// EventFailed abandons the display at its current progress.
	EventFailed
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventStarted:
		return "started"
	case EventProgress:
		return "progress"
	case EventStatus:
		return "status"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reporter is the interface for sending progress events.
type Reporter interface {
	// Report queues an event. It must be safe to call after Close.
	Report(event Event)
	// Close stops accepting events, waits for queued ones to be applied and
	// returns the errors the listener produced.
	Close() error
}

// Listener applies events. It is only ever called from one goroutine.
type Listener interface {
	OnEvent(event Event) error
}

// Canceller is implemented by listeners that must close their display when
// the feed's context is cancelled before Close.
type Canceller interface {
	OnCancel() error
}
