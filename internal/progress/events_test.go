// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventType_String(t *testing.T) {
	tests := []struct {
		name      string
		eventType EventType
		expected  string
	}{
		{name: "EventStarted", eventType: EventStarted, expected: "started"},
		{name: "EventProgress", eventType: EventProgress, expected: "progress"},
		{name: "EventStatus", eventType: EventStatus, expected: "status"},
		{name: "EventCompleted", eventType: EventCompleted, expected: "completed"},
		{name: "EventFailed", eventType: EventFailed, expected: "failed"},
		{name: "Unknown event type", eventType: EventType(999), expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.eventType.String())
		})
	}
}
