// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// EventType identifies what an Event reports.
type EventType int

const (
	// EventLaunched announces a task. It is always sent before the task's terminal event.
	EventLaunched EventType = iota
	// EventCompleted reports that the process ran and exited, successfully or not.
	EventCompleted
	// EventLaunchFailed reports that the process could not be started.
	EventLaunchFailed
	// EventSourceDone reports that no more tasks will be launched.
	EventSourceDone
)

// String implements fmt.Stringer.
func (et EventType) String() string {
	switch et {
	case EventLaunched:
		return "launched"
	case EventCompleted:
		return "completed"
	case EventLaunchFailed:
		return "launch-failed"
	case EventSourceDone:
		return "source-done"
	default:
		return "unknown"
	}
}

// Event is a single message from the supervisor to the render loop.
// Events are values; nothing in them is shared with the sender after Report.
type Event struct {
	Type      EventType
	TaskID    int       // Launch-order id; unused for EventSourceDone.
	Command   string    // Set on EventLaunched.
	Timestamp time.Time // Launch time for EventLaunched, otherwise when the event was created.
	Data      EventData
}

// EventData holds the type specific payload.
type EventData struct {
	// EventCompleted
	ExitCode int
	Stdout   string
	Stderr   string

	// EventCompleted (capture problems) and EventLaunchFailed (start error).
	Error error

	// EventSourceDone
	Count int
}

// IsTerminal reports whether the event ends a task's lifecycle.
func (e Event) IsTerminal() bool {
	return e.Type == EventCompleted || e.Type == EventLaunchFailed
}

// Launched builds an EventLaunched.
func Launched(id int, command string, at time.Time) Event {
	return Event{
		Type:      EventLaunched,
		TaskID:    id,
		Command:   command,
		Timestamp: at,
	}
}

// Completed builds an EventCompleted. captureErr is non-nil when output was truncated.
func Completed(id, exitCode int, stdout, stderr string, captureErr error) Event {
	return Event{
		Type:      EventCompleted,
		TaskID:    id,
		Timestamp: time.Now(),
		Data: EventData{
			ExitCode: exitCode,
			Stdout:   stdout,
			Stderr:   stderr,
			Error:    captureErr,
		},
	}
}

// LaunchFailed builds an EventLaunchFailed.
func LaunchFailed(id int, err error) Event {
	return Event{
		Type:      EventLaunchFailed,
		TaskID:    id,
		Timestamp: time.Now(),
		Data: EventData{
			ExitCode: -1,
			Error:    err,
		},
	}
}

// SourceDone builds an EventSourceDone. err is the source's fatal error, if any.
func SourceDone(count int, err error) Event {
	return Event{
		Type:      EventSourceDone,
		Timestamp: time.Now(),
		Data: EventData{
			Count: count,
			Error: err,
		},
	}
}
