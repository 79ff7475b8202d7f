// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package task

import (
	"time"
)

// Status is the lifecycle state of a task.
type Status int

const (
	// StatusRunning is the initial state, set at launch.
	StatusRunning Status = iota
	// StatusSucceeded means the process exited with code 0.
	StatusSucceeded
	// StatusFailed means the process exited non-zero or was killed.
	StatusFailed
	// StatusLaunchError means the process could not be started.
	StatusLaunchError
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusLaunchError:
		return "launch-error"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition can happen.
func (s Status) IsTerminal() bool {
	return s != StatusRunning
}

// IsFailure reports whether the status counts as a failure for early termination.
func (s Status) IsFailure() bool {
	return s == StatusFailed || s == StatusLaunchError
}

// Task is the record for one launched command.
type Task struct {
	ID         int
	Command    string
	Status     Status
	StartedAt  time.Time
	FinishedAt time.Time
	ExitCode   int
	Stdout     string
	Stderr     string
	Err        string // launch error or capture problem
}

// Elapsed returns the running time at now, or the total run time once terminal.
// The result is never negative.
func (t Task) Elapsed(now time.Time) time.Duration {
	end := now
	if t.Status.IsTerminal() && !t.FinishedAt.IsZero() {
		end = t.FinishedAt
	}

	if d := end.Sub(t.StartedAt); d > 0 {
		return d
	}

	return 0
}
