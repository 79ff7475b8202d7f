// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

import (
	"fmt"
	"time"
)

const (
	// DefaultTick is the longest the loop waits for an event before redrawing.
	DefaultTick = 500 * time.Millisecond
	// MaxTick is the largest accepted tick.
	MaxTick = time.Second
)

// TerminationPolicy decides when the loop stops.
type TerminationPolicy int

const (
	// StopOnFirstFailure stops as soon as any task fails or cannot be launched, or once every
	// task has finished. Tasks still running are abandoned.
	StopOnFirstFailure TerminationPolicy = iota
	// WaitForAll stops only when the source is done and every task has finished.
	WaitForAll
)

func (p TerminationPolicy) String() string {
	if p == WaitForAll {
		return "wait-for-all"
	}

	return "stop-on-first-failure"
}

// LaunchFailurePolicy decides what a launch failure does to the run.
type LaunchFailurePolicy int

const (
	// RecordLaunchFailure records the failure as the task's state.
	RecordLaunchFailure LaunchFailurePolicy = iota
	// AbortOnLaunchFailure ends the run with ErrLaunchAborted.
	AbortOnLaunchFailure
)

func (p LaunchFailurePolicy) String() string {
	if p == AbortOnLaunchFailure {
		return "abort"
	}

	return "record"
}

// Options configure a Controller and Run.
type Options struct {
	Tick          time.Duration
	Termination   TerminationPolicy
	LaunchFailure LaunchFailurePolicy
	// Strict turns invariant violations into errors instead of log entries.
	Strict bool
	// HoldPaint suppresses drawing and termination until the source is done, so an
	// interactive prompt keeps the terminal to itself. A failure or an aborting launch
	// failure seen earlier takes effect once input ends.
	HoldPaint bool
	// Footer is written below the final frame when the run ends normally.
	Footer string
}

// DefaultOptions returns the default policies with a 500ms tick.
func DefaultOptions() Options {
	return Options{
		Tick:          DefaultTick,
		Termination:   StopOnFirstFailure,
		LaunchFailure: RecordLaunchFailure,
		Footer:        "All done",
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Tick <= 0 || o.Tick > MaxTick {
		return fmt.Errorf("%w: %s is outside (0, %s]", ErrInvalidTick, o.Tick, MaxTick)
	}

	return nil
}
