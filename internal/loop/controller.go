// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/fanout/internal/ctxlog"
	"github.com/matt-FFFFFF/fanout/internal/progress"
	"github.com/matt-FFFFFF/fanout/internal/task"
)

var (
	// ErrInvalidTick is returned for a tick outside (0, MaxTick].
	ErrInvalidTick = errors.New("invalid tick")
	// ErrEventChannelClosed is returned when the event channel is closed under the loop.
	ErrEventChannelClosed = errors.New("event channel closed")
	// ErrLaunchAborted is returned when a launch fails under AbortOnLaunchFailure.
	ErrLaunchAborted = errors.New("aborted: a command could not be launched")
	// ErrInvariantViolation wraps an event that contradicts the registry, in strict mode.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrCountMismatch is reported when the source's task count disagrees with the registry.
	ErrCountMismatch = errors.New("launched task count mismatch")
	// ErrUnknownEvent is reported for an event type the controller does not handle.
	ErrUnknownEvent = errors.New("unknown event type")
	// ErrCancelled is returned when the context is cancelled before the run ends.
	ErrCancelled = errors.New("run cancelled")
)

// Reason says why a run ended.
type Reason int

const (
	// ReasonNone means the run has not ended.
	ReasonNone Reason = iota
	// ReasonAllDone means the source is done and every task finished.
	ReasonAllDone
	// ReasonFirstFailure means a task failed under StopOnFirstFailure.
	ReasonFirstFailure
	// ReasonLaunchAborted means a launch failed under AbortOnLaunchFailure.
	ReasonLaunchAborted
	// ReasonCancelled means the context was cancelled.
	ReasonCancelled
)

// String implements fmt.Stringer.
func (r Reason) String() string {
	switch r {
	case ReasonAllDone:
		return "all-done"
	case ReasonFirstFailure:
		return "first-failure"
	case ReasonLaunchAborted:
		return "launch-aborted"
	case ReasonCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// Normal reports whether the run ended on its own terms rather than by abort or cancel.
func (r Reason) Normal() bool {
	return r == ReasonAllDone || r == ReasonFirstFailure
}

// Controller applies events to the registry and decides termination.
// It is not safe for concurrent use; exactly one goroutine owns it.
type Controller struct {
	opts       Options
	reg        task.Registry
	sourceDone bool
	reason     Reason
	// held is an abort deferred until the source is done under HoldPaint.
	held error
}

// NewController validates opts and returns an empty Controller.
func NewController(opts Options) (*Controller, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Controller{opts: opts}, nil
}

// Options returns the controller's options.
func (c *Controller) Options() Options {
	return c.opts
}

// Apply updates the registry from one event and re-evaluates termination.
// A non-nil error is fatal: the run has been aborted or a strict invariant was broken.
// Events applied after the run ended are ignored.
func (c *Controller) Apply(ctx context.Context, ev progress.Event) error {
	if c.reason != ReasonNone {
		ctxlog.Debug(ctx, "event after termination ignored", "event", ev.Type.String(), "id", ev.TaskID)
		return nil
	}

	var err error

	switch ev.Type {
	case progress.EventLaunched:
		if addErr := c.reg.Add(ev.TaskID, ev.Command, ev.Timestamp); addErr != nil {
			err = c.violation(ctx, ev, addErr)
		}
	case progress.EventCompleted:
		_, err = c.finish(ctx, ev, completedStatus(ev.Data.ExitCode))
	case progress.EventLaunchFailed:
		var applied bool

		applied, err = c.finish(ctx, ev, task.StatusLaunchError)
		if applied && c.opts.LaunchFailure == AbortOnLaunchFailure {
			abortErr := errors.Join(fmt.Errorf("%w: task %d", ErrLaunchAborted, ev.TaskID), ev.Data.Error)
			if c.holding() {
				if c.held == nil {
					c.held = abortErr
				}

				return nil
			}

			c.reason = ReasonLaunchAborted

			return abortErr
		}
	case progress.EventSourceDone:
		c.sourceDone = true
		if ev.Data.Error != nil {
			ctxlog.Warn(ctx, "command source stopped early", "error", ev.Data.Error)
		}

		if ev.Data.Count != c.reg.Len() {
			err = c.violation(ctx, ev, fmt.Errorf("%w: source launched %d, registry has %d", ErrCountMismatch, ev.Data.Count, c.reg.Len()))
		}

		if err == nil && c.held != nil {
			c.reason = ReasonLaunchAborted
			return c.held
		}
	default:
		err = c.violation(ctx, ev, fmt.Errorf("%w: %d", ErrUnknownEvent, ev.Type))
	}

	if err != nil {
		return err
	}

	c.evaluate()

	return nil
}

// Cancel ends the run with ReasonCancelled unless it has already ended.
func (c *Controller) Cancel() {
	if c.reason == ReasonNone {
		c.reason = ReasonCancelled
	}
}

// Done reports whether the run has ended and why.
func (c *Controller) Done() (Reason, bool) {
	return c.reason, c.reason != ReasonNone
}

// SourceDone reports whether the command source is exhausted.
func (c *Controller) SourceDone() bool {
	return c.sourceDone
}

// Snapshot returns copies of all tasks in ascending id order.
func (c *Controller) Snapshot() []task.Task {
	return c.reg.Snapshot()
}

// Registry exposes read access for queries such as Running and AnyFailed.
func (c *Controller) Registry() *task.Registry {
	return &c.reg
}

// ShouldPaint reports whether the view may be drawn now.
func (c *Controller) ShouldPaint() bool {
	return !c.opts.HoldPaint || c.sourceDone
}

func (c *Controller) finish(ctx context.Context, ev progress.Event, status task.Status) (bool, error) {
	o := task.Outcome{
		Status:     status,
		ExitCode:   ev.Data.ExitCode,
		Stdout:     ev.Data.Stdout,
		Stderr:     ev.Data.Stderr,
		FinishedAt: ev.Timestamp,
	}

	if ev.Data.Error != nil {
		o.Err = ev.Data.Error.Error()
	}

	if err := c.reg.Finish(ev.TaskID, o); err != nil {
		return false, c.violation(ctx, ev, err)
	}

	return true, nil
}

// holding reports whether termination waits for the source, so a prompt keeps the terminal.
func (c *Controller) holding() bool {
	return c.opts.HoldPaint && !c.sourceDone
}

// evaluate is only meaningful once the source is done or something has failed.
func (c *Controller) evaluate() {
	if c.holding() {
		return
	}

	if c.opts.Termination == StopOnFirstFailure && c.reg.AnyFailed() {
		c.reason = ReasonFirstFailure
		return
	}

	if c.sourceDone && c.reg.AllTerminal() {
		c.reason = ReasonAllDone
	}
}

func (c *Controller) violation(ctx context.Context, ev progress.Event, err error) error {
	if c.opts.Strict {
		return errors.Join(ErrInvariantViolation, err)
	}

	ctxlog.Error(ctx, "ignoring inconsistent event", "event", ev.Type.String(), "id", ev.TaskID, "error", err)

	return nil
}

func completedStatus(exitCode int) task.Status {
	if exitCode == 0 {
		return task.StatusSucceeded
	}

	return task.StatusFailed
}
