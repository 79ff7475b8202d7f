// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

import (
	"context"
	"errors"
	"time"

	"github.com/matt-FFFFFF/fanout/internal/ctxlog"
	"github.com/matt-FFFFFF/fanout/internal/progress"
	"github.com/matt-FFFFFF/fanout/internal/task"
)

// Painter draws the status view. frame.Painter implements it.
type Painter interface {
	Paint(tasks []task.Task) error
	Footer(msg string) error
}

// Outcome is the result of a run.
type Outcome struct {
	Reason Reason
	Tasks  []task.Task
}

// Run consumes events until the run terminates and returns the final snapshot.
// Every iteration waits at most opts.Tick for one event, applies it, then redraws.
// The returned error is non-nil for aborted, cancelled or inconsistent runs; the Outcome is
// still populated.
func Run(ctx context.Context, events <-chan progress.Event, painter Painter, opts Options) (Outcome, error) {
	c, err := NewController(opts)
	if err != nil {
		return Outcome{}, err
	}

	return Drive(ctx, c, events, painter)
}

// Drive is Run with a caller supplied Controller.
func Drive(ctx context.Context, c *Controller, events <-chan progress.Event, painter Painter) (Outcome, error) {
	logger := ctxlog.Logger(ctx).With("component", "loop")
	tick := c.Options().Tick

	timer := time.NewTimer(tick)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			c.Cancel()
			paint(ctx, c, painter)
			logger.Debug("run cancelled", "cause", context.Cause(ctx))

			return outcome(c), errors.Join(ErrCancelled, context.Cause(ctx))

		case ev, ok := <-events:
			if !ok {
				return outcome(c), ErrEventChannelClosed
			}

			if err := c.Apply(ctx, ev); err != nil {
				paint(ctx, c, painter)
				return outcome(c), err
			}

		case <-timer.C:
		}

		timer.Reset(tick)
		paint(ctx, c, painter)

		if reason, done := c.Done(); done {
			logger.Debug("run finished", "reason", reason.String(), "tasks", c.reg.Len())

			if footer := c.Options().Footer; footer != "" {
				if err := painter.Footer(footer); err != nil {
					logger.Warn("could not write footer", "error", err)
				}
			}

			return outcome(c), nil
		}
	}
}

func paint(ctx context.Context, c *Controller, painter Painter) {
	if !c.ShouldPaint() {
		return
	}

	if err := painter.Paint(c.Snapshot()); err != nil {
		ctxlog.Warn(ctx, "could not draw status", "error", err)
	}
}

func outcome(c *Controller) Outcome {
	reason, _ := c.Done()

	return Outcome{
		Reason: reason,
		Tasks:  c.Snapshot(),
	}
}
