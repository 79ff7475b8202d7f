// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/matt-FFFFFF/fanout/internal/ctxlog"
	"github.com/matt-FFFFFF/fanout/internal/progress"
	"github.com/matt-FFFFFF/fanout/internal/source"
)

var (
	// ErrCouldNotStartProcess wraps every launch failure.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrEmptyCommand is returned for a command with no program name.
	ErrEmptyCommand = errors.New("empty command")
	// ErrOutputTruncated is attached to a completion whose output exceeded the capture limit.
	ErrOutputTruncated = errors.New("output truncated")
	// ErrWait is attached to a completion when waiting for the process failed.
	ErrWait = errors.New("failed waiting for process")
	// ErrPanic is reported when a task goroutine panicked before reporting its outcome.
	ErrPanic = errors.New("task goroutine panicked")
)

// Supervisor assigns ids in launch order and runs each command in its own goroutine.
// Launch and Start must be called from a single goroutine.
type Supervisor struct {
	reporter  progress.Reporter
	runner    Runner
	maxOutput int
	now       func() time.Time
	next      int
	wg        sync.WaitGroup
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(s *Supervisor) {
		s.runner = r
	}
}

// WithMaxOutput sets the per-stream capture limit in bytes.
func WithMaxOutput(n int) Option {
	return func(s *Supervisor) {
		s.maxOutput = n
	}
}

// WithClock replaces the clock used for launch timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Supervisor) {
		s.now = now
	}
}

// New returns a Supervisor that reports to reporter.
func New(reporter progress.Reporter, opts ...Option) *Supervisor {
	s := &Supervisor{
		reporter:  reporter,
		runner:    ExecRunner{},
		maxOutput: DefaultMaxOutput,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Launch starts every command from src as soon as it is read, then reports EventSourceDone.
// Entries the source fails to read are logged and skipped. It returns the number of tasks
// launched.
func (s *Supervisor) Launch(ctx context.Context, src source.Source) int {
	logger := ctxlog.Logger(ctx).With("component", "supervisor")

	var srcErr error

	for {
		cmd, err := src.Next(ctx)

		if errors.Is(err, io.EOF) {
			break
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			srcErr = ctxErr
			break
		}

		if err != nil {
			logger.Warn("skipping unreadable command", "error", err)
			continue
		}

		if _, ok := s.Start(ctx, cmd); !ok {
			srcErr = errReporterClosed
			break
		}
	}

	logger.Debug("source exhausted", "tasks", s.next, "error", srcErr)

	if !s.reporter.Report(progress.SourceDone(s.next, srcErr)) {
		logger.Debug("render loop gone, source-done event discarded")
	}

	return s.next
}

var errReporterClosed = errors.New("event reporter closed")

// Start launches a single command and returns its id. It returns false, and starts nothing,
// if the launch announcement could not be delivered.
func (s *Supervisor) Start(ctx context.Context, command string) (int, bool) {
	id := s.next

	if !s.reporter.Report(progress.Launched(id, command, s.now())) {
		return id, false
	}

	s.next++

	ctxlog.Debug(ctx, "launching task", "id", id, "command", command)

	s.wg.Add(1)

	go s.run(ctx, id, command)

	return id, true
}

// Wait blocks until every started goroutine has handed its outcome to the reporter.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

// Launched returns the number of tasks started so far.
func (s *Supervisor) Launched() int {
	return s.next
}

func (s *Supervisor) run(ctx context.Context, id int, command string) {
	defer s.wg.Done()

	ev := s.execute(id, command)

	if !s.reporter.Report(ev) {
		ctxlog.Debug(ctx, "render loop gone, outcome discarded", "id", id, "event", ev.Type.String())
		return
	}

	ctxlog.Debug(ctx, "task reported", "id", id, "event", ev.Type.String(), "exitCode", ev.Data.ExitCode)
}

// execute runs the command and converts the result into exactly one terminal event.
func (s *Supervisor) execute(id int, command string) (ev progress.Event) {
	defer func() {
		if r := recover(); r != nil {
			ev = progress.LaunchFailed(id, fmt.Errorf("%w: %v", ErrPanic, r))
		}
	}()

	argv := Split(command)
	if len(argv) == 0 {
		return progress.LaunchFailed(id, errors.Join(ErrCouldNotStartProcess, ErrEmptyCommand))
	}

	stdout := newCapBuffer(s.maxOutput)
	stderr := newCapBuffer(s.maxOutput)

	proc, err := s.runner.Start(argv, stdout, stderr)
	if err != nil {
		return progress.LaunchFailed(id, errors.Join(ErrCouldNotStartProcess, err))
	}

	exitCode, err := proc.Wait()

	var captureErr error

	if err != nil {
		captureErr = errors.Join(ErrWait, err)
	}

	if stdout.truncated || stderr.truncated {
		captureErr = errors.Join(captureErr, fmt.Errorf("%w to %d bytes", ErrOutputTruncated, s.maxOutput))
	}

	return progress.Completed(id, exitCode, stdout.Text(), stderr.Text(), captureErr)
}
