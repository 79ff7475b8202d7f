// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package task

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnknownTask is returned when an outcome names an id that was never added.
	ErrUnknownTask = errors.New("unknown task id")
	// ErrAlreadyTerminal is returned when a task receives a second terminal outcome.
	ErrAlreadyTerminal = errors.New("task already in a terminal state")
	// ErrOutOfOrder is returned when a task is added with an id other than the next one.
	ErrOutOfOrder = errors.New("task id out of launch order")
	// ErrNotTerminal is returned when an outcome carries a non-terminal status.
	ErrNotTerminal = errors.New("outcome status is not terminal")
)

// Outcome is a terminal result to apply to a task.
type Outcome struct {
	Status     Status
	ExitCode   int
	Stdout     string
	Stderr     string
	Err        string
	FinishedAt time.Time
}

// Registry stores tasks by id. The zero value is ready to use.
type Registry struct {
	tasks   []Task
	running int
	failed  int
}

// Add records a new running task. id must equal Len().
func (r *Registry) Add(id int, command string, startedAt time.Time) error {
	if id != len(r.tasks) {
		return fmt.Errorf("%w: got %d, want %d", ErrOutOfOrder, id, len(r.tasks))
	}

	r.tasks = append(r.tasks, Task{
		ID:        id,
		Command:   command,
		Status:    StatusRunning,
		StartedAt: startedAt,
	})
	r.running++

	return nil
}

// Finish moves a running task to a terminal status.
func (r *Registry) Finish(id int, o Outcome) error {
	if id < 0 || id >= len(r.tasks) {
		return fmt.Errorf("%w: %d", ErrUnknownTask, id)
	}

	if !o.Status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrNotTerminal, o.Status)
	}

	t := &r.tasks[id]
	if t.Status.IsTerminal() {
		return fmt.Errorf("%w: task %d is %s", ErrAlreadyTerminal, id, t.Status)
	}

	t.Status = o.Status
	t.ExitCode = o.ExitCode
	t.Stdout = o.Stdout
	t.Stderr = o.Stderr
	t.Err = o.Err
	t.FinishedAt = o.FinishedAt

	r.running--
	if o.Status.IsFailure() {
		r.failed++
	}

	return nil
}

// Get returns a copy of the task with the given id.
func (r *Registry) Get(id int) (Task, bool) {
	if id < 0 || id >= len(r.tasks) {
		return Task{}, false
	}

	return r.tasks[id], true
}

// Len returns the number of tasks added so far.
func (r *Registry) Len() int {
	return len(r.tasks)
}

// Running returns the number of tasks not yet terminal.
func (r *Registry) Running() int {
	return r.running
}

// AnyFailed reports whether any task is Failed or LaunchError.
func (r *Registry) AnyFailed() bool {
	return r.failed > 0
}

// AllTerminal reports whether every task added so far is terminal.
func (r *Registry) AllTerminal() bool {
	return r.running == 0
}

// Snapshot returns copies of all tasks in ascending id order.
func (r *Registry) Snapshot() []Task {
	out := make([]Task, len(r.tasks))
	copy(out, r.tasks)

	return out
}
