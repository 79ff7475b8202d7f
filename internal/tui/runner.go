// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/fanout/internal/loop"
	"github.com/matt-FFFFFF/fanout/internal/progress"
)

// ErrProgram is returned when the bubbletea program fails.
var ErrProgram = errors.New("terminal UI failed")

// Run shows the TUI until the run terminates or the user cancels it.
// Extra options are passed to tea.NewProgram, which lets tests replace input and output.
func Run(
	ctx context.Context, ctrl *loop.Controller, events <-chan progress.Event, title string, opts ...tea.ProgramOption,
) (loop.Outcome, error) {
	model := NewModel(ctx, ctrl, events, title)

	programOpts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(model, programOpts...)

	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			ctrl.Cancel()
			out, _ := model.Outcome()

			return out, errors.Join(loop.ErrCancelled, context.Cause(ctx))
		}

		out, _ := model.Outcome()

		return out, errors.Join(ErrProgram, err)
	}

	return model.Outcome()
}
