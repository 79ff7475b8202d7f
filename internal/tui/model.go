// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/fanout/internal/frame"
	"github.com/matt-FFFFFF/fanout/internal/loop"
	"github.com/matt-FFFFFF/fanout/internal/progress"
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	ctrl     *loop.Controller
	events   <-chan progress.Event
	title    string
	styles   *Styles
	spinner  spinner.Model
	viewport viewport.Model
	now      func() time.Time

	width    int
	height   int
	ready    bool
	quitting bool
	err      error
}

// Styles contains all the styling for the TUI.
type Styles struct {
	Title   lipgloss.Style
	Running lipgloss.Style
	Success lipgloss.Style
	Failed  lipgloss.Style
	Command lipgloss.Style
	Status  lipgloss.Style
	Help    lipgloss.Style
	Border  lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("15")),
		Running: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true),
		Command: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")),
	}
}

// NewModel creates a TUI model that drives ctrl from events.
func NewModel(ctx context.Context, ctrl *loop.Controller, events <-chan progress.Event, title string) *Model {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("11"))),
	)

	return &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		events:   events,
		title:    title,
		styles:   NewStyles(),
		spinner:  s,
		viewport: viewport.New(0, 0),
		now:      time.Now,
	}
}

// Outcome returns the state of the run once the program has exited.
func (m *Model) Outcome() (loop.Outcome, error) {
	reason, _ := m.ctrl.Done()

	return loop.Outcome{Reason: reason, Tasks: m.ctrl.Snapshot()}, m.err
}

// styler renders frame parts with lipgloss, prefixing running tasks with the spinner.
type styler struct {
	styles  *Styles
	spinner string
}

var _ frame.Styler = styler{}

func (s styler) Title(str string) string     { return s.styles.Title.Render(str) }
func (s styler) Succeeded(str string) string { return s.styles.Success.Render("✓ " + str) }
func (s styler) Failed(str string) string    { return s.styles.Failed.Render("✗ " + str) }
func (s styler) Command(str string) string   { return s.styles.Command.Render(str) }

func (s styler) Running(str string) string {
	return s.spinner + " " + s.styles.Running.Render(str)
}
