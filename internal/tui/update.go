// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/fanout/internal/ctxlog"
	"github.com/matt-FFFFFF/fanout/internal/frame"
	"github.com/matt-FFFFFF/fanout/internal/loop"
	"github.com/matt-FFFFFF/fanout/internal/progress"
)

const (
	minStatusBarAvailableHeight = 10
	chromeHeight                = 6 // title, border and status bar lines
)

// eventMsg carries one progress event into Update.
type eventMsg struct {
	Event progress.Event
}

// tickMsg is sent when no event arrived within one tick.
type tickMsg struct{}

// closedMsg is sent when the event channel was closed.
type closedMsg struct{}

// waitForEvent receives one event with a bounded wait.
func waitForEvent(events <-chan progress.Event, tick time.Duration) tea.Cmd {
	return func() tea.Msg {
		t := time.NewTimer(tick)
		defer t.Stop()

		select {
		case ev, ok := <-events:
			if !ok {
				return closedMsg{}
			}

			return eventMsg{Event: ev}
		case <-t.C:
			return tickMsg{}
		}
	}
}

// Init implements bubbletea.Model.Init.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.next(),
	)
}

func (m *Model) next() tea.Cmd {
	return waitForEvent(m.events, m.ctrl.Options().Tick)
}

// Update implements bubbletea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 2 //nolint:mnd // border
		m.viewport.Height = max(1, msg.Height-chromeHeight)
		m.ready = true

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case eventMsg:
		if err := m.ctrl.Apply(m.ctx, msg.Event); err != nil {
			m.err = err
			return m.quit()
		}

		if _, done := m.ctrl.Done(); done {
			return m.quit()
		}

		return m, m.next()

	case tickMsg:
		if m.ctx.Err() != nil {
			m.ctrl.Cancel()
			m.err = loop.ErrCancelled

			return m.quit()
		}

		return m, m.next()

	case closedMsg:
		m.err = loop.ErrEventChannelClosed
		return m.quit()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// handleKeyPress processes keyboard input. Quitting early cancels the run.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		ctxlog.Info(m.ctx, "run cancelled from the keyboard")
		m.ctrl.Cancel()
		m.err = loop.ErrCancelled

		return m.quit()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

// View implements bubbletea.Model.View.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	st := styler{styles: m.styles, spinner: m.spinner.View()}
	body := frame.Render(m.ctrl.Snapshot(), m.now(), frame.Options{
		Title:       m.title,
		ShowElapsed: true,
		Styler:      st,
	})

	if !m.ready {
		return body
	}

	m.viewport.SetContent(strings.TrimSuffix(body, "\n"))

	var view strings.Builder

	view.WriteString(m.styles.Border.Render(m.viewport.View()))

	if m.height > minStatusBarAvailableHeight {
		view.WriteString("\n")
		view.WriteString(m.renderStatusBar())
		view.WriteString("\n")
		view.WriteString(m.styles.Help.Render("↑/↓ or j/k to scroll, 'q' to cancel the run"))
	}

	return view.String()
}

func (m *Model) renderStatusBar() string {
	reg := m.ctrl.Registry()

	source := "reading commands"
	if m.ctrl.SourceDone() {
		source = "all commands launched"
	}

	return m.styles.Status.Render(fmt.Sprintf("%d tasks, %d running, %s", reg.Len(), reg.Running(), source))
}
