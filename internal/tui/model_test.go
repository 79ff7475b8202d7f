// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/fanout/internal/loop"
	"github.com/matt-FFFFFF/fanout/internal/progress"
	"github.com/matt-FFFFFF/fanout/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, ctx context.Context, mutate func(*loop.Options)) (*Model, chan progress.Event) {
	t.Helper()

	opts := loop.DefaultOptions()
	opts.Tick = 5 * time.Millisecond

	if mutate != nil {
		mutate(&opts)
	}

	ctrl, err := loop.NewController(opts)
	require.NoError(t, err)

	events := make(chan progress.Event, 16)
	m := NewModel(ctx, ctrl, events, "")
	m.now = func() time.Time { return epoch.Add(4 * time.Second) }

	return m, events
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}

	_, ok := cmd().(tea.QuitMsg)

	return ok
}

func TestWaitForEvent(t *testing.T) {
	defer goleak.VerifyNone(t)

	events := make(chan progress.Event, 1)
	events <- progress.SourceDone(0, nil)

	msg := waitForEvent(events, time.Second)()
	require.IsType(t, eventMsg{}, msg)
	assert.Equal(t, progress.EventSourceDone, msg.(eventMsg).Event.Type)

	assert.IsType(t, tickMsg{}, waitForEvent(events, time.Millisecond)())

	close(events)
	assert.IsType(t, closedMsg{}, waitForEvent(events, time.Second)())
}

func TestUpdateAppliesEventsAndQuitsWhenDone(t *testing.T) {
	m, _ := newTestModel(t, context.Background(), nil)

	_, cmd := m.Update(eventMsg{Event: progress.Launched(0, "sleep 1", epoch)})
	require.NotNil(t, cmd)
	assert.False(t, m.quitting)

	view := m.View()
	assert.Contains(t, view, "Running Parallel")
	assert.Contains(t, view, "running 4s:")
	assert.Contains(t, view, "sleep 1")

	_, _ = m.Update(eventMsg{Event: progress.Completed(0, 0, "", "", nil)})
	_, cmd = m.Update(eventMsg{Event: progress.SourceDone(1, nil)})

	assert.True(t, isQuit(cmd))

	out, err := m.Outcome()
	require.NoError(t, err)
	assert.Equal(t, loop.ReasonAllDone, out.Reason)
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, task.StatusSucceeded, out.Tasks[0].Status)
}

func TestUpdateAbortOnLaunchFailure(t *testing.T) {
	m, _ := newTestModel(t, context.Background(), func(o *loop.Options) {
		o.LaunchFailure = loop.AbortOnLaunchFailure
	})

	_, _ = m.Update(eventMsg{Event: progress.Launched(0, "nonexistent-binary-xyz", epoch)})
	_, cmd := m.Update(eventMsg{Event: progress.LaunchFailed(0, errors.New("not found"))})

	assert.True(t, isQuit(cmd))

	out, err := m.Outcome()
	require.ErrorIs(t, err, loop.ErrLaunchAborted)
	assert.Equal(t, loop.ReasonLaunchAborted, out.Reason)
}

func TestUpdateKeyQuitCancelsRun(t *testing.T) {
	m, _ := newTestModel(t, context.Background(), nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.True(t, isQuit(cmd))

	out, err := m.Outcome()
	require.ErrorIs(t, err, loop.ErrCancelled)
	assert.Equal(t, loop.ReasonCancelled, out.Reason)
}

func TestUpdateTickAfterContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m, _ := newTestModel(t, ctx, nil)

	_, cmd := m.Update(tickMsg{})
	require.NotNil(t, cmd)
	assert.False(t, m.quitting)

	cancel()

	_, cmd = m.Update(tickMsg{})
	assert.True(t, isQuit(cmd))

	_, err := m.Outcome()
	require.ErrorIs(t, err, loop.ErrCancelled)
}

func TestUpdateClosedChannel(t *testing.T) {
	m, _ := newTestModel(t, context.Background(), nil)

	_, cmd := m.Update(closedMsg{})
	assert.True(t, isQuit(cmd))

	_, err := m.Outcome()
	require.ErrorIs(t, err, loop.ErrEventChannelClosed)
}

func TestViewWithWindowSize(t *testing.T) {
	m, _ := newTestModel(t, context.Background(), nil)

	_, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	_, _ = m.Update(eventMsg{Event: progress.Launched(0, "false", epoch)})
	_, _ = m.Update(eventMsg{Event: progress.Launched(1, "sleep 5", epoch)})

	view := m.View()
	assert.Contains(t, view, "false")
	assert.Contains(t, view, "2 tasks, 2 running, reading commands")
	assert.Contains(t, view, "'q' to cancel the run")
}
