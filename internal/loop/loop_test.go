// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

import (
	"bytes"
	"context"
	"errors"
	"io"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matt-FFFFFF/fanout/internal/frame"
	"github.com/matt-FFFFFF/fanout/internal/progress"
	"github.com/matt-FFFFFF/fanout/internal/source"
	"github.com/matt-FFFFFF/fanout/internal/supervisor"
	"github.com/matt-FFFFFF/fanout/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// recordingPainter keeps every snapshot it was asked to draw.
type recordingPainter struct {
	frames [][]task.Task
	footer []string
}

func (p *recordingPainter) Paint(tasks []task.Task) error {
	p.frames = append(p.frames, tasks)
	return nil
}

func (p *recordingPainter) Footer(msg string) error {
	p.footer = append(p.footer, msg)
	return nil
}

type exitProcess struct {
	code int
	wait <-chan struct{}
}

func (p exitProcess) Wait() (int, error) {
	if p.wait != nil {
		<-p.wait
	}

	return p.code, nil
}

// scriptRunner stands in for true, false and sleep. false waits for its gate so the
// order of completions is fixed.
type scriptRunner struct {
	falseGate <-chan struct{}
	sleepGate <-chan struct{}
}

func (r scriptRunner) Start(argv []string, stdout, _ io.Writer) (supervisor.Process, error) {
	switch argv[0] {
	case "true":
		return exitProcess{}, nil
	case "false":
		return exitProcess{code: 1, wait: r.falseGate}, nil
	case "sleep":
		_, _ = io.WriteString(stdout, "never seen")
		return exitProcess{wait: r.sleepGate}, nil
	}

	return nil, errors.New("executable file not found in $PATH")
}

// hookReporter calls after once each event has been delivered.
type hookReporter struct {
	*progress.Channel
	after func(progress.Event)
}

func (h hookReporter) Report(ev progress.Event) bool {
	ok := h.Channel.Report(ev)
	h.after(ev)

	return ok
}

func TestRunTrueFalseSleep(t *testing.T) {
	defer goleak.VerifyNone(t)

	falseGate := make(chan struct{})
	sleepGate := make(chan struct{})

	var once sync.Once

	ch := progress.NewChannel(16)
	rep := hookReporter{Channel: ch, after: func(ev progress.Event) {
		if ev.Type == progress.EventCompleted && ev.TaskID == 0 {
			once.Do(func() { close(falseGate) })
		}
	}}

	sup := supervisor.New(rep, supervisor.WithRunner(scriptRunner{falseGate: falseGate, sleepGate: sleepGate}))
	sup.Launch(context.Background(), source.NewList("true", "false", "sleep 5"))

	painter := &recordingPainter{}
	out, err := Run(context.Background(), ch.Events(), painter, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, ReasonFirstFailure, out.Reason)
	require.Len(t, out.Tasks, 3)
	assert.Equal(t, task.StatusSucceeded, out.Tasks[0].Status)
	assert.Equal(t, task.StatusFailed, out.Tasks[1].Status)
	assert.Equal(t, 1, out.Tasks[1].ExitCode)
	assert.Equal(t, task.StatusRunning, out.Tasks[2].Status)
	assert.Empty(t, out.Tasks[2].Stdout)
	assert.Equal(t, []string{"All done"}, painter.footer)

	// Release the abandoned task: its late outcome is dropped, never blocks.
	ch.Close()
	close(sleepGate)
	sup.Wait()

	assert.Equal(t, int64(1), ch.Dropped())
}

func TestRunMissingBinary(t *testing.T) {
	defer goleak.VerifyNone(t)

	testCases := []struct {
		name    string
		policy  LaunchFailurePolicy
		reason  Reason
		wantErr error
	}{
		{"record", RecordLaunchFailure, ReasonFirstFailure, nil},
		{"abort", AbortOnLaunchFailure, ReasonLaunchAborted, ErrLaunchAborted},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ch := progress.NewChannel(8)
			sup := supervisor.New(ch, supervisor.WithRunner(scriptRunner{}))
			sup.Launch(context.Background(), source.NewList("nonexistent-binary-xyz"))

			opts := DefaultOptions()
			opts.LaunchFailure = tc.policy

			out, err := Run(context.Background(), ch.Events(), &recordingPainter{}, opts)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.ErrorIs(t, err, supervisor.ErrCouldNotStartProcess)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.reason, out.Reason)
			require.Len(t, out.Tasks, 1)
			assert.Equal(t, task.StatusLaunchError, out.Tasks[0].Status)
			assert.Contains(t, out.Tasks[0].Err, "could not start process")

			ch.Close()
			sup.Wait()
		})
	}
}

func TestRunEmptyInput(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := progress.NewChannel(1)
	sup := supervisor.New(ch)
	sup.Launch(context.Background(), source.NewList())

	var buf bytes.Buffer

	painter := frame.NewPainter(&buf, false, frame.Options{})

	out, err := Run(context.Background(), ch.Events(), painter, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, ReasonAllDone, out.Reason)
	assert.Empty(t, out.Tasks)
	assert.Equal(t, "Running Parallel\nAll done\n", buf.String())
}

func TestRunHoldPaintWaitsForSourceAfterFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	events := make(chan progress.Event, 4)
	events <- progress.Launched(0, "false", epoch)
	events <- progress.Completed(0, 1, "", "", nil)

	var buf bytes.Buffer

	painter := frame.NewPainter(&buf, false, frame.Options{})

	opts := DefaultOptions()
	opts.Tick = 10 * time.Millisecond
	opts.HoldPaint = true

	sent := make(chan struct{})

	go func() {
		defer close(sent)

		time.Sleep(50 * time.Millisecond)
		events <- progress.SourceDone(1, nil)
	}()

	out, err := Run(context.Background(), events, painter, opts)
	require.NoError(t, err)
	<-sent

	assert.Equal(t, ReasonFirstFailure, out.Reason)
	assert.Equal(t, "Running Parallel\nerror: false\nAll done\n", buf.String())
}

func TestRunRedrawsOnTickWithoutEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	events := make(chan progress.Event, 4)
	events <- progress.Launched(0, "sleep 1", time.Now())

	painter := &recordingPainter{}

	opts := DefaultOptions()
	opts.Tick = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	go func() {
		time.Sleep(80 * time.Millisecond)
		events <- progress.Completed(0, 0, "", "", nil)
		events <- progress.SourceDone(1, nil)
	}()

	out, err := Run(ctx, events, painter, opts)
	require.NoError(t, err)
	assert.Equal(t, ReasonAllDone, out.Reason)

	// One frame per event plus at least a few tick redraws in between.
	assert.Greater(t, len(painter.frames), 4)

	for _, f := range painter.frames {
		require.Len(t, f, 1)
	}
}

func TestRunCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := Run(ctx, make(chan progress.Event), &recordingPainter{}, DefaultOptions())
	require.ErrorIs(t, err, ErrCancelled)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ReasonCancelled, out.Reason)
}

func TestRunClosedChannel(t *testing.T) {
	events := make(chan progress.Event)
	close(events)

	_, err := Run(context.Background(), events, &recordingPainter{}, DefaultOptions())
	require.ErrorIs(t, err, ErrEventChannelClosed)
}

func TestRunInvalidTick(t *testing.T) {
	opts := DefaultOptions()
	opts.Tick = 0

	_, err := Run(context.Background(), nil, &recordingPainter{}, opts)
	require.ErrorIs(t, err, ErrInvalidTick)
}

func TestRunFramesKeepAscendingIDs(t *testing.T) {
	defer goleak.VerifyNone(t)

	events := make(chan progress.Event, 16)
	for i, cmd := range []string{"a", "b", "c", "d"} {
		events <- progress.Launched(i, cmd, time.Now())
	}

	for _, id := range []int{3, 1, 0, 2} {
		events <- progress.Completed(id, 0, "", "", nil)
	}

	events <- progress.SourceDone(4, nil)

	painter := &recordingPainter{}

	out, err := Run(context.Background(), events, painter, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, ReasonAllDone, out.Reason)

	for _, f := range painter.frames {
		for i, tk := range f {
			assert.Equal(t, i, tk.ID)
		}
	}
}

func TestRunWithRealProcesses(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX utilities")
	}

	defer goleak.VerifyNone(t)

	ch := progress.NewChannel(16)
	sup := supervisor.New(ch)
	sup.Launch(context.Background(), source.NewList("true", "echo hello", "sh -c exit"))

	var buf bytes.Buffer

	opts := DefaultOptions()
	opts.Termination = WaitForAll

	out, err := Run(context.Background(), ch.Events(), frame.NewPainter(&buf, false, frame.Options{}), opts)
	require.NoError(t, err)

	assert.Equal(t, ReasonAllDone, out.Reason)
	require.Len(t, out.Tasks, 3)

	for _, tk := range out.Tasks {
		assert.Equal(t, task.StatusSucceeded, tk.Status, tk.Command)
	}

	assert.Equal(t, "hello\n", out.Tasks[1].Stdout)
	assert.True(t, strings.HasSuffix(buf.String(), "done: sh -c exit\nAll done\n"))

	ch.Close()
	sup.Wait()
}
