// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package frame

import (
	"strconv"
	"strings"
	"time"

	"github.com/matt-FFFFFF/fanout/internal/task"
)

// DefaultTitle is the header line used when no run file name is available.
const DefaultTitle = "Running Parallel"

// Styler decorates the parts of a frame. Implementations may add glyphs but keep the text.
type Styler interface {
	Title(s string) string
	Running(s string) string
	Succeeded(s string) string
	Failed(s string) string
	Command(s string) string
}

// Options control how a frame is rendered.
type Options struct {
	Title       string
	ShowElapsed bool // Plain output turns this off so a frame only changes on a status change.
	Styler      Styler
}

// Render returns the header line followed by one line per task, each terminated by a newline.
// Tasks are rendered in the order given, which callers keep as ascending id.
func Render(tasks []task.Task, now time.Time, opts Options) string {
	st := opts.Styler
	if st == nil {
		st = Plain{}
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	sb := strings.Builder{}
	sb.WriteString(st.Title(title))
	sb.WriteByte('\n')

	for _, t := range tasks {
		sb.WriteString(Line(t, now, opts.ShowElapsed, st))
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Line renders a single task.
func Line(t task.Task, now time.Time, showElapsed bool, st Styler) string {
	return Prefix(t, now, showElapsed, st) + st.Command(t.Command)
}

// Prefix renders the status part of a task line, for example "running 3s: ".
func Prefix(t task.Task, now time.Time, showElapsed bool, st Styler) string {
	switch t.Status {
	case task.StatusRunning:
		if !showElapsed {
			return st.Running("running: ")
		}

		secs := int64(t.Elapsed(now) / time.Second)

		return st.Running("running " + strconv.FormatInt(secs, 10) + "s: ")
	case task.StatusSucceeded:
		return st.Succeeded("done: ")
	case task.StatusLaunchError:
		return st.Failed("launch error: ")
	default:
		return st.Failed("error: ")
	}
}
