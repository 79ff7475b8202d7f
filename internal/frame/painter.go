// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package frame

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matt-FFFFFF/fanout/internal/task"
)

const (
	eraseEndLine = "\033[K"
	cursorUpFmt  = "\033[%dA"
)

// ErrWrite is returned when the frame could not be written.
var ErrWrite = errors.New("failed to write frame")

var timeNow = time.Now

// Painter writes frames to a terminal or a plain stream.
//
// In place mode moves the cursor back over the previous frame and overwrites it, erasing the
// rest of each line. Plain mode renders without elapsed times and writes a frame only when it
// differs from the last one written.
type Painter struct {
	w         io.Writer
	inPlace   bool
	opts      Options
	prevLines int
	last      string
}

// NewPainter returns a Painter writing to w.
func NewPainter(w io.Writer, inPlace bool, opts Options) *Painter {
	if !inPlace {
		opts.ShowElapsed = false
	}

	return &Painter{
		w:       w,
		inPlace: inPlace,
		opts:    opts,
	}
}

// Paint draws the snapshot.
func (p *Painter) Paint(tasks []task.Task) error {
	out := Render(tasks, timeNow(), p.opts)

	if !p.inPlace {
		if out == p.last {
			return nil
		}

		p.last = out

		return p.write(out)
	}

	sb := strings.Builder{}
	if p.prevLines > 0 {
		fmt.Fprintf(&sb, cursorUpFmt, p.prevLines)
	}

	lines := strings.SplitAfter(out, "\n")
	for _, l := range lines {
		if l == "" {
			continue
		}

		sb.WriteString(strings.TrimSuffix(l, "\n"))
		sb.WriteString(eraseEndLine)
		sb.WriteByte('\n')
	}

	p.prevLines = len(tasks) + 1

	return p.write(sb.String())
}

// Footer writes a final line below the last frame. The next Paint starts a new frame.
func (p *Painter) Footer(msg string) error {
	p.prevLines = 0
	p.last = ""

	return p.write(msg + "\n")
}

func (p *Painter) write(s string) error {
	if _, err := io.WriteString(p.w, s); err != nil {
		return errors.Join(ErrWrite, err)
	}

	return nil
}
