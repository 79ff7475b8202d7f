// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// MaxLineLength bounds a single command line read from a stream.
	MaxLineLength = 64 * 1024

	maxConsecutiveReadErrors = 5
)

var (
	// ErrLineTooLong is returned for a line longer than MaxLineLength. The line is skipped.
	ErrLineTooLong = fmt.Errorf("command line exceeds %d bytes", MaxLineLength)
	// ErrRead is returned when the underlying reader fails.
	ErrRead = errors.New("failed to read command line")
)

// Lines is a Source reading newline separated commands until end of input.
type Lines struct {
	r        *bufio.Reader
	max      int
	failures int
	done     bool
}

var _ Source = (*Lines)(nil)

// NewLines returns a Source over r.
func NewLines(r io.Reader) *Lines {
	return &Lines{
		r:   bufio.NewReader(r),
		max: MaxLineLength,
	}
}

// Next implements Source. It blocks until a full line is available.
func (l *Lines) Next(ctx context.Context) (string, error) {
	for !l.done {
		if err := ctx.Err(); err != nil {
			return "", err //nolint:wrapcheck
		}

		line, err := l.readLine()

		switch {
		case errors.Is(err, ErrLineTooLong):
			return "", err
		case errors.Is(err, io.EOF):
			l.done = true
		case err != nil:
			l.failures++
			if l.failures >= maxConsecutiveReadErrors {
				l.done = true
			}

			return "", errors.Join(ErrRead, err)
		default:
			l.failures = 0
		}

		if cmd := strings.TrimSpace(line); cmd != "" {
			return cmd, nil
		}
	}

	return "", io.EOF
}

// readLine returns one line without its terminator. A final line without a newline is
// returned together with io.EOF.
func (l *Lines) readLine() (string, error) {
	var sb strings.Builder

	for {
		chunk, err := l.r.ReadSlice('\n')
		// Leave room for a "\r\n" terminator, which does not count towards the limit.
		if sb.Len()+len(chunk) > l.max+2 {
			if errors.Is(err, bufio.ErrBufferFull) {
				l.discardLine()
			}

			return "", ErrLineTooLong
		}

		sb.Write(chunk)

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}

		line := strings.TrimRight(sb.String(), "\r\n")
		if len(line) > l.max {
			return "", ErrLineTooLong
		}

		return line, err //nolint:wrapcheck
	}
}

func (l *Lines) discardLine() {
	for {
		_, err := l.r.ReadSlice('\n')
		if !errors.Is(err, bufio.ErrBufferFull) {
			return
		}
	}
}
