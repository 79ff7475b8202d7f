// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// DefaultPrompt is shown before each interactive command.
const DefaultPrompt = "> "

// Prompt is a Source that reads commands interactively with line editing and history.
// Ctrl-D or Ctrl-C end input.
type Prompt struct {
	line     *liner.State
	prompt   string
	failures int
}

var _ Source = (*Prompt)(nil)

// NewPrompt puts the terminal in raw mode. Call Close when input ends.
func NewPrompt(prompt string) *Prompt {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	return &Prompt{
		line:   line,
		prompt: prompt,
	}
}

// Next implements Source.
func (p *Prompt) Next(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err //nolint:wrapcheck
		}

		input, err := p.line.Prompt(p.prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}

		if err != nil {
			p.failures++
			if p.failures > maxConsecutiveReadErrors {
				return "", io.EOF
			}

			return "", errors.Join(ErrRead, err)
		}

		p.failures = 0

		cmd := strings.TrimSpace(input)
		if cmd == "" {
			continue
		}

		p.line.AppendHistory(cmd)

		return cmd, nil
	}
}

// Close restores the terminal.
func (p *Prompt) Close() error {
	return p.line.Close() //nolint:wrapcheck
}
