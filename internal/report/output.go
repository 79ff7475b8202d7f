// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/fanout/internal/color"
	"github.com/matt-FFFFFF/fanout/internal/task"
)

const (
	stdoutSection = "====STDOUT===="
	stderrSection = "====STDERR===="
)

// ErrWriteOutput is returned when the output could not be written.
var ErrWriteOutput = errors.New("failed to write output")

// StdoutPolicy decides which tasks have their stdout printed.
type StdoutPolicy int

const (
	// StdoutOnFailure prints stdout only for failed tasks.
	StdoutOnFailure StdoutPolicy = iota
	// StdoutAlways prints stdout for every finished task.
	StdoutAlways
)

// OutputOptions controls what is included in the output.
type OutputOptions struct {
	Stdout        StdoutPolicy
	IncludeStdErr bool
}

// DefaultOutputOptions returns a default set of output options.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		Stdout:        StdoutOnFailure,
		IncludeStdErr: true,
	}
}

// WriteOutput writes the captured output of every task in ascending id order.
// Tasks with nothing to show, and tasks still running, are skipped.
func WriteOutput(w io.Writer, tasks []task.Task, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	for _, t := range tasks {
		body := taskBody(t, options)
		if body == "" {
			continue
		}

		header := color.Colorize("Output for "+t.Command, color.Bold)
		if t.Status == task.StatusFailed {
			header += fmt.Sprintf(" (exit code: %d)", t.ExitCode)
		}

		if _, err := fmt.Fprintf(w, "%s:\n%s\n\n", header, body); err != nil {
			return errors.Join(ErrWriteOutput, err)
		}
	}

	return nil
}

func taskBody(t task.Task, options *OutputOptions) string {
	if !t.Status.IsTerminal() {
		return ""
	}

	sb := strings.Builder{}

	if t.Err != "" {
		sb.WriteString(color.Colorize("➜ Error:", color.FgRed))
		sb.WriteString(" ")
		sb.WriteString(t.Err)
		sb.WriteString("\n")
	}

	showStdout := options.Stdout == StdoutAlways || t.Status.IsFailure()
	if showStdout && t.Stdout != "" {
		sb.WriteString(stdoutSection)
		sb.WriteString("\n")
		sb.WriteString(withNewline(t.Stdout))
	}

	if options.IncludeStdErr && t.Stderr != "" {
		sb.WriteString(color.Colorize(stderrSection, color.FgHiRed))
		sb.WriteString("\n")
		sb.WriteString(withNewline(t.Stderr))
	}

	return sb.String()
}

func withNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}

	return s + "\n"
}
