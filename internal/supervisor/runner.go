// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package supervisor

import (
	"errors"
	"io"
	"os/exec"
	"strings"
)

// Process is a started child process.
type Process interface {
	// Wait blocks until the process exits. A non-zero exit is reported through exitCode with
	// a nil error; err is reserved for failures to wait or to collect output.
	Wait() (exitCode int, err error)
}

// Runner starts processes.
type Runner interface {
	Start(argv []string, stdout, stderr io.Writer) (Process, error)
}

// ExecRunner starts processes with os/exec. Stdin is the null device and the environment
// is inherited unchanged.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

// Start implements Runner.
func (ExecRunner) Start(argv []string, stdout, stderr io.Writer) (Process, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}

	cmd := exec.Command(argv[0], argv[1:]...) //nolint:gosec,noctx
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Wait() (int, error) {
	err := p.cmd.Wait()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// ExitCode is -1 when the process was killed by a signal.
		return exitErr.ExitCode(), nil
	}

	if err != nil {
		return -1, err //nolint:wrapcheck
	}

	return 0, nil
}

// Split turns a command line into program and arguments on whitespace.
// There is no shell: quotes, escapes, pipes and variable references are passed through
// literally, so `sh -c "a b"` becomes ["sh", "-c", "\"a", "b\""].
func Split(command string) []string {
	return strings.Fields(command)
}
