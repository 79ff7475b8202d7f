// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/matt-FFFFFF/fanout/internal/frame"
	"github.com/matt-FFFFFF/fanout/internal/task"
)

var (
	// ErrWriteGob is returned when writing the results to a binary format fails.
	ErrWriteGob = errors.New("failed to write binary results")
	// ErrReadGob is returned when results cannot be decoded.
	ErrReadGob = errors.New("failed to decode results")
)

// Results is a finished run as saved with --out.
type Results struct {
	Title      string
	Reason     string
	FinishedAt time.Time
	Tasks      []task.Task
}

// HasFailure reports whether any task failed or could not be launched.
func (r *Results) HasFailure() bool {
	for _, t := range r.Tasks {
		if t.Status.IsFailure() {
			return true
		}
	}

	return false
}

// WriteBinary encodes the results with encoding/gob.
func (r *Results) WriteBinary(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(r); err != nil {
		return errors.Join(ErrWriteGob, err)
	}

	return nil
}

// ReadResults decodes results written by WriteBinary.
func ReadResults(rd io.Reader) (*Results, error) {
	var r Results
	if err := gob.NewDecoder(rd).Decode(&r); err != nil {
		return nil, errors.Join(ErrReadGob, err)
	}

	return &r, nil
}

// WriteText prints the final status frame, the end reason and the captured output.
func (r *Results) WriteText(w io.Writer, st frame.Styler, options *OutputOptions) error {
	view := frame.Render(r.Tasks, r.FinishedAt, frame.Options{
		Title:       r.Title,
		ShowElapsed: true,
		Styler:      st,
	})

	if _, err := fmt.Fprintf(w, "%sEnded: %s\n\n", view, r.Reason); err != nil {
		return errors.Join(ErrWriteOutput, err)
	}

	return WriteOutput(w, r.Tasks, options)
}
