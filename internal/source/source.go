// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Source produces command lines.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// List is a Source over a fixed slice.
type List struct {
	items []string
	pos   int
}

var _ Source = (*List)(nil)

// NewList returns a Source yielding items in order.
func NewList(items ...string) *List {
	return &List{items: items}
}

// Next implements Source.
func (l *List) Next(ctx context.Context) (string, error) {
	for l.pos < len(l.items) {
		if err := ctx.Err(); err != nil {
			return "", err //nolint:wrapcheck
		}

		item := strings.TrimSpace(l.items[l.pos])
		l.pos++

		if item != "" {
			return item, nil
		}
	}

	return "", io.EOF
}

type chain struct {
	sources []Source
}

// Chain returns a Source that exhausts each source in turn.
func Chain(sources ...Source) Source {
	return &chain{sources: sources}
}

func (c *chain) Next(ctx context.Context) (string, error) {
	for len(c.sources) > 0 {
		cmd, err := c.sources[0].Next(ctx)
		if errors.Is(err, io.EOF) {
			c.sources = c.sources[1:]
			continue
		}

		return cmd, err
	}

	return "", io.EOF
}

type echo struct {
	src Source
	w   io.Writer
}

// Echo returns a Source that prints each accepted command, quoted, to w.
func Echo(src Source, w io.Writer) Source {
	return &echo{src: src, w: w}
}

func (e *echo) Next(ctx context.Context) (string, error) {
	cmd, err := e.src.Next(ctx)
	if err == nil {
		fmt.Fprintf(e.w, "%q\n", cmd) //nolint:errcheck
	}

	return cmd, err
}

// Drain reads src to the end. Per-entry errors are skipped and returned joined.
func Drain(ctx context.Context, src Source) ([]string, error) {
	var (
		cmds []string
		errs []error
	)

	for {
		cmd, err := src.Next(ctx)

		switch {
		case errors.Is(err, io.EOF):
			return cmds, errors.Join(errs...)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return cmds, errors.Join(append(errs, err)...)
		case err != nil:
			errs = append(errs, err)
		default:
			cmds = append(cmds, cmd)
		}
	}
}
