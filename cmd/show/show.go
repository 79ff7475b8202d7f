// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show contains the command that prints a saved results file.
package show

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/fanout/internal/frame"
	"github.com/matt-FFFFFF/fanout/internal/report"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	fileArg          = "file"
	stdoutAlwaysFlag = "stdout-always"
	noStdErrFlag     = "no-stderr"
)

var (
	// ErrReadFile is returned when the file cannot be read.
	ErrReadFile = errors.New("failed to read file")
	// ErrDecodeResults is returned when the results cannot be decoded from the file.
	ErrDecodeResults = errors.New("failed to decode results")
	// ErrWriteResults is returned when the results cannot be written to stdout.
	ErrWriteResults = errors.New("failed to write results to stdout")
)

// FsFactory creates the filesystem results files are read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// ShowCmd is the command that shows the results of a previous run.
var ShowCmd = NewShowCmd()

// NewShowCmd returns a fresh show command.
func NewShowCmd() *cli.Command {
	return &cli.Command{
		Name:        "show",
		Usage:       "Show previously saved results.",
		Description: "Print the final status and captured output of a run saved with 'fanout run --out FILE'.",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      fileArg,
				UsageText: "FILE",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:     stdoutAlwaysFlag,
				Aliases:  []string{"stdout"},
				Usage:    "Print stdout of successful commands too",
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:     noStdErrFlag,
				Usage:    "Do not print stderr",
				OnlyOnce: true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(_ context.Context, cmd *cli.Command) error {
	name := cmd.StringArg(fileArg)
	if name == "" {
		return cli.Exit("Please provide a results file to show", 1)
	}

	file, err := FsFactory().Open(name)
	if err != nil {
		return cli.Exit(errors.Join(ErrReadFile, err).Error(), 1)
	}
	defer file.Close() //nolint:errcheck

	results, err := report.ReadResults(file)
	if err != nil {
		return cli.Exit(errors.Join(ErrDecodeResults, err).Error(), 1)
	}

	opts := report.DefaultOutputOptions()
	opts.IncludeStdErr = !cmd.Bool(noStdErrFlag)

	if cmd.Bool(stdoutAlwaysFlag) {
		opts.Stdout = report.StdoutAlways
	}

	if err := results.WriteText(cmd.Root().Writer, frame.ANSI{}, opts); err != nil {
		return cli.Exit(errors.Join(ErrWriteResults, err).Error(), 1)
	}

	return nil
}
