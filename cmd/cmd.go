// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/fanout/cmd/run"
	"github.com/matt-FFFFFF/fanout/cmd/show"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI. Without a subcommand it behaves like run.
var RootCmd = NewRootCmd()

// NewRootCmd returns a fresh root command.
func NewRootCmd() *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			run.NewRunCmd(),
			show.NewShowCmd(),
		},
		Flags:     run.Flags(),
		Action:    run.Action,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "fanout",
		Description: `fanout runs commands in parallel and shows a live status line for each one.
It stops when every command has finished or, by default, as soon as one fails,
then prints the captured output of the commands that need attention.`,
		Usage:     "printf 'make test\nmake lint\n' | fanout",
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		EnableShellCompletion: true,
	}
}
