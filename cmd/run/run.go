// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run contains the command that runs commands in parallel and shows their status.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matt-FFFFFF/fanout/internal/ctxlog"
	"github.com/matt-FFFFFF/fanout/internal/frame"
	"github.com/matt-FFFFFF/fanout/internal/loop"
	"github.com/matt-FFFFFF/fanout/internal/progress"
	"github.com/matt-FFFFFF/fanout/internal/report"
	"github.com/matt-FFFFFF/fanout/internal/runfile"
	"github.com/matt-FFFFFF/fanout/internal/source"
	"github.com/matt-FFFFFF/fanout/internal/supervisor"
	"github.com/matt-FFFFFF/fanout/internal/tui"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

const (
	commandFlag              = "command"
	fileFlag                 = "file"
	tickFlag                 = "tick"
	waitAllFlag              = "wait-all"
	abortOnLaunchFailureFlag = "abort-on-launch-failure"
	stdoutAlwaysFlag         = "stdout-always"
	noStdErrFlag             = "no-stderr"
	tuiFlag                  = "tui"
	outFlag                  = "out"
	strictFlag               = "strict"
	dryRunFlag               = "dry-run"
	echoFlag                 = "echo"

	eventBufferSize = 64
	cliExitStr      = ""
)

var (
	// ErrLoadRunFiles is returned when a run file cannot be loaded.
	ErrLoadRunFiles = errors.New("failed to load run files")
	// ErrTUINeedsInput is returned when the TUI is requested for an interactive prompt.
	ErrTUINeedsInput = errors.New("--tui needs commands from --command, --file or piped stdin")
	// ErrWriteResults is returned when the results file cannot be written.
	ErrWriteResults = errors.New("failed to write results file")
)

// FsFactory creates the filesystem the results file is written to.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// RunCmd is the command that runs commands in parallel.
var RunCmd = NewRunCmd()

// NewRunCmd returns a fresh run command.
func NewRunCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run commands in parallel and show their status until they finish.",
		Description: `Run every command concurrently and redraw a status line for each one until all of them
have finished, or one has failed. Captured output is printed afterwards.

Commands come from --command flags and run files (--file). When neither is given, commands
are read from stdin, one per line, until end of input. On a terminal an interactive prompt is
shown instead; end input with Ctrl-D.

Commands are split on whitespace and run directly, without a shell.

Run file URLs use Hashicorp's go-getter syntax, which allows for fetching files from various sources.
See https://github.com/hashicorp/go-getter.`,
		Flags:  Flags(),
		Action: Action,
	}
}

// Flags returns the flags of the run command. The root command shares them.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    commandFlag,
			Aliases: []string{"c"},
			Usage:   "A command to run. Specify multiple times to run multiple commands.",
		},
		&cli.StringSliceFlag{
			Name:    fileFlag,
			Aliases: []string{"f"},
			Usage: "Specify the URL of a YAML or HCL run file. " +
				"Supports Hashicorp's go-getter syntax for fetching files from various sources. " +
				"Specify multiple times to run multiple files.",
		},
		&cli.DurationFlag{
			Name:     tickFlag,
			Usage:    "Longest time to wait for a status change before redrawing, up to 1s",
			Value:    loop.DefaultTick,
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     waitAllFlag,
			Usage:    "Keep running after a failure until every command has finished",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     abortOnLaunchFailureFlag,
			Usage:    "Stop with exit code 1 as soon as a command cannot be started",
			OnlyOnce: true,
		},
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
		&cli.BoolFlag{
			Name:     tuiFlag,
			Aliases:  []string{"t", "interactive"},
			Usage:    "Run with interactive Terminal User Interface (TUI) showing real-time progress",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:      outFlag,
			Usage:     "Save the results to this file, view them later with 'fanout show'",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.BoolFlag{
			Name:     strictFlag,
			Usage:    "Treat inconsistent progress events as fatal",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     dryRunFlag,
			Usage:    "List the commands that would run and exit",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     echoFlag,
			Usage:    "Read all commands first and print each one, quoted, before the run starts",
			OnlyOnce: true,
		},
	}
}

// Action runs the commands.
func Action(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running run command")

	w := cmd.Root().Writer

	opts := loopOptions(cmd)
	if err := opts.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	in, err := buildInput(ctx, cmd)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}
	defer in.close()

	if cmd.Bool(dryRunFlag) {
		return dryRun(ctx, w, in.src)
	}

	if in.interactive {
		if cmd.Bool(tuiFlag) {
			return cli.Exit(ErrTUINeedsInput.Error(), 1)
		}

		opts.HoldPaint = true
	} else if cmd.Bool(echoFlag) && !cmd.Bool(tuiFlag) {
		// Echoed commands share the writer with the frame, so all input is read first.
		cmds, err := source.Drain(ctx, source.Echo(in.src, w))
		if err != nil {
			logger.Warn("some commands could not be read", "error", err)
		}

		in.src = source.NewList(cmds...)
	}

	ch := progress.NewChannel(eventBufferSize)
	sup := supervisor.New(ch)

	go sup.Launch(ctx, in.src)

	var (
		out    loop.Outcome
		runErr error
	)

	if cmd.Bool(tuiFlag) {
		out, runErr = runTUI(ctx, cmd, ch, opts, in.title)
	} else {
		painter := frame.NewPainter(w, isTerminal(w), frame.Options{
			Title:       in.title,
			ShowElapsed: true,
			Styler:      frame.ANSI{},
		})
		out, runErr = loop.Run(ctx, ch.Events(), painter, opts)
	}

	// Children still running are abandoned; their late events are dropped.
	ch.Close()

	logger.Debug("run ended", "reason", out.Reason.String(), "tasks", len(out.Tasks))

	outputOpts := report.DefaultOutputOptions()
	outputOpts.IncludeStdErr = !cmd.Bool(noStdErrFlag)

	if cmd.Bool(stdoutAlwaysFlag) {
		outputOpts.Stdout = report.StdoutAlways
	}

	if err := report.WriteOutput(w, out.Tasks, outputOpts); err != nil {
		logger.Error(err.Error())
	}

	if outFileName := cmd.String(outFlag); outFileName != "" {
		if err := writeResults(outFileName, in.title, out); err != nil {
			logger.Error(err.Error())
			return cli.Exit(cliExitStr, 1)
		}

		logger.Info(fmt.Sprintf("Results written to %s", outFileName))
	}

	if runErr != nil {
		return cli.Exit(runErr.Error(), 1)
	}

	return nil
}

func loopOptions(cmd *cli.Command) loop.Options {
	opts := loop.DefaultOptions()
	opts.Tick = cmd.Duration(tickFlag)
	opts.Strict = cmd.Bool(strictFlag)

	if cmd.Bool(waitAllFlag) {
		opts.Termination = loop.WaitForAll
	}

	if cmd.Bool(abortOnLaunchFailureFlag) {
		opts.LaunchFailure = loop.AbortOnLaunchFailure
	}

	return opts
}

type input struct {
	src         source.Source
	title       string
	interactive bool
	close       func()
}

// buildInput chains run files then --command values, falling back to stdin.
func buildInput(ctx context.Context, cmd *cli.Command) (*input, error) {
	in := &input{close: func() {}}

	var sources []source.Source

	if files := cmd.StringSlice(fileFlag); len(files) > 0 {
		defs, err := runfile.Load(ctx, files...)
		if err != nil {
			return nil, errors.Join(ErrLoadRunFiles, err)
		}

		for _, d := range defs {
			sources = append(sources, d.Source())
		}

		if len(defs) == 1 {
			in.title = defs[0].Name
		}
	}

	if cmds := cmd.StringSlice(commandFlag); len(cmds) > 0 {
		sources = append(sources, source.NewList(cmds...))
	}

	if len(sources) > 0 {
		in.src = source.Chain(sources...)
		return in, nil
	}

	stdin := cmd.Root().Reader
	if stdin == nil {
		stdin = os.Stdin
	}

	if isTerminal(stdin) {
		p := source.NewPrompt(source.DefaultPrompt)
		in.src = p
		in.interactive = true
		in.close = func() {
			if err := p.Close(); err != nil {
				ctxlog.Warn(ctx, "could not restore terminal", "error", err)
			}
		}

		return in, nil
	}

	in.src = source.NewLines(stdin)

	return in, nil
}

func dryRun(ctx context.Context, w io.Writer, src source.Source) error {
	cmds, err := source.Drain(ctx, src)
	if err != nil {
		ctxlog.Warn(ctx, "some commands could not be read", "error", err)
	}

	for i, c := range cmds {
		fmt.Fprintf(w, "%d: %s\n", i, c) //nolint:errcheck
	}

	return nil
}

func runTUI(
	ctx context.Context, cmd *cli.Command, ch *progress.Channel, opts loop.Options, title string,
) (loop.Outcome, error) {
	logger := ctxlog.Logger(ctx)
	logger.Info("Starting interactive TUI mode...")

	ctrl, err := loop.NewController(opts)
	if err != nil {
		return loop.Outcome{}, err
	}

	// Logs would corrupt the full screen view, so they are held until it closes.
	buf := new(bytes.Buffer)
	tuiCtx := ctxlog.NewBuffered(ctx, buf)

	out, runErr := tui.Run(tuiCtx, ctrl, ch.Events(), title)

	buf.WriteTo(cmd.Root().ErrWriter) //nolint:errcheck

	view := frame.Render(out.Tasks, time.Now(), frame.Options{Title: title, ShowElapsed: true, Styler: frame.ANSI{}})
	fmt.Fprint(cmd.Root().Writer, view) //nolint:errcheck

	if out.Reason.Normal() && opts.Footer != "" {
		fmt.Fprintln(cmd.Root().Writer, opts.Footer) //nolint:errcheck
	}

	return out, runErr
}

func writeResults(name, title string, out loop.Outcome) error {
	f, err := FsFactory().Create(name)
	if err != nil {
		return errors.Join(ErrWriteResults, err)
	}
	defer f.Close() //nolint:errcheck

	res := &report.Results{
		Title:      title,
		Reason:     out.Reason.String(),
		FinishedAt: time.Now(),
		Tasks:      out.Tasks,
	}

	if err := res.WriteBinary(f); err != nil {
		return errors.Join(ErrWriteResults, err)
	}

	return nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
