// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui provides a full screen Terminal User Interface (TUI) for a fanout run.
//
// The bubbletea update function owns the loop.Controller, so the single writer rule for the
// task registry holds exactly as it does for the plain render loop. Events are pulled from the
// channel one at a time by a command that waits at most one tick, which keeps the elapsed
// times moving while nothing completes.
package tui
