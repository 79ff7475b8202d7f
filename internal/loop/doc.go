// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package loop consumes progress events, keeps the task registry and redraws the status view
// until the run terminates.
//
// Controller is the only writer of the registry. Run drives a Controller from a channel with a
// bounded wait so the view keeps refreshing while no events arrive. The TUI drives the same
// Controller from its update function instead.
package loop
