// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package frame turns a task snapshot into the text of the live status view.
//
// Render is pure: the same snapshot, clock reading and options always give the same string.
// Painter is the only type here that writes to the terminal.
package frame
