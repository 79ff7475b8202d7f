// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color wraps strings in ANSI SGR sequences for the status frame and the log handler.
// Output is coloured only when stdout is a terminal, unless NO_COLOR or FORCE_COLOR say otherwise.
package color
