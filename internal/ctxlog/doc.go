// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger in a context.Context.
//
// The default logger writes to stderr through PrettyHandler so log lines never land inside
// the status frame drawn on stdout. The level comes from <EXECUTABLE>_LOG_LEVEL.
package ctxlog
