// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report prints captured task output once a run has ended and persists run results.
package report
