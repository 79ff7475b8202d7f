// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package task holds the per-command lifecycle records.
//
// A Registry is an arena indexed by launch-order id. It is not safe for concurrent use:
// exactly one goroutine, the render loop, owns and writes it.
package task
