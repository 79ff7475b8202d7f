// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package supervisor launches one goroutine per command and reports each command's outcome
// as exactly one terminal progress.Event.
//
// The supervisor never touches the task registry. It announces a task with EventLaunched
// before the task's goroutine starts, so on the FIFO event channel the announcement always
// precedes the outcome. Children are never cancelled: once started they run to completion,
// even after the render loop has stopped listening.
package supervisor
