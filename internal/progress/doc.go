// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress defines the immutable events that task goroutines send to the render loop,
// and the many-producer, single-consumer channel that carries them.
package progress
