// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package source yields the command lines to launch, one at a time and in order.
//
// Every Source trims surrounding whitespace and skips blank entries. Next returns io.EOF once
// no more commands will be produced. Any other error concerns a single entry: the caller logs
// it and keeps calling Next.
package source
