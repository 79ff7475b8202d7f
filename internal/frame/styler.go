// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package frame

import (
	"github.com/matt-FFFFFF/fanout/internal/color"
)

// Plain is a Styler that adds nothing.
type Plain struct{}

var _ Styler = Plain{}

func (Plain) Title(s string) string     { return s }
func (Plain) Running(s string) string   { return s }
func (Plain) Succeeded(s string) string { return s }
func (Plain) Failed(s string) string    { return s }
func (Plain) Command(s string) string   { return s }

// ANSI is a Styler using SGR colour codes. It honours color.Enabled.
type ANSI struct{}

var _ Styler = ANSI{}

func (ANSI) Title(s string) string {
	return color.Colorize(s, color.FgWhite, color.Bold, color.Underline)
}

func (ANSI) Running(s string) string   { return color.Colorize(s, color.FgYellow) }
func (ANSI) Succeeded(s string) string { return color.Colorize(s, color.FgGreen) }
func (ANSI) Failed(s string) string    { return color.Colorize(s, color.FgRed) }
func (ANSI) Command(s string) string   { return color.Colorize(s, color.FgWhite) }
