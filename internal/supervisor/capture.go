// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package supervisor

import (
	"bytes"
	"strings"
)

// DefaultMaxOutput caps each of stdout and stderr per task.
const DefaultMaxOutput = 8 * 1024 * 1024

// capBuffer keeps at most max bytes and silently discards the rest so the child never sees
// a write error.
type capBuffer struct {
	buf       bytes.Buffer
	max       int
	truncated bool
}

func newCapBuffer(maxBytes int) *capBuffer {
	return &capBuffer{max: maxBytes}
}

func (c *capBuffer) Write(p []byte) (int, error) {
	room := c.max - c.buf.Len()
	if room <= 0 {
		c.truncated = len(p) > 0 || c.truncated
		return len(p), nil
	}

	if len(p) > room {
		c.buf.Write(p[:room])
		c.truncated = true

		return len(p), nil
	}

	c.buf.Write(p)

	return len(p), nil
}

// Text returns the captured bytes as text with invalid UTF-8 replaced by U+FFFD.
func (c *capBuffer) Text() string {
	return strings.ToValidUTF8(c.buf.String(), "�")
}
