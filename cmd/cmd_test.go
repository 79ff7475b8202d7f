// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdHasSubcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands {
		names = append(names, c.Name)
	}

	assert.ElementsMatch(t, []string{"run", "show"}, names)
}

func TestRootCmdDefaultsToRun(t *testing.T) {
	var buf bytes.Buffer

	root := NewRootCmd()
	root.Writer = &buf
	root.ErrWriter = io.Discard
	root.Reader = strings.NewReader("")

	require.NoError(t, root.Run(context.Background(), []string{"fanout", "--dry-run", "-c", "make test"}))
	assert.Equal(t, "0: make test\n", buf.String())
}
