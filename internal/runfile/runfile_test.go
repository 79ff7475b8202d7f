// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runfile

import (
	"context"
	"testing"

	"github.com/matt-FFFFFF/fanout/internal/source"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_YAML(t *testing.T) {
	content := `
name: build
commands:
  - go build ./...
  - go vet ./...
`
	def, err := Parse("build.yaml", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, "build", def.Name)
	assert.Equal(t, []string{"go build ./...", "go vet ./..."}, def.Commands)
}

func TestParse_HCL(t *testing.T) {
	t.Setenv("FANOUT_TEST_TARGET", "linux")

	content := `
name     = "cross"
commands = [
  "echo ${env.FANOUT_TEST_TARGET}",
  "true",
]
`
	def, err := Parse("cross.hcl", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, "cross", def.Name)
	assert.Equal(t, []string{"echo linux", "true"}, def.Commands)
}

func TestParse_HCLNameOptional(t *testing.T) {
	def, err := Parse("x.hcl", []byte(`commands = ["true"]`))
	require.NoError(t, err)
	assert.Empty(t, def.Name)
	assert.Equal(t, []string{"true"}, def.Commands)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		wantErr  error
	}{
		{name: "unsupported extension", filename: "cmds.txt", content: "true", wantErr: ErrUnsupportedFormat},
		{name: "invalid yaml", filename: "bad.yml", content: "commands: [unterminated", wantErr: ErrParse},
		{name: "invalid hcl", filename: "bad.hcl", content: "commands = [", wantErr: ErrParse},
		{name: "unknown env var", filename: "env.hcl", content: `commands = ["${env.FANOUT_SURELY_UNSET_VARIABLE}"]`, wantErr: ErrParse},
		{name: "yaml without commands", filename: "empty.yaml", content: "name: nothing", wantErr: ErrNoCommands},
		{name: "hcl with empty commands", filename: "empty.hcl", content: "commands = []", wantErr: ErrNoCommands},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse(tt.filename, []byte(tt.content))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, def)
		})
	}
}

func TestDefinition_Source(t *testing.T) {
	def := &Definition{Commands: []string{"true", " ", "false"}}

	cmds, err := source.Drain(context.Background(), def.Source())
	require.NoError(t, err)
	assert.Equal(t, []string{"true", "false"}, cmds)
}

func TestLoad_LocalFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/a.yaml", []byte("commands: [\"true\"]\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/b.hcl", []byte(`commands = ["false", "sleep 1"]`), 0o644))

	stubs := gostub.Stub(&FsFactory, func() afero.Fs { return fs })
	defer stubs.Reset()

	defs, err := Load(context.Background(), "/work/a.yaml", "/work/b.hcl")
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, []string{"true"}, defs[0].Commands)
	assert.Equal(t, []string{"false", "sleep 1"}, defs[1].Commands)
}

func TestLoad_AggregatesErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/good.yaml", []byte("commands: [\"true\"]\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/bad.yaml", []byte("name: nothing\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/odd.toml", []byte("x = 1\n"), 0o644))

	stubs := gostub.Stub(&FsFactory, func() afero.Fs { return fs })
	defer stubs.Reset()

	defs, err := Load(context.Background(), "/work/bad.yaml", "/work/good.yaml", "/work/odd.toml", "")
	require.ErrorIs(t, err, ErrLoad)
	require.ErrorIs(t, err, ErrNoCommands)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	require.ErrorIs(t, err, ErrGetRunFile)
	require.Len(t, defs, 1, "good files are still returned")
	assert.Equal(t, []string{"true"}, defs[0].Commands)
}

func TestSplitFileNameFromGetterURL(t *testing.T) {
	tests := []struct {
		url      string
		wantSrc  string
		wantFile string
	}{
		{
			url:      "git::https://github.com/org/repo//ci/fanout.yaml?ref=v1.2.0",
			wantSrc:  "git::https://github.com/org/repo//ci?ref=v1.2.0",
			wantFile: "fanout.yaml",
		},
		{
			url:      "git::https://github.com/org/repo//fanout.hcl",
			wantSrc:  "git::https://github.com/org/repo",
			wantFile: "fanout.hcl",
		},
		{
			url: "https://example.com/fanout.yaml",
		},
		{
			url: "git::https://github.com/org/repo//ci/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			src, file := splitFileNameFromGetterURL(tt.url)
			assert.Equal(t, tt.wantSrc, src)
			assert.Equal(t, tt.wantFile, file)
		})
	}
}
