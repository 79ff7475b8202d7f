// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/matt-FFFFFF/fanout/internal/ctxlog"
	"github.com/matt-FFFFFF/fanout/internal/source"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrUnsupportedFormat is returned for a file extension other than .yaml, .yml or .hcl.
	ErrUnsupportedFormat = errors.New("unsupported run file format")
	// ErrParse is returned when a run file cannot be decoded.
	ErrParse = errors.New("failed to parse run file")
	// ErrNoCommands is returned when a run file lists no commands.
	ErrNoCommands = errors.New("run file has no commands")
	// ErrLoad is returned when one or more run files could not be loaded.
	ErrLoad = errors.New("failed to load run files")
)

// FsFactory returns the filesystem used for local run files.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Definition is the decoded content of a run file.
type Definition struct {
	Name     string   `yaml:"name" hcl:"name,optional"`
	Commands []string `yaml:"commands" hcl:"commands"`
}

// Source returns the definition's commands as a Source.
func (d *Definition) Source() source.Source {
	return source.NewList(d.Commands...)
}

// Parse decodes data according to the extension of filename.
func Parse(filename string, data []byte) (*Definition, error) {
	def := &Definition{}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, def); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrParse, filename, err)
		}
	case ".hcl":
		if err := hclsimple.Decode(filename, data, evalContext(), def); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrParse, filename, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if len(def.Commands) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCommands, filename)
	}

	return def, nil
}

// Load reads and parses every location. All locations are attempted; failures are
// aggregated into a single error wrapping ErrLoad.
func Load(ctx context.Context, locations ...string) ([]*Definition, error) {
	var (
		defs   []*Definition
		result *multierror.Error
	)

	for _, loc := range locations {
		def, err := load(ctx, loc)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}

		ctxlog.Debug(ctx, "loaded run file", "location", loc, "name", def.Name, "commands", len(def.Commands))
		defs = append(defs, def)
	}

	if err := result.ErrorOrNil(); err != nil {
		return defs, errors.Join(ErrLoad, err)
	}

	return defs, nil
}

func load(ctx context.Context, loc string) (*Definition, error) {
	if loc == "" {
		return nil, ErrGetRunFile
	}

	fs := FsFactory()

	if ok, _ := afero.Exists(fs, loc); ok {
		data, err := afero.ReadFile(fs, loc)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrGetRunFile, loc, err)
		}

		return Parse(loc, data)
	}

	data, name, err := fetch(ctx, loc)
	if err != nil {
		return nil, err
	}

	return Parse(name, data)
}

func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		vars[k] = cty.StringVal(v)
	}

	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": env,
		},
	}
}
