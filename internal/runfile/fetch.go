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

	"github.com/hashicorp/go-getter/v2"
)

// ErrGetRunFile is returned when a run file cannot be retrieved.
var ErrGetRunFile = errors.New("failed to get run file")

const (
	getterPathSeparator = "//"
	getterRefSeparator  = "?"
	minimumGetterParts  = 3 // scheme, host and path
)

// fetch downloads loc with go-getter into a temporary directory and returns the file's
// content and base name.
func fetch(ctx context.Context, loc string) ([]byte, string, error) {
	tmpDir, err := os.MkdirTemp("", "fanout-getter-*")
	if err != nil {
		return nil, "", errors.Join(ErrGetRunFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, "", errors.Join(ErrGetRunFile, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     loc,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string

	// go-getter fetches directories, so split the file name off remote URLs and read it
	// from the downloaded tree. https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, "", errors.Join(ErrGetRunFile, err)
		}

		var src string

		src, fileName = splitFileNameFromGetterURL(loc)
		if src == "" || fileName == "" {
			return nil, "", fmt.Errorf("%w: invalid URL format: %s", ErrGetRunFile, loc)
		}

		req.Src = src
	}

	if fileName == "" {
		req.Src = filepath.Dir(loc)
		fileName = filepath.Base(loc)
	}

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, "", errors.Join(ErrGetRunFile, err)
	}

	data, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, "", errors.Join(ErrGetRunFile, err)
	}

	return data, fileName, nil
}

// splitFileNameFromGetterURL splits a go-getter URL into the directory URL and the file name,
// keeping any ref query on the directory URL.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref string

	parts := strings.Split(url, getterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]
	if before, after, ok := strings.Cut(last, getterRefSeparator); ok {
		ref = after
		last = before
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)
	dir := filepath.Dir(last)

	parts = parts[:len(parts)-1]
	if dir != "." {
		parts = append(parts, dir)
	}

	src := strings.Join(parts, getterPathSeparator)
	if ref != "" {
		src += getterRefSeparator + ref
	}

	return src, fileName
}
