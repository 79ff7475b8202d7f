// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runfile loads lists of commands from YAML or HCL files.
//
// A location is read from the local filesystem when it exists there, otherwise it is fetched
// with go-getter, so git, http and s3 sources work the same way as local paths.
//
// YAML:
//
//	name: build
//	commands:
//	  - go build ./...
//	  - go vet ./...
//
// HCL, evaluated with the process environment available as env:
//
//	name     = "build"
//	commands = ["go build ./...", "echo ${env.USER}"]
package runfile
