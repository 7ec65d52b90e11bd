// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for adj-valet using Mage.
//
// Usage:
//
//	mage build             Compile the adjvalet binary to bin/
//	mage test:all          Run all tests (unit + integration)
//	mage test:unit         Run only unit tests
//	mage test:integration  Build, then run the CLI integration suite
//	mage lint              Run golangci-lint
//	mage clean             Remove build artifacts
//	mage install           Install adjvalet to GOPATH/bin
//	mage serve             Build and run the HTTP backend
//	mage stats             Print Go lines of code
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "adjvalet"
	binaryDir  = "bin"
	cmdDir     = "./cmd/adjvalet"
)

// Build compiles the adjvalet binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", binaryPath(), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, binaryPath())
}

// Serve builds the binary and runs the HTTP backend. ADJVALET_ADJ_PATH
// selects the ADJ directory.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binaryPath(), "serve")
}

func binaryPath() string {
	return filepath.Join(binaryDir, binaryName)
}
