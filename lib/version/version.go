// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the
// studyhall binary.
//
// Values are injected at build time via -ldflags, for example:
//
//	go build -ldflags "-X github.com/studyhall-dev/studyhall/lib/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// Version is the semantic version, set manually for releases.
	Version = "0.1.0-dev"
)

// Info returns a version string suitable for --version output.
func Info() string {
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}

// Full returns detailed version information including the Go runtime.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
