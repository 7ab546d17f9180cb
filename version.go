// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Application version string related functionality.
//
// Implementation should work for case when application binary is built via "go build" and
// version injection via "ldflags" as well as when binary is installed via "go install" in
// which case debug.BuildInfo is used to pull relevant version information.

package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"time"
)

// Value injected during build with -ldflags="-X main.version={ver}".
var (
	version string
	vInfo   versionInfo
)

func init() {
	// A case when version is passed in via -ldflags="-X main.version=xxx"
	if version != "" {
		vInfo.version = version
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if vInfo.version == "" {
		vInfo.version = bi.Main.Version
	}

	for _, v := range bi.Settings {
		switch v.Key {
		case "vcs.revision":
			vInfo.revision = v.Value
		case "vcs.time":
			vInfo.time, _ = time.Parse(time.RFC3339, v.Value)
		case "vcs.modified":
			vInfo.modified = v.Value == "true"
		}
	}
}

// versionInfo is struct that includes relevant version information.
type versionInfo struct {
	time     time.Time
	version  string
	revision string
	modified bool
}

func (v versionInfo) String() string {
	s := v.version
	if s == "" {
		s = "(devel)"
	}
	if v.revision != "" {
		s = fmt.Sprintf("%s %s", s, v.revision)
	}
	if v.modified {
		s += "+dirty"
	}
	if !v.time.IsZero() {
		s = fmt.Sprintf("%s (%s)", s, v.time.UTC().Format(time.DateOnly))
	}
	return s
}

// printVersion writes version line, e.g. "vframes v1.2.0 4f1c2a9 (2023-01-31) go1.23.1".
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "vframes %s %s\n", vInfo, runtime.Version())
}
