// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tools

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrExecutableNotFound is returned when no frame extraction tool is invokable.
var ErrExecutableNotFound = errors.New("frame extraction executable not found")

const (
	ffmpegCmd = "ffmpeg"
	avconvCmd = "avconv"
	// Environment variables that may point directly at the tool binaries.
	FfmpegEnvVar  = "VFRAMES_FFMPEG"
	AvconvEnvVar  = "VFRAMES_AVCONV"
	FfprobeEnvVar = "VFRAMES_FFPROBE"
)

// FindTool will find tool executable in $PATH with possibility to override it
// via environment variable.
//
// Names containing a path separator are checked as is, bare names are looked
// up in $PATH directories. Either way the file has to be executable.
func FindTool(exeName, overrideEnvVar string) (string, error) {
	// First check for executable in case it's overridden via env variable.
	if overrideEnvVar != "" {
		if p := os.Getenv(overrideEnvVar); p != "" {
			if lp, err := exec.LookPath(p); err == nil {
				return lp, nil
			}
		}
	}

	// Look for executable in $PATH.
	if p, err := exec.LookPath(exeName); err == nil {
		return p, nil
	}

	// So we did not find any traces of executable - error out!
	return "", fmt.Errorf("binary (%s) not found", exeName)
}

// FindExtractor resolves the frame extraction tool.
//
// Explicit candidates (e.g. from configuration) win, then ffmpeg is
// preferred and avconv is used only when ffmpeg is not resolvable.
func FindExtractor(candidates ...string) (string, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if p, err := exec.LookPath(c); err == nil {
			return p, nil
		}
	}
	if p, err := FindTool(ffmpegCmd, FfmpegEnvVar); err == nil {
		return p, nil
	}
	if p, err := FindTool(avconvCmd, AvconvEnvVar); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("neither %s nor %s on PATH: %w", ffmpegCmd, avconvCmd, ErrExecutableNotFound)
}
