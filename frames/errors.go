// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frames

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evolution-gaming/vframes/internal/tools"
)

var (
	ErrInvalidOptions = errors.New("invalid options")
	// ErrExecutableNotFound is returned by New when neither ffmpeg nor avconv
	// can be resolved. No process is spawned in this case.
	ErrExecutableNotFound = tools.ErrExecutableNotFound
	ErrExtractionFailed   = errors.New("frame extraction failed")
	ErrFrameNotFound      = errors.New("frame not found")
)

// Number of trailing diagnostic lines included into ExtractionError message.
const errorTailLines = 5

// ExtractionError is returned by New when the extraction tool exits with
// non-zero status.
type ExtractionError struct {
	Executable string
	Args       []string
	ExitCode   int
	// Diagnostic output of the tool, verbatim.
	Stderr string
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("%s: %s exited with status %d", ErrExtractionFailed, filepath.Base(e.Executable), e.ExitCode)
	if tail := lastLines(e.Stderr, errorTailLines); tail != "" {
		msg += ":\n" + tail
	}
	return msg
}

// Unwrap makes errors.Is(err, ErrExtractionFailed) work.
func (e *ExtractionError) Unwrap() error {
	return ErrExtractionFailed
}

// lastLines returns up to n last non-blank lines of s.
func lastLines(s string, n int) string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimRight(l, "\r "); strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
