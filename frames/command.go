// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frames

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"time"

	"github.com/evolution-gaming/vframes/internal/logging"
	"github.com/evolution-gaming/vframes/internal/lw"
	"github.com/evolution-gaming/vframes/internal/tools"
	"github.com/evolution-gaming/vframes/internal/video"
)

// Target bitrate, high enough not to be the limiting factor for image quality.
const bitrate = "10000k"

var (
	outputBufferSize uint = 5 * 1024 * 1024 // 5 MiB per output stream
	// Stream description comes early in diagnostics, a small head is enough.
	headBufferSize uint = 64 * 1024
)

// buildArgs assembles extraction tool arguments.
//
// Flags for frame rate, size and quality are present only when set in opts.
func buildArgs(source, output string, opts Options) []string {
	args := []string{"-i", source, "-b:v", bitrate}
	if opts.FPS > 0 {
		args = append(args, "-r", strconv.Itoa(opts.FPS))
	}
	if !opts.Size.IsZero() {
		args = append(args, "-s", opts.Size.String())
	}
	if opts.Quality > 0 {
		args = append(args, "-q:v", strconv.Itoa(opts.Quality))
	}
	args = append(args, opts.ExtraArgs...)
	return append(args, output)
}

// resolveExecutable returns path to the extraction tool. An explicitly given
// executable is never substituted with one from $PATH.
func resolveExecutable(explicit string) (string, error) {
	if explicit == "" {
		return tools.FindExtractor()
	}
	p, err := exec.LookPath(explicit)
	if err != nil {
		return "", fmt.Errorf("%s: %w", explicit, ErrExecutableNotFound)
	}
	return p, nil
}

// run executes extraction tool and blocks until it exits.
func (e *Extractor) run() error {
	// Explicitly limit output buffers to certain size to protect ourselves
	// from some runaway process flooding output.
	// Failure reason is at the end of diagnostics, so stderr keeps its tail.
	stderr := lw.NewTailCapture(outputBufferSize)
	stderrHead := lw.NewCapture(headBufferSize)
	stdout := lw.NewCapture(outputBufferSize)

	cmd := exec.Command(e.exe, e.args...) //#nosec G204
	cmd.Stdout = stdout
	cmd.Stderr = io.MultiWriter(stderr, stderrHead)
	logging.Debugf("Running: %s", cmd)

	start := time.Now()
	err := cmd.Run()
	e.stats = NewUsageStat(time.Since(start), cmd.ProcessState)
	e.stderr = stderr.Bytes()
	e.stdout = stdout.Bytes()
	if stderr.Truncated() {
		logging.Debugf("Diagnostic output truncated, %d leading bytes dropped", stderr.Dropped())
	}

	e.native, e.hasNative = video.ParseNativeResolution(stderrHead.Bytes())

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logging.Infof("Extraction failed for %s: %s", e.source, exitErr)
			logging.Debugf("Stderr: %s", e.stderr)
			return &ExtractionError{
				Executable: e.exe,
				Args:       e.args,
				ExitCode:   exitErr.ExitCode(),
				Stderr:     string(e.stderr),
			}
		}
		return fmt.Errorf("running %s: %w", e.exe, err)
	}
	return nil
}
