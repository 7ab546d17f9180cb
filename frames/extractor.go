// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package frames extracts video frames into a directory of numbered image
// files using ffmpeg (or avconv) and gives indexed and sequential access to
// them as decoded images.
//
// Typical use:
//
//	ex, err := frames.New("clip.mp4", frames.Options{FPS: 1, Quality: 2})
//	if err != nil {
//		return err
//	}
//	defer ex.Close()
//
//	for img, err := range ex.Frames() {
//		...
//	}
package frames

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/evolution-gaming/vframes/internal/logging"

	// Decoders for output formats not registered by imaging.
	_ "golang.org/x/image/webp"
)

// StartIndex is the number of the first frame file, as numbered by ffmpeg.
const StartIndex = 1

// Extractor holds frames extracted from a single video file.
//
// Extractor owns its working directory and removes it on Close unless
// Options.PreserveOutput is set. Not calling Close leaks the directory.
//
// Extractor is not safe for concurrent use, apart from Close.
type Extractor struct {
	source  string
	dir     string
	pattern string
	// Keep dir on Close
	preserve bool
	// Resolved tool and arguments it has been run with
	exe  string
	args []string
	// Captured tool output
	stderr []byte
	stdout []byte
	stats  UsageStat
	// Source resolution as reported by the tool
	native    Resolution
	hasNative bool

	closeOnce sync.Once
	closeErr  error
}

// New extracts frames of video at path according to opts.
//
// New blocks until the extraction tool exits. On failure the working directory
// is cleaned up (unless preserved) and one of ErrInvalidOptions,
// ErrExecutableNotFound or *ExtractionError is returned.
func New(path string, opts Options) (*Extractor, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty source path", ErrInvalidOptions)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	exe, err := resolveExecutable(opts.Executable)
	if err != nil {
		return nil, err
	}

	dir, err := workDir(opts)
	if err != nil {
		return nil, err
	}

	e := &Extractor{
		source:   path,
		dir:      dir,
		pattern:  opts.FilenamePattern,
		preserve: opts.PreserveOutput,
		exe:      exe,
	}
	// Only the pattern part may carry a verb.
	e.args = buildArgs(path, filepath.Join(escapePercent(dir), e.pattern), opts)

	if err := e.run(); err != nil {
		if cerr := e.Close(); cerr != nil {
			logging.Infof("Unable to clean up %s: %s", dir, cerr)
		}
		return nil, err
	}
	logging.Debugf("Extracted frames of %s into %s", path, dir)

	return e, nil
}

// workDir creates working directory as requested by opts.
func workDir(opts Options) (string, error) {
	if opts.OutputDir != "" {
		dir, err := filepath.Abs(opts.OutputDir)
		if err != nil {
			return "", fmt.Errorf("output directory: %w", err)
		}
		// Already existing directory is fine.
		if err := os.MkdirAll(dir, os.FileMode(0o755)); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
		return dir, nil
	}

	if err := os.MkdirAll(opts.TempRoot, os.FileMode(0o755)); err != nil {
		return "", fmt.Errorf("creating temp root: %w", err)
	}
	dir, err := os.MkdirTemp(opts.TempRoot, "vframes-")
	if err != nil {
		return "", fmt.Errorf("creating working directory: %w", err)
	}
	return filepath.Abs(dir)
}

// Source returns path of the source video.
func (e *Extractor) Source() string { return e.source }

// Dir returns working directory holding frame files.
func (e *Extractor) Dir() string { return e.dir }

// Executable returns the extraction tool that has been used.
func (e *Extractor) Executable() string { return e.exe }

// Args returns arguments the extraction tool has been run with.
func (e *Extractor) Args() []string {
	return append([]string(nil), e.args...)
}

// Stderr returns captured diagnostic output of the extraction tool. Only the
// last 5 MiB are kept.
func (e *Extractor) Stderr() []byte { return e.stderr }

// Stdout returns captured standard output of the extraction tool, usually empty.
func (e *Extractor) Stdout() []byte { return e.stdout }

// Stats returns resource usage of the extraction run.
func (e *Extractor) Stats() UsageStat { return e.stats }

// NativeResolution returns source video resolution, ok is false when it could
// not be recovered from the tool's diagnostics.
func (e *Extractor) NativeResolution() (r Resolution, ok bool) {
	return e.native, e.hasNative
}

// FramePath returns file path of k-th (zero based) frame. File may not exist.
func (e *Extractor) FramePath(k int) string {
	return filepath.Join(e.dir, fmt.Sprintf(e.pattern, k+StartIndex))
}

// Len returns number of frames.
//
// Frame files are probed one by one starting from the first, the first missing
// file ends the count even if later ones exist. The count is not cached, every
// call costs Len()+1 stat calls.
func (e *Extractor) Len() int {
	n := 0
	for {
		if _, err := os.Stat(e.FramePath(n)); err != nil {
			return n
		}
		n++
	}
}

// Open opens k-th frame file for reading. Caller is responsible for closing
// it.
func (e *Extractor) Open(k int) (*os.File, error) {
	if k < 0 {
		return nil, fmt.Errorf("frame %d: %w", k, ErrFrameNotFound)
	}
	f, err := os.Open(e.FramePath(k))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("frame %d: %w: %w", k, ErrFrameNotFound, err)
		}
		return nil, fmt.Errorf("frame %d: %w", k, err)
	}
	return f, nil
}

// Frame returns decoded k-th frame.
//
// Decoding errors are returned as is.
func (e *Extractor) Frame(k int) (image.Image, error) {
	f, err := e.Open(k)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return imaging.Decode(f, imaging.AutoOrientation(true))
}

// Frames returns a sequence of decoded frames in order.
//
// Sequence is lazy: frames are decoded one at a time as iteration goes. Each
// iteration starts from the first frame with a fresh Len(). Iteration ends
// after the first error has been yielded.
func (e *Extractor) Frames() iter.Seq2[image.Image, error] {
	return func(yield func(image.Image, error) bool) {
		n := e.Len()
		for k := 0; k < n; k++ {
			img, err := e.Frame(k)
			if !yield(img, err) || err != nil {
				return
			}
		}
	}
}

// Close removes working directory unless it is preserved. Only the first call
// does any work, subsequent calls return the same result.
func (e *Extractor) Close() error {
	e.closeOnce.Do(func() {
		if e.preserve {
			logging.Debugf("Preserving %s", e.dir)
			return
		}
		// RemoveAll does not fail on missing directory.
		e.closeErr = os.RemoveAll(e.dir)
	})
	return e.closeErr
}
