// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frames

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evolution-gaming/vframes/internal/video"
)

// Resolution is a frame size in pixels.
type Resolution = video.Resolution

const (
	// DefaultFilenamePattern is used when Options.FilenamePattern is empty.
	DefaultFilenamePattern = "%d.jpg"
	// Quality bounds as understood by ffmpeg's -q:v, lower is better.
	MinQuality = 2
	MaxQuality = 31
)

// Image encodings that ffmpeg can write and Frame can decode back, by file
// extension.
var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
	".gif":  {},
	".webp": {},
}

// Options for frame extraction. Zero value of every field means "not
// specified" and leaves the decision to the external tool.
type Options struct {
	// Output frame rate.
	FPS int
	// Output frame size. Aspect ratio is not preserved.
	Size Resolution
	// JPEG quality level in [MinQuality, MaxQuality].
	Quality int
	// Directory to (re)use instead of a random temporary one. Created if missing.
	OutputDir string
	// Printf-style frame file name with a single decimal verb, e.g. "%05d.png".
	// A width is always zero padded, "%5d" is the same as "%05d". Extension
	// selects output image encoding.
	FilenamePattern string
	// Keep working directory on Close.
	PreserveOutput bool
	// Parent directory for random working directories, defaults to os.TempDir().
	TempRoot string
	// Extraction tool to use, by default ffmpeg or avconv from $PATH.
	Executable string
	// Additional tool arguments placed right before the output pattern.
	ExtraArgs []string
}

// withDefaults returns a copy of o with defaults filled in.
func (o Options) withDefaults() Options {
	if o.FilenamePattern == "" {
		o.FilenamePattern = DefaultFilenamePattern
	}
	o.FilenamePattern = zeroPadded(o.FilenamePattern)
	if o.TempRoot == "" {
		o.TempRoot = os.TempDir()
	}
	return o
}

// zeroPadded adds the "0" flag to a width-only verb of a valid pattern, e.g.
// "%5d.png" becomes "%05d.png". ffmpeg always pads frame numbers with zeros,
// while fmt pads with spaces.
func zeroPadded(p string) string {
	for i := 0; i < len(p); i++ {
		if p[i] != '%' {
			continue
		}
		if i+1 < len(p) && p[i+1] == '%' {
			i++
			continue
		}
		if i+1 < len(p) && p[i+1] >= '1' && p[i+1] <= '9' {
			return p[:i+1] + "0" + p[i+1:]
		}
		return p
	}
	return p
}

// escapePercent makes s a literal part of a printf-style pattern.
func escapePercent(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

// Validate checks option values eagerly, so that misconfiguration surfaces
// before any process is spawned.
func (o Options) Validate() error {
	var reasons []string

	if o.FPS < 0 {
		reasons = append(reasons, fmt.Sprintf("fps should be positive, got %d", o.FPS))
	}
	if !o.Size.IsZero() && (o.Size.Width <= 0 || o.Size.Height <= 0) {
		reasons = append(reasons, fmt.Sprintf("size should be positive, got %s", o.Size))
	}
	if o.Quality != 0 && (o.Quality < MinQuality || o.Quality > MaxQuality) {
		reasons = append(reasons, fmt.Sprintf("quality should be within [%d, %d], got %d", MinQuality, MaxQuality, o.Quality))
	}
	if o.FilenamePattern != "" {
		if err := checkPattern(o.FilenamePattern); err != nil {
			reasons = append(reasons, err.Error())
		}
	}

	if len(reasons) != 0 {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(reasons, ", "))
	}
	return nil
}

// checkPattern verifies that p is a plain file name with exactly one integer
// verb (flags "0" and width allowed) and a supported image extension.
func checkPattern(p string) error {
	if strings.ContainsAny(p, `/\`) {
		return fmt.Errorf("pattern %q should be a file name, not a path", p)
	}

	verbs := 0
	for i := 0; i < len(p); i++ {
		if p[i] != '%' {
			continue
		}
		i++
		if i < len(p) && p[i] == '%' {
			continue
		}
		// Optional zero padding flag and width.
		for i < len(p) && p[i] >= '0' && p[i] <= '9' {
			i++
		}
		if i >= len(p) || p[i] != 'd' {
			return fmt.Errorf("pattern %q: only %%d verbs are supported", p)
		}
		verbs++
	}
	if verbs != 1 {
		return fmt.Errorf("pattern %q should have exactly one %%d verb, has %d", p, verbs)
	}

	ext := strings.ToLower(filepath.Ext(p))
	if _, ok := supportedExtensions[ext]; !ok {
		return fmt.Errorf("pattern %q: unsupported image extension %q", p, ext)
	}
	return nil
}
