// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Reusable helpers and fixtures for tests.
package frames

import (
	"fmt"
	"image/color"
	"os"
	"os/exec"
	"path"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/evolution-gaming/vframes/internal/tools"
	"github.com/stretchr/testify/require"
)

const stubTool = "../testdata/helpers/ffmpeg-stub"

// fixStubTools puts a fake extraction tool under each of given names into a
// fresh directory and makes that directory the only one on PATH.
func fixStubTools(t *testing.T, names ...string) (binDir string) {
	t.Helper()
	src, err := os.ReadFile(stubTool)
	require.NoError(t, err)

	// Stub relies on cp, it has to stay reachable on the isolated PATH.
	cp, err := exec.LookPath("cp")
	require.NoError(t, err)

	binDir = t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(path.Join(binDir, name), src, 0o755))
	}
	require.NoError(t, os.Symlink(cp, path.Join(binDir, "cp")))

	t.Setenv("PATH", binDir)
	t.Setenv(tools.FfmpegEnvVar, "")
	t.Setenv(tools.AvconvEnvVar, "")
	// Reset stub behaviour knobs.
	t.Setenv("VFRAMES_STUB_ARGS", "")
	t.Setenv("VFRAMES_STUB_FRAMES", "")
	t.Setenv("VFRAMES_STUB_EXIT", "")
	t.Setenv("VFRAMES_STUB_QUIET", "")
	t.Setenv("VFRAMES_STUB_NOISE", "")
	return binDir
}

// fixSourceFrames creates n solid color PNG images the stub tool will hand
// out as extracted frames. Returns colors in frame order.
func fixSourceFrames(t *testing.T, n int) []color.NRGBA {
	t.Helper()
	dir := t.TempDir()
	colors := make([]color.NRGBA, n)
	for i := range colors {
		colors[i] = color.NRGBA{R: uint8(i * 40), G: uint8(255 - i*40), B: 128, A: 255}
		img := imaging.New(16, 8, colors[i])
		require.NoError(t, imaging.Save(img, path.Join(dir, fmt.Sprintf("src%03d.png", i))))
	}
	t.Setenv("VFRAMES_STUB_FRAMES", dir)
	return colors
}

// fixArgsFile makes stub tool record its arguments, returns the record file.
func fixArgsFile(t *testing.T) string {
	t.Helper()
	f := path.Join(t.TempDir(), "args.txt")
	t.Setenv("VFRAMES_STUB_ARGS", f)
	return f
}

// entries lists names in dir.
func entries(t *testing.T, dir string) []string {
	t.Helper()
	des, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(des))
	for _, d := range des {
		names = append(names, d.Name())
	}
	return names
}
