// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Reusable helpers and fixtures for tests.
package main

import (
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/evolution-gaming/vframes/internal/tools"
	"github.com/stretchr/testify/require"
)

// fixTools fixture puts stub ffmpeg and, when withProbe is set, stub ffprobe
// into a fresh directory which becomes the only one on PATH.
func fixTools(t *testing.T, withProbe bool) (binDir string) {
	t.Helper()
	binDir = t.TempDir()
	copyExecutable(t, "testdata/helpers/ffmpeg-stub", path.Join(binDir, "ffmpeg"))
	if withProbe {
		copyExecutable(t, "testdata/helpers/ffprobe-stub", path.Join(binDir, "ffprobe"))
	}
	// Stub ffmpeg copies frames with cp.
	cp, err := exec.LookPath("cp")
	require.NoError(t, err)
	require.NoError(t, os.Symlink(cp, path.Join(binDir, "cp")))

	t.Setenv("PATH", binDir)
	for _, v := range []string{
		tools.FfmpegEnvVar, tools.AvconvEnvVar, tools.FfprobeEnvVar,
		"VFRAMES_STUB_ARGS", "VFRAMES_STUB_FRAMES", "VFRAMES_STUB_EXIT",
		"VFRAMES_STUB_QUIET", "VFRAMES_STUB_PROBE",
	} {
		t.Setenv(v, "")
	}
	return binDir
}

func copyExecutable(t *testing.T, src, dst string) {
	t.Helper()
	b, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, b, fs.FileMode(0o755)))
}

// fixFrames fixture makes stub ffmpeg produce n solid gray frames, getting
// brighter with every frame.
func fixFrames(t *testing.T, n int) {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		level := uint8(i * 255 / max(1, n-1))
		img := imaging.New(32, 18, color.NRGBA{R: level, G: level, B: level, A: 255})
		require.NoError(t, imaging.Save(img, path.Join(dir, fmt.Sprintf("src%03d.png", i))))
	}
	t.Setenv("VFRAMES_STUB_FRAMES", dir)
}

// fixProbeOutput fixture makes stub ffprobe print given JSON document.
func fixProbeOutput(t *testing.T, doc string) {
	t.Helper()
	f := path.Join(t.TempDir(), "probe.json")
	require.NoError(t, os.WriteFile(f, []byte(doc), fs.FileMode(0o644)))
	t.Setenv("VFRAMES_STUB_PROBE", f)
}

// fixInputVideo fixture provides an input "video" file, stubs never read it.
func fixInputVideo(t *testing.T) string {
	t.Helper()
	f := path.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(f, []byte("not really a video"), fs.FileMode(0o644)))
	return f
}

// fixConfFile fixture writes configuration file with given name and contents.
func fixConfFile(t *testing.T, name, contents string) string {
	t.Helper()
	f := path.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(f, []byte(contents), fs.FileMode(0o600)))
	return f
}
