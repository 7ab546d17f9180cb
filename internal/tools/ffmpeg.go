// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Ffmpeg family related tools.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"

	"github.com/evolution-gaming/vframes/internal/logging"
	"github.com/evolution-gaming/vframes/internal/video"
)

var ffprobeCmd = "ffprobe"

// FfmpegPath will return path to ffmpeg binary and error if path is not found.
func FfmpegPath() (string, error) {
	p, err := FindTool(ffmpegCmd, FfmpegEnvVar)
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found: %w", err)
	}
	return p, nil
}

// AvconvPath will return path to avconv binary and error if path is not found.
func AvconvPath() (string, error) {
	p, err := FindTool(avconvCmd, AvconvEnvVar)
	if err != nil {
		return "", fmt.Errorf("avconv not found: %w", err)
	}
	return p, nil
}

// FfprobePath will return path to ffprobe binary and error if path is not found.
func FfprobePath() (string, error) {
	p, err := FindTool(ffprobeCmd, FfprobeEnvVar)
	if err != nil {
		return "", fmt.Errorf("ffprobe not found: %w", err)
	}
	return p, nil
}

// FfprobeExtractMetadata will query video file metadata via ffprobe found on
// $PATH.
func FfprobeExtractMetadata(videoFile string) (video.Metadata, error) {
	ffprobePath, err := FfprobePath()
	if err != nil {
		return video.Metadata{}, err
	}
	return ExtractMetadata(ffprobePath, videoFile)
}

// ExtractMetadata will query video file metadata via given ffprobe binary.
func ExtractMetadata(ffprobePath, videoFile string) (video.Metadata, error) {
	var vmeta video.Metadata

	if _, err := os.Stat(videoFile); os.IsNotExist(err) {
		return vmeta, fmt.Errorf("ExtractMetadata() os.Stat: %w", err)
	}

	ffprobeArgs := []string{
		"-v", "quiet",
		"-threads", "0",
		"-select_streams", "v",
		"-count_frames",
		"-of", "json",
		"-show_format",
		"-show_streams",
		videoFile,
	}
	cmd := exec.Command(ffprobePath, ffprobeArgs...) //#nosec G204
	logging.Debugf("Running: %s\n", cmd)
	out, err := cmd.Output()
	if err != nil {
		return vmeta, fmt.Errorf("ExtractMetadata() exec error: %w", err)
	}

	// Unmarshal metadata from both "streams" and "format" JSON objects.
	meta := &struct {
		Streams []video.Metadata
		Format  video.Metadata
	}{}
	if err := json.Unmarshal(out, &meta); err != nil {
		return vmeta, fmt.Errorf("ExtractMetadata() json.Unmarshal: %w", err)
	}
	if len(meta.Streams) == 0 {
		return vmeta, errors.New("ExtractMetadata() no video streams")
	}

	vmeta = meta.Streams[0]
	// For mkv container Streams does not contain duration, so we have to look into Format.
	vmeta.Duration = math.Max(vmeta.Duration, meta.Format.Duration)
	logging.Debugf("%s %+v", videoFile, vmeta)

	return vmeta, nil
}
