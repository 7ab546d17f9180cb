// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package video

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Markers of a video stream description line in ffmpeg/avconv diagnostics, e.g.:
//
//	Stream #0:0(und): Video: h264 (High) (avc1 / 0x31637661), yuv420p, 1920x1080 [SAR 1:1 DAR 16:9], 25 fps
const (
	streamMarker = "Stream #"
	videoMarker  = "Video:"
)

// At least two digits on each side and a separator in front, so that codec
// tags like "0x31637661" do not match.
var resolutionRe = regexp.MustCompile(`(?:^|[\s,])(\d{2,5})x(\d{2,5})\b`)

// Resolution is a frame size in pixels.
type Resolution struct {
	Width  int
	Height int
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// IsZero reports whether r is unset.
func (r Resolution) IsZero() bool {
	return r.Width == 0 && r.Height == 0
}

// ParseResolution parses "<width>x<height>" string, both sides must be positive.
func ParseResolution(s string) (Resolution, error) {
	var r Resolution
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return r, fmt.Errorf("resolution %q: expecting WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return r, fmt.Errorf("resolution %q width: %w", s, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return r, fmt.Errorf("resolution %q height: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return r, fmt.Errorf("resolution %q: dimensions should be positive", s)
	}
	return Resolution{Width: width, Height: height}, nil
}

// ParseNativeResolution recovers source video resolution from the diagnostic
// (stderr) output of ffmpeg or avconv.
//
// Only the first video stream line is considered. Diagnostics format is not
// stable across tool versions, so a miss is reported via ok=false and never
// as an error.
func ParseNativeResolution(diag []byte) (r Resolution, ok bool) {
	sc := bufio.NewScanner(bytes.NewReader(diag))
	// Some builds print very long configuration lines.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, streamMarker) || !strings.Contains(line, videoMarker) {
			continue
		}
		m := resolutionRe.FindStringSubmatch(line)
		if m == nil {
			return r, false
		}
		// Matched groups are bounded digit runs, Atoi can not fail here.
		r.Width, _ = strconv.Atoi(m[1])
		r.Height, _ = strconv.Atoi(m[2])
		return r, true
	}
	return r, false
}
