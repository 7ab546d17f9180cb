// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frames

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions_Validate(t *testing.T) {
	tests := map[string]struct {
		given   Options
		wantErr string
	}{
		"Zero value": {
			given: Options{},
		},
		"All set": {
			given: Options{FPS: 25, Size: Resolution{Width: 640, Height: 480}, Quality: 2, FilenamePattern: "frame_%05d.png"},
		},
		"Quality upper bound": {
			given: Options{Quality: 31},
		},
		"Negative fps": {
			given:   Options{FPS: -1},
			wantErr: "fps should be positive",
		},
		"Quality too low": {
			given:   Options{Quality: 1},
			wantErr: "quality should be within [2, 31]",
		},
		"Quality too high": {
			given:   Options{Quality: 32},
			wantErr: "quality should be within [2, 31]",
		},
		"Half size": {
			given:   Options{Size: Resolution{Width: 640}},
			wantErr: "size should be positive",
		},
		"Negative size": {
			given:   Options{Size: Resolution{Width: -640, Height: 480}},
			wantErr: "size should be positive",
		},
		"Pattern without verb": {
			given:   Options{FilenamePattern: "frame.jpg"},
			wantErr: "exactly one %d verb",
		},
		"Pattern with two verbs": {
			given:   Options{FilenamePattern: "%d_%d.jpg"},
			wantErr: "exactly one %d verb",
		},
		"Pattern with string verb": {
			given:   Options{FilenamePattern: "%s.jpg"},
			wantErr: "only %d verbs",
		},
		"Pattern with width only": {
			given: Options{FilenamePattern: "%5d.png"},
		},
		"Pattern with escaped percent": {
			given: Options{FilenamePattern: "100%%_%03d.jpeg"},
		},
		"Pattern with directory": {
			given:   Options{FilenamePattern: "sub/%d.jpg"},
			wantErr: "should be a file name",
		},
		"Pattern without extension": {
			given:   Options{FilenamePattern: "%d"},
			wantErr: "unsupported image extension",
		},
		"Pattern with unsupported extension": {
			given:   Options{FilenamePattern: "%d.mp4"},
			wantErr: "unsupported image extension",
		},
		"Multiple problems reported together": {
			given:   Options{FPS: -5, Quality: 99},
			wantErr: "got -5, quality should be within",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := tc.given.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidOptions)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestOptions_withDefaults(t *testing.T) {
	got := Options{}.withDefaults()
	assert.Equal(t, DefaultFilenamePattern, got.FilenamePattern)
	assert.NotEmpty(t, got.TempRoot)

	got = Options{FilenamePattern: "%04d.png", TempRoot: "/scratch"}.withDefaults()
	assert.Equal(t, "%04d.png", got.FilenamePattern)
	assert.Equal(t, "/scratch", got.TempRoot)

	// ffmpeg pads frame numbers with zeros, fmt with spaces.
	got = Options{FilenamePattern: "%4d.png"}.withDefaults()
	assert.Equal(t, "%04d.png", got.FilenamePattern)
}

func Test_zeroPadded(t *testing.T) {
	tests := map[string]struct {
		given string
		want  string
	}{
		"Unpadded":              {given: "%d.jpg", want: "%d.jpg"},
		"Zero padded":           {given: "%05d.jpg", want: "%05d.jpg"},
		"Width only":            {given: "%5d.jpg", want: "%05d.jpg"},
		"Width only with text":  {given: "frame_%12d.png", want: "frame_%012d.png"},
		"Escaped percent first": {given: "5%%_%3d.png", want: "5%%_%03d.png"},
		"Escaped digit percent": {given: "%%5_%d.png", want: "%%5_%d.png"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, zeroPadded(tc.given))
		})
	}
}

func Test_escapePercent(t *testing.T) {
	assert.Equal(t, "/tmp/plain", escapePercent("/tmp/plain"))
	assert.Equal(t, "/tmp/100%%d/a%%%%b", escapePercent("/tmp/100%d/a%%b"))
}
