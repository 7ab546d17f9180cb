// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logging_test

import (
	"io"
	"log"
	"regexp"
	"strings"
	"testing"

	"github.com/evolution-gaming/vframes/internal/logging"
)

func TestLogging(t *testing.T) {
	tests := map[string]struct {
		want    *regexp.Regexp
		logFunc func()
		logger  *log.Logger
	}{
		"Simple Info": {
			want:    regexp.MustCompile("INFO: .*extracted 10 frames"),
			logFunc: func() { logging.Info("extracted ", 10, " frames") },
			logger:  logging.InfoLogger,
		},
		"Simple Debug": {
			want:    regexp.MustCompile("DEBUG: .*logging_test.go.*running ffmpeg"),
			logFunc: func() { logging.Debug("running ffmpeg") },
			logger:  logging.DebugLogger,
		},
		"Formatted Info": {
			want:    regexp.MustCompile("INFO: .*frames in /tmp/x -- 1920x1080"),
			logFunc: func() { logging.Infof("frames in %s -- %s", "/tmp/x", "1920x1080") },
			logger:  logging.InfoLogger,
		},
		"Formatted Debug": {
			want:    regexp.MustCompile("DEBUG: .*exit status 1"),
			logFunc: func() { logging.Debugf("exit status %d", 1) },
			logger:  logging.DebugLogger,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var out strings.Builder
			tc.logger.SetOutput(&out)
			defer tc.logger.SetOutput(io.Discard)
			tc.logFunc()
			got := out.String()
			if !tc.want.MatchString(got) {
				t.Errorf("Log message not found (-want/+got)\n\t-%s\n\t+%s", tc.want.String(), got)
			}
		})
	}
}

func TestSetOutput(t *testing.T) {
	var out strings.Builder
	logging.SetOutput(&out)
	defer logging.SetOutput(io.Discard)

	if !logging.DebugEnabled() {
		t.Error("Expected debug logging to be enabled")
	}
	logging.Info("one")
	logging.Debug("two")
	if got := out.String(); !strings.Contains(got, "INFO: ") || !strings.Contains(got, "DEBUG: ") {
		t.Errorf("Expected both log levels in output, got: %q", got)
	}

	logging.SetOutput(io.Discard)
	if logging.DebugEnabled() {
		t.Error("Expected debug logging to be disabled")
	}
}
