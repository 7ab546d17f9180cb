// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_versionInfo_String(t *testing.T) {
	tests := map[string]struct {
		given versionInfo
		want  string
	}{
		"Empty":        {given: versionInfo{}, want: "(devel)"},
		"Version only": {given: versionInfo{version: "v1.0.0"}, want: "v1.0.0"},
		"With revision": {
			given: versionInfo{version: "v1.0.0", revision: "abc123"},
			want:  "v1.0.0 abc123",
		},
		"Dirty tree with time": {
			given: versionInfo{
				version:  "v1.0.0",
				revision: "abc123",
				modified: true,
				time:     time.Date(2023, 1, 31, 10, 0, 0, 0, time.UTC),
			},
			want: "v1.0.0 abc123+dirty (2023-01-31)",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.given.String())
		})
	}
}

func Test_printVersion(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf)
	assert.True(t, strings.HasPrefix(buf.String(), "vframes "))
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}
