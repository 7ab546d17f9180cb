// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Bounded capture of child process output.
//
// A child process writing into a pipe must never be blocked by its reader,
// otherwise it hangs. Writers here therefore always report full writes and
// silently drop whatever does not fit under the limit. LimitedWriter and
// Capture keep the head of the output, TailCapture keeps its end.
package lw

import (
	"bytes"
	"io"
)

// LimitedWriter keeps the first N bytes written to W and discards the rest.
type LimitedWriter struct {
	// Apply limits to this Writer
	W io.Writer
	// Bytes left before truncation kicks in
	N uint
	// Count of dropped bytes
	dropped uint
}

// Write implements io.Writer for *LimitedWriter.
//
// The returned count is always len(b) unless the underlying Writer fails.
func (s *LimitedWriter) Write(b []byte) (int, error) {
	keep := b
	if uint(len(keep)) > s.N {
		keep = keep[:s.N]
	}
	n, err := s.W.Write(keep)
	s.N -= uint(n)
	if err != nil {
		return n, err
	}
	s.dropped += uint(len(b) - n)
	return len(b), nil
}

// Truncated reports whether any data was dropped.
func (s *LimitedWriter) Truncated() bool {
	return s.dropped > 0
}

// Dropped returns the number of discarded bytes.
func (s *LimitedWriter) Dropped() uint {
	return s.dropped
}

func LimitWriter(w io.Writer, n uint) *LimitedWriter {
	return &LimitedWriter{W: w, N: n}
}

// Capture is an in-memory LimitedWriter.
type Capture struct {
	buf bytes.Buffer
	*LimitedWriter
}

// NewCapture creates Capture that holds at most n bytes.
func NewCapture(n uint) *Capture {
	c := &Capture{}
	c.LimitedWriter = LimitWriter(&c.buf, n)
	return c
}

// Bytes returns captured data.
func (c *Capture) Bytes() []byte {
	return c.buf.Bytes()
}

// String returns captured data as string.
func (c *Capture) String() string {
	return c.buf.String()
}

// TailCapture is an in-memory writer that keeps the last n bytes written.
type TailCapture struct {
	buf   []byte
	n     int
	total uint
}

// NewTailCapture creates TailCapture that holds at most n bytes.
func NewTailCapture(n uint) *TailCapture {
	return &TailCapture{n: int(n)}
}

// Write implements io.Writer for *TailCapture, it never fails.
func (c *TailCapture) Write(b []byte) (int, error) {
	c.total += uint(len(b))
	if len(b) >= c.n {
		c.buf = append(c.buf[:0], b[len(b)-c.n:]...)
		return len(b), nil
	}
	// Buffer grows up to 2n, then gets compacted down to the last n bytes.
	if len(c.buf)+len(b) > 2*c.n {
		c.buf = append(c.buf[:0], c.buf[len(c.buf)-c.n:]...)
	}
	c.buf = append(c.buf, b...)
	return len(b), nil
}

// Bytes returns captured data.
func (c *TailCapture) Bytes() []byte {
	if len(c.buf) > c.n {
		return c.buf[len(c.buf)-c.n:]
	}
	return c.buf
}

// String returns captured data as string.
func (c *TailCapture) String() string {
	return string(c.Bytes())
}

// Dropped returns the number of discarded leading bytes.
func (c *TailCapture) Dropped() uint {
	return c.total - uint(len(c.Bytes()))
}

// Truncated reports whether any data was dropped.
func (c *TailCapture) Truncated() bool {
	return c.Dropped() > 0
}
