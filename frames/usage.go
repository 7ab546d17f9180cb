// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frames

import (
	"os"
	"time"
)

// UsageStat contains extraction process resource usage stats.
type UsageStat struct {
	// Human friendly representations of time duration
	HStime   string
	HUtime   string
	HElapsed string
	// time.Duration is nanoseconds
	Stime   time.Duration
	Utime   time.Duration
	Elapsed time.Duration
}

// NewUsageStat will create UsageStat instance.
func NewUsageStat(elapsed time.Duration, ps *os.ProcessState) UsageStat {
	var u UsageStat
	if ps != nil {
		u.Stime = ps.SystemTime()
		u.Utime = ps.UserTime()
	}
	u.Elapsed = elapsed
	u.HStime = u.Stime.String()
	u.HUtime = u.Utime.String()
	u.HElapsed = elapsed.String()
	return u
}

// CPUPercent calculates CPU usage in percent.
func (s *UsageStat) CPUPercent() float64 {
	if s.Elapsed == 0 {
		return 0
	}
	return float64(s.Stime+s.Utime) / float64(s.Elapsed) * 100
}
