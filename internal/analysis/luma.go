// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Per-frame brightness measurements.

package analysis

import (
	"errors"
	"image"
	"sort"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Frames are scaled down to this width before measuring, luma average is not
// sensitive to detail.
const lumaSampleWidth = 64

// ErrNoValues is returned when summarising an empty slice.
var ErrNoValues = errors.New("no values")

// MeanLuma returns average luma of img in range 0..255.
func MeanLuma(img image.Image) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	if b.Dx() > lumaSampleWidth {
		img = imaging.Resize(img, lumaSampleWidth, 0, imaging.Box)
	}
	gray := imaging.Grayscale(img)

	// Grayscale result is NRGBA with R=G=B, one channel is enough.
	var sum float64
	n := 0
	for i := 0; i < len(gray.Pix); i += 4 {
		sum += float64(gray.Pix[i])
		n++
	}
	return sum / float64(n)
}

// Summary holds descriptive statistics of a series.
type Summary struct {
	Min    float64
	Max    float64
	Mean   float64
	StDev  float64
	Median float64
}

// Summarise calculates descriptive statistics of values.
func Summarise(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrNoValues
	}
	// Quantile requires sorted input, do not mangle caller's slice.
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		s.StDev = stat.StdDev(sorted, nil)
	}
	return s, nil
}
