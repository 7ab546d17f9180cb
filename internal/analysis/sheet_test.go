// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package analysis

import (
	"image"
	"image/color"
	"path"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixFrames(n, w, h int) ([]image.Image, []color.NRGBA) {
	frames := make([]image.Image, n)
	colors := make([]color.NRGBA, n)
	for i := range frames {
		colors[i] = color.NRGBA{R: uint8(40 * i), G: 200, B: 10, A: 255}
		frames[i] = imaging.New(w, h, colors[i])
	}
	return frames, colors
}

func TestContactSheet(t *testing.T) {
	t.Run("Grid layout", func(t *testing.T) {
		frames, colors := fixFrames(5, 160, 90)
		sheet, err := ContactSheet(frames, 3, 32)
		require.NoError(t, err)

		// 3 columns, 2 rows of 32x18 thumbnails.
		assert.Equal(t, 3*(32+sheetPadding)+sheetPadding, sheet.Bounds().Dx())
		assert.Equal(t, 2*(18+sheetPadding)+sheetPadding, sheet.Bounds().Dy())

		// Centre of each thumbnail has the frame color.
		for i, c := range colors {
			x := sheetPadding + (i%3)*(32+sheetPadding) + 16
			y := sheetPadding + (i/3)*(18+sheetPadding) + 9
			assert.Equal(t, c, sheet.NRGBAAt(x, y), "frame %d", i)
		}
		// Unused cell stays background.
		assert.Equal(t, sheetBackground, sheet.NRGBAAt(sheetPadding+2*(32+sheetPadding)+16, sheetPadding+(18+sheetPadding)+9))
	})

	t.Run("Fewer frames than columns", func(t *testing.T) {
		frames, _ := fixFrames(2, 10, 10)
		sheet, err := ContactSheet(frames, 6, 10)
		require.NoError(t, err)
		assert.Equal(t, 2*(10+sheetPadding)+sheetPadding, sheet.Bounds().Dx())
	})

	t.Run("Invalid input", func(t *testing.T) {
		frames, _ := fixFrames(2, 10, 10)
		_, err := ContactSheet(nil, 2, 10)
		assert.Error(t, err)
		_, err = ContactSheet(frames, 0, 10)
		assert.Error(t, err)
		_, err = ContactSheet(frames, 2, -1)
		assert.Error(t, err)
	})
}

func TestSaveContactSheet(t *testing.T) {
	frames, _ := fixFrames(4, 64, 48)
	out := path.Join(t.TempDir(), "sheet.png")

	require.NoError(t, SaveContactSheet(frames, 2, 32, out))

	img, err := imaging.Open(out)
	require.NoError(t, err)
	assert.Equal(t, 2*(32+sheetPadding)+sheetPadding, img.Bounds().Dx())
	assert.Equal(t, 2*(24+sheetPadding)+sheetPadding, img.Bounds().Dy())
}
