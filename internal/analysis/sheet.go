// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package analysis

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Gap between thumbnails on a contact sheet, in pixels.
const sheetPadding = 4

var sheetBackground = color.NRGBA{R: 32, G: 32, B: 32, A: 255}

// ContactSheet lays out thumbnails of frames on a grid with cols columns.
//
// Thumbnails are thumbWidth pixels wide, height follows aspect ratio of the
// first frame.
func ContactSheet(frames []image.Image, cols, thumbWidth int) (*image.NRGBA, error) {
	if len(frames) == 0 {
		return nil, errors.New("contact sheet: no frames")
	}
	if cols <= 0 || thumbWidth <= 0 {
		return nil, errors.New("contact sheet: columns and thumbnail width should be positive")
	}
	cols = min(cols, len(frames))
	rows := (len(frames) + cols - 1) / cols

	first := frames[0].Bounds()
	thumbHeight := max(1, thumbWidth*first.Dy()/max(1, first.Dx()))

	sheet := imaging.New(
		cols*(thumbWidth+sheetPadding)+sheetPadding,
		rows*(thumbHeight+sheetPadding)+sheetPadding,
		sheetBackground,
	)
	for i, f := range frames {
		thumb := imaging.Fill(f, thumbWidth, thumbHeight, imaging.Center, imaging.Lanczos)
		pos := image.Pt(
			sheetPadding+(i%cols)*(thumbWidth+sheetPadding),
			sheetPadding+(i/cols)*(thumbHeight+sheetPadding),
		)
		sheet = imaging.Paste(sheet, thumb, pos)
	}
	return sheet, nil
}

// SaveContactSheet creates contact sheet and saves it, format is selected by
// outFile extension.
func SaveContactSheet(frames []image.Image, cols, thumbWidth int, outFile string) error {
	sheet, err := ContactSheet(frames, cols, thumbWidth)
	if err != nil {
		return err
	}
	return imaging.Save(sheet, outFile)
}
