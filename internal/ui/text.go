package ui

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type Faces struct {
	Title font.Face
	Body  font.Face
}

// LoadFaces sizes the title face for scale. Body text always uses the
// fixed 7x13 face, which is also the fallback when the title face fails.
func LoadFaces(scale float32) Faces {
	faces := Faces{Title: basicfont.Face7x13, Body: basicfont.Face7x13}
	if scale <= 0 {
		scale = 1
	}
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return faces
	}
	title, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(13 * scale),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return faces
	}
	faces.Title = title
	return faces
}

// DrawText draws s with its baseline at y.
func DrawText(dst draw.Image, face font.Face, x, y int, c color.Color, s string) {
	if s == "" {
		return
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func TextWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// baseline centres a line of face vertically in the band [top, top+h).
func baseline(face font.Face, top, h int) int {
	m := face.Metrics()
	asc, desc := m.Ascent.Ceil(), m.Descent.Ceil()
	return top + (h-asc-desc)/2 + asc
}
