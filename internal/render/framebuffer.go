package render

import (
	"image"
	"image/color"
)

// FrameBuffer is the CPU-side bitmap every backend presents. Pixels are
// stored B,G,R,A in memory, which is the little-endian ARGB word native to
// X11 TrueColor visuals and Linux framebuffers.
type FrameBuffer struct {
	W      int
	H      int
	Pixels []uint8 // BGRA
}

func NewFrameBuffer(w, h int) *FrameBuffer {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &FrameBuffer{W: w, H: h, Pixels: make([]uint8, w*h*4)}
}

func (fb *FrameBuffer) Stride() int { return fb.W * 4 }

// Row returns the bytes of scanline y.
func (fb *FrameBuffer) Row(y int) []uint8 {
	off := y * fb.W * 4
	return fb.Pixels[off : off+fb.W*4]
}

func (fb *FrameBuffer) ColorModel() color.Model { return color.RGBAModel }

func (fb *FrameBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, fb.W, fb.H) }

func (fb *FrameBuffer) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= fb.W || y >= fb.H {
		return color.RGBA{}
	}
	i := (y*fb.W + x) * 4
	return color.RGBA{R: fb.Pixels[i+2], G: fb.Pixels[i+1], B: fb.Pixels[i+0], A: fb.Pixels[i+3]}
}

func (fb *FrameBuffer) Set(x, y int, c color.Color) {
	if x < 0 || y < 0 || x >= fb.W || y >= fb.H {
		return
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	fb.put((y*fb.W+x)*4, rgba)
}

func (fb *FrameBuffer) put(idx int, c color.RGBA) {
	fb.Pixels[idx+0] = c.B
	fb.Pixels[idx+1] = c.G
	fb.Pixels[idx+2] = c.R
	fb.Pixels[idx+3] = c.A
}

func (fb *FrameBuffer) Clear(c color.RGBA) {
	for i := 0; i < len(fb.Pixels); i += 4 {
		fb.put(i, c)
	}
}

func (fb *FrameBuffer) FillRect(x, y, w, h int, c color.RGBA) {
	r := image.Rect(x, y, x+w, y+h).Intersect(fb.Bounds())
	if r.Empty() {
		return
	}
	for row := r.Min.Y; row < r.Max.Y; row++ {
		off := (row*fb.W + r.Min.X) * 4
		for col := 0; col < r.Dx(); col++ {
			fb.put(off+col*4, c)
		}
	}
}

func (fb *FrameBuffer) StrokeRect(x, y, w, h, line int, c color.RGBA) {
	if line <= 0 {
		line = 1
	}
	fb.FillRect(x, y, w, line, c)
	fb.FillRect(x, y+h-line, w, line, c)
	fb.FillRect(x, y, line, h, c)
	fb.FillRect(x+w-line, y, line, h, c)
}
