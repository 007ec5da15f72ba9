package render

import "image"

// Surface pairs the bitmap callers draw into with the buffer handed to the
// native presentation call. For fast formats both views share memory.
type Surface struct {
	Bitmap *FrameBuffer
	Native []byte
	Format PixelFormat
	Stride int

	rowAlign int
}

// NewSurface allocates a bitmap of w x h pixels. rowAlign pads native rows
// to a multiple of that many bytes; values below 1 mean no padding.
func NewSurface(w, h int, f PixelFormat, rowAlign int) *Surface {
	fb := NewFrameBuffer(w, h)
	s := &Surface{Bitmap: fb, Format: f, rowAlign: rowAlign}
	if f.Fast() {
		s.Native = fb.Pixels
		s.Stride = fb.Stride()
		return s
	}
	s.Stride = alignUp(fb.W*f.BytesPerPixel(), rowAlign)
	s.Native = make([]byte, s.Stride*fb.H)
	return s
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// Aliased reports whether the native buffer is the bitmap itself.
func (s *Surface) Aliased() bool {
	return len(s.Native) > 0 && s.Bitmap != nil && len(s.Bitmap.Pixels) > 0 && &s.Native[0] == &s.Bitmap.Pixels[0]
}

// Sync converts the given region into the native buffer and returns the
// clipped region. Aliased surfaces need no work.
func (s *Surface) Sync(r image.Rectangle) image.Rectangle {
	if s.Bitmap == nil {
		return image.Rectangle{}
	}
	r = r.Intersect(s.Bitmap.Bounds())
	if !s.Aliased() {
		Convert(s.Native, s.Stride, s.Format, s.Bitmap, r)
	}
	return r
}

// Rows returns the native bytes for scanlines [y0, y1) restricted to the
// columns [x0, x1), each row padded to the surface alignment. The slice
// aliases Native when the span covers full rows, otherwise the rows are
// packed into scratch.
func (s *Surface) Rows(x0, x1, y0, y1 int, scratch []byte) []byte {
	bpp := s.Format.BytesPerPixel()
	rowBytes := (x1 - x0) * bpp
	padded := alignUp(rowBytes, s.rowAlign)
	if x0 == 0 && padded == s.Stride {
		return s.Native[y0*s.Stride : y1*s.Stride]
	}
	out := scratch[:0]
	for y := y0; y < y1; y++ {
		off := y*s.Stride + x0*bpp
		out = append(out, s.Native[off:off+rowBytes]...)
		for i := rowBytes; i < padded; i++ {
			out = append(out, 0)
		}
	}
	return out
}

// RowBytes is the padded length of one row of width w in the native format.
func (s *Surface) RowBytes(w int) int {
	return alignUp(w*s.Format.BytesPerPixel(), s.rowAlign)
}

// Free drops both buffers. Calling it twice is harmless.
func (s *Surface) Free() {
	if s.Bitmap == nil && s.Native == nil {
		return
	}
	if s.Bitmap != nil {
		s.Bitmap.Pixels = nil
	}
	s.Native = nil
	s.Bitmap = nil
}
