package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
)

var ErrUnsupportedDepth = errors.New("unsupported pixel depth")

// PixelFormat describes how a backend expects pixels in memory.
type PixelFormat int

const (
	// FormatBGRA32 matches the FrameBuffer layout and needs no conversion.
	FormatBGRA32 PixelFormat = iota
	// FormatRGBA32 is byte order R,G,B,A as ebiten's WritePixels expects.
	FormatRGBA32
	FormatRGB30
	FormatRGB565
	FormatRGB555
	FormatRGB332
)

// FormatForDepth picks the native format for a display color depth.
func FormatForDepth(depth int) (PixelFormat, error) {
	switch depth {
	case 24, 32:
		return FormatBGRA32, nil
	case 30:
		return FormatRGB30, nil
	case 16:
		return FormatRGB565, nil
	case 15:
		return FormatRGB555, nil
	case 8:
		return FormatRGB332, nil
	}
	return 0, fmt.Errorf("depth %d: %w", depth, ErrUnsupportedDepth)
}

func (f PixelFormat) String() string {
	switch f {
	case FormatBGRA32:
		return "bgra32"
	case FormatRGBA32:
		return "rgba32"
	case FormatRGB30:
		return "rgb30"
	case FormatRGB565:
		return "rgb565"
	case FormatRGB555:
		return "rgb555"
	case FormatRGB332:
		return "rgb332"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// Fast reports whether the native buffer can alias the bitmap.
func (f PixelFormat) Fast() bool { return f == FormatBGRA32 }

func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGB565, FormatRGB555:
		return 2
	case FormatRGB332:
		return 1
	}
	return 4
}

// Pack converts 8-bit channels into the packed native value. Lower bits are
// truncated so no field can overflow.
func (f PixelFormat) Pack(r, g, b, a uint8) uint32 {
	R, G, B := uint32(r), uint32(g), uint32(b)
	switch f {
	case FormatRGB30:
		return (R << 2) | ((G << 2) << 10) | ((B << 2) << 20) | (0x03 << 30)
	case FormatRGB565:
		return (B >> 3) | ((G >> 2) << 5) | ((R >> 3) << 11)
	case FormatRGB555:
		return (B >> 3) | ((G >> 3) << 5) | ((R >> 3) << 10)
	case FormatRGB332:
		return (B >> 6) | ((G >> 5) << 2) | ((R >> 5) << 5)
	case FormatRGBA32:
		return R | G<<8 | B<<16 | uint32(a)<<24
	}
	return B | G<<8 | R<<16 | uint32(a)<<24
}

// Unpack expands a packed native value back to 8-bit channels.
func (f PixelFormat) Unpack(px uint32) (r, g, b uint8) {
	switch f {
	case FormatRGB30:
		return uint8((px & 0x3FF) >> 2), uint8(((px >> 10) & 0x3FF) >> 2), uint8(((px >> 20) & 0x3FF) >> 2)
	case FormatRGB565:
		return uint8(((px >> 11) & 0x1F) << 3), uint8(((px >> 5) & 0x3F) << 2), uint8((px & 0x1F) << 3)
	case FormatRGB555:
		return uint8(((px >> 10) & 0x1F) << 3), uint8(((px >> 5) & 0x1F) << 3), uint8((px & 0x1F) << 3)
	case FormatRGB332:
		return uint8(((px >> 5) & 0x07) << 5), uint8(((px >> 2) & 0x07) << 5), uint8((px & 0x03) << 6)
	case FormatRGBA32:
		return uint8(px), uint8(px >> 8), uint8(px >> 16)
	}
	return uint8(px >> 16), uint8(px >> 8), uint8(px)
}

// Convert writes region r of src into dst using format f. dst rows are
// dstStride bytes apart and indexed with the same coordinates as src.
func Convert(dst []byte, dstStride int, f PixelFormat, src *FrameBuffer, r image.Rectangle) {
	r = r.Intersect(src.Bounds())
	if r.Empty() {
		return
	}
	bpp := f.BytesPerPixel()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := src.Row(y)
		out := dst[y*dstStride:]
		for x := r.Min.X; x < r.Max.X; x++ {
			s := row[x*4 : x*4+4]
			px := f.Pack(s[2], s[1], s[0], s[3])
			o := out[x*bpp:]
			switch bpp {
			case 4:
				binary.LittleEndian.PutUint32(o, px)
			case 2:
				binary.LittleEndian.PutUint16(o, uint16(px))
			default:
				o[0] = uint8(px)
			}
		}
	}
}
