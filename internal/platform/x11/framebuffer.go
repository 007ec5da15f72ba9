//go:build linux && !console && !ebiten

package x11

import (
	"image"

	"hostwin/internal/render"
)

// putImageHeader is the fixed part of a PutImage request in bytes.
const putImageHeader = 24

func (b *Backend) AllocFramebuffer(width, height int) *render.Surface {
	s := b.d.Screen()
	f, err := render.FormatForDepth(s.Depth)
	if err != nil {
		b.ctx.Fatal("cannot present to this display", err)
		return nil
	}
	if b.gc == 0 {
		if b.gc, err = b.d.CreateGC(b.win); err != nil {
			b.ctx.Fatal("failed to create graphics context", err)
			return nil
		}
	}
	b.log.Debug("framebuffer allocated", "width", width, "height", height, "format", f)
	return render.NewSurface(width, height, f, s.ScanlinePad/8)
}

// DrawFramebuffer converts r if needed and uploads it in strips that fit
// the server's request size limit.
func (b *Backend) DrawFramebuffer(r image.Rectangle, surf *render.Surface) {
	r = surf.Sync(r)
	if r.Empty() {
		return
	}
	s := b.d.Screen()
	rowBytes := surf.RowBytes(r.Dx())
	rows := 1
	if rowBytes > 0 && s.MaxRequestBytes > putImageHeader+rowBytes {
		rows = (s.MaxRequestBytes - putImageHeader) / rowBytes
	}
	if n := rows * rowBytes; cap(b.scratch) < n {
		b.scratch = make([]byte, 0, n)
	}
	for y := r.Min.Y; y < r.Max.Y; y += rows {
		y1 := min(y+rows, r.Max.Y)
		data := surf.Rows(r.Min.X, r.Max.X, y, y1, b.scratch)
		b.d.PutImage(b.win, b.gc, r.Dx(), y1-y, r.Min.X, y, byte(s.Depth), data)
	}
}

func (b *Backend) FreeFramebuffer(surf *render.Surface) {
	if surf != nil {
		surf.Free()
	}
}
