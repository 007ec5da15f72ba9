//go:build linux && console

package console

import (
	"encoding/binary"

	"hostwin/internal/evdev"
	"hostwin/internal/input"
)

// ProcessEvents drains the keyboard and pointer. There are no window
// events on a console.
func (b *Backend) ProcessEvents(delta float64) {
	if b.keyboard != nil {
		evs, err := b.keyboard.Drain()
		for _, code := range evdev.ApplyKeys(b.ctx.Input, evs) {
			b.log.Debug("unknown key", "code", code)
		}
		if err != nil {
			b.log.Warn("keyboard lost", "error", err)
			b.keyboard.Close()
			b.keyboard = nil
		}
	}
	if b.pointer != nil {
		m, err := b.pointer.Drain()
		b.applyMotion(m)
		if err != nil {
			b.log.Warn("pointer lost", "error", err)
			b.pointer.Close()
			b.pointer = nil
		}
	}
}

var pointerButtons = map[uint16]input.Code{
	evdev.BtnLeft:   input.MouseLeft,
	evdev.BtnRight:  input.MouseRight,
	evdev.BtnMiddle: input.MouseMiddle,
	evdev.BtnSide:   input.MouseX1,
	evdev.BtnExtra:  input.MouseX2,
}

func (b *Backend) applyMotion(m evdev.Motion) {
	for _, ev := range m.Buttons {
		if code, ok := pointerButtons[ev.Code]; ok {
			b.ctx.Input.Set(code, ev.Value != 0)
		}
	}
	if m.WheelV != 0 {
		b.ctx.Input.ScrollV(m.WheelV)
	}
	if m.WheelH != 0 {
		b.ctx.Input.ScrollH(m.WheelH)
	}
	if m.DX == 0 && m.DY == 0 {
		return
	}

	x := min(max(b.cursorX+int(m.DX), 0), b.mode.Width-1)
	y := min(max(b.cursorY+int(m.DY), 0), b.mode.Height-1)
	b.moveCursor(x, y)

	if !b.ctx.Input.RawMode {
		return
	}
	ok, disabledNow := b.rawCheck.Observe(m.DX, m.DY)
	if disabledNow {
		b.log.Warn("pointer reports absolute motion, using cursor deltas")
	}
	if ok {
		b.ctx.Input.AddRaw(0, m.DX, m.DY)
		return
	}
	b.ctx.Input.AddRaw(0, float64(b.cursorX-b.prevX), float64(b.cursorY-b.prevY))
}

func (b *Backend) moveCursor(x, y int) {
	b.prevX, b.prevY = b.cursorX, b.cursorY
	if x == b.cursorX && y == b.cursorY {
		return
	}
	b.cursorX, b.cursorY = x, y
	b.ctx.Input.SetPointer(0, x, y)
}

func (b *Backend) SetCursorPosition(x, y int) {
	b.moveCursor(min(max(x, 0), b.mode.Width-1), min(max(y, 0), b.mode.Height-1))
}

func (b *Backend) SetCursorVisible(visible bool) { b.ctx.Display.CursorVisible = visible }

func (b *Backend) EnableRawMouse()  { b.ctx.Input.RawMode = true }
func (b *Backend) DisableRawMouse() { b.ctx.Input.RawMode = false }

// UpdateRawMouse has nothing to do: motion is read in ProcessEvents.
func (b *Backend) UpdateRawMouse() {}

const cursorSize = 10

// drawCursor paints a white crosshair with a black outline at the cursor.
func (b *Backend) drawCursor(dst []byte) {
	white := b.format.Pack(0xff, 0xff, 0xff, 0xff)
	black := b.format.Pack(0, 0, 0, 0xff)
	cx, cy := b.cursorX, b.cursorY
	for d := -cursorSize; d <= cursorSize; d++ {
		b.plot(dst, cx+d, cy-1, black)
		b.plot(dst, cx+d, cy+1, black)
		b.plot(dst, cx-1, cy+d, black)
		b.plot(dst, cx+1, cy+d, black)
	}
	for d := -cursorSize; d <= cursorSize; d++ {
		b.plot(dst, cx+d, cy, white)
		b.plot(dst, cx, cy+d, white)
	}
}

func (b *Backend) plot(dst []byte, x, y int, px uint32) {
	if x < 0 || y < 0 || x >= b.mode.Width || y >= b.mode.Height {
		return
	}
	bpp := b.format.BytesPerPixel()
	o := dst[y*b.mode.Stride+x*bpp:]
	switch bpp {
	case 4:
		binary.LittleEndian.PutUint32(o, px)
	case 2:
		binary.LittleEndian.PutUint16(o, uint16(px))
	default:
		o[0] = uint8(px)
	}
}
