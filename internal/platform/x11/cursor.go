//go:build linux && !console && !ebiten

package x11

import "hostwin/internal/options"

func (b *Backend) SetCursorPosition(x, y int) {
	b.d.WarpPointer(b.win, x, y)
}

func (b *Backend) SetCursorVisible(visible bool) {
	b.ctx.Display.CursorVisible = visible
	if visible {
		b.d.SetCursor(b.win, 0)
		return
	}
	if b.blank == 0 {
		cur, err := b.d.BlankCursor(b.win)
		if err != nil {
			b.log.Warn("cannot hide cursor", "error", err)
			return
		}
		b.blank = cur
	}
	b.d.SetCursor(b.win, b.blank)
}

// recentre parks the pointer in the middle of the window so the next
// UpdateRawMouse measures motion from there.
func (b *Backend) recentre() {
	if !b.ctx.Window.Focused || !b.ctx.Window.Exists {
		return
	}
	b.SetCursorPosition(b.ctx.Window.Width/2, b.ctx.Window.Height/2)
}

// EnableRawMouse hides the cursor and starts measuring motion by
// recentring. xgb has no XInput2 decoder, so there is no raw event stream.
func (b *Backend) EnableRawMouse() {
	if !b.rawLogged {
		b.rawLogged = true
		if b.ctx.Options.GetBool(options.RawInput, true) {
			b.log.Info("raw pointer events unavailable, using cursor recentring")
		}
	}
	b.ctx.Input.RawMode = true
	b.recentre()
	b.SetCursorVisible(false)
	if !b.grabCursor {
		return
	}
	if err := b.d.GrabPointer(b.win, b.blank); err != nil {
		b.log.Warn("pointer grab failed", "error", err)
	}
}

func (b *Backend) UpdateRawMouse() {
	if !b.ctx.Window.Focused {
		return
	}
	x, y, err := b.d.QueryPointer(b.win)
	if err != nil {
		return
	}
	dx := x - b.ctx.Window.Width/2
	dy := y - b.ctx.Window.Height/2
	b.recentre()
	if dx != 0 || dy != 0 {
		b.ctx.Input.AddRaw(0, float64(dx), float64(dy))
	}
}

func (b *Backend) DisableRawMouse() {
	b.ctx.Input.RawMode = false
	b.recentre()
	b.SetCursorVisible(true)
	if b.grabCursor {
		b.d.UngrabPointer()
	}
}
