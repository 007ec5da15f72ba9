//go:build linux && !console && !ebiten

package x11

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"hostwin/internal/input"
	"hostwin/internal/platform"
)

func (b *Backend) next() xgb.Event {
	if ev := b.lookahead; ev != nil {
		b.lookahead = nil
		return ev
	}
	for {
		ev, err := b.d.PollEvent()
		if err != nil {
			b.log.Debug("x11 error", "error", err)
			continue
		}
		return ev
	}
}

// ours reports whether ev belongs to the game window. Events without a
// window (keymap and mapping notifications) are always accepted.
func (b *Backend) ours(ev xgb.Event) bool {
	var w xproto.Window
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		w = e.Event
	case xproto.KeyReleaseEvent:
		w = e.Event
	case xproto.ButtonPressEvent:
		w = e.Event
	case xproto.ButtonReleaseEvent:
		w = e.Event
	case xproto.MotionNotifyEvent:
		w = e.Event
	case xproto.EnterNotifyEvent:
		w = e.Event
	case xproto.LeaveNotifyEvent:
		w = e.Event
	case xproto.FocusInEvent:
		w = e.Event
	case xproto.FocusOutEvent:
		w = e.Event
	case xproto.ConfigureNotifyEvent:
		w = e.Event
	case xproto.DestroyNotifyEvent:
		w = e.Event
	case xproto.ExposeEvent:
		w = e.Window
	case xproto.ClientMessageEvent:
		w = e.Window
	case xproto.PropertyNotifyEvent:
		w = e.Window
	case xproto.SelectionNotifyEvent:
		w = e.Requestor
	case xproto.SelectionRequestEvent:
		w = e.Owner
	default:
		return true
	}
	return w == b.win
}

// ProcessEvents drains every queued event for the window.
func (b *Backend) ProcessEvents(delta float64) {
	for b.ctx.Window.Exists {
		ev := b.next()
		if ev == nil {
			return
		}
		if !b.ours(ev) {
			continue
		}
		b.dispatch(ev)
	}
}

func (b *Backend) dispatch(ev xgb.Event) {
	switch e := ev.(type) {
	case xproto.ClientMessageEvent:
		b.handleClientMessage(e)

	case xproto.DestroyNotifyEvent:
		b.log.Info("window destroyed")
		b.winGone = true
		b.ctx.Window.Exists = false

	case xproto.ConfigureNotifyEvent:
		b.ctx.SetBounds(int(e.Width), int(e.Height))

	case xproto.ExposeEvent:
		if e.Count == 0 {
			b.ctx.RaiseVoid(platform.EventRedrawNeeded)
		}

	case xproto.LeaveNotifyEvent:
		if b.focusIsPointerRoot() {
			b.ctx.Window.Focused = false
			b.ctx.RaiseVoid(platform.EventFocusChanged)
		}

	case xproto.EnterNotifyEvent:
		if b.focusIsPointerRoot() {
			b.ctx.Window.Focused = true
			b.ctx.RaiseVoid(platform.EventFocusChanged)
		}

	case xproto.KeyPressEvent:
		b.handleKeyPress(e)

	case xproto.KeyReleaseEvent:
		if b.isAutoRepeat(e) {
			return
		}
		b.ctx.Input.SetReleased(b.keys.key(e.Detail, e.State))

	case xproto.ButtonPressEvent:
		b.handleButton(e.Detail, true)

	case xproto.ButtonReleaseEvent:
		b.handleButton(e.Detail, false)

	case xproto.MotionNotifyEvent:
		b.ctx.Input.SetPointer(0, int(e.EventX), int(e.EventY))

	case xproto.FocusInEvent:
		b.handleFocus(e.Mode, true)

	case xproto.FocusOutEvent:
		b.handleFocus(e.Mode, false)

	case xproto.MappingNotifyEvent:
		if e.Request == xproto.MappingModifier || e.Request == xproto.MappingKeyboard {
			b.log.Debug("keyboard mapping refreshed")
			if km, err := loadKeymap(b.d); err == nil {
				b.keys = km
			}
		}

	case xproto.PropertyNotifyEvent:
		if e.Atom == b.atoms.netWMState {
			b.ctx.RaiseVoid(platform.EventStateChanged)
		}

	case xproto.SelectionNotifyEvent:
		b.handleSelectionNotify(e)

	case xproto.SelectionRequestEvent:
		b.handleSelectionRequest(e)
	}
}

func (b *Backend) focusIsPointerRoot() bool {
	focus, err := b.d.InputFocus()
	return err == nil && focus == xproto.InputFocusPointerRoot
}

func (b *Backend) handleFocus(mode byte, focused bool) {
	// another client grabbing the keyboard or pointer is not a focus change
	if mode == xproto.NotifyModeGrab || mode == xproto.NotifyModeUngrab {
		return
	}
	b.ctx.SetFocused(focused)
}

func (b *Backend) handleClientMessage(e xproto.ClientMessageEvent) {
	if len(e.Data.Data32) == 0 {
		return
	}
	proto := xproto.Atom(e.Data.Data32[0])
	switch {
	case proto == b.atoms.wmDelete && proto != 0:
		b.log.Info("exit message received")
		b.ctx.RaiseVoid(platform.EventClosing)
		b.ctx.Window.Exists = false
	case proto == b.atoms.netWMPing:
		root := b.d.Screen().Root
		e.Window = root
		b.d.SendEvent(root, false, xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify, e.Bytes())
	}
}

// isAutoRepeat reports whether a release is half of a synthetic repeat: the
// server emits the release and the next press with the same timestamp.
func (b *Backend) isAutoRepeat(rel xproto.KeyReleaseEvent) bool {
	ev := b.next()
	if ev == nil {
		return false
	}
	b.lookahead = ev
	press, ok := ev.(xproto.KeyPressEvent)
	return ok && press.Detail == rel.Detail && press.Time == rel.Time && press.Event == rel.Event
}

func (b *Backend) handleKeyPress(e xproto.KeyPressEvent) {
	code := b.keys.key(e.Detail, e.State)
	if code == input.None {
		b.log.Debug("unknown key", "keycode", e.Detail,
			"sym0", b.keys.lookup(e.Detail, 0), "sym1", b.keys.lookup(e.Detail, 1))
	} else {
		b.ctx.Input.SetPressed(code)
	}
	if r := b.keys.text(e.Detail, e.State); r != 0 {
		b.ctx.Raise(platform.Event{Type: platform.EventTextInput, Rune: r})
	}
}

func (b *Backend) handleButton(btn xproto.Button, pressed bool) {
	if code := mapMouseButton(btn); code != input.None {
		b.ctx.Input.Set(code, pressed)
		return
	}
	if !pressed {
		return
	}
	switch btn {
	case 4:
		b.ctx.Input.ScrollV(1)
	case 5:
		b.ctx.Input.ScrollV(-1)
	case 6:
		b.ctx.Input.ScrollH(1)
	case 7:
		b.ctx.Input.ScrollH(-1)
	default:
		b.log.Debug("unknown mouse button", "button", btn)
	}
}
