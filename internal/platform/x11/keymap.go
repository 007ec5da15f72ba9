//go:build linux && !console && !ebiten

package x11

import (
	"unicode"

	"github.com/jezek/xgb/xproto"

	"hostwin/internal/input"
)

const (
	ksF1      = 0xffbe
	ksF24     = 0xffd5
	ksKP0     = 0xffb0
	ksKP9     = 0xffb9
	ksKPHome  = 0xff95
	ksKPLeft  = 0xff96
	ksKPUp    = 0xff97
	ksKPRight = 0xff98
	ksKPDown  = 0xff99
	ksKPPgUp  = 0xff9a
	ksKPPgDn  = 0xff9b
	ksKPEnd   = 0xff9c
	ksKPBegin = 0xff9d
	ksKPIns   = 0xff9e
	ksKPDel   = 0xff9f

	// letters above Latin-1 are encoded as 0x01000000 | codepoint
	ksUnicode = 0x01000000
)

// numLockMask is Mod2, which the server binds to Num_Lock on every
// layout we have seen.
const numLockMask = xproto.ModMask2

var kpNavigation = map[uint32]input.Code{
	ksKPHome:  input.Home,
	ksKPUp:    input.Up,
	ksKPPgUp:  input.PageUp,
	ksKPLeft:  input.Left,
	ksKPIns:   input.Insert,
	ksKPRight: input.Right,
	ksKPEnd:   input.End,
	ksKPDown:  input.Down,
	ksKPPgDn:  input.PageDown,
	ksKPDel:   input.Delete,
}

var xf86Keys = map[uint32]input.Code{
	0x1008ff11: input.VolumeDown,
	0x1008ff12: input.VolumeMute,
	0x1008ff13: input.VolumeUp,
	0x1008ff14: input.MediaPlay,
	0x1008ff15: input.MediaStop,
	0x1008ff16: input.MediaPrev,
	0x1008ff17: input.MediaNext,
	0x1008ff18: input.BrowserHome,
	0x1008ff19: input.LaunchMail,
	0x1008ff1b: input.BrowserSearch,
	0x1008ff1d: input.LaunchCalc,
	0x1008ff26: input.BrowserPrev,
	0x1008ff27: input.BrowserNext,
	0x1008ff28: input.BrowserStop,
	0x1008ff29: input.BrowserRefresh,
	0x1008ff2f: input.Sleep,
	0x1008ff30: input.BrowserFavorites,
	0x1008ff32: input.LaunchMedia,
	0x1008ff33: input.LaunchApp1,
}

// Looked up after masking to 16 bits; some keyboards (ChromeOS) report
// 0x0800xxxx variants of plain keysyms.
var plainKeys = map[uint32]input.Code{
	0xff1b: input.Escape,
	0xff0d: input.Enter,
	0x0020: input.Space,
	0xff08: input.Backspace,

	0xffe1: input.LShift,
	0xffe2: input.RShift,
	0xffe9: input.LAlt,
	0xffea: input.RAlt,
	0xffe3: input.LCtrl,
	0xffe4: input.RCtrl,
	0xffeb: input.LWin,
	0xffec: input.RWin,
	0xffe7: input.LWin,
	0xffe8: input.RWin,

	0xff67: input.Menu,
	0xff09: input.Tab,
	0x002d: input.Minus,
	0x002b: input.Equals,
	0x003d: input.Equals,

	0xffe5: input.CapsLock,
	0xff7f: input.NumLock,

	0xff13: input.Pause,
	0xff6b: input.Pause,
	0xff14: input.ScrollLock,
	0xff63: input.Insert,
	0xff61: input.PrintScreen,
	0xff15: input.PrintScreen,

	0x005c: input.Backslash,
	0x007c: input.Backslash,
	0x007b: input.LBracket,
	0x005b: input.LBracket,
	0x007d: input.RBracket,
	0x005d: input.RBracket,
	0x003a: input.Semicolon,
	0x003b: input.Semicolon,
	0x0027: input.Quote,
	0x0022: input.Quote,
	0x0060: input.Tilde,
	0x007e: input.Tilde,

	0x002c: input.Comma,
	0x003c: input.Comma,
	0x002e: input.Period,
	0x003e: input.Period,
	0x002f: input.Slash,
	0x003f: input.Slash,

	0xff51: input.Left,
	0xff52: input.Up,
	0xff53: input.Right,
	0xff54: input.Down,

	0xffff: input.Delete,
	0xff50: input.Home,
	0xff57: input.End,
	0xff55: input.PageUp,
	0xff56: input.PageDown,

	0xffab: input.KPPlus,
	0xffad: input.KPMinus,
	0xffaa: input.KPMultiply,
	0xffaf: input.KPDivide,
	0xffae: input.KPDecimal,

	ksKPIns:   input.KP0,
	ksKPEnd:   input.KP1,
	ksKPDown:  input.KP2,
	ksKPPgDn:  input.KP3,
	ksKPLeft:  input.KP4,
	ksKPBegin: input.KP5,
	ksKPRight: input.KP6,
	ksKPHome:  input.KP7,
	ksKPUp:    input.KP8,
	ksKPPgUp:  input.KP9,
	ksKPDel:   input.KPDecimal,
	0xff8d:    input.KPEnter,

	0xfe03: input.RAlt, // ISO_Level3_Shift, AltGr on European layouts
}

// mapKeysym converts a keysym to a key code. state is the modifier mask of
// the key event and decides whether keypad keys act as navigation.
func mapKeysym(sym xproto.Keysym, state uint16) input.Code {
	key := uint32(sym)
	switch {
	case key >= '0' && key <= '9':
		return input.Digit(byte(key))
	case key >= 'A' && key <= 'Z', key >= 'a' && key <= 'z':
		return input.Letter(byte(key))
	case key >= ksF1 && key <= ksF24:
		return input.F1 + input.Code(key-ksF1)
	case key >= ksKP0 && key <= ksKP9:
		return input.KP0 + input.Code(key-ksKP0)
	}

	if key >= ksKPHome && key <= ksKPDel && state&numLockMask == 0 {
		if c, ok := kpNavigation[key]; ok {
			return c
		}
	}
	if c, ok := xf86Keys[key]; ok {
		return c
	}
	return plainKeys[key&0xffff]
}

// keycodeMap is the fallback for layouts whose keysyms mean nothing to
// mapKeysym (e.g. Cyrillic). It assumes the evdev keycode layout.
var keycodeMap = [136]input.Code{
	0x09: input.Escape, 0x0a: input.Key1, 0x0b: input.Key2, 0x0c: input.Key3,
	0x0d: input.Key4, 0x0e: input.Key5, 0x0f: input.Key6,
	0x10: input.Key7, 0x11: input.Key8, 0x12: input.Key9, 0x13: input.Key0,
	0x14: input.Minus, 0x15: input.Equals, 0x16: input.Backspace, 0x17: input.Tab,
	0x18: input.KeyQ, 0x19: input.KeyW, 0x1a: input.KeyE, 0x1b: input.KeyR,
	0x1c: input.KeyT, 0x1d: input.KeyY, 0x1e: input.KeyU, 0x1f: input.KeyI,
	0x20: input.KeyO, 0x21: input.KeyP, 0x22: input.LBracket, 0x23: input.RBracket,
	0x24: input.Enter, 0x25: input.LCtrl, 0x26: input.KeyA, 0x27: input.KeyS,
	0x28: input.KeyD, 0x29: input.KeyF, 0x2a: input.KeyG, 0x2b: input.KeyH,
	0x2c: input.KeyJ, 0x2d: input.KeyK, 0x2e: input.KeyL, 0x2f: input.Semicolon,
	0x30: input.Quote, 0x31: input.Tilde, 0x32: input.LShift, 0x33: input.Backslash,
	0x34: input.KeyZ, 0x35: input.KeyX, 0x36: input.KeyC, 0x37: input.KeyV,
	0x38: input.KeyB, 0x39: input.KeyN, 0x3a: input.KeyM, 0x3b: input.Comma,
	0x3c: input.Period, 0x3d: input.Slash, 0x3e: input.RShift, 0x3f: input.KPMultiply,
	0x40: input.LAlt, 0x41: input.Space, 0x42: input.CapsLock, 0x43: input.F1,
	0x44: input.F2, 0x45: input.F3, 0x46: input.F4, 0x47: input.F5,
	0x48: input.F6, 0x49: input.F7, 0x4a: input.F8, 0x4b: input.F9,
	0x4c: input.F10, 0x4d: input.NumLock, 0x4e: input.ScrollLock, 0x4f: input.KP7,
	0x50: input.KP8, 0x51: input.KP9, 0x52: input.KPMinus, 0x53: input.KP4,
	0x54: input.KP5, 0x55: input.KP6, 0x56: input.KPPlus, 0x57: input.KP1,
	0x58: input.KP2, 0x59: input.KP3, 0x5a: input.KP0, 0x5b: input.KPDecimal,
	0x5f: input.F11, 0x60: input.F12,
	0x6c: input.RAlt, 0x6d: input.RCtrl, 0x6e: input.Home, 0x6f: input.Up,
	0x70: input.PageUp, 0x71: input.Left, 0x72: input.Right, 0x73: input.End,
	0x74: input.Down, 0x75: input.PageDown, 0x76: input.Insert, 0x77: input.Delete,
	0x7f: input.Pause,
	0x85: input.LWin, 0x87: input.RWin,
}

func mapKeycode(kc xproto.Keycode) input.Code {
	if int(kc) >= len(keycodeMap) {
		return input.None
	}
	return keycodeMap[kc]
}

func mapMouseButton(b xproto.Button) input.Code {
	switch {
	case b == 1:
		return input.MouseLeft
	case b == 2:
		return input.MouseMiddle
	case b == 3:
		return input.MouseRight
	case b >= 8 && b <= 13:
		return input.MouseX1 + input.Code(b-8)
	}
	return input.None
}

// keysymRune returns the character a keysym types, or 0.
func keysymRune(sym xproto.Keysym) rune {
	key := uint32(sym)
	switch {
	case key >= 0x20 && key <= 0x7e, key >= 0xa0 && key <= 0xff:
		return rune(key)
	case key&0xff000000 == ksUnicode:
		r := rune(key &^ ksUnicode)
		if unicode.IsPrint(r) {
			return r
		}
	case key >= ksKP0 && key <= ksKP9:
		return '0' + rune(key-ksKP0)
	}
	switch key {
	case 0xffaa:
		return '*'
	case 0xffab:
		return '+'
	case 0xffad:
		return '-'
	case 0xffae:
		return '.'
	case 0xffaf:
		return '/'
	case 0xff80:
		return ' '
	}
	return 0
}

// keymap caches the server's keycode to keysym table.
type keymap struct {
	min     xproto.Keycode
	perCode int
	syms    []xproto.Keysym
}

func loadKeymap(d display) (*keymap, error) {
	s := d.Screen()
	count := int(s.MaxKeycode) - int(s.MinKeycode) + 1
	reply, err := d.KeyboardMapping(s.MinKeycode, count)
	if err != nil {
		return nil, err
	}
	return &keymap{min: s.MinKeycode, perCode: int(reply.KeysymsPerKeycode), syms: reply.Keysyms}, nil
}

// lookup returns the keysym in column col for kc. A letter whose second
// column is empty gets its uppercase form, as Xlib does.
func (k *keymap) lookup(kc xproto.Keycode, col int) xproto.Keysym {
	if k == nil || kc < k.min || k.perCode == 0 {
		return 0
	}
	base := (int(kc) - int(k.min)) * k.perCode
	if base+k.perCode > len(k.syms) {
		return 0
	}
	if col >= k.perCode {
		return 0
	}
	sym := k.syms[base+col]
	if col == 1 && sym == 0 {
		lower := k.syms[base]
		if lower >= 'a' && lower <= 'z' {
			return lower - 'a' + 'A'
		}
		return lower
	}
	return sym
}

// key resolves the code for an event, trying both keysym columns before
// falling back to the raw keycode.
func (k *keymap) key(kc xproto.Keycode, state uint16) input.Code {
	if c := mapKeysym(k.lookup(kc, 0), state); c != input.None {
		return c
	}
	if c := mapKeysym(k.lookup(kc, 1), state); c != input.None {
		return c
	}
	return mapKeycode(kc)
}

// text returns the character typed by kc under the modifier state.
func (k *keymap) text(kc xproto.Keycode, state uint16) rune {
	if state&(xproto.ModMaskControl|xproto.ModMask1) != 0 {
		return 0
	}
	shift := state&xproto.ModMaskShift != 0
	lower := k.lookup(kc, 0)
	if state&numLockMask != 0 {
		if alt := k.lookup(kc, 1); isKeypad(alt) {
			if shift {
				return keysymRune(lower)
			}
			return keysymRune(alt)
		}
	}
	if state&xproto.ModMaskLock != 0 && lower >= 'a' && lower <= 'z' {
		shift = !shift
	}
	if !shift {
		return keysymRune(lower)
	}
	return keysymRune(k.lookup(kc, 1))
}

func isKeypad(sym xproto.Keysym) bool { return sym >= 0xff80 && sym <= 0xffbd }
