package evdev

import "hostwin/internal/input"

// keyCodes maps KEY_* codes from linux/input-event-codes.h.
var keyCodes = map[uint16]input.Code{
	1: input.Escape, 2: input.Key1, 3: input.Key2, 4: input.Key3, 5: input.Key4,
	6: input.Key5, 7: input.Key6, 8: input.Key7, 9: input.Key8, 10: input.Key9,
	11: input.Key0, 12: input.Minus, 13: input.Equals, 14: input.Backspace, 15: input.Tab,
	16: input.KeyQ, 17: input.KeyW, 18: input.KeyE, 19: input.KeyR, 20: input.KeyT,
	21: input.KeyY, 22: input.KeyU, 23: input.KeyI, 24: input.KeyO, 25: input.KeyP,
	26: input.LBracket, 27: input.RBracket, 28: input.Enter, 29: input.LCtrl,
	30: input.KeyA, 31: input.KeyS, 32: input.KeyD, 33: input.KeyF, 34: input.KeyG,
	35: input.KeyH, 36: input.KeyJ, 37: input.KeyK, 38: input.KeyL, 39: input.Semicolon,
	40: input.Quote, 41: input.Tilde, 42: input.LShift, 43: input.Backslash,
	44: input.KeyZ, 45: input.KeyX, 46: input.KeyC, 47: input.KeyV, 48: input.KeyB,
	49: input.KeyN, 50: input.KeyM, 51: input.Comma, 52: input.Period, 53: input.Slash,
	54: input.RShift, 55: input.KPMultiply, 56: input.LAlt, 57: input.Space, 58: input.CapsLock,
	59: input.F1, 60: input.F2, 61: input.F3, 62: input.F4, 63: input.F5,
	64: input.F6, 65: input.F7, 66: input.F8, 67: input.F9, 68: input.F10,
	69: input.NumLock, 70: input.ScrollLock,
	71: input.KP7, 72: input.KP8, 73: input.KP9, 74: input.KPMinus,
	75: input.KP4, 76: input.KP5, 77: input.KP6, 78: input.KPPlus,
	79: input.KP1, 80: input.KP2, 81: input.KP3, 82: input.KP0, 83: input.KPDecimal,
	87: input.F11, 88: input.F12,
	96: input.KPEnter, 97: input.RCtrl, 98: input.KPDivide, 99: input.PrintScreen, 100: input.RAlt,
	102: input.Home, 103: input.Up, 104: input.PageUp, 105: input.Left, 106: input.Right,
	107: input.End, 108: input.Down, 109: input.PageDown, 110: input.Insert, 111: input.Delete,
	113: input.VolumeMute, 114: input.VolumeDown, 115: input.VolumeUp, 119: input.Pause,
	125: input.LWin, 126: input.RWin, 127: input.Menu,
	183: input.F13, 184: input.F14, 185: input.F15, 186: input.F16, 187: input.F17, 188: input.F18,
	189: input.F19, 190: input.F20, 191: input.F21, 192: input.F22, 193: input.F23, 194: input.F24,
}

// KeyCode translates a kernel key code, returning input.None when unknown.
func KeyCode(code uint16) input.Code {
	return keyCodes[code]
}

// ApplyKeys feeds keyboard events to s. Kernel autorepeat (value 2) is
// reported as a repeated press. It returns the codes of initial presses it
// could not translate.
func ApplyKeys(s *input.State, evs []Event) (unknown []uint16) {
	for _, ev := range evs {
		if ev.Type != EvKey {
			continue
		}
		c := KeyCode(ev.Code)
		if c == input.None {
			if ev.Value == 1 {
				unknown = append(unknown, ev.Code)
			}
			continue
		}
		switch ev.Value {
		case 0:
			s.SetReleased(c)
		case 1, 2:
			s.SetPressed(c)
		}
	}
	return unknown
}
