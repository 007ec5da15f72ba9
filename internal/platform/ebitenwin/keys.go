//go:build !console && (ebiten || !linux)

package ebitenwin

import (
	"github.com/hajimehoshi/ebiten/v2"

	"hostwin/internal/input"
)

var keyTable = map[ebiten.Key]input.Code{
	ebiten.KeyEscape: input.Escape, ebiten.KeyEnter: input.Enter, ebiten.KeySpace: input.Space,
	ebiten.KeyBackspace: input.Backspace, ebiten.KeyTab: input.Tab, ebiten.KeyCapsLock: input.CapsLock,
	ebiten.KeyScrollLock: input.ScrollLock, ebiten.KeyPrintScreen: input.PrintScreen,
	ebiten.KeyPause: input.Pause, ebiten.KeyNumLock: input.NumLock,
	ebiten.KeyInsert: input.Insert, ebiten.KeyDelete: input.Delete,
	ebiten.KeyHome: input.Home, ebiten.KeyEnd: input.End,
	ebiten.KeyPageUp: input.PageUp, ebiten.KeyPageDown: input.PageDown,
	ebiten.KeyArrowUp: input.Up, ebiten.KeyArrowDown: input.Down,
	ebiten.KeyArrowLeft: input.Left, ebiten.KeyArrowRight: input.Right,

	ebiten.KeyShiftLeft: input.LShift, ebiten.KeyShiftRight: input.RShift,
	ebiten.KeyControlLeft: input.LCtrl, ebiten.KeyControlRight: input.RCtrl,
	ebiten.KeyAltLeft: input.LAlt, ebiten.KeyAltRight: input.RAlt,
	ebiten.KeyMetaLeft: input.LWin, ebiten.KeyMetaRight: input.RWin,
	ebiten.KeyContextMenu: input.Menu,

	ebiten.KeyBackquote: input.Tilde, ebiten.KeyMinus: input.Minus, ebiten.KeyEqual: input.Equals,
	ebiten.KeyBracketLeft: input.LBracket, ebiten.KeyBracketRight: input.RBracket,
	ebiten.KeyBackslash: input.Backslash, ebiten.KeySemicolon: input.Semicolon,
	ebiten.KeyQuote: input.Quote, ebiten.KeyComma: input.Comma,
	ebiten.KeyPeriod: input.Period, ebiten.KeySlash: input.Slash,

	ebiten.KeyNumpadDivide: input.KPDivide, ebiten.KeyNumpadMultiply: input.KPMultiply,
	ebiten.KeyNumpadSubtract: input.KPMinus, ebiten.KeyNumpadAdd: input.KPPlus,
	ebiten.KeyNumpadDecimal: input.KPDecimal, ebiten.KeyNumpadEnter: input.KPEnter,

	ebiten.KeyF1: input.F1, ebiten.KeyF2: input.F2, ebiten.KeyF3: input.F3, ebiten.KeyF4: input.F4,
	ebiten.KeyF5: input.F5, ebiten.KeyF6: input.F6, ebiten.KeyF7: input.F7, ebiten.KeyF8: input.F8,
	ebiten.KeyF9: input.F9, ebiten.KeyF10: input.F10, ebiten.KeyF11: input.F11, ebiten.KeyF12: input.F12,
	ebiten.KeyF13: input.F13, ebiten.KeyF14: input.F14, ebiten.KeyF15: input.F15, ebiten.KeyF16: input.F16,
	ebiten.KeyF17: input.F17, ebiten.KeyF18: input.F18, ebiten.KeyF19: input.F19, ebiten.KeyF20: input.F20,
	ebiten.KeyF21: input.F21, ebiten.KeyF22: input.F22, ebiten.KeyF23: input.F23, ebiten.KeyF24: input.F24,
}

// mapKey translates an ebiten key, returning input.None when unknown.
func mapKey(k ebiten.Key) input.Code {
	switch {
	case k >= ebiten.KeyA && k <= ebiten.KeyZ:
		return input.KeyA + input.Code(k-ebiten.KeyA)
	case k >= ebiten.KeyDigit0 && k <= ebiten.KeyDigit9:
		return input.Key0 + input.Code(k-ebiten.KeyDigit0)
	case k >= ebiten.KeyNumpad0 && k <= ebiten.KeyNumpad9:
		return input.KP0 + input.Code(k-ebiten.KeyNumpad0)
	}
	return keyTable[k]
}

var mouseButtons = []struct {
	btn  ebiten.MouseButton
	code input.Code
}{
	{ebiten.MouseButtonLeft, input.MouseLeft},
	{ebiten.MouseButtonRight, input.MouseRight},
	{ebiten.MouseButtonMiddle, input.MouseMiddle},
	{ebiten.MouseButton3, input.MouseX1},
	{ebiten.MouseButton4, input.MouseX2},
}

var padButtons = []struct {
	btn  ebiten.StandardGamepadButton
	code input.Code
}{
	{ebiten.StandardGamepadButtonRightBottom, input.PadA},
	{ebiten.StandardGamepadButtonRightRight, input.PadB},
	{ebiten.StandardGamepadButtonRightLeft, input.PadX},
	{ebiten.StandardGamepadButtonRightTop, input.PadY},
	{ebiten.StandardGamepadButtonFrontTopLeft, input.PadL},
	{ebiten.StandardGamepadButtonFrontTopRight, input.PadR},
	{ebiten.StandardGamepadButtonFrontBottomLeft, input.PadZL},
	{ebiten.StandardGamepadButtonFrontBottomRight, input.PadZR},
	{ebiten.StandardGamepadButtonCenterLeft, input.PadSelect},
	{ebiten.StandardGamepadButtonCenterRight, input.PadStart},
	{ebiten.StandardGamepadButtonLeftStick, input.PadLStick},
	{ebiten.StandardGamepadButtonRightStick, input.PadRStick},
	{ebiten.StandardGamepadButtonLeftTop, input.PadUp},
	{ebiten.StandardGamepadButtonLeftBottom, input.PadDown},
	{ebiten.StandardGamepadButtonLeftLeft, input.PadLeft},
	{ebiten.StandardGamepadButtonLeftRight, input.PadRight},
}

// axisValue converts ebiten's [-1, 1] stick reading so the shared dead
// zone applies.
func axisValue(v float64) float64 {
	return input.NormalizeAxis(int(v * input.AxisRange))
}
