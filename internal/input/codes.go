package input

import "fmt"

// Code identifies a logical key or button independently of the backend.
type Code int

const (
	None Code = iota

	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	F13
	F14
	F15
	F16
	F17
	F18
	F19
	F20
	F21
	F22
	F23
	F24

	Tilde
	Minus
	Equals
	LBracket
	RBracket
	Slash
	Semicolon
	Quote
	Comma
	Period
	Backslash

	LShift
	RShift
	LCtrl
	RCtrl
	LAlt
	RAlt
	LWin
	RWin

	Up
	Down
	Left
	Right

	Enter
	Escape
	Space
	Backspace
	Tab
	CapsLock
	ScrollLock
	PrintScreen
	Pause
	NumLock

	Insert
	Delete
	PageUp
	PageDown
	Home
	End

	KPDivide
	KPMultiply
	KPMinus
	KPPlus
	KPDecimal
	KPEnter
	KP0
	KP1
	KP2
	KP3
	KP4
	KP5
	KP6
	KP7
	KP8
	KP9

	Menu
	Sleep
	VolumeMute
	VolumeDown
	VolumeUp
	MediaNext
	MediaPrev
	MediaStop
	MediaPlay
	LaunchMail
	LaunchMedia
	LaunchApp1
	LaunchCalc
	BrowserPrev
	BrowserNext
	BrowserRefresh
	BrowserStop
	BrowserSearch
	BrowserFavorites
	BrowserHome

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	MouseLeft
	MouseRight
	MouseMiddle
	MouseX1
	MouseX2
	MouseX3
	MouseX4
	MouseX5
	MouseX6

	PadA
	PadB
	PadX
	PadY
	PadL
	PadR
	PadZL
	PadZR
	PadLStick
	PadRStick
	PadSelect
	PadStart
	PadUp
	PadDown
	PadLeft
	PadRight

	CodeCount
)

// Letter returns the code for an ASCII letter, or None.
func Letter(c byte) Code {
	switch {
	case c >= 'A' && c <= 'Z':
		return KeyA + Code(c-'A')
	case c >= 'a' && c <= 'z':
		return KeyA + Code(c-'a')
	}
	return None
}

// Digit returns the code for an ASCII digit, or None.
func Digit(c byte) Code {
	if c >= '0' && c <= '9' {
		return Key0 + Code(c-'0')
	}
	return None
}

func (c Code) IsMouse() bool   { return c >= MouseLeft && c <= MouseX6 }
func (c Code) IsGamepad() bool { return c >= PadA && c <= PadRight }

var codeNames = map[Code]string{
	None: "None", Tilde: "Tilde", Minus: "Minus", Equals: "Equals",
	LBracket: "LBracket", RBracket: "RBracket", Slash: "Slash", Semicolon: "Semicolon",
	Quote: "Quote", Comma: "Comma", Period: "Period", Backslash: "Backslash",
	LShift: "LShift", RShift: "RShift", LCtrl: "LCtrl", RCtrl: "RCtrl",
	LAlt: "LAlt", RAlt: "RAlt", LWin: "LWin", RWin: "RWin",
	Up: "Up", Down: "Down", Left: "Left", Right: "Right",
	Enter: "Enter", Escape: "Escape", Space: "Space", Backspace: "Backspace",
	Tab: "Tab", CapsLock: "CapsLock", ScrollLock: "ScrollLock", PrintScreen: "PrintScreen",
	Pause: "Pause", NumLock: "NumLock", Insert: "Insert", Delete: "Delete",
	PageUp: "PageUp", PageDown: "PageDown", Home: "Home", End: "End",
	KPDivide: "KPDivide", KPMultiply: "KPMultiply", KPMinus: "KPMinus", KPPlus: "KPPlus",
	KPDecimal: "KPDecimal", KPEnter: "KPEnter", Menu: "Menu", Sleep: "Sleep",
	VolumeMute: "VolumeMute", VolumeDown: "VolumeDown", VolumeUp: "VolumeUp",
	MediaNext: "MediaNext", MediaPrev: "MediaPrev", MediaStop: "MediaStop", MediaPlay: "MediaPlay",
	LaunchMail: "LaunchMail", LaunchMedia: "LaunchMedia", LaunchApp1: "LaunchApp1", LaunchCalc: "LaunchCalc",
	BrowserPrev: "BrowserPrev", BrowserNext: "BrowserNext", BrowserRefresh: "BrowserRefresh",
	BrowserStop: "BrowserStop", BrowserSearch: "BrowserSearch", BrowserFavorites: "BrowserFavorites",
	BrowserHome: "BrowserHome",
	MouseLeft: "MouseLeft", MouseRight: "MouseRight", MouseMiddle: "MouseMiddle",
	PadA: "PadA", PadB: "PadB", PadX: "PadX", PadY: "PadY", PadL: "PadL", PadR: "PadR",
	PadZL: "PadZL", PadZR: "PadZR", PadLStick: "PadLStick", PadRStick: "PadRStick",
	PadSelect: "PadSelect", PadStart: "PadStart", PadUp: "PadUp", PadDown: "PadDown",
	PadLeft: "PadLeft", PadRight: "PadRight",
}

func (c Code) String() string {
	switch {
	case c >= F1 && c <= F24:
		return fmt.Sprintf("F%d", int(c-F1)+1)
	case c >= KP0 && c <= KP9:
		return fmt.Sprintf("KP%d", int(c-KP0))
	case c >= Key0 && c <= Key9:
		return string(rune('0' + int(c-Key0)))
	case c >= KeyA && c <= KeyZ:
		return string(rune('A' + int(c-KeyA)))
	case c >= MouseX1 && c <= MouseX6:
		return fmt.Sprintf("MouseX%d", int(c-MouseX1)+1)
	}
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}
