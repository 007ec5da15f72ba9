package platform

import (
	"errors"
	"image"

	"hostwin/internal/input"
	"hostwin/internal/render"
)

// ErrNotSupported is returned by operations a backend cannot perform.
var ErrNotSupported = errors.New("operation not supported by this backend")

// ErrQuit stops Run without reporting a failure.
var ErrQuit = errors.New("quit")

type EventType int

const (
	EventUnknown EventType = iota
	EventClosing
	EventResized
	EventFocusChanged
	EventRedrawNeeded
	EventStateChanged
	EventKeyDown
	EventKeyUp
	EventTextInput
	EventPointerMove
	EventRawMove
	EventScroll
	EventPadButton
	EventPadAxis
)

var eventNames = [...]string{
	"Unknown", "Closing", "Resized", "FocusChanged", "RedrawNeeded", "StateChanged",
	"KeyDown", "KeyUp", "TextInput", "PointerMove", "RawMove", "Scroll", "PadButton", "PadAxis",
}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventNames) {
		return "Unknown"
	}
	return eventNames[t]
}

// Event is one canonical notification. Only the fields relevant to Type
// are set.
type Event struct {
	Type    EventType
	Code    input.Code
	Pressed bool
	Repeat  bool
	Rune    rune
	Port    int
	X       int
	Y       int
	DX      float64
	DY      float64
	Axis    input.Axis
	Delta   float64
	Width   int
	Height  int
}

// WindowState is the record of the single game window. When Exists is
// false the native handle must not be touched.
type WindowState struct {
	Exists   bool
	Focused  bool
	Width    int
	Height   int
	Handle   uintptr
	UIScaleX float32
	UIScaleY float32
	Is3D     bool
}

// DisplayInfo describes the host display. It is filled by Init and only the
// content offsets change afterwards.
type DisplayInfo struct {
	Width          int
	Height         int
	Depth          int
	ScaleX         float32
	ScaleY         float32
	ContentOffsetX int
	ContentOffsetY int
	CursorVisible  bool
}

// WindowMode is what GetWindowState style queries report.
type WindowMode int

const (
	WindowNormal WindowMode = iota
	WindowMinimized
	WindowFullscreen
)

func (m WindowMode) String() string {
	switch m {
	case WindowMinimized:
		return "minimized"
	case WindowFullscreen:
		return "fullscreen"
	}
	return "normal"
}

type FileDialogArgs struct {
	Title       string
	Description string
	Filters     []string // extensions, e.g. ".png"
	DefaultName string
}

// Backend is the contract every host implementation satisfies. Exactly one
// backend is compiled into a binary.
type Backend interface {
	Name() string

	Init()
	Create(width, height int, is3D bool)
	Destroy()
	SetTitle(title string)
	Show()
	SetSize(width, height int)
	EnterFullscreen() error
	ExitFullscreen() error
	WindowMode() WindowMode
	RequestClose()

	ProcessEvents(delta float64)
	PollGamepads(delta float64)

	EnableRawMouse()
	DisableRawMouse()
	UpdateRawMouse()
	SetCursorPosition(x, y int)
	SetCursorVisible(visible bool)

	ClipboardText() (string, error)
	SetClipboardText(text string) error

	AllocFramebuffer(width, height int) *render.Surface
	DrawFramebuffer(r image.Rectangle, s *render.Surface)
	FreeFramebuffer(s *render.Surface)

	ShowDialog(title, msg string)
	OpenFileDialog(args FileDialogArgs) (string, error)
	SaveFileDialog(args FileDialogArgs) (string, error)

	// Run drives frame until it returns an error or the window goes away.
	Run(frame func(delta float64) error) error
}
