package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"hostwin/internal/clipboard"
	"hostwin/internal/input"
	"hostwin/internal/options"
)

const (
	DefaultUIScale = 1.0
	DefaultWidth   = 854
	DefaultHeight  = 480

	// DefaultFrameInterval caps RunLoop at about 60 frames per second.
	DefaultFrameInterval = time.Second / 60
)

// Context is the state shared by one backend and the loop that drives it.
// It is owned by the loop thread and never locked.
type Context struct {
	Window    WindowState
	Display   DisplayInfo
	Input     *input.State
	Pads      *input.Gamepads
	Clipboard clipboard.Buffer
	Options   *options.Store
	Log       *slog.Logger

	// Abort terminates the process after a fatal failure.
	Abort func(reason string)

	// FrameInterval is the shortest frame RunLoop allows. Zero disables pacing.
	FrameInterval time.Duration

	events []Event
	sleep  func(time.Duration)
}

func NewContext(log *slog.Logger, opts *options.Store) *Context {
	if log == nil {
		log = slog.Default()
	}
	if opts == nil {
		opts = options.New()
	}
	c := &Context{
		Input:         &input.State{},
		Options:       opts,
		Log:           log,
		FrameInterval: DefaultFrameInterval,
		sleep:         time.Sleep,
		Abort: func(reason string) {
			fmt.Fprintln(os.Stderr, reason)
			os.Exit(1)
		},
	}
	c.Display.CursorVisible = true
	c.Pads = input.NewGamepads(c.Input)
	c.Input.Hooks = input.Hooks{
		Button: func(code input.Code, pressed, repeat bool) {
			t := EventKeyUp
			if pressed {
				t = EventKeyDown
			}
			c.Raise(Event{Type: t, Code: code, Pressed: pressed, Repeat: repeat})
		},
		Pointer: func(port, x, y int) {
			c.Raise(Event{Type: EventPointerMove, Port: port, X: x, Y: y})
		},
		RawMove: func(port int, dx, dy float64) {
			c.Raise(Event{Type: EventRawMove, Port: port, DX: dx, DY: dy})
		},
		Scroll: func(dx, dy float64) {
			c.Raise(Event{Type: EventScroll, DX: dx, DY: dy})
		},
		PadButton: func(port int, code input.Code, pressed bool) {
			c.Raise(Event{Type: EventPadButton, Port: port, Code: code, Pressed: pressed})
		},
		PadAxis: func(port int, axis input.Axis, x, y, dt float64) {
			c.Raise(Event{Type: EventPadAxis, Port: port, Axis: axis, DX: x, DY: y, Delta: dt})
		},
	}
	return c
}

func (c *Context) Raise(ev Event) { c.events = append(c.events, ev) }

func (c *Context) RaiseVoid(t EventType) { c.Raise(Event{Type: t}) }

// Events returns and clears the queued events.
func (c *Context) Events() []Event {
	evs := c.events
	c.events = nil
	return evs
}

// Pending reports the queued events without clearing them.
func (c *Context) Pending() []Event { return c.events }

// SetBounds records new window dimensions, raising Resized only on change.
func (c *Context) SetBounds(width, height int) {
	if width == c.Window.Width && height == c.Window.Height {
		return
	}
	c.Window.Width = width
	c.Window.Height = height
	c.Raise(Event{Type: EventResized, Width: width, Height: height})
}

// SetFocused records focus, clearing held input when it is lost.
func (c *Context) SetFocused(focused bool) {
	c.Window.Focused = focused
	c.RaiseVoid(EventFocusChanged)
	if !focused {
		c.Input.Clear()
	}
}

// CentreX returns the x position that centres a window of width w.
func (c *Context) CentreX(w int) int { return c.Display.Width/2 - w/2 }

func (c *Context) CentreY(h int) int { return c.Display.Height/2 - h/2 }

// Fatal logs err and aborts. Backends return immediately after calling it.
func (c *Context) Fatal(reason string, err error) {
	if err != nil {
		c.Log.Error(reason, "error", err)
		reason = fmt.Sprintf("%s: %v", reason, err)
	} else {
		c.Log.Error(reason)
	}
	c.Abort(reason)
}

// RunLoop calls frame with the elapsed time until it fails or the window
// stops existing, sleeping off whatever is left of FrameInterval after each
// frame. ErrQuit ends the loop cleanly.
func RunLoop(c *Context, frame func(delta float64) error) error {
	last := time.Now()
	for c.Window.Exists {
		now := time.Now()
		delta := now.Sub(last).Seconds()
		last = now
		if err := frame(delta); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
		if rest := c.FrameInterval - time.Since(now); rest > 0 && c.Window.Exists {
			c.sleep(rest)
		}
	}
	return nil
}
