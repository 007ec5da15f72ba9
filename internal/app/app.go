// Package app is the demo host: it opens a window on whichever backend was
// compiled in and exercises input, clipboard, dialogs and presentation.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"unicode"

	"hostwin/internal/input"
	"hostwin/internal/options"
	"hostwin/internal/platform"
	"hostwin/internal/render"
	"hostwin/internal/ui"
)

const (
	title       = "hostwin"
	maxLogLines = 12
	maxTyped    = 64

	// mouseSensitivity is degrees per pixel of raw motion.
	mouseSensitivity = 0.15
	// stickSpeed is degrees per second at full deflection.
	stickSpeed = 120.0
)

var helpText = "Click to look around, Escape to release the mouse or quit.\n" +
	"F11 fullscreen, F3 cursor, Ctrl+C/Ctrl+V clipboard, Ctrl+O open, Ctrl+S save options.\n" +
	"Gamepad: right stick looks around, Start or Select fullscreen, Y help."

var padActions = []input.Bind{input.BindSetSpawn, input.BindChat}

type camera struct {
	yaw   float64
	pitch float64
}

func (c *camera) turn(dyaw, dpitch float64) {
	c.yaw = math.Mod(c.yaw+dyaw, 360)
	c.pitch = math.Max(-89, math.Min(89, c.pitch-dpitch))
}

type App struct {
	ctx     *platform.Context
	backend platform.Backend
	log     *slog.Logger

	theme ui.Theme
	faces ui.Faces
	surf  *render.Surface

	cam      camera
	typed    []rune
	events   []string
	status   string
	optsPath string
	resized  bool
	binds    [input.MaxPorts][input.BindCount]bool
}

func New(ctx *platform.Context, b platform.Backend, optsPath string) *App {
	return &App{
		ctx:      ctx,
		backend:  b,
		log:      ctx.Log.With("component", "app"),
		theme:    ui.DefaultTheme(),
		faces:    ui.LoadFaces(1),
		optsPath: optsPath,
		status:   "Ready",
	}
}

// Run opens the window and drives frames until it closes.
func (a *App) Run() error {
	b := a.backend
	b.Init()
	w := a.ctx.Options.GetInt(options.WindowWidth, platform.DefaultWidth)
	h := a.ctx.Options.GetInt(options.WindowHeight, platform.DefaultHeight)
	b.Create(w, h, false)
	b.SetTitle(title)
	b.Show()
	a.log.Info("window created", "backend", b.Name(), "width", a.ctx.Window.Width, "height", a.ctx.Window.Height)

	a.faces = ui.LoadFaces(a.ctx.Window.UIScaleX)
	a.surf = b.AllocFramebuffer(a.ctx.Window.Width, a.ctx.Window.Height)
	defer func() {
		if a.surf != nil {
			b.FreeFramebuffer(a.surf)
		}
		b.Destroy()
	}()

	if err := b.Run(a.Frame); err != nil {
		return fmt.Errorf("run %s backend: %w", b.Name(), err)
	}
	return nil
}

// Frame is one iteration of the host loop.
func (a *App) Frame(delta float64) error {
	b := a.backend
	b.ProcessEvents(delta)
	b.PollGamepads(delta)
	b.UpdateRawMouse()

	for _, ev := range a.ctx.Events() {
		if err := a.handle(ev); err != nil {
			return err
		}
	}
	if !a.ctx.Window.Exists {
		return platform.ErrQuit
	}
	a.handlePads()

	dx, dy := a.ctx.Input.ConsumeRaw(0)
	if a.ctx.Input.RawMode {
		a.cam.turn(dx*mouseSensitivity, dy*mouseSensitivity)
	}
	for p := 0; p < input.MaxPorts; p++ {
		x, y := a.ctx.Pads.AxisValue(p, input.AxisRight)
		a.cam.turn(x*stickSpeed*delta, y*stickSpeed*delta)
	}

	if a.resized {
		a.resized = false
		b.FreeFramebuffer(a.surf)
		a.surf = b.AllocFramebuffer(a.ctx.Window.Width, a.ctx.Window.Height)
	}
	a.draw()
	b.DrawFramebuffer(a.surf.Bitmap.Bounds(), a.surf)
	return nil
}

func (a *App) handle(ev platform.Event) error {
	switch ev.Type {
	case platform.EventClosing:
		a.log.Info("closing")
		return platform.ErrQuit
	case platform.EventResized:
		a.resized = true
	case platform.EventTextInput:
		if !a.ctx.Input.IsCtrlPressed() && unicode.IsPrint(ev.Rune) {
			a.typeText(string(ev.Rune))
		}
	case platform.EventKeyDown:
		if !ev.Repeat || ev.Code == input.Backspace {
			a.handleKey(ev.Code)
		}
	}
	switch ev.Type {
	case platform.EventPointerMove, platform.EventRawMove, platform.EventPadAxis, platform.EventTextInput:
	default:
		a.logEvent(ev)
	}
	return nil
}

func (a *App) handleKey(code input.Code) {
	b := a.backend
	ctrl := a.ctx.Input.IsCtrlPressed()
	switch {
	case code == input.Escape:
		if a.ctx.Input.RawMode {
			b.DisableRawMouse()
			a.status = "Mouse released"
			return
		}
		b.RequestClose()
	case code == input.MouseLeft && !a.ctx.Input.RawMode:
		b.EnableRawMouse()
		a.status = "Mouse captured"
	case code == input.F11:
		a.toggleFullscreen()
	case code == input.F3:
		b.SetCursorVisible(!a.ctx.Display.CursorVisible)
	case code == input.F1:
		b.ShowDialog(title, helpText)
	case code == input.Backspace:
		if n := len(a.typed); n > 0 {
			a.typed = a.typed[:n-1]
		}
	case ctrl && code == input.KeyC:
		a.report("Copied", b.SetClipboardText(string(a.typed)))
	case ctrl && code == input.KeyV:
		text, err := b.ClipboardText()
		if err == nil {
			a.typeText(text)
		}
		a.report("Pasted", err)
	case ctrl && code == input.KeyO:
		path, err := b.OpenFileDialog(platform.FileDialogArgs{
			Title:       "Open file",
			Description: "Images and settings",
			Filters:     []string{".png", ".yml"},
		})
		if err == nil && path != "" {
			a.status = "Selected " + path
			return
		}
		a.report("Open cancelled", err)
	case ctrl && code == input.KeyS:
		a.saveOptions()
	}
}

// handlePads runs an action on the frame its binding becomes held.
func (a *App) handlePads() {
	for p := 0; p < input.MaxPorts; p++ {
		for _, bind := range padActions {
			held := a.ctx.Pads.BindTriggered(p, bind)
			if held && !a.binds[p][bind] {
				a.padAction(bind)
			}
			a.binds[p][bind] = held
		}
	}
}

func (a *App) padAction(bind input.Bind) {
	switch bind {
	case input.BindSetSpawn:
		a.toggleFullscreen()
	case input.BindChat:
		a.backend.ShowDialog(title, helpText)
	}
}

func (a *App) saveOptions() {
	path, err := a.backend.SaveFileDialog(platform.FileDialogArgs{
		Title:       "Save options",
		Filters:     []string{".yml"},
		DefaultName: options.DefaultFilename,
	})
	if errors.Is(err, platform.ErrNotSupported) {
		path, err = a.optsPath, nil
	}
	if err != nil || path == "" {
		a.report("Save cancelled", err)
		return
	}
	a.report("Saved "+path, a.ctx.Options.Save(path))
}

func (a *App) toggleFullscreen() {
	var err error
	if a.backend.WindowMode() == platform.WindowFullscreen {
		err = a.backend.ExitFullscreen()
	} else {
		err = a.backend.EnterFullscreen()
	}
	a.report("Toggled fullscreen", err)
}

func (a *App) report(done string, err error) {
	switch {
	case errors.Is(err, platform.ErrNotSupported):
		a.status = "Not supported on " + a.backend.Name()
	case err != nil:
		a.log.Warn(done, "error", err)
		a.status = "Error: " + err.Error()
	default:
		a.status = done
	}
}

func (a *App) typeText(s string) {
	for _, r := range s {
		if len(a.typed) >= maxTyped {
			return
		}
		if unicode.IsPrint(r) {
			a.typed = append(a.typed, r)
		}
	}
}

func (a *App) logEvent(ev platform.Event) {
	line := ev.Type.String()
	switch ev.Type {
	case platform.EventKeyDown, platform.EventKeyUp, platform.EventPadButton:
		line += " " + ev.Code.String()
	case platform.EventResized:
		line += fmt.Sprintf(" %dx%d", ev.Width, ev.Height)
	case platform.EventScroll:
		line += fmt.Sprintf(" %+.0f,%+.0f", ev.DX, ev.DY)
	}
	a.events = append(a.events, line)
	if n := len(a.events); n > maxLogLines {
		a.events = a.events[n-maxLogLines:]
	}
}

func (a *App) draw() {
	lines := make([]string, 0, len(a.events)+3)
	lines = append(lines, "> "+string(a.typed), fmt.Sprintf("mode: %s", a.backend.WindowMode()), "")
	lines = append(lines, a.events...)
	ui.DrawShell(a.surf.Bitmap, ui.Frame{
		Title:     fmt.Sprintf("%s (%s)", title, a.backend.Name()),
		Status:    fmt.Sprintf("[ %s ] [ Yaw %.0f Pitch %.0f ]", a.status, a.cam.yaw, a.cam.pitch),
		Yaw:       a.cam.yaw,
		Pitch:     a.cam.pitch,
		Lines:     lines,
		Crosshair: a.ctx.Input.RawMode,
	}, a.theme, a.faces, a.ctx.Window.UIScaleX)
}
