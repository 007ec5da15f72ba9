//go:build !console && (ebiten || !linux)

// Package ebitenwin is the desktop backend for hosts without X11. ebiten
// owns the main loop; the host frame runs inside Update and the state
// ebiten exposes each tick is turned into the same events the X11 backend
// raises.
package ebitenwin

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"hostwin/internal/input"
	"hostwin/internal/options"
	"hostwin/internal/platform"
	"hostwin/internal/platform/dialogs"
	"hostwin/internal/render"
)

// gamepadDeviceBase keeps ebiten gamepad ids apart from other device ids.
const gamepadDeviceBase = 0x2000

// Key repeat timing in ticks, matching ebiten's own examples.
const (
	repeatDelay    = 30
	repeatInterval = 3
)

type Backend struct {
	ctx  *platform.Context
	log  *slog.Logger
	clip textClipboard

	canvas  *ebiten.Image
	surface *render.Surface

	keys     []ebiten.Key
	pads     []ebiten.GamepadID
	padPorts map[ebiten.GamepadID]int
	text     []rune

	cursorX int
	cursorY int
	rawX    int
	rawY    int
	outerW  int
	outerH  int
	focused bool
}

var _ platform.Backend = (*Backend)(nil)

func New(ctx *platform.Context) *Backend {
	return &Backend{
		ctx:      ctx,
		log:      ctx.Log.With("backend", "ebiten"),
		padPorts: make(map[ebiten.GamepadID]int),
	}
}

func (b *Backend) Name() string { return "ebiten" }

func (b *Backend) Init() {
	m := ebiten.Monitor()
	w, h := m.Size()
	scale := float32(m.DeviceScaleFactor())
	opts := b.ctx.Options
	b.ctx.Display = platform.DisplayInfo{
		Width:          w,
		Height:         h,
		Depth:          32,
		ScaleX:         scale,
		ScaleY:         scale,
		ContentOffsetX: opts.GetInt(options.ContentOffsetX, 20),
		ContentOffsetY: opts.GetInt(options.ContentOffsetY, 20),
		CursorVisible:  true,
	}

	clip, err := openClipboard()
	if err != nil {
		b.log.Warn("native clipboard unavailable, using fallback", "error", err)
	}
	b.clip = clip
}

func (b *Backend) Create(width, height int, is3D bool) {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowPosition(b.ctx.CentreX(width), b.ctx.CentreY(height))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	b.ctx.SetBounds(width, height)
	b.outerW, b.outerH = width, height
	b.ctx.Window.Exists = true
	b.ctx.Window.Focused = true
	b.focused = true
	b.ctx.Window.UIScaleX = platform.DefaultUIScale
	b.ctx.Window.UIScaleY = platform.DefaultUIScale
	b.ctx.Window.Is3D = is3D
}

func (b *Backend) Destroy() {
	if b.canvas != nil {
		b.canvas.Deallocate()
		b.canvas = nil
	}
	b.ctx.Window.Exists = false
}

func (b *Backend) SetTitle(title string) { ebiten.SetWindowTitle(title) }

// Show is implicit: ebiten maps the window when Run starts.
func (b *Backend) Show() {}

func (b *Backend) SetSize(width, height int) { ebiten.SetWindowSize(width, height) }

func (b *Backend) EnterFullscreen() error {
	ebiten.SetFullscreen(true)
	return nil
}

func (b *Backend) ExitFullscreen() error {
	ebiten.SetFullscreen(false)
	return nil
}

func (b *Backend) WindowMode() platform.WindowMode {
	switch {
	case ebiten.IsFullscreen():
		return platform.WindowFullscreen
	case ebiten.IsWindowMinimized():
		return platform.WindowMinimized
	}
	return platform.WindowNormal
}

func (b *Backend) RequestClose() { b.ctx.RaiseVoid(platform.EventClosing) }

// ProcessEvents compares this tick's ebiten state with the last one.
func (b *Backend) ProcessEvents(delta float64) {
	if ebiten.IsWindowBeingClosed() {
		b.log.Info("exit message received")
		b.ctx.RaiseVoid(platform.EventClosing)
		b.ctx.Window.Exists = false
		return
	}
	b.ctx.SetBounds(b.outerW, b.outerH)
	if f := ebiten.IsFocused(); f != b.focused {
		b.focused = f
		b.ctx.SetFocused(f)
	}

	b.keys = inpututil.AppendJustPressedKeys(b.keys[:0])
	for _, k := range b.keys {
		b.press(k)
	}
	b.keys = inpututil.AppendPressedKeys(b.keys[:0])
	for _, k := range b.keys {
		if d := inpututil.KeyPressDuration(k); d > repeatDelay && (d-repeatDelay)%repeatInterval == 0 {
			b.press(k)
		}
	}
	b.keys = inpututil.AppendJustReleasedKeys(b.keys[:0])
	for _, k := range b.keys {
		b.ctx.Input.SetReleased(mapKey(k))
	}
	b.text = ebiten.AppendInputChars(b.text[:0])
	for _, r := range b.text {
		b.ctx.Raise(platform.Event{Type: platform.EventTextInput, Rune: r})
	}

	for _, m := range mouseButtons {
		switch {
		case inpututil.IsMouseButtonJustPressed(m.btn):
			b.ctx.Input.SetPressed(m.code)
		case inpututil.IsMouseButtonJustReleased(m.btn):
			b.ctx.Input.SetReleased(m.code)
		}
	}
	if x, y := ebiten.CursorPosition(); x != b.cursorX || y != b.cursorY {
		b.cursorX, b.cursorY = x, y
		b.ctx.Input.SetPointer(0, x, y)
	}
	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		if wy != 0 {
			b.ctx.Input.ScrollV(wy)
		}
		if wx != 0 {
			b.ctx.Input.ScrollH(wx)
		}
	}
}

func (b *Backend) press(k ebiten.Key) {
	code := mapKey(k)
	if code == input.None {
		b.log.Debug("unknown key", "key", k.String())
		return
	}
	b.ctx.Input.SetPressed(code)
}

// PollGamepads only serves pads with a standard layout mapping.
func (b *Backend) PollGamepads(delta float64) {
	for _, id := range inpututil.AppendJustDisconnectedGamepadIDs(nil) {
		if port, ok := b.padPorts[id]; ok {
			b.ctx.Pads.Disconnect(port)
			delete(b.padPorts, id)
		}
	}
	b.pads = ebiten.AppendGamepadIDs(b.pads[:0])
	for _, id := range b.pads {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		port, err := b.ctx.Pads.Connect(gamepadDeviceBase+int(id), &input.StandardBindings)
		if err != nil {
			b.log.Debug("gamepad port", "gamepad", ebiten.GamepadName(id), "error", err)
			continue
		}
		b.padPorts[id] = port
		for _, pb := range padButtons {
			b.ctx.Pads.SetButton(port, pb.code, ebiten.IsStandardGamepadButtonPressed(id, pb.btn))
		}
		b.ctx.Pads.SetAxis(port, input.AxisLeft,
			axisValue(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)),
			axisValue(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)), delta)
		b.ctx.Pads.SetAxis(port, input.AxisRight,
			axisValue(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)),
			axisValue(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)), delta)
	}
}

// EnableRawMouse captures the cursor; ebiten then reports unbounded
// positions whose differences are the relative motion.
func (b *Backend) EnableRawMouse() {
	b.ctx.Input.RawMode = true
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	b.rawX, b.rawY = ebiten.CursorPosition()
}

func (b *Backend) UpdateRawMouse() {
	if !b.ctx.Input.RawMode {
		return
	}
	x, y := ebiten.CursorPosition()
	if dx, dy := x-b.rawX, y-b.rawY; dx != 0 || dy != 0 {
		b.ctx.Input.AddRaw(0, float64(dx), float64(dy))
	}
	b.rawX, b.rawY = x, y
}

func (b *Backend) DisableRawMouse() {
	b.ctx.Input.RawMode = false
	b.SetCursorVisible(b.ctx.Display.CursorVisible)
}

// SetCursorPosition cannot warp the pointer through ebiten. It only
// updates the recorded position.
func (b *Backend) SetCursorPosition(x, y int) {
	b.cursorX, b.cursorY = x, y
	b.ctx.Input.SetPointer(0, x, y)
}

func (b *Backend) SetCursorVisible(visible bool) {
	b.ctx.Display.CursorVisible = visible
	if b.ctx.Input.RawMode {
		return
	}
	if visible {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
}

func (b *Backend) ClipboardText() (string, error) {
	text, err := b.clip.ReadText()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

func (b *Backend) SetClipboardText(text string) error {
	b.ctx.Clipboard.SetCopy(text)
	if err := b.clip.WriteText(b.ctx.Clipboard.Copy()); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// AllocFramebuffer converts to RGBA because ebiten images take RGBA bytes.
func (b *Backend) AllocFramebuffer(width, height int) *render.Surface {
	s := render.NewSurface(width, height, render.FormatRGBA32, 0)
	if b.canvas != nil {
		b.canvas.Deallocate()
	}
	b.canvas = ebiten.NewImage(s.Bitmap.W, s.Bitmap.H)
	b.surface = s
	return s
}

func (b *Backend) DrawFramebuffer(r image.Rectangle, s *render.Surface) {
	if b.canvas == nil || s != b.surface || s.Bitmap == nil {
		return
	}
	if s.Sync(r).Empty() {
		return
	}
	b.canvas.WritePixels(s.Native)
}

func (b *Backend) FreeFramebuffer(s *render.Surface) {
	if s == b.surface {
		b.surface = nil
		if b.canvas != nil {
			b.canvas.Deallocate()
			b.canvas = nil
		}
	}
	s.Free()
}

func (b *Backend) ShowDialog(title, msg string) {
	b.log.Info("dialog", "title", title, "message", msg)
	dialogs.Message(title, msg)
}

func (b *Backend) OpenFileDialog(args platform.FileDialogArgs) (string, error) {
	return dialogs.Open(args)
}

func (b *Backend) SaveFileDialog(args platform.FileDialogArgs) (string, error) {
	return dialogs.Save(args)
}

// Run hands the thread to ebiten until frame fails or the window closes.
func (b *Backend) Run(frame func(delta float64) error) error {
	g := &game{b: b, frame: frame, last: time.Now()}
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run game loop: %w", err)
	}
	return g.err
}

type game struct {
	b     *Backend
	frame func(delta float64) error
	last  time.Time
	err   error
}

func (g *game) Update() error {
	if !g.b.ctx.Window.Exists {
		return ebiten.Termination
	}
	now := time.Now()
	delta := now.Sub(g.last).Seconds()
	g.last = now
	if err := g.frame(delta); err != nil {
		if !errors.Is(err, platform.ErrQuit) {
			g.err = err
		}
		return ebiten.Termination
	}
	if !g.b.ctx.Window.Exists {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	c := g.b.canvas
	if c == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	cw, ch := c.Bounds().Dx(), c.Bounds().Dy()
	if cw != sw || ch != sh {
		op.GeoM.Scale(float64(sw)/float64(cw), float64(sh)/float64(ch))
	}
	screen.DrawImage(c, op)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.b.outerW, g.b.outerH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
