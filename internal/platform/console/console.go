//go:build linux && console

// Package console is the fullscreen backend for machines without a window
// system. It draws to a Linux framebuffer and reads pads, keyboards and
// pointers through evdev. There is one fixed-size window that is always
// fullscreen and always focused.
package console

import (
	"errors"
	"image"
	"log/slog"

	xdraw "golang.org/x/image/draw"

	"hostwin/internal/evdev"
	"hostwin/internal/input"
	"hostwin/internal/options"
	"hostwin/internal/platform"
	"hostwin/internal/render"
)

type pointerDevice interface {
	Drain() (evdev.Motion, error)
	Close() error
}

type keyDevice interface {
	Drain() ([]evdev.Event, error)
	Close() error
}

type Backend struct {
	ctx *platform.Context
	log *slog.Logger

	openVideo    func() (VideoOut, error)
	openPad      func() (PadReader, error)
	openPointer  func() (pointerDevice, error)
	openKeyboard func() (keyDevice, error)

	video   VideoOut
	mode    VideoMode
	format  render.PixelFormat
	index   int
	frameID uint64
	staging *render.FrameBuffer

	pad      PadReader
	padPort  int
	keyboard keyDevice
	pointer  pointerDevice
	rawCheck *input.RawMotionCheck
	cursorX  int
	cursorY  int
	prevX    int
	prevY    int
}

var _ platform.Backend = (*Backend)(nil)

func New(ctx *platform.Context) *Backend {
	b := &Backend{
		ctx:      ctx,
		log:      ctx.Log.With("backend", "console"),
		rawCheck: input.NewRawMotionCheck(),
		padPort:  -1,
	}
	opts := ctx.Options
	b.openVideo = func() (VideoOut, error) {
		return openFramebuffer(opts.GetString(options.FramebufferDev, defaultFramebuffer))
	}
	b.openPad = func() (PadReader, error) {
		path := opts.GetString(options.PadDevice, "")
		if path == "" {
			found := evdev.FindGamepads()
			if len(found) == 0 {
				return nil, errNoDevice
			}
			path = found[0]
		}
		pad, err := evdev.OpenGamepad(path)
		if err != nil {
			return nil, err
		}
		return &evdevPad{pad: pad}, nil
	}
	b.openPointer = func() (pointerDevice, error) {
		path := opts.GetString(options.PointerDevice, "")
		if path == "" {
			found := evdev.FindPointers()
			if len(found) == 0 {
				return nil, errNoDevice
			}
			path = found[0]
		}
		return evdev.OpenPointer(path)
	}
	b.openKeyboard = func() (keyDevice, error) {
		found := evdev.FindKeyboards()
		if len(found) == 0 {
			return nil, errNoDevice
		}
		return evdev.OpenKeyboard(found[0])
	}
	return b
}

var errNoDevice = errors.New("no device found")

func (b *Backend) Name() string { return "console" }

func (b *Backend) Init() {
	video, err := b.openVideo()
	if err != nil {
		b.ctx.Fatal("opening video output", err)
		return
	}
	b.video = video
	b.mode = video.Mode()
	b.format, err = render.FormatForDepth(b.mode.Depth)
	if err != nil {
		b.ctx.Fatal("unsupported video mode", err)
		return
	}
	b.log.Info("video output", "width", b.mode.Width, "height", b.mode.Height,
		"format", b.format, "buffers", video.Buffers())

	opts := b.ctx.Options
	b.ctx.Display = platform.DisplayInfo{
		Width:          b.mode.Width,
		Height:         b.mode.Height,
		Depth:          b.mode.Depth,
		ScaleX:         1,
		ScaleY:         1,
		ContentOffsetX: opts.GetInt(options.ContentOffsetX, 20),
		ContentOffsetY: opts.GetInt(options.ContentOffsetY, 20),
		CursorVisible:  b.ctx.Display.CursorVisible,
	}
	b.ctx.Window.Width = b.mode.Width
	b.ctx.Window.Height = b.mode.Height
	b.ctx.Window.Focused = true
	b.ctx.Window.Exists = true
	b.cursorX, b.cursorY = b.mode.Width/2, b.mode.Height/2
	b.prevX, b.prevY = b.cursorX, b.cursorY

	if b.pad, err = b.openPad(); err != nil {
		b.log.Warn("no gamepad", "error", err)
		b.pad = nil
	}
	if b.keyboard, err = b.openKeyboard(); err != nil {
		b.log.Debug("no keyboard", "error", err)
		b.keyboard = nil
	}
	if b.pointer, err = b.openPointer(); err != nil {
		b.log.Debug("no pointer", "error", err)
		b.pointer = nil
	}
}

func (b *Backend) Create(width, height int, is3D bool) {
	b.ctx.Window.Is3D = is3D
	b.ctx.Window.UIScaleX = platform.DefaultUIScale
	b.ctx.Window.UIScaleY = platform.DefaultUIScale
}

func (b *Backend) Destroy() {
	if b.pad != nil {
		b.pad.Close()
		b.pad = nil
	}
	if b.keyboard != nil {
		b.keyboard.Close()
		b.keyboard = nil
	}
	if b.pointer != nil {
		b.pointer.Close()
		b.pointer = nil
	}
	if b.video != nil {
		b.video.Close()
		b.video = nil
	}
	b.ctx.Window.Exists = false
}

func (b *Backend) SetTitle(title string)     {}
func (b *Backend) Show()                     {}
func (b *Backend) SetSize(width, height int) {}

func (b *Backend) EnterFullscreen() error { return nil }
func (b *Backend) ExitFullscreen() error  { return nil }

func (b *Backend) WindowMode() platform.WindowMode { return platform.WindowFullscreen }

func (b *Backend) RequestClose() { b.ctx.RaiseVoid(platform.EventClosing) }

func (b *Backend) Run(frame func(delta float64) error) error {
	return platform.RunLoop(b.ctx, frame)
}

func (b *Backend) ClipboardText() (string, error)     { return "", platform.ErrNotSupported }
func (b *Backend) SetClipboardText(text string) error { return platform.ErrNotSupported }

func (b *Backend) ShowDialog(title, msg string) {
	b.log.Info("dialog", "title", title, "message", msg)
}

func (b *Backend) OpenFileDialog(args platform.FileDialogArgs) (string, error) {
	return "", platform.ErrNotSupported
}

func (b *Backend) SaveFileDialog(args platform.FileDialogArgs) (string, error) {
	return "", platform.ErrNotSupported
}

// PollGamepads samples the controller. The pad is reconnected to its port
// on every poll so it survives a disconnect of the port by the host.
func (b *Backend) PollGamepads(delta float64) {
	if b.pad == nil {
		return
	}
	data, err := b.pad.Read()
	if err != nil {
		b.log.Warn("gamepad lost", "error", err)
		b.ctx.Pads.Disconnect(b.padPort)
		b.padPort = -1
		b.pad.Close()
		b.pad = nil
		return
	}
	port, err := b.ctx.Pads.Connect(padDeviceID, &input.PS4Bindings)
	if err != nil {
		b.log.Debug("gamepad port", "error", err)
		return
	}
	b.padPort = port
	applyPad(b.ctx.Pads, port, data, delta)
}

// AllocFramebuffer returns a bitmap of any size. It is scaled to the
// video mode when drawn.
func (b *Backend) AllocFramebuffer(width, height int) *render.Surface {
	return render.NewSurface(width, height, render.FormatBGRA32, 0)
}

// DrawFramebuffer always presents the whole bitmap.
func (b *Backend) DrawFramebuffer(r image.Rectangle, s *render.Surface) {
	if b.video == nil || s == nil || s.Bitmap == nil {
		return
	}
	src := s.Bitmap
	if src.W != b.mode.Width || src.H != b.mode.Height {
		if b.staging == nil || b.staging.W != b.mode.Width || b.staging.H != b.mode.Height {
			b.staging = render.NewFrameBuffer(b.mode.Width, b.mode.Height)
		}
		xdraw.NearestNeighbor.Scale(b.staging, b.staging.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		src = b.staging
	}

	dst := b.video.Buffer(b.index)
	b.blit(dst, src)
	if b.pointer != nil && b.ctx.Display.CursorVisible && !b.ctx.Input.RawMode {
		b.drawCursor(dst)
	}

	if err := b.video.SubmitFlip(b.index, b.frameID); err != nil {
		b.log.Warn("flip", "error", err)
	}
	b.frameID++
	b.index = (b.index + 1) % b.video.Buffers()
}

func (b *Backend) blit(dst []byte, src *render.FrameBuffer) {
	if !b.format.Fast() {
		render.Convert(dst, b.mode.Stride, b.format, src, src.Bounds())
		return
	}
	row := src.Stride()
	for y := 0; y < src.H; y++ {
		copy(dst[y*b.mode.Stride:y*b.mode.Stride+row], src.Row(y))
	}
}

func (b *Backend) FreeFramebuffer(s *render.Surface) {
	if s != nil {
		s.Free()
	}
	b.staging = nil
}
