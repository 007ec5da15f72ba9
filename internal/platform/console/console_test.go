//go:build linux && console

package console

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"testing"

	"hostwin/internal/evdev"
	"hostwin/internal/input"
	"hostwin/internal/options"
	"hostwin/internal/platform"
)

type flip struct {
	index int
	frame uint64
}

type fakeVideo struct {
	mode   VideoMode
	bufs   [][]byte
	flips  []flip
	closed bool
}

func newFakeVideo(w, h, depth, bpp, buffers int) *fakeVideo {
	v := &fakeVideo{mode: VideoMode{Width: w, Height: h, Depth: depth, Stride: w * bpp}}
	for i := 0; i < buffers; i++ {
		v.bufs = append(v.bufs, make([]byte, w*bpp*h))
	}
	return v
}

func (v *fakeVideo) Mode() VideoMode         { return v.mode }
func (v *fakeVideo) Buffers() int            { return len(v.bufs) }
func (v *fakeVideo) Buffer(index int) []byte { return v.bufs[index] }

func (v *fakeVideo) Close() error {
	v.closed = true
	return nil
}

func (v *fakeVideo) SubmitFlip(index int, frameID uint64) error {
	v.flips = append(v.flips, flip{index, frameID})
	return nil
}

type fakePad struct {
	data   PadData
	err    error
	closed bool
}

func (p *fakePad) Read() (PadData, error) { return p.data, p.err }

func (p *fakePad) Close() error {
	p.closed = true
	return nil
}

type fakePointer struct {
	motions []evdev.Motion
}

func (p *fakePointer) Drain() (evdev.Motion, error) {
	if len(p.motions) == 0 {
		return evdev.Motion{}, nil
	}
	m := p.motions[0]
	p.motions = p.motions[1:]
	return m, nil
}

func (p *fakePointer) Close() error { return nil }

type fakeKeyboard struct {
	evs []evdev.Event
}

func (k *fakeKeyboard) Drain() ([]evdev.Event, error) {
	evs := k.evs
	k.evs = nil
	return evs, nil
}

func (k *fakeKeyboard) Close() error { return nil }

type devices struct {
	video    *fakeVideo
	pad      *fakePad
	pointer  *fakePointer
	keyboard *fakeKeyboard
}

func newTestBackend(t *testing.T, dev devices) (*Backend, *platform.Context) {
	t.Helper()
	ctx := platform.NewContext(slog.New(slog.NewTextHandler(io.Discard, nil)), options.New())
	ctx.Abort = func(reason string) { t.Fatalf("unexpected abort: %s", reason) }
	if dev.video == nil {
		dev.video = newFakeVideo(64, 32, 32, 4, 2)
	}
	b := New(ctx)
	b.openVideo = func() (VideoOut, error) { return dev.video, nil }
	b.openPad = func() (PadReader, error) {
		if dev.pad == nil {
			return nil, errNoDevice
		}
		return dev.pad, nil
	}
	b.openPointer = func() (pointerDevice, error) {
		if dev.pointer == nil {
			return nil, errNoDevice
		}
		return dev.pointer, nil
	}
	b.openKeyboard = func() (keyDevice, error) {
		if dev.keyboard == nil {
			return nil, errNoDevice
		}
		return dev.keyboard, nil
	}
	b.Init()
	b.Create(platform.DefaultWidth, platform.DefaultHeight, true)
	return b, ctx
}

func TestInitUsesVideoMode(t *testing.T) {
	_, ctx := newTestBackend(t, devices{})
	if ctx.Display.Width != 64 || ctx.Display.Height != 32 || ctx.Display.Depth != 32 {
		t.Fatalf("unexpected display: %+v", ctx.Display)
	}
	if ctx.Window.Width != 64 || ctx.Window.Height != 32 {
		t.Fatalf("window should cover the display, got %dx%d", ctx.Window.Width, ctx.Window.Height)
	}
	if !ctx.Window.Exists || !ctx.Window.Focused || !ctx.Window.Is3D {
		t.Fatalf("unexpected window state: %+v", ctx.Window)
	}
	if ctx.Display.ContentOffsetX != 20 || ctx.Display.ContentOffsetY != 20 {
		t.Fatalf("unexpected content offsets: %d,%d", ctx.Display.ContentOffsetX, ctx.Display.ContentOffsetY)
	}
}

func TestInitFailsWithoutVideo(t *testing.T) {
	ctx := platform.NewContext(slog.New(slog.NewTextHandler(io.Discard, nil)), options.New())
	var reason string
	ctx.Abort = func(r string) { reason = r }
	b := New(ctx)
	b.openVideo = func() (VideoOut, error) { return nil, errNoDevice }
	b.Init()
	if reason == "" || ctx.Window.Exists {
		t.Fatalf("expected a fatal abort, got %q", reason)
	}
}

func TestWindowIsAlwaysFullscreen(t *testing.T) {
	b, ctx := newTestBackend(t, devices{})
	b.SetSize(100, 100)
	b.SetTitle("ignored")
	if err := b.ExitFullscreen(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.WindowMode() != platform.WindowFullscreen {
		t.Fatalf("unexpected mode: %v", b.WindowMode())
	}
	if ctx.Window.Width != 64 {
		t.Fatalf("SetSize should be ignored, got width %d", ctx.Window.Width)
	}
	b.RequestClose()
	if evs := ctx.Events(); len(evs) != 1 || evs[0].Type != platform.EventClosing {
		t.Fatalf("unexpected events: %+v", evs)
	}
}

func TestUnsupportedOperations(t *testing.T) {
	b, _ := newTestBackend(t, devices{})
	if _, err := b.ClipboardText(); !errors.Is(err, platform.ErrNotSupported) {
		t.Fatalf("unexpected clipboard error: %v", err)
	}
	if err := b.SetClipboardText("x"); !errors.Is(err, platform.ErrNotSupported) {
		t.Fatalf("unexpected clipboard error: %v", err)
	}
	if _, err := b.OpenFileDialog(platform.FileDialogArgs{}); !errors.Is(err, platform.ErrNotSupported) {
		t.Fatalf("unexpected dialog error: %v", err)
	}
	if _, err := b.SaveFileDialog(platform.FileDialogArgs{}); !errors.Is(err, platform.ErrNotSupported) {
		t.Fatalf("unexpected dialog error: %v", err)
	}
}

func TestDrawAlternatesBuffers(t *testing.T) {
	video := newFakeVideo(64, 32, 32, 4, 2)
	b, _ := newTestBackend(t, devices{video: video})
	s := b.AllocFramebuffer(64, 32)
	s.Bitmap.Set(3, 2, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff})

	for i := 0; i < 3; i++ {
		b.DrawFramebuffer(image.Rect(0, 0, 1, 1), s)
	}
	want := []flip{{0, 0}, {1, 1}, {0, 2}}
	if len(video.flips) != len(want) {
		t.Fatalf("unexpected flips: %+v", video.flips)
	}
	for i := range want {
		if video.flips[i] != want[i] {
			t.Fatalf("unexpected flip %d: %+v", i, video.flips[i])
		}
	}
	for i, buf := range video.bufs {
		off := 2*64*4 + 3*4
		if got := buf[off : off+4]; got[0] != 0x33 || got[1] != 0x22 || got[2] != 0x11 {
			t.Fatalf("buffer %d: unexpected pixel % x", i, got)
		}
	}
	b.FreeFramebuffer(s)
	b.FreeFramebuffer(s)
	b.FreeFramebuffer(nil)
}

func TestDrawSingleBuffer(t *testing.T) {
	video := newFakeVideo(64, 32, 32, 4, 1)
	b, _ := newTestBackend(t, devices{video: video})
	s := b.AllocFramebuffer(64, 32)
	b.DrawFramebuffer(s.Bitmap.Bounds(), s)
	b.DrawFramebuffer(s.Bitmap.Bounds(), s)
	if video.flips[1] != (flip{0, 1}) {
		t.Fatalf("unexpected flips: %+v", video.flips)
	}
}

func TestDrawScalesBitmap(t *testing.T) {
	video := newFakeVideo(64, 32, 32, 4, 2)
	b, _ := newTestBackend(t, devices{video: video})
	s := b.AllocFramebuffer(32, 16)
	s.Bitmap.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})
	b.DrawFramebuffer(s.Bitmap.Bounds(), s)

	buf := video.bufs[0]
	for _, p := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		off := p[1]*64*4 + p[0]*4
		if buf[off+2] != 0xff || buf[off] != 0 {
			t.Fatalf("pixel %v not scaled: % x", p, buf[off:off+4])
		}
	}
	if off := 2 * 4; buf[off+2] != 0 {
		t.Fatalf("pixel (2,0) should be empty: % x", buf[off:off+4])
	}
}

func TestDrawConvertsTo565(t *testing.T) {
	video := newFakeVideo(64, 32, 16, 2, 2)
	b, _ := newTestBackend(t, devices{video: video})
	s := b.AllocFramebuffer(64, 32)
	s.Bitmap.Set(1, 0, color.RGBA{R: 0xff, A: 0xff})
	b.DrawFramebuffer(s.Bitmap.Bounds(), s)
	if got := video.bufs[0][2:4]; got[0] != 0x00 || got[1] != 0xf8 {
		t.Fatalf("unexpected 565 pixel: % x", got)
	}
}

func TestDrawCursorWhenVisible(t *testing.T) {
	video := newFakeVideo(64, 32, 32, 4, 2)
	b, ctx := newTestBackend(t, devices{video: video, pointer: &fakePointer{}})
	s := b.AllocFramebuffer(64, 32)
	b.DrawFramebuffer(s.Bitmap.Bounds(), s)
	off := 16*64*4 + 32*4
	if got := video.bufs[0][off : off+4]; got[0] != 0xff || got[1] != 0xff || got[2] != 0xff {
		t.Fatalf("expected the cursor at the centre, got % x", got)
	}

	ctx.Display.CursorVisible = false
	b.DrawFramebuffer(s.Bitmap.Bounds(), s)
	if got := video.bufs[1][off : off+4]; got[0] != 0 {
		t.Fatalf("hidden cursor was drawn: % x", got)
	}
}

func TestPadMapping(t *testing.T) {
	pad := &fakePad{data: PadData{
		Buttons: padCircle | padL2 | padOptions,
		LeftX:   0x81, LeftY: 0x82,
		RightX: 0xff, RightY: 0x00,
	}}
	b, ctx := newTestBackend(t, devices{pad: pad})
	b.PollGamepads(0.016)

	port := b.padPort
	if !ctx.Pads.Connected(port) {
		t.Fatalf("expected the pad on a port")
	}
	for _, c := range []input.Code{input.PadA, input.PadZL, input.PadStart} {
		if !ctx.Pads.IsPressed(port, c) {
			t.Fatalf("expected %v held", c)
		}
	}
	if ctx.Pads.IsPressed(port, input.PadB) {
		t.Fatalf("cross should not be held")
	}
	if !ctx.Pads.BindTriggered(port, input.BindJump) || !ctx.Pads.BindTriggered(port, input.BindSetSpawn) {
		t.Fatalf("expected console bindings")
	}
	if x, y := ctx.Pads.AxisValue(port, input.AxisLeft); x != 0 || y != 64.0/4096 {
		t.Fatalf("unexpected left stick: %v,%v", x, y)
	}
	if x, y := ctx.Pads.AxisValue(port, input.AxisRight); x != 4064.0/4096 || y != -1 {
		t.Fatalf("unexpected right stick: %v,%v", x, y)
	}

	b.PollGamepads(0.016)
	if b.padPort != port {
		t.Fatalf("pad moved from port %d to %d", port, b.padPort)
	}
}

func TestPadLossReleasesPort(t *testing.T) {
	pad := &fakePad{data: PadData{Buttons: padCross}}
	b, ctx := newTestBackend(t, devices{pad: pad})
	b.PollGamepads(0.016)
	port := b.padPort

	pad.err = errors.New("unplugged")
	b.PollGamepads(0.016)
	if ctx.Pads.Connected(port) || !pad.closed || b.pad != nil {
		t.Fatalf("pad should be dropped")
	}
	if ctx.Input.IsPressed(input.PadB) {
		t.Fatalf("held buttons should be released")
	}
	b.PollGamepads(0.016)
}

func TestPadDataFromSnapshot(t *testing.T) {
	var snap evdev.PadSnapshot
	snap.Keys.Set(evdev.BtnSouth, true)
	snap.Keys.Set(evdev.BtnThumbR, true)
	snap.HatX = -1
	snap.Sticks = [4]int{4096, -4096, 0, 64}

	d := padDataFromSnapshot(&snap)
	if d.Buttons != padCross|padR3|padLeft {
		t.Fatalf("unexpected buttons: %#x", d.Buttons)
	}
	if d.LeftX != 0xff || d.LeftY != 0x00 || d.RightX != 0x80 || d.RightY != 0x82 {
		t.Fatalf("unexpected sticks: %+v", d)
	}
}

func TestPointerMotion(t *testing.T) {
	ptr := &fakePointer{motions: []evdev.Motion{
		{DX: 5, DY: -3, WheelV: -1, Buttons: []evdev.Event{{Type: evdev.EvKey, Code: evdev.BtnLeft, Value: 1}}},
		{DX: 2},
	}}
	b, ctx := newTestBackend(t, devices{pointer: ptr})
	b.ProcessEvents(0)
	if x, y := ctx.Input.Pointer(0); x != 37 || y != 13 {
		t.Fatalf("unexpected pointer: %d,%d", x, y)
	}
	if !ctx.Input.IsPressed(input.MouseLeft) {
		t.Fatalf("expected left button held")
	}
	if len(eventsOfType(ctx.Events(), platform.EventScroll)) != 1 {
		t.Fatalf("expected one scroll event")
	}

	b.EnableRawMouse()
	b.ProcessEvents(0)
	if dx, dy := ctx.Input.ConsumeRaw(0); dx != 2 || dy != 0 {
		t.Fatalf("unexpected raw motion: %v,%v", dx, dy)
	}
}

func TestRawMotionFallsBackToCursorDeltas(t *testing.T) {
	ptr := &fakePointer{motions: []evdev.Motion{{DX: 1000, DY: 1000}}}
	b, ctx := newTestBackend(t, devices{pointer: ptr})
	b.rawCheck = &input.RawMotionCheck{LimitX: 300, LimitY: 200, MaxFails: 0}
	b.EnableRawMouse()
	b.ProcessEvents(0)
	if !b.rawCheck.Disabled() {
		t.Fatalf("check should have disabled raw motion")
	}
	if dx, dy := ctx.Input.ConsumeRaw(0); dx != 31 || dy != 15 {
		t.Fatalf("unexpected fallback deltas: %v,%v", dx, dy)
	}
}

func TestKeyboardEvents(t *testing.T) {
	kbd := &fakeKeyboard{evs: []evdev.Event{{Type: evdev.EvKey, Code: 1, Value: 1}}}
	b, ctx := newTestBackend(t, devices{keyboard: kbd})
	b.ProcessEvents(0)
	if !ctx.Input.IsPressed(input.Escape) {
		t.Fatalf("expected escape held")
	}
}

func TestUnknownKeysAreLogged(t *testing.T) {
	kbd := &fakeKeyboard{evs: []evdev.Event{{Type: evdev.EvKey, Code: 240, Value: 1}}}
	b, _ := newTestBackend(t, devices{keyboard: kbd})
	var buf bytes.Buffer
	b.log = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b.ProcessEvents(0)
	if !bytes.Contains(buf.Bytes(), []byte("unknown key")) || !bytes.Contains(buf.Bytes(), []byte("code=240")) {
		t.Fatalf("unexpected log: %s", buf.String())
	}
}

func TestDestroyClosesVideo(t *testing.T) {
	video := newFakeVideo(64, 32, 32, 4, 2)
	b, ctx := newTestBackend(t, devices{video: video})
	b.Destroy()
	if !video.closed || ctx.Window.Exists {
		t.Fatalf("expected video closed and window gone")
	}
	s := b.AllocFramebuffer(64, 32)
	b.DrawFramebuffer(s.Bitmap.Bounds(), s)
}

func eventsOfType(evs []platform.Event, t platform.EventType) []platform.Event {
	var out []platform.Event
	for _, ev := range evs {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}
