//go:build linux && !console && !ebiten

package x11

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"hostwin/internal/options"
	"hostwin/internal/platform"
)

const (
	testWindow = xproto.Window(0x200001)
	testRoot   = xproto.Window(0x100)
	peerWindow = xproto.Window(0x300001)
)

type propKey struct {
	win  xproto.Window
	prop xproto.Atom
}

type sentEvent struct {
	dest xproto.Window
	mask uint32
	data []byte
}

type putCall struct {
	w, h, x, y int
	depth      byte
	data       []byte
}

// fakeDisplay is an in-memory X server. A second client, peerWindow, can
// own the clipboard and answers conversions with peerText unless
// peerSilent is set.
type fakeDisplay struct {
	screen  screen
	events  []xgb.Event
	atoms   map[string]xproto.Atom
	props   map[propKey]*xproto.GetPropertyReply
	owners  map[xproto.Atom]xproto.Window
	focus   xproto.Window
	keysyms map[xproto.Keycode][2]xproto.Keysym

	sent    []sentEvent
	puts    []putCall
	warps   [][2]int
	cursor  xproto.Cursor
	grabbed bool
	convs   int

	destroyed []xproto.Window
	closed    bool

	pointerX, pointerY int

	peerText   string
	peerSilent bool
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{
		screen: screen{
			Root: testRoot, Width: 1920, Height: 1080, Depth: 24, Visual: 0x21,
			BitsPerPixel: 32, ScanlinePad: 32, MaxRequestBytes: 262140,
			MinKeycode: 8, MaxKeycode: 255,
		},
		atoms:  make(map[string]xproto.Atom),
		props:  make(map[propKey]*xproto.GetPropertyReply),
		owners: make(map[xproto.Atom]xproto.Window),
		keysyms: map[xproto.Keycode][2]xproto.Keysym{
			10: {'1', '!'},
			38: {'a', 0},
			50: {0xffe1, 0},
			59: {',', '<'},
			79: {ksKPHome, ksKP0 + 7},
		},
	}
}

func (f *fakeDisplay) queue(evs ...xgb.Event) { f.events = append(f.events, evs...) }

func (f *fakeDisplay) Screen() screen { return f.screen }

func (f *fakeDisplay) PollEvent() (xgb.Event, error) {
	if len(f.events) == 0 {
		return nil, nil
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

func (f *fakeDisplay) InternAtom(name string, onlyIfExists bool) (xproto.Atom, error) {
	if a, ok := f.atoms[name]; ok {
		return a, nil
	}
	a := xproto.Atom(100 + len(f.atoms))
	f.atoms[name] = a
	return a, nil
}

func (f *fakeDisplay) CreateWindow(x, y, w, h int, eventMask uint32) (xproto.Window, error) {
	return testWindow, nil
}

func (f *fakeDisplay) DestroyWindow(win xproto.Window) { f.destroyed = append(f.destroyed, win) }
func (f *fakeDisplay) MapWindow(win xproto.Window)     {}
func (f *fakeDisplay) Resize(win xproto.Window, w, h int) {
	f.queue(xproto.ConfigureNotifyEvent{Event: win, Window: win, Width: uint16(w), Height: uint16(h)})
}
func (f *fakeDisplay) Raise(win xproto.Window) {}

func (f *fakeDisplay) ChangeProperty(win xproto.Window, prop, typ xproto.Atom, format byte, data []byte) {
	n := uint32(len(data))
	if format > 8 {
		n /= uint32(format / 8)
	}
	f.props[propKey{win, prop}] = &xproto.GetPropertyReply{
		Format: format, Type: typ, ValueLen: n, Value: append([]byte(nil), data...),
	}
}

func (f *fakeDisplay) GetProperty(win xproto.Window, prop, typ xproto.Atom, longLength uint32) (*xproto.GetPropertyReply, error) {
	if r, ok := f.props[propKey{win, prop}]; ok {
		return r, nil
	}
	return &xproto.GetPropertyReply{}, nil
}

func (f *fakeDisplay) DeleteProperty(win xproto.Window, prop xproto.Atom) {
	delete(f.props, propKey{win, prop})
}

func (f *fakeDisplay) SendEvent(dest xproto.Window, propagate bool, mask uint32, ev []byte) {
	f.sent = append(f.sent, sentEvent{dest: dest, mask: mask, data: ev})
}

func (f *fakeDisplay) InputFocus() (xproto.Window, error) { return f.focus, nil }

func (f *fakeDisplay) SelectionOwner(sel xproto.Atom) (xproto.Window, error) {
	return f.owners[sel], nil
}

func (f *fakeDisplay) SetSelectionOwner(owner xproto.Window, sel xproto.Atom) {
	f.owners[sel] = owner
}

func (f *fakeDisplay) ConvertSelection(requestor xproto.Window, sel, target, prop xproto.Atom) {
	f.convs++
	if f.owners[sel] != peerWindow || f.peerSilent {
		return
	}
	f.ChangeProperty(requestor, prop, target, 8, []byte(f.peerText))
	f.queue(xproto.SelectionNotifyEvent{Requestor: requestor, Selection: sel, Target: target, Property: prop})
}

func (f *fakeDisplay) KeyboardMapping(first xproto.Keycode, count int) (*xproto.GetKeyboardMappingReply, error) {
	syms := make([]xproto.Keysym, count*2)
	for kc, pair := range f.keysyms {
		i := int(kc-first) * 2
		syms[i], syms[i+1] = pair[0], pair[1]
	}
	return &xproto.GetKeyboardMappingReply{KeysymsPerKeycode: 2, Keysyms: syms}, nil
}

func (f *fakeDisplay) QueryPointer(win xproto.Window) (int, int, error) {
	return f.pointerX, f.pointerY, nil
}

func (f *fakeDisplay) WarpPointer(win xproto.Window, x, y int) {
	f.warps = append(f.warps, [2]int{x, y})
	f.pointerX, f.pointerY = x, y
}

func (f *fakeDisplay) GrabPointer(win xproto.Window, cursor xproto.Cursor) error {
	f.grabbed = true
	return nil
}

func (f *fakeDisplay) UngrabPointer() { f.grabbed = false }

func (f *fakeDisplay) BlankCursor(win xproto.Window) (xproto.Cursor, error) { return 0x400001, nil }

func (f *fakeDisplay) SetCursor(win xproto.Window, cursor xproto.Cursor) { f.cursor = cursor }

func (f *fakeDisplay) CreateGC(win xproto.Window) (xproto.Gcontext, error) { return 0x500001, nil }

func (f *fakeDisplay) PutImage(win xproto.Window, gc xproto.Gcontext, w, h, x, y int, depth byte, data []byte) {
	f.puts = append(f.puts, putCall{w: w, h: h, x: x, y: y, depth: depth, data: append([]byte(nil), data...)})
}

func (f *fakeDisplay) Sync()  {}
func (f *fakeDisplay) Close() { f.closed = true }

func newTestBackend(t *testing.T, fd *fakeDisplay) (*Backend, *platform.Context) {
	t.Helper()
	opts := options.New()
	opts.Set(options.PadDevice, "/nonexistent/hostwin-test-pad")
	ctx := platform.NewContext(slog.New(slog.NewTextHandler(io.Discard, nil)), opts)
	ctx.Abort = func(reason string) { t.Fatalf("unexpected abort: %s", reason) }
	fd.focus = testWindow
	b := New(ctx)
	b.connect = func() (display, error) { return fd, nil }
	b.waiter.Sleep = func(time.Duration) {}
	b.Init()
	b.Create(platform.DefaultWidth, platform.DefaultHeight, false)
	ctx.Events()
	return b, ctx
}

func eventsOfType(evs []platform.Event, types ...platform.EventType) []platform.Event {
	var out []platform.Event
	for _, ev := range evs {
		for _, t := range types {
			if ev.Type == t {
				out = append(out, ev)
			}
		}
	}
	return out
}
