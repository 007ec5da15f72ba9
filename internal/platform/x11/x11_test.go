//go:build linux && !console && !ebiten

package x11

import (
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/jezek/xgb/xproto"

	"hostwin/internal/input"
	"hostwin/internal/platform"
)

func le32(vals ...uint32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

func TestConfigureNotifyRaisesResizeOnlyOnChange(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	fd.queue(
		xproto.ConfigureNotifyEvent{Event: testWindow, Window: testWindow, Width: 854, Height: 480},
		xproto.ConfigureNotifyEvent{Event: testWindow, Window: testWindow, Width: 1000, Height: 600},
		xproto.ConfigureNotifyEvent{Event: testWindow, Window: testWindow, Width: 1000, Height: 600},
	)
	b.ProcessEvents(0)
	got := eventsOfType(ctx.Events(), platform.EventResized)
	if len(got) != 1 {
		t.Fatalf("unexpected resize count: %d", len(got))
	}
	if got[0].Width != 1000 || got[0].Height != 600 || ctx.Window.Width != 1000 {
		t.Fatalf("unexpected resize: %+v", got[0])
	}
}

func TestEventsForOtherWindowsIgnored(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	fd.queue(
		xproto.KeyPressEvent{Event: peerWindow, Detail: 38},
		xproto.ConfigureNotifyEvent{Event: peerWindow, Window: peerWindow, Width: 10, Height: 10},
	)
	b.ProcessEvents(0)
	if evs := ctx.Events(); len(evs) != 0 {
		t.Fatalf("unexpected events: %+v", evs)
	}
}

func TestFocusLossReleasesKeys(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	fd.queue(
		xproto.KeyPressEvent{Event: testWindow, Detail: 38, Time: 1},
		xproto.FocusOutEvent{Event: testWindow, Mode: 0},
	)
	b.ProcessEvents(0)
	if ctx.Window.Focused {
		t.Fatalf("expected window to lose focus")
	}
	if ctx.Input.IsPressed(input.KeyA) {
		t.Fatalf("expected key to be released")
	}
	ups := eventsOfType(ctx.Events(), platform.EventKeyUp)
	if len(ups) != 1 || ups[0].Code != input.KeyA {
		t.Fatalf("unexpected key ups: %+v", ups)
	}
}

func TestGrabFocusChangesIgnored(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	fd.queue(
		xproto.FocusOutEvent{Event: testWindow, Mode: xproto.NotifyModeGrab},
		xproto.FocusInEvent{Event: testWindow, Mode: xproto.NotifyModeUngrab},
	)
	b.ProcessEvents(0)
	if !ctx.Window.Focused {
		t.Fatalf("grab should not change focus")
	}
	if got := eventsOfType(ctx.Events(), platform.EventFocusChanged); len(got) != 0 {
		t.Fatalf("unexpected focus events: %d", len(got))
	}
}

func TestEnterLeaveOnlyWithPointerRootFocus(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	fd.queue(xproto.LeaveNotifyEvent{Event: testWindow})
	b.ProcessEvents(0)
	if !ctx.Window.Focused {
		t.Fatalf("leave changed focus without PointerRoot")
	}
	fd.focus = xproto.InputFocusPointerRoot
	fd.queue(xproto.LeaveNotifyEvent{Event: testWindow})
	b.ProcessEvents(0)
	if ctx.Window.Focused {
		t.Fatalf("leave with PointerRoot focus should unfocus")
	}
}

func TestWMDeleteClosesWindow(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	fd.queue(xproto.ClientMessageEvent{
		Format: 32, Window: testWindow, Type: b.atoms.wmProtocols,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{uint32(b.atoms.wmDelete), 0, 0, 0, 0}),
	})
	b.ProcessEvents(0)
	if ctx.Window.Exists {
		t.Fatalf("expected window to stop existing")
	}
	if got := eventsOfType(ctx.Events(), platform.EventClosing); len(got) != 1 {
		t.Fatalf("unexpected closing events: %d", len(got))
	}
}

func TestPingIsReturnedToRoot(t *testing.T) {
	fd := newFakeDisplay()
	b, _ := newTestBackend(t, fd)
	fd.queue(xproto.ClientMessageEvent{
		Format: 32, Window: testWindow, Type: b.atoms.wmProtocols,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{uint32(b.atoms.netWMPing), 7, 0, 0, 0}),
	})
	b.ProcessEvents(0)
	if len(fd.sent) != 1 || fd.sent[0].dest != testRoot {
		t.Fatalf("unexpected sent events: %+v", fd.sent)
	}
	ev := xproto.ClientMessageEventNew(fd.sent[0].data).(xproto.ClientMessageEvent)
	if ev.Window != testRoot || ev.Data.Data32[1] != 7 {
		t.Fatalf("unexpected pong: %+v", ev)
	}
}

func TestExposeAndDestroy(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	fd.queue(
		xproto.ExposeEvent{Window: testWindow, Count: 1},
		xproto.ExposeEvent{Window: testWindow, Count: 0},
		xproto.DestroyNotifyEvent{Event: testWindow, Window: testWindow},
		xproto.ExposeEvent{Window: testWindow, Count: 0},
	)
	b.ProcessEvents(0)
	if got := eventsOfType(ctx.Events(), platform.EventRedrawNeeded); len(got) != 1 {
		t.Fatalf("unexpected redraw count: %d", len(got))
	}
	if ctx.Window.Exists {
		t.Fatalf("expected destroy to clear Exists")
	}
}

func TestAutoRepeatReportedAsRepeat(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	fd.queue(
		xproto.KeyPressEvent{Event: testWindow, Detail: 38, Time: 1},
		xproto.KeyReleaseEvent{Event: testWindow, Detail: 38, Time: 5},
		xproto.KeyPressEvent{Event: testWindow, Detail: 38, Time: 5},
	)
	b.ProcessEvents(0)
	keys := eventsOfType(ctx.Events(), platform.EventKeyDown, platform.EventKeyUp)
	if len(keys) != 2 {
		t.Fatalf("unexpected key events: %+v", keys)
	}
	if keys[0].Type != platform.EventKeyDown || keys[0].Repeat {
		t.Fatalf("unexpected first event: %+v", keys[0])
	}
	if keys[1].Type != platform.EventKeyDown || !keys[1].Repeat {
		t.Fatalf("unexpected second event: %+v", keys[1])
	}

	fd.queue(xproto.KeyReleaseEvent{Event: testWindow, Detail: 38, Time: 9})
	b.ProcessEvents(0)
	ups := eventsOfType(ctx.Events(), platform.EventKeyUp)
	if len(ups) != 1 || ups[0].Code != input.KeyA {
		t.Fatalf("unexpected release: %+v", ups)
	}
}

func TestKeyPressRaisesText(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	fd.queue(
		xproto.KeyPressEvent{Event: testWindow, Detail: 10, State: xproto.ModMaskShift},
		xproto.KeyPressEvent{Event: testWindow, Detail: 38, State: xproto.ModMaskControl},
	)
	b.ProcessEvents(0)
	evs := ctx.Events()
	text := eventsOfType(evs, platform.EventTextInput)
	if len(text) != 1 || text[0].Rune != '!' {
		t.Fatalf("unexpected text: %+v", text)
	}
	if !ctx.Input.IsPressed(input.Key1) || !ctx.Input.IsPressed(input.KeyA) {
		t.Fatalf("expected both keys held")
	}
}

func TestMappingNotifyReloadsKeymap(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	fd.keysyms[38] = [2]xproto.Keysym{'b', 0}
	fd.queue(
		xproto.MappingNotifyEvent{Request: xproto.MappingKeyboard},
		xproto.KeyPressEvent{Event: testWindow, Detail: 38},
	)
	b.ProcessEvents(0)
	if !ctx.Input.IsPressed(input.KeyB) {
		t.Fatalf("expected remapped key")
	}
}

func TestMouseButtonsAndWheel(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	fd.queue(
		xproto.ButtonPressEvent{Event: testWindow, Detail: 1},
		xproto.ButtonPressEvent{Event: testWindow, Detail: 4},
		xproto.ButtonReleaseEvent{Event: testWindow, Detail: 4},
		xproto.ButtonPressEvent{Event: testWindow, Detail: 7},
		xproto.ButtonPressEvent{Event: testWindow, Detail: 9},
		xproto.MotionNotifyEvent{Event: testWindow, EventX: 12, EventY: 34},
	)
	b.ProcessEvents(0)
	evs := ctx.Events()
	downs := eventsOfType(evs, platform.EventKeyDown)
	if len(downs) != 2 || downs[0].Code != input.MouseLeft || downs[1].Code != input.MouseX2 {
		t.Fatalf("unexpected buttons: %+v", downs)
	}
	scroll := eventsOfType(evs, platform.EventScroll)
	if len(scroll) != 2 || scroll[0].DY != 1 || scroll[1].DX != -1 {
		t.Fatalf("unexpected scroll: %+v", scroll)
	}
	if x, y := ctx.Input.Pointer(0); x != 12 || y != 34 {
		t.Fatalf("unexpected pointer: %d,%d", x, y)
	}
}

func TestClipboardPasteFromOtherClient(t *testing.T) {
	fd := newFakeDisplay()
	b, _ := newTestBackend(t, fd)
	fd.owners[b.atoms.clipboard] = peerWindow
	fd.peerText = "hello"
	got, err := b.ClipboardText()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("unexpected paste: %q", got)
	}
	if _, ok := fd.props[propKey{testWindow, b.atoms.selData}]; ok {
		t.Fatalf("expected transfer property to be deleted")
	}
}

func TestClipboardWithoutOwnerIsEmpty(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	got, err := b.ClipboardText()
	if err != nil || got != "" {
		t.Fatalf("unexpected paste: %q, %v", got, err)
	}
	if ctx.Clipboard.Pending() {
		t.Fatalf("no request should be pending")
	}
}

func TestClipboardTimeoutDropsLateAnswer(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	fd.owners[b.atoms.clipboard] = peerWindow
	fd.peerSilent = true
	got, err := b.ClipboardText()
	if err != nil || got != "" {
		t.Fatalf("unexpected paste: %q, %v", got, err)
	}
	fd.ChangeProperty(testWindow, b.atoms.selData, b.atoms.utf8, 8, []byte("late"))
	fd.queue(xproto.SelectionNotifyEvent{
		Requestor: testWindow, Selection: b.atoms.clipboard, Target: b.atoms.utf8, Property: b.atoms.selData,
	})
	b.ProcessEvents(0)
	if _, ok := ctx.Clipboard.Received(); ok {
		t.Fatalf("late answer should be dropped")
	}
}

func TestSelectionRequestAnswered(t *testing.T) {
	fd := newFakeDisplay()
	b, _ := newTestBackend(t, fd)
	if err := b.SetClipboardText("copied"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fd.owners[b.atoms.clipboard] != testWindow {
		t.Fatalf("expected selection ownership")
	}
	const prop = xproto.Atom(900)
	fd.queue(xproto.SelectionRequestEvent{
		Owner: testWindow, Requestor: peerWindow, Selection: b.atoms.clipboard, Target: b.atoms.utf8, Property: prop,
	})
	b.ProcessEvents(0)
	stored := fd.props[propKey{peerWindow, prop}]
	if stored == nil || string(stored.Value) != "copied" || stored.Type != b.atoms.utf8 {
		t.Fatalf("unexpected property: %+v", stored)
	}
	if len(fd.sent) != 1 || fd.sent[0].dest != peerWindow {
		t.Fatalf("unexpected notifications: %+v", fd.sent)
	}
	ev := xproto.SelectionNotifyEventNew(fd.sent[0].data).(xproto.SelectionNotifyEvent)
	if ev.Property != prop || ev.Target != b.atoms.utf8 {
		t.Fatalf("unexpected notify: %+v", ev)
	}
}

func TestSelectionRequestTargets(t *testing.T) {
	fd := newFakeDisplay()
	b, _ := newTestBackend(t, fd)
	fd.queue(xproto.SelectionRequestEvent{
		Owner: testWindow, Requestor: peerWindow, Selection: b.atoms.clipboard, Target: b.atoms.targets,
	})
	b.ProcessEvents(0)
	stored := fd.props[propKey{peerWindow, b.atoms.targets}]
	if stored == nil || stored.Format != 32 || stored.Type != xproto.AtomAtom {
		t.Fatalf("unexpected property: %+v", stored)
	}
	want := le32(uint32(b.atoms.utf8), uint32(b.atoms.targets))
	if string(stored.Value) != string(want) {
		t.Fatalf("unexpected targets: %v", stored.Value)
	}
}

func TestSelectionRequestRefused(t *testing.T) {
	fd := newFakeDisplay()
	b, _ := newTestBackend(t, fd)
	_ = b.SetClipboardText("copied")
	fd.queue(xproto.SelectionRequestEvent{
		Owner: testWindow, Requestor: peerWindow, Selection: b.atoms.clipboard, Target: xproto.AtomString, Property: 900,
	})
	b.ProcessEvents(0)
	if _, ok := fd.props[propKey{peerWindow, 900}]; ok {
		t.Fatalf("refusal should not write a property")
	}
	ev := xproto.SelectionNotifyEventNew(fd.sent[0].data).(xproto.SelectionNotifyEvent)
	if ev.Property != xproto.AtomNone {
		t.Fatalf("unexpected notify property: %d", ev.Property)
	}
}

func TestDrawFramebufferSplitsIntoStrips(t *testing.T) {
	fd := newFakeDisplay()
	fd.screen.MaxRequestBytes = putImageHeader + 10*4*3
	b, _ := newTestBackend(t, fd)
	surf := b.AllocFramebuffer(10, 8)
	if !surf.Aliased() {
		t.Fatalf("expected 24-bit display to use the shared buffer")
	}
	b.DrawFramebuffer(image.Rect(0, 0, 10, 8), surf)
	if len(fd.puts) != 3 {
		t.Fatalf("unexpected request count: %d", len(fd.puts))
	}
	for i, want := range []struct{ y, h int }{{0, 3}, {3, 3}, {6, 2}} {
		p := fd.puts[i]
		if p.y != want.y || p.h != want.h || p.w != 10 || len(p.data) != p.h*40 {
			t.Fatalf("unexpected strip %d: %+v", i, p)
		}
	}
	b.FreeFramebuffer(surf)
	b.FreeFramebuffer(surf)
}

func TestDrawFramebufferConvertsTo565(t *testing.T) {
	fd := newFakeDisplay()
	fd.screen.Depth = 16
	b, _ := newTestBackend(t, fd)
	surf := b.AllocFramebuffer(2, 1)
	surf.Bitmap.Set(0, 0, color.RGBA{R: 255, A: 255})
	b.DrawFramebuffer(image.Rect(0, 0, 2, 1), surf)
	if len(fd.puts) != 1 {
		t.Fatalf("unexpected request count: %d", len(fd.puts))
	}
	got := fd.puts[0].data
	if len(got) != 4 || got[0] != 0x00 || got[1] != 0xf8 || fd.puts[0].depth != 16 {
		t.Fatalf("unexpected pixels: %v", got)
	}
}

func TestFullscreenRequestAndWindowMode(t *testing.T) {
	fd := newFakeDisplay()
	b, _ := newTestBackend(t, fd)
	if err := b.EnterFullscreen(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fd.sent) != 1 || fd.sent[0].dest != testRoot {
		t.Fatalf("unexpected sent events: %+v", fd.sent)
	}
	ev := xproto.ClientMessageEventNew(fd.sent[0].data).(xproto.ClientMessageEvent)
	if ev.Type != b.atoms.netWMState || ev.Data.Data32[0] != netWMStateAdd || ev.Data.Data32[1] != uint32(b.atoms.stateFull) {
		t.Fatalf("unexpected request: %+v", ev)
	}

	if got := b.WindowMode(); got != platform.WindowNormal {
		t.Fatalf("unexpected mode: %v", got)
	}
	fd.ChangeProperty(testWindow, b.atoms.netWMState, xproto.AtomAtom, 32, le32(uint32(b.atoms.stateHidden)))
	if got := b.WindowMode(); got != platform.WindowMinimized {
		t.Fatalf("unexpected mode: %v", got)
	}
	fd.ChangeProperty(testWindow, b.atoms.netWMState, xproto.AtomAtom, 32,
		le32(uint32(b.atoms.stateHidden), uint32(b.atoms.stateFull)))
	if got := b.WindowMode(); got != platform.WindowFullscreen {
		t.Fatalf("unexpected mode: %v", got)
	}
}

func TestStateChangeNotification(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	fd.queue(
		xproto.PropertyNotifyEvent{Window: testWindow, Atom: b.atoms.netWMState},
		xproto.PropertyNotifyEvent{Window: testWindow, Atom: xproto.AtomWmName},
	)
	b.ProcessEvents(0)
	if got := eventsOfType(ctx.Events(), platform.EventStateChanged); len(got) != 1 {
		t.Fatalf("unexpected state events: %d", len(got))
	}
}

func TestRawMouseByRecentring(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	b.grabCursor = true
	b.EnableRawMouse()
	if !ctx.Input.RawMode || ctx.Display.CursorVisible || !fd.grabbed {
		t.Fatalf("unexpected raw mode state")
	}
	if last := fd.warps[len(fd.warps)-1]; last != [2]int{427, 240} {
		t.Fatalf("unexpected warp: %v", last)
	}
	fd.pointerX, fd.pointerY = 437, 235
	b.UpdateRawMouse()
	if dx, dy := ctx.Input.ConsumeRaw(0); dx != 10 || dy != -5 {
		t.Fatalf("unexpected delta: %v,%v", dx, dy)
	}
	b.UpdateRawMouse()
	if dx, dy := ctx.Input.ConsumeRaw(0); dx != 0 || dy != 0 {
		t.Fatalf("unexpected delta after recentre: %v,%v", dx, dy)
	}
	b.DisableRawMouse()
	if ctx.Input.RawMode || fd.cursor != 0 || fd.grabbed {
		t.Fatalf("unexpected state after disable")
	}
}

func TestCreateSetsWindowProperties(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	if !ctx.Window.Exists || ctx.Window.Handle != uintptr(testWindow) || !ctx.Window.Focused {
		t.Fatalf("unexpected window state: %+v", ctx.Window)
	}
	if ctx.Display.Width != 1920 || ctx.Display.ContentOffsetX != 20 {
		t.Fatalf("unexpected display: %+v", ctx.Display)
	}
	protocols := fd.props[propKey{testWindow, b.atoms.wmProtocols}]
	if protocols == nil || string(protocols.Value) != string(le32(uint32(b.atoms.wmDelete), uint32(b.atoms.netWMPing))) {
		t.Fatalf("unexpected WM_PROTOCOLS: %+v", protocols)
	}
	class := fd.props[propKey{testWindow, xproto.AtomWmClass}]
	if class == nil || string(class.Value) != "hostwin\x00hostwin\x00" {
		t.Fatalf("unexpected WM_CLASS: %+v", class)
	}
	icon := fd.props[propKey{testWindow, b.atoms.netWMIcon}]
	if icon == nil || icon.ValueLen != 2+16*16 {
		t.Fatalf("unexpected icon: %+v", icon)
	}
	b.SetTitle("demo")
	if title := fd.props[propKey{testWindow, xproto.AtomWmName}]; title == nil || string(title.Value) != "demo" {
		t.Fatalf("unexpected title: %+v", title)
	}
}

func TestDestroyAfterWMDelete(t *testing.T) {
	fd := newFakeDisplay()
	b, ctx := newTestBackend(t, fd)
	fd.queue(xproto.ClientMessageEvent{
		Format: 32, Window: testWindow, Type: b.atoms.wmProtocols,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{uint32(b.atoms.wmDelete), 0, 0, 0, 0}),
	})
	b.ProcessEvents(0)
	b.Destroy()
	if len(fd.destroyed) != 1 || fd.destroyed[0] != testWindow {
		t.Fatalf("unexpected destroyed windows: %v", fd.destroyed)
	}
	if !fd.closed || ctx.Window.Exists {
		t.Fatalf("expected connection closed and window gone")
	}
	b.Destroy()
	if len(fd.destroyed) != 1 {
		t.Fatalf("second destroy should do nothing: %v", fd.destroyed)
	}
}

func TestDestroyAfterServerDestroyedWindow(t *testing.T) {
	fd := newFakeDisplay()
	b, _ := newTestBackend(t, fd)
	fd.queue(xproto.DestroyNotifyEvent{Event: testWindow, Window: testWindow})
	b.ProcessEvents(0)
	b.Destroy()
	if len(fd.destroyed) != 0 {
		t.Fatalf("window was already destroyed by the server: %v", fd.destroyed)
	}
	if !fd.closed {
		t.Fatalf("expected connection closed")
	}
}

func TestClipboardRoundTripWhenOwned(t *testing.T) {
	fd := newFakeDisplay()
	b, _ := newTestBackend(t, fd)
	if err := b.SetClipboardText("hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := b.ClipboardText()
	if err != nil || got != "hello" {
		t.Fatalf("unexpected paste: %q, %v", got, err)
	}
	if fd.convs != 0 {
		t.Fatalf("own selection should not be converted, got %d requests", fd.convs)
	}
}
