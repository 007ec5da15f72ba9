//go:build linux && !console && !ebiten

package x11

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// screen is the part of the connection setup the backend needs.
type screen struct {
	Root            xproto.Window
	Width           int
	Height          int
	Depth           int
	Visual          xproto.Visualid
	BitsPerPixel    int
	ScanlinePad     int
	MaxRequestBytes int
	MinKeycode      xproto.Keycode
	MaxKeycode      xproto.Keycode
}

// display is the set of X requests the backend issues. It is satisfied by
// a live xgb connection and by fakes in tests.
type display interface {
	Screen() screen
	PollEvent() (xgb.Event, error)
	InternAtom(name string, onlyIfExists bool) (xproto.Atom, error)

	CreateWindow(x, y, w, h int, eventMask uint32) (xproto.Window, error)
	DestroyWindow(win xproto.Window)
	MapWindow(win xproto.Window)
	Resize(win xproto.Window, w, h int)
	Raise(win xproto.Window)

	ChangeProperty(win xproto.Window, prop, typ xproto.Atom, format byte, data []byte)
	GetProperty(win xproto.Window, prop, typ xproto.Atom, longLength uint32) (*xproto.GetPropertyReply, error)
	DeleteProperty(win xproto.Window, prop xproto.Atom)
	SendEvent(dest xproto.Window, propagate bool, mask uint32, ev []byte)

	InputFocus() (xproto.Window, error)
	SelectionOwner(sel xproto.Atom) (xproto.Window, error)
	SetSelectionOwner(owner xproto.Window, sel xproto.Atom)
	ConvertSelection(requestor xproto.Window, sel, target, prop xproto.Atom)

	KeyboardMapping(first xproto.Keycode, count int) (*xproto.GetKeyboardMappingReply, error)

	QueryPointer(win xproto.Window) (x, y int, err error)
	WarpPointer(win xproto.Window, x, y int)
	GrabPointer(win xproto.Window, cursor xproto.Cursor) error
	UngrabPointer()
	BlankCursor(win xproto.Window) (xproto.Cursor, error)
	SetCursor(win xproto.Window, cursor xproto.Cursor)

	CreateGC(win xproto.Window) (xproto.Gcontext, error)
	PutImage(win xproto.Window, gc xproto.Gcontext, w, h, x, y int, depth byte, data []byte)

	Sync()
	Close()
}

type xconn struct {
	c      *xgb.Conn
	setup  *xproto.SetupInfo
	screen screen
}

func dial(name string) (*xconn, error) {
	c, err := xgb.NewConnDisplay(name)
	if err != nil {
		return nil, err
	}
	setup := xproto.Setup(c)
	root := setup.DefaultScreen(c)
	s := screen{
		Root:            root.Root,
		Width:           int(root.WidthInPixels),
		Height:          int(root.HeightInPixels),
		Depth:           int(root.RootDepth),
		Visual:          root.RootVisual,
		MaxRequestBytes: int(setup.MaximumRequestLength) * 4,
		MinKeycode:      setup.MinKeycode,
		MaxKeycode:      setup.MaxKeycode,
		BitsPerPixel:    32,
		ScanlinePad:     32,
	}
	for _, f := range setup.PixmapFormats {
		if int(f.Depth) == s.Depth {
			s.BitsPerPixel = int(f.BitsPerPixel)
			s.ScanlinePad = int(f.ScanlinePad)
		}
	}
	return &xconn{c: c, setup: setup, screen: s}, nil
}

func (x *xconn) Screen() screen { return x.screen }

func (x *xconn) PollEvent() (xgb.Event, error) {
	ev, xerr := x.c.PollForEvent()
	if xerr != nil {
		return nil, xerr
	}
	return ev, nil
}

func (x *xconn) InternAtom(name string, onlyIfExists bool) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(x.c, onlyIfExists, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

func (x *xconn) CreateWindow(px, py, w, h int, eventMask uint32) (xproto.Window, error) {
	win, err := xproto.NewWindowId(x.c)
	if err != nil {
		return 0, err
	}
	cmap, err := xproto.NewColormapId(x.c)
	if err != nil {
		return 0, err
	}
	s := x.screen
	if err := xproto.CreateColormapChecked(x.c, xproto.ColormapAllocNone, cmap, s.Root, s.Visual).Check(); err != nil {
		return 0, fmt.Errorf("create colormap: %w", err)
	}
	err = xproto.CreateWindowChecked(x.c, byte(s.Depth), win, s.Root,
		int16(px), int16(py), uint16(w), uint16(h), 0,
		xproto.WindowClassInputOutput, s.Visual,
		xproto.CwEventMask|xproto.CwColormap,
		[]uint32{eventMask, uint32(cmap)}).Check()
	if err != nil {
		return 0, err
	}
	return win, nil
}

func (x *xconn) DestroyWindow(win xproto.Window) { xproto.DestroyWindow(x.c, win) }

func (x *xconn) MapWindow(win xproto.Window) { xproto.MapWindow(x.c, win) }

func (x *xconn) Resize(win xproto.Window, w, h int) {
	xproto.ConfigureWindow(x.c, win, xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(w), uint32(h)})
}

func (x *xconn) Raise(win xproto.Window) {
	xproto.ConfigureWindow(x.c, win, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
}

func (x *xconn) ChangeProperty(win xproto.Window, prop, typ xproto.Atom, format byte, data []byte) {
	n := uint32(len(data))
	if format > 8 {
		n /= uint32(format / 8)
	}
	xproto.ChangeProperty(x.c, xproto.PropModeReplace, win, prop, typ, format, n, data)
}

func (x *xconn) GetProperty(win xproto.Window, prop, typ xproto.Atom, longLength uint32) (*xproto.GetPropertyReply, error) {
	return xproto.GetProperty(x.c, false, win, prop, typ, 0, longLength).Reply()
}

func (x *xconn) DeleteProperty(win xproto.Window, prop xproto.Atom) {
	xproto.DeleteProperty(x.c, win, prop)
}

func (x *xconn) SendEvent(dest xproto.Window, propagate bool, mask uint32, ev []byte) {
	xproto.SendEvent(x.c, propagate, dest, mask, string(ev))
}

func (x *xconn) InputFocus() (xproto.Window, error) {
	reply, err := xproto.GetInputFocus(x.c).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Focus, nil
}

func (x *xconn) SelectionOwner(sel xproto.Atom) (xproto.Window, error) {
	reply, err := xproto.GetSelectionOwner(x.c, sel).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Owner, nil
}

func (x *xconn) SetSelectionOwner(owner xproto.Window, sel xproto.Atom) {
	xproto.SetSelectionOwner(x.c, owner, sel, xproto.TimeCurrentTime)
}

func (x *xconn) ConvertSelection(requestor xproto.Window, sel, target, prop xproto.Atom) {
	xproto.ConvertSelection(x.c, requestor, sel, target, prop, xproto.TimeCurrentTime)
}

func (x *xconn) KeyboardMapping(first xproto.Keycode, count int) (*xproto.GetKeyboardMappingReply, error) {
	return xproto.GetKeyboardMapping(x.c, first, byte(count)).Reply()
}

func (x *xconn) QueryPointer(win xproto.Window) (int, int, error) {
	reply, err := xproto.QueryPointer(x.c, win).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.WinX), int(reply.WinY), nil
}

func (x *xconn) WarpPointer(win xproto.Window, px, py int) {
	xproto.WarpPointer(x.c, xproto.WindowNone, win, 0, 0, 0, 0, int16(px), int16(py))
}

func (x *xconn) GrabPointer(win xproto.Window, cursor xproto.Cursor) error {
	mask := uint16(xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease | xproto.EventMaskPointerMotion)
	reply, err := xproto.GrabPointer(x.c, true, win, mask,
		xproto.GrabModeAsync, xproto.GrabModeAsync, win, cursor, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return err
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("grab pointer: status %d", reply.Status)
	}
	return nil
}

func (x *xconn) UngrabPointer() { xproto.UngrabPointer(x.c, xproto.TimeCurrentTime) }

func (x *xconn) BlankCursor(win xproto.Window) (xproto.Cursor, error) {
	pix, err := xproto.NewPixmapId(x.c)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreatePixmapChecked(x.c, 1, pix, xproto.Drawable(win), 1, 1).Check(); err != nil {
		return 0, fmt.Errorf("create cursor pixmap: %w", err)
	}
	defer xproto.FreePixmap(x.c, pix)
	cur, err := xproto.NewCursorId(x.c)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreateCursorChecked(x.c, cur, pix, pix, 0, 0, 0, 0, 0, 0, 0, 0).Check(); err != nil {
		return 0, fmt.Errorf("create cursor: %w", err)
	}
	return cur, nil
}

func (x *xconn) SetCursor(win xproto.Window, cursor xproto.Cursor) {
	xproto.ChangeWindowAttributes(x.c, win, xproto.CwCursor, []uint32{uint32(cursor)})
}

func (x *xconn) CreateGC(win xproto.Window) (xproto.Gcontext, error) {
	gc, err := xproto.NewGcontextId(x.c)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreateGCChecked(x.c, gc, xproto.Drawable(win), 0, nil).Check(); err != nil {
		return 0, err
	}
	return gc, nil
}

func (x *xconn) PutImage(win xproto.Window, gc xproto.Gcontext, w, h, px, py int, depth byte, data []byte) {
	xproto.PutImage(x.c, xproto.ImageFormatZPixmap, xproto.Drawable(win), gc,
		uint16(w), uint16(h), int16(px), int16(py), 0, depth, data)
}

func (x *xconn) Sync() { x.c.Sync() }

func (x *xconn) Close() { x.c.Close() }
