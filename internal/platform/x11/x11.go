//go:build linux && !console && !ebiten

// Package x11 is the desktop backend for Linux and BSD hosts running an X
// server. It speaks the core protocol through xgb.
package x11

import (
	"encoding/binary"
	"log/slog"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"hostwin/internal/clipboard"
	"hostwin/internal/options"
	"hostwin/internal/platform"
)

const windowEventMask = xproto.EventMaskStructureNotify | xproto.EventMaskSubstructureNotify |
	xproto.EventMaskExposure | xproto.EventMaskKeyRelease | xproto.EventMaskKeyPress |
	xproto.EventMaskKeymapState | xproto.EventMaskPointerMotion | xproto.EventMaskFocusChange |
	xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease |
	xproto.EventMaskEnterWindow | xproto.EventMaskLeaveWindow | xproto.EventMaskPropertyChange

// _NET_WM_STATE client message actions.
const (
	netWMStateRemove = 0
	netWMStateAdd    = 1
)

const appClass = "hostwin"

type atoms struct {
	wmProtocols xproto.Atom
	wmDelete    xproto.Atom
	netWMState  xproto.Atom
	netWMPing   xproto.Atom
	netWMIcon   xproto.Atom
	stateHidden xproto.Atom
	stateFull   xproto.Atom
	clipboard   xproto.Atom
	targets     xproto.Atom
	utf8        xproto.Atom
	selData     xproto.Atom
}

func (a *atoms) intern(d display) error {
	for _, it := range []struct {
		dst          *xproto.Atom
		name         string
		onlyIfExists bool
	}{
		{&a.wmProtocols, "WM_PROTOCOLS", false},
		{&a.wmDelete, "WM_DELETE_WINDOW", true},
		{&a.netWMState, "_NET_WM_STATE", false},
		{&a.netWMPing, "_NET_WM_PING", false},
		{&a.netWMIcon, "_NET_WM_ICON", false},
		{&a.stateHidden, "_NET_WM_STATE_HIDDEN", false},
		{&a.stateFull, "_NET_WM_STATE_FULLSCREEN", false},
		{&a.clipboard, "CLIPBOARD", false},
		{&a.targets, "TARGETS", false},
		{&a.utf8, "UTF8_STRING", false},
		{&a.selData, "HOSTWIN_SEL_DATA", false},
	} {
		atom, err := d.InternAtom(it.name, it.onlyIfExists)
		if err != nil {
			return err
		}
		*it.dst = atom
	}
	return nil
}

func (a *atoms) selection() clipboard.Atoms {
	return clipboard.Atoms{
		Clipboard: uint32(a.clipboard),
		Targets:   uint32(a.targets),
		UTF8:      uint32(a.utf8),
		Atom:      xproto.AtomAtom,
	}
}

// Backend implements platform.Backend on an X server.
type Backend struct {
	ctx *platform.Context
	log *slog.Logger

	connect func() (display, error)
	d       display
	win     xproto.Window
	// winGone is set once the server reported the window destroyed.
	winGone bool
	atoms   atoms
	keys    *keymap

	// lookahead holds an event read while checking for autorepeat.
	lookahead xgb.Event

	grabCursor bool
	blank      xproto.Cursor
	rawLogged  bool

	gc      xproto.Gcontext
	scratch []byte

	waiter clipboard.Waiter
	pads   padSet
}

var _ platform.Backend = (*Backend)(nil)

func New(ctx *platform.Context) *Backend {
	return &Backend{
		ctx: ctx,
		log: ctx.Log.With("backend", "x11"),
		connect: func() (display, error) {
			c, err := dial("")
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		waiter: clipboard.DefaultWaiter(),
	}
}

func (b *Backend) Name() string { return "x11" }

func (b *Backend) Init() {
	d, err := b.connect()
	if err != nil {
		b.ctx.Fatal("failed to open the X11 display, no X server running?", err)
		return
	}
	b.d = d
	s := d.Screen()
	b.ctx.Display.Width = s.Width
	b.ctx.Display.Height = s.Height
	b.ctx.Display.Depth = s.Depth
	b.ctx.Display.ScaleX = 1
	b.ctx.Display.ScaleY = 1
	b.ctx.Display.ContentOffsetX = b.ctx.Options.GetInt(options.ContentOffsetX, 20)
	b.ctx.Display.ContentOffsetY = b.ctx.Options.GetInt(options.ContentOffsetY, 20)

	if err := b.atoms.intern(d); err != nil {
		b.ctx.Fatal("failed to register X11 atoms", err)
		return
	}
	if b.keys, err = loadKeymap(d); err != nil {
		b.log.Warn("keyboard mapping unavailable, using keycodes only", "error", err)
	}
	b.pads.open(b.ctx, b.log)
	b.log.Info("display opened", "width", s.Width, "height", s.Height, "depth", s.Depth)
}

func (b *Backend) Create(width, height int, is3D bool) {
	x := b.ctx.CentreX(width)
	y := b.ctx.CentreY(height)
	win, err := b.d.CreateWindow(x, y, width, height, windowEventMask)
	if err != nil {
		b.ctx.Fatal("failed to create window", err)
		return
	}
	b.win = win
	b.winGone = false
	b.log.Debug("window created", "depth", b.d.Screen().Depth, "visual", b.d.Screen().Visual)

	// WM_NORMAL_HINTS with PPosition|PSize so WMs honour the centred position.
	hints := make([]byte, 18*4)
	for i, v := range []int{4 | 8, x, y, width, height} {
		binary.LittleEndian.PutUint32(hints[i*4:], uint32(v))
	}
	binary.LittleEndian.PutUint32(hints[15*4:], uint32(width))
	binary.LittleEndian.PutUint32(hints[16*4:], uint32(height))
	b.d.ChangeProperty(win, xproto.AtomWmNormalHints, xproto.AtomWmSizeHints, 32, hints)

	protocols := make([]byte, 8)
	binary.LittleEndian.PutUint32(protocols[0:], uint32(b.atoms.wmDelete))
	binary.LittleEndian.PutUint32(protocols[4:], uint32(b.atoms.netWMPing))
	b.d.ChangeProperty(win, b.atoms.wmProtocols, xproto.AtomAtom, 32, protocols)

	b.ctx.SetBounds(width, height)
	b.ctx.Window.Exists = true
	b.ctx.Window.Handle = uintptr(win)
	b.ctx.Window.UIScaleX = platform.DefaultUIScale
	b.ctx.Window.UIScaleY = platform.DefaultUIScale
	b.ctx.Window.Is3D = is3D
	b.grabCursor = b.ctx.Options.GetBool(options.GrabCursor, false)

	// res_name and res_class, so launchers group the window correctly
	b.d.ChangeProperty(win, xproto.AtomWmClass, xproto.AtomString, 8, []byte(appClass+"\x00"+appClass+"\x00"))
	b.d.ChangeProperty(win, b.atoms.netWMIcon, xproto.AtomCardinal, 32, iconData())

	// not every WM sends FocusIn for the first map
	if focus, err := b.d.InputFocus(); err == nil && focus == win {
		b.ctx.Window.Focused = true
	}
}

// Destroy releases the window, the pads and the connection. It also runs
// after the window manager closed the window, when Exists is already false.
func (b *Backend) Destroy() {
	if b.d == nil {
		return
	}
	if b.win != 0 {
		b.d.Sync()
		b.lookahead = nil
		for {
			ev, err := b.d.PollEvent()
			if ev == nil && err == nil {
				break
			}
		}
		if !b.winGone {
			b.d.DestroyWindow(b.win)
		}
		b.win = 0
	}
	b.ctx.Window.Exists = false
	b.pads.close()
	b.d.Close()
	b.d = nil
}

func (b *Backend) SetTitle(title string) {
	b.d.ChangeProperty(b.win, xproto.AtomWmName, b.atoms.utf8, 8, []byte(title))
}

func (b *Backend) Show() { b.d.MapWindow(b.win) }

func (b *Backend) SetSize(width, height int) {
	b.d.Resize(b.win, width, height)
	b.ProcessEvents(0)
}

func (b *Backend) RequestClose() { b.ctx.RaiseVoid(platform.EventClosing) }

func (b *Backend) EnterFullscreen() error {
	b.toggleFullscreen(netWMStateAdd)
	return nil
}

func (b *Backend) ExitFullscreen() error {
	b.toggleFullscreen(netWMStateRemove)
	return nil
}

func (b *Backend) toggleFullscreen(op uint32) {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: b.win,
		Type:   b.atoms.netWMState,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{op, uint32(b.atoms.stateFull), 0, 0, 0}),
	}
	root := b.d.Screen().Root
	b.d.SendEvent(root, false, xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify, ev.Bytes())
	b.d.Sync()
	b.d.Raise(b.win)
	b.ProcessEvents(0)
}

func (b *Backend) WindowMode() platform.WindowMode {
	reply, err := b.d.GetProperty(b.win, b.atoms.netWMState, xproto.AtomAtom, 256)
	if err != nil || reply == nil || reply.Format != 32 {
		return platform.WindowNormal
	}
	fullscreen, minimized := false, false
	for i := 0; i+4 <= len(reply.Value); i += 4 {
		switch xproto.Atom(binary.LittleEndian.Uint32(reply.Value[i:])) {
		case b.atoms.stateFull:
			fullscreen = true
		case b.atoms.stateHidden:
			minimized = true
		}
	}
	switch {
	case fullscreen:
		return platform.WindowFullscreen
	case minimized:
		return platform.WindowMinimized
	}
	return platform.WindowNormal
}

func (b *Backend) Run(frame func(delta float64) error) error {
	return platform.RunLoop(b.ctx, frame)
}

// iconData renders the 16x16 _NET_WM_ICON: width, height, then ARGB rows.
func iconData() []byte {
	const size = 16
	buf := make([]byte, (2+size*size)*4)
	binary.LittleEndian.PutUint32(buf[0:], size)
	binary.LittleEndian.PutUint32(buf[4:], size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			px := uint32(0xff2f3a4a)
			switch {
			case x == 0 || y == 0 || x == size-1 || y == size-1:
				px = 0xff101418
			case y < 4:
				px = 0xff4f8fd8
			}
			binary.LittleEndian.PutUint32(buf[(2+y*size+x)*4:], px)
		}
	}
	return buf
}
