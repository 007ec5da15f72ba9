//go:build linux

package evdev

import "hostwin/internal/input"

var stickAxes = [4]int{AbsX, AbsY, AbsRX, AbsRY}

// Gamepad samples a pad's full state on demand.
type Gamepad struct {
	dev   *Device
	info  [4]AbsInfo
	hasAx [4]bool
}

func OpenGamepad(path string) (*Gamepad, error) {
	dev, err := Open(path)
	if err != nil {
		return nil, err
	}
	g := &Gamepad{dev: dev}
	for i, ax := range stickAxes {
		if info, err := dev.Abs(ax); err == nil && info.Maximum > info.Minimum {
			g.info[i] = info
			g.hasAx[i] = true
		}
	}
	return g, nil
}

func (g *Gamepad) Name() string { return g.dev.Name() }
func (g *Gamepad) Close() error { return g.dev.Close() }

// Poll reads the current keys and stick positions. Sticks are scaled to
// the +/-input.AxisRange scale.
func (g *Gamepad) Poll() (PadSnapshot, error) {
	var snap PadSnapshot
	keys, err := g.dev.Keys()
	if err != nil {
		return snap, err
	}
	snap.Keys = keys
	for i, ax := range stickAxes {
		if !g.hasAx[i] {
			continue
		}
		info, err := g.dev.Abs(ax)
		if err != nil {
			return snap, err
		}
		snap.Sticks[i] = input.ScaleAxis(int(info.Value), int(g.info[i].Minimum), int(g.info[i].Maximum))
	}
	if hx, err := g.dev.Abs(AbsHat0X); err == nil {
		snap.HatX = int(hx.Value)
	}
	if hy, err := g.dev.Abs(AbsHat0Y); err == nil {
		snap.HatY = int(hy.Value)
	}
	return snap, nil
}

// Pointer is a relative pointing device.
type Pointer struct {
	dev *Device
	evs []Event
}

func OpenPointer(path string) (*Pointer, error) {
	dev, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &Pointer{dev: dev}, nil
}

func (p *Pointer) Close() error { return p.dev.Close() }

// Drain collects all motion queued since the last call.
func (p *Pointer) Drain() (Motion, error) {
	var m Motion
	evs, err := p.dev.ReadEvents(p.evs[:0])
	p.evs = evs
	m.Accumulate(evs)
	return m, err
}

// Keyboard is a key device whose events are drained each frame.
type Keyboard struct {
	dev *Device
	evs []Event
}

func OpenKeyboard(path string) (*Keyboard, error) {
	dev, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &Keyboard{dev: dev}, nil
}

func (k *Keyboard) Close() error { return k.dev.Close() }

// Drain returns the events queued since the last call. The slice is reused.
func (k *Keyboard) Drain() ([]Event, error) {
	evs, err := k.dev.ReadEvents(k.evs[:0])
	k.evs = evs
	return evs, err
}
