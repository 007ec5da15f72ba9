package input

import (
	"errors"
	"fmt"
)

const (
	// AxisRange is the magnitude of a full stick deflection in raw units.
	AxisRange = 4096
	// AxisDeadZone is the largest raw magnitude treated as centred.
	AxisDeadZone = 32
)

var ErrNoFreePort = errors.New("no free gamepad port")

type Axis int

const (
	AxisLeft Axis = iota
	AxisRight
	axisCount
)

func (a Axis) String() string {
	if a == AxisLeft {
		return "left"
	}
	return "right"
}

// NormalizeAxis maps a raw stick value on the +/-AxisRange scale to
// [-1, 1], returning exactly 0 inside the dead zone.
func NormalizeAxis(raw int) float64 {
	if raw >= -AxisDeadZone && raw <= AxisDeadZone {
		return 0
	}
	v := float64(raw) / AxisRange
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return v
}

// ScaleAxis converts a reading in [min, max] to the +/-AxisRange scale.
func ScaleAxis(value, min, max int) int {
	if max <= min {
		return 0
	}
	centre := (min + max) / 2
	half := float64(max-min) / 2
	return int(float64(value-centre) / half * AxisRange)
}

type port struct {
	connected bool
	deviceID  int
	bindings  *BindingTable
	pressed   [CodeCount]bool
	axes      [axisCount][2]float64
}

// Gamepads owns the fixed set of local gamepad ports.
type Gamepads struct {
	state *State
	ports [MaxPorts]port
}

func NewGamepads(state *State) *Gamepads {
	return &Gamepads{state: state}
}

// Connect returns the port already bound to deviceID, or claims the first
// free one.
func (g *Gamepads) Connect(deviceID int, table *BindingTable) (int, error) {
	free := -1
	for i := range g.ports {
		p := &g.ports[i]
		if p.connected && p.deviceID == deviceID {
			return i, nil
		}
		if !p.connected && free < 0 {
			free = i
		}
	}
	if free < 0 {
		return -1, fmt.Errorf("device %#x: %w", deviceID, ErrNoFreePort)
	}
	g.ports[free] = port{connected: true, deviceID: deviceID, bindings: table}
	return free, nil
}

// Disconnect releases every button held on port and frees it.
func (g *Gamepads) Disconnect(p int) {
	if !g.valid(p) {
		return
	}
	for c := PadA; c <= PadRight; c++ {
		g.SetButton(p, c, false)
	}
	g.ports[p] = port{}
}

func (g *Gamepads) valid(p int) bool {
	return p >= 0 && p < MaxPorts && g.ports[p].connected
}

func (g *Gamepads) Connected(p int) bool { return g.valid(p) }

// SetButton records a button sample; only transitions are reported.
func (g *Gamepads) SetButton(p int, c Code, pressed bool) {
	if !g.valid(p) || !c.IsGamepad() {
		return
	}
	if g.ports[p].pressed[c] == pressed {
		return
	}
	g.ports[p].pressed[c] = pressed
	if g.state != nil {
		g.state.SetNonRepeatable(c, pressed || g.anyOtherHolds(p, c))
		if g.state.Hooks.PadButton != nil {
			g.state.Hooks.PadButton(p, c, pressed)
		}
	}
}

func (g *Gamepads) anyOtherHolds(skip int, c Code) bool {
	for i := range g.ports {
		if i != skip && g.ports[i].connected && g.ports[i].pressed[c] {
			return true
		}
	}
	return false
}

func (g *Gamepads) IsPressed(p int, c Code) bool {
	if !g.valid(p) || !c.IsGamepad() {
		return false
	}
	return g.ports[p].pressed[c]
}

// SetAxis stores normalized stick values and reports any deflection.
func (g *Gamepads) SetAxis(p int, axis Axis, x, y, dt float64) {
	if !g.valid(p) || axis < 0 || axis >= axisCount {
		return
	}
	g.ports[p].axes[axis] = [2]float64{x, y}
	if x == 0 && y == 0 {
		return
	}
	if g.state != nil && g.state.Hooks.PadAxis != nil {
		g.state.Hooks.PadAxis(p, axis, x, y, dt)
	}
}

func (g *Gamepads) AxisValue(p int, axis Axis) (x, y float64) {
	if !g.valid(p) || axis < 0 || axis >= axisCount {
		return 0, 0
	}
	v := g.ports[p].axes[axis]
	return v[0], v[1]
}

// BindTriggered reports whether port p currently holds the buttons of bind.
func (g *Gamepads) BindTriggered(p int, b Bind) bool {
	if !g.valid(p) || g.ports[p].bindings == nil || b < 0 || b >= BindCount {
		return false
	}
	m := g.ports[p].bindings[b]
	if m.Button1 == None || !g.ports[p].pressed[m.Button1] {
		return false
	}
	return m.Button2 == None || g.ports[p].pressed[m.Button2]
}
