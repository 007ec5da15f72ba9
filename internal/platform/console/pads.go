//go:build linux && console

package console

import (
	"hostwin/internal/evdev"
	"hostwin/internal/input"
)

// padDeviceID identifies the console controller in the port table.
const padDeviceID = 0x504

// Button bits as reported by the console pad service.
const (
	padL3       = 0x0002
	padR3       = 0x0004
	padOptions  = 0x0008
	padUp       = 0x0010
	padRight    = 0x0020
	padDown     = 0x0040
	padLeft     = 0x0080
	padL2       = 0x0100
	padR2       = 0x0200
	padL1       = 0x0400
	padR1       = 0x0800
	padTriangle = 0x1000
	padCircle   = 0x2000
	padCross    = 0x4000
	padSquare   = 0x8000
)

// PadData is one controller sample. Sticks are unsigned bytes centred
// on 0x80.
type PadData struct {
	Buttons uint32
	LeftX   uint8
	LeftY   uint8
	RightX  uint8
	RightY  uint8
}

type PadReader interface {
	Read() (PadData, error)
	Close() error
}

var padButtons = []struct {
	bit  uint32
	code input.Code
}{
	{padCircle, input.PadA},
	{padCross, input.PadB},
	{padSquare, input.PadX},
	{padTriangle, input.PadY},
	{padOptions, input.PadStart},
	{padL3, input.PadLStick},
	{padR3, input.PadRStick},
	{padLeft, input.PadLeft},
	{padRight, input.PadRight},
	{padUp, input.PadUp},
	{padDown, input.PadDown},
	{padL1, input.PadL},
	{padR1, input.PadR},
	{padL2, input.PadZL},
	{padR2, input.PadZR},
}

// stickScale widens a byte deflection to the +/-input.AxisRange scale.
const stickScale = input.AxisRange / 0x80

func stickValue(v uint8) float64 {
	return input.NormalizeAxis((int(v) - 0x80) * stickScale)
}

// applyPad feeds one sample to port.
func applyPad(pads *input.Gamepads, port int, d PadData, dt float64) {
	for _, b := range padButtons {
		pads.SetButton(port, b.code, d.Buttons&b.bit != 0)
	}
	pads.SetAxis(port, input.AxisLeft, stickValue(d.LeftX), stickValue(d.LeftY), dt)
	pads.SetAxis(port, input.AxisRight, stickValue(d.RightX), stickValue(d.RightY), dt)
}

// evdevPad presents a Linux DualShock style gamepad as the console pad
// service. The kernel reports cross as BTN_SOUTH and circle as BTN_EAST.
type evdevPad struct {
	pad *evdev.Gamepad
}

var evdevPadButtons = []struct {
	code input.Code
	bit  uint32
}{
	{input.PadA, padCross},
	{input.PadB, padCircle},
	{input.PadX, padSquare},
	{input.PadY, padTriangle},
	{input.PadStart, padOptions},
	{input.PadLStick, padL3},
	{input.PadRStick, padR3},
	{input.PadUp, padUp},
	{input.PadDown, padDown},
	{input.PadLeft, padLeft},
	{input.PadRight, padRight},
	{input.PadL, padL1},
	{input.PadR, padR1},
	{input.PadZL, padL2},
	{input.PadZR, padR2},
}

func (p *evdevPad) Read() (PadData, error) {
	snap, err := p.pad.Poll()
	if err != nil {
		return PadData{}, err
	}
	return padDataFromSnapshot(&snap), nil
}

func (p *evdevPad) Close() error { return p.pad.Close() }

func padDataFromSnapshot(s *evdev.PadSnapshot) PadData {
	var d PadData
	for _, b := range evdevPadButtons {
		if s.Pressed(b.code) {
			d.Buttons |= b.bit
		}
	}
	d.LeftX = stickByte(s.Sticks[0])
	d.LeftY = stickByte(s.Sticks[1])
	d.RightX = stickByte(s.Sticks[2])
	d.RightY = stickByte(s.Sticks[3])
	return d
}

func stickByte(v int) uint8 {
	b := v/stickScale + 0x80
	return uint8(max(0, min(0xff, b)))
}
