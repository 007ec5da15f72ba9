package evdev

import "hostwin/internal/input"

// PadSnapshot is one sample of a gamepad. Sticks holds LX, LY, RX, RY on
// the +/-input.AxisRange scale.
type PadSnapshot struct {
	Keys   KeySet
	Sticks [4]int
	HatX   int
	HatY   int
}

var standardButtons = []struct {
	code uint16
	btn  input.Code
}{
	{BtnSouth, input.PadA},
	{BtnEast, input.PadB},
	{BtnWest, input.PadX},
	{BtnNorth, input.PadY},
	{BtnTL, input.PadL},
	{BtnTR, input.PadR},
	{BtnTL2, input.PadZL},
	{BtnTR2, input.PadZR},
	{BtnSelect, input.PadSelect},
	{BtnStart, input.PadStart},
	{BtnThumbL, input.PadLStick},
	{BtnThumbR, input.PadRStick},
}

// Pressed reports a button, folding the hat switch into the d-pad.
func (s *PadSnapshot) Pressed(c input.Code) bool {
	switch c {
	case input.PadUp:
		return s.HatY < 0 || s.Keys.Has(BtnDpadUp)
	case input.PadDown:
		return s.HatY > 0 || s.Keys.Has(BtnDpadDown)
	case input.PadLeft:
		return s.HatX < 0 || s.Keys.Has(BtnDpadLeft)
	case input.PadRight:
		return s.HatX > 0 || s.Keys.Has(BtnDpadRight)
	}
	for _, b := range standardButtons {
		if b.btn == c {
			return s.Keys.Has(b.code)
		}
	}
	return false
}

// Apply feeds the snapshot to port using the standard Linux layout.
func (s *PadSnapshot) Apply(pads *input.Gamepads, port int, dt float64) {
	for _, b := range standardButtons {
		pads.SetButton(port, b.btn, s.Keys.Has(b.code))
	}
	for _, c := range []input.Code{input.PadUp, input.PadDown, input.PadLeft, input.PadRight} {
		pads.SetButton(port, c, s.Pressed(c))
	}
	pads.SetAxis(port, input.AxisLeft, input.NormalizeAxis(s.Sticks[0]), input.NormalizeAxis(s.Sticks[1]), dt)
	pads.SetAxis(port, input.AxisRight, input.NormalizeAxis(s.Sticks[2]), input.NormalizeAxis(s.Sticks[3]), dt)
}
