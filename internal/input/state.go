package input

import "math"

// MaxPorts bounds the number of local players and gamepads.
const MaxPorts = 4

// Hooks receives the transitions State raises. Nil hooks are skipped.
type Hooks struct {
	Button    func(c Code, pressed, repeat bool)
	Pointer   func(port, x, y int)
	RawMove   func(port int, dx, dy float64)
	Scroll    func(dx, dy float64)
	PadButton func(port int, c Code, pressed bool)
	PadAxis   func(port int, axis Axis, x, y, dt float64)
}

// RawAccumulator sums relative motion between consumer reads.
type RawAccumulator struct {
	DeltaX float64
	DeltaY float64
}

// State tracks pressed keys and buttons, pointer positions and raw motion.
type State struct {
	Hooks   Hooks
	RawMode bool

	pressed [CodeCount]bool
	pointer [MaxPorts][2]int
	raw     [MaxPorts]RawAccumulator
}

func (s *State) IsPressed(c Code) bool {
	if c <= None || c >= CodeCount {
		return false
	}
	return s.pressed[c]
}

// SetPressed marks c held. Pressing a key that is already held reports a
// repeat to the Button hook.
func (s *State) SetPressed(c Code) {
	if c <= None || c >= CodeCount {
		return
	}
	repeat := s.pressed[c]
	s.pressed[c] = true
	if s.Hooks.Button != nil {
		s.Hooks.Button(c, true, repeat)
	}
}

// SetReleased marks c up. Releasing a key that is not held is ignored.
func (s *State) SetReleased(c Code) {
	if c <= None || c >= CodeCount || !s.pressed[c] {
		return
	}
	s.pressed[c] = false
	if s.Hooks.Button != nil {
		s.Hooks.Button(c, false, false)
	}
}

func (s *State) Set(c Code, pressed bool) {
	if pressed {
		s.SetPressed(c)
	} else {
		s.SetReleased(c)
	}
}

// SetNonRepeatable only reports real transitions.
func (s *State) SetNonRepeatable(c Code, pressed bool) {
	if s.IsPressed(c) == pressed {
		return
	}
	s.Set(c, pressed)
}

// Clear releases everything currently held.
func (s *State) Clear() {
	for c := None + 1; c < CodeCount; c++ {
		s.SetReleased(c)
	}
}

func (s *State) IsCtrlPressed() bool { return s.pressed[LCtrl] || s.pressed[RCtrl] }

func (s *State) SetPointer(port, x, y int) {
	if port < 0 || port >= MaxPorts {
		return
	}
	s.pointer[port] = [2]int{x, y}
	if s.Hooks.Pointer != nil {
		s.Hooks.Pointer(port, x, y)
	}
}

func (s *State) Pointer(port int) (x, y int) {
	if port < 0 || port >= MaxPorts {
		return 0, 0
	}
	return s.pointer[port][0], s.pointer[port][1]
}

func (s *State) ScrollV(delta float64) {
	if s.Hooks.Scroll != nil {
		s.Hooks.Scroll(0, delta)
	}
}

func (s *State) ScrollH(delta float64) {
	if s.Hooks.Scroll != nil {
		s.Hooks.Scroll(delta, 0)
	}
}

// AddRaw accumulates relative motion for port. Motion within one frame
// always sums, so order does not matter.
func (s *State) AddRaw(port int, dx, dy float64) {
	if port < 0 || port >= MaxPorts {
		return
	}
	s.raw[port].DeltaX += dx
	s.raw[port].DeltaY += dy
	if s.Hooks.RawMove != nil {
		s.Hooks.RawMove(port, dx, dy)
	}
}

// PeekRaw reads the accumulated motion without resetting it.
func (s *State) PeekRaw(port int) RawAccumulator {
	if port < 0 || port >= MaxPorts {
		return RawAccumulator{}
	}
	return s.raw[port]
}

// ConsumeRaw returns the accumulated motion for port and zeroes it.
func (s *State) ConsumeRaw(port int) (dx, dy float64) {
	if port < 0 || port >= MaxPorts {
		return 0, 0
	}
	acc := s.raw[port]
	s.raw[port] = RawAccumulator{}
	return acc.DeltaX, acc.DeltaY
}

// RawMotionCheck spots raw motion sources that report absolute positions.
// A source is trusted as soon as one sample is below the limits; after
// MaxFails samples that all exceed them it is disabled.
type RawMotionCheck struct {
	LimitX   float64
	LimitY   float64
	MaxFails int

	valid    bool
	disabled bool
	fails    int
}

// NewRawMotionCheck uses limits of roughly half the default 854x480 window.
func NewRawMotionCheck() *RawMotionCheck {
	return &RawMotionCheck{LimitX: 300, LimitY: 200, MaxFails: 20}
}

// Observe records one sample. It returns false once the source is judged
// absolute; disabledNow is true only for the sample that flipped it.
func (c *RawMotionCheck) Observe(dx, dy float64) (ok, disabledNow bool) {
	if c.disabled {
		return false, false
	}
	if c.valid {
		return true, false
	}
	if math.Abs(dx) < c.LimitX || math.Abs(dy) < c.LimitY {
		c.valid = true
		return true, false
	}
	c.fails++
	if c.fails <= c.MaxFails {
		return true, false
	}
	c.disabled = true
	return false, true
}

func (c *RawMotionCheck) Disabled() bool { return c.disabled }
