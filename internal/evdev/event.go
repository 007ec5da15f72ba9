package evdev

import "encoding/binary"

// EventSize is sizeof(struct input_event) on 64-bit kernels.
const EventSize = 24

type Event struct {
	Type  uint16
	Code  uint16
	Value int32
}

// DecodeEvents parses whole input_event records from b, ignoring a
// trailing partial record.
func DecodeEvents(b []byte, out []Event) []Event {
	for len(b) >= EventSize {
		out = append(out, Event{
			Type:  binary.LittleEndian.Uint16(b[16:18]),
			Code:  binary.LittleEndian.Uint16(b[18:20]),
			Value: int32(binary.LittleEndian.Uint32(b[20:24])),
		})
		b = b[EventSize:]
	}
	return out
}

// Motion is what one drain of a pointer device produced.
type Motion struct {
	DX      float64
	DY      float64
	WheelV  float64
	WheelH  float64
	Buttons []Event
}

// Accumulate folds pointer events into m.
func (m *Motion) Accumulate(evs []Event) {
	for _, ev := range evs {
		switch ev.Type {
		case EvRel:
			switch ev.Code {
			case RelX:
				m.DX += float64(ev.Value)
			case RelY:
				m.DY += float64(ev.Value)
			case RelWheel:
				m.WheelV += float64(ev.Value)
			case RelHWheel:
				m.WheelH += float64(ev.Value)
			}
		case EvKey:
			if ev.Code >= BtnLeft && ev.Code <= BtnExtra && ev.Value != 2 {
				m.Buttons = append(m.Buttons, ev)
			}
		}
	}
}
