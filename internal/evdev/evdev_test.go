package evdev

import (
	"encoding/binary"
	"testing"

	"hostwin/internal/input"
)

func record(typ, code uint16, value int32) []byte {
	b := make([]byte, EventSize)
	binary.LittleEndian.PutUint16(b[16:], typ)
	binary.LittleEndian.PutUint16(b[18:], code)
	binary.LittleEndian.PutUint32(b[20:], uint32(value))
	return b
}

func TestDecodeEventsIgnoresPartialRecord(t *testing.T) {
	var buf []byte
	buf = append(buf, record(EvRel, RelX, -3)...)
	buf = append(buf, record(EvKey, BtnLeft, 1)...)
	buf = append(buf, 0x01, 0x02)

	evs := DecodeEvents(buf, nil)
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Type != EvRel || evs[0].Value != -3 {
		t.Fatalf("unexpected first event: %#v", evs[0])
	}
}

func TestMotionAccumulates(t *testing.T) {
	var m Motion
	m.Accumulate([]Event{
		{EvRel, RelX, 3}, {EvRel, RelY, -2},
		{EvRel, RelX, 1}, {EvRel, RelY, 1},
		{EvRel, RelWheel, -1},
		{EvKey, BtnRight, 1}, {EvKey, BtnRight, 2},
		{EvSyn, 0, 0},
	})
	if m.DX != 4 || m.DY != -1 || m.WheelV != -1 {
		t.Fatalf("unexpected motion: %#v", m)
	}
	if len(m.Buttons) != 1 {
		t.Fatalf("autorepeat should be skipped, got %#v", m.Buttons)
	}
}

func TestKeySet(t *testing.T) {
	var ks KeySet
	ks.Set(BtnSouth, true)
	if !ks.Has(BtnSouth) || ks.Has(BtnEast) {
		t.Fatal("unexpected key set contents")
	}
	ks.Set(BtnSouth, false)
	if ks.Has(BtnSouth) {
		t.Fatal("bit not cleared")
	}
	if ks.Has(KeyCnt + 5) {
		t.Fatal("out of range code reported pressed")
	}
}

func TestSnapshotApply(t *testing.T) {
	state := &input.State{}
	pads := input.NewGamepads(state)
	port, _ := pads.Connect(7, &input.StandardBindings)

	var snap PadSnapshot
	snap.Keys.Set(BtnSouth, true)
	snap.HatY = -1
	snap.Sticks = [4]int{20, -20, 2048, 0}
	snap.Apply(pads, port, 0.016)

	if !pads.IsPressed(port, input.PadA) || !pads.IsPressed(port, input.PadUp) {
		t.Fatal("expected PadA and PadUp held")
	}
	if x, y := pads.AxisValue(port, input.AxisLeft); x != 0 || y != 0 {
		t.Fatalf("left stick inside dead zone should be 0, got %v,%v", x, y)
	}
	if x, _ := pads.AxisValue(port, input.AxisRight); x != 0.5 {
		t.Fatalf("unexpected right stick: %v", x)
	}
	if !pads.BindTriggered(port, input.BindForward) {
		t.Fatal("forward bind should follow the d-pad")
	}
}

func TestApplyKeys(t *testing.T) {
	state := &input.State{}
	var repeats int
	state.Hooks.Button = func(c input.Code, pressed, repeat bool) {
		if repeat {
			repeats++
		}
	}
	unknown := ApplyKeys(state, []Event{
		{EvKey, 30, 1}, {EvKey, 30, 2}, {EvSyn, 0, 0},
		{EvKey, 97, 1}, {EvKey, 240, 1}, {EvKey, 240, 2},
	})
	if len(unknown) != 1 || unknown[0] != 240 {
		t.Fatalf("unexpected unknown codes: %v", unknown)
	}
	if !state.IsPressed(input.KeyA) || !state.IsPressed(input.RCtrl) {
		t.Fatal("expected A and RCtrl held")
	}
	if repeats != 1 {
		t.Fatalf("expected one repeat, got %d", repeats)
	}
	ApplyKeys(state, []Event{{EvKey, 30, 0}})
	if state.IsPressed(input.KeyA) {
		t.Fatal("A should be released")
	}
}

func TestKeyCodeLayout(t *testing.T) {
	if KeyCode(51) != input.Comma || KeyCode(52) != input.Period || KeyCode(194) != input.F24 ||
		KeyCode(113) != input.VolumeMute || KeyCode(114) != input.VolumeDown {
		t.Fatal("unexpected key codes")
	}
	seen := make(map[input.Code]uint16)
	for code, c := range keyCodes {
		if prev, ok := seen[c]; ok {
			t.Fatalf("codes %d and %d both map to %v", prev, code, c)
		}
		seen[c] = code
	}
}
