// Package evdev reads Linux input devices: gamepads are sampled with
// ioctls once per frame, pointers are drained of queued events.
package evdev

const (
	EvSyn = 0x00
	EvKey = 0x01
	EvRel = 0x02
	EvAbs = 0x03
)

const (
	RelX      = 0x00
	RelY      = 0x01
	RelHWheel = 0x06
	RelWheel  = 0x08
)

const (
	AbsX     = 0x00
	AbsY     = 0x01
	AbsZ     = 0x02
	AbsRX    = 0x03
	AbsRY    = 0x04
	AbsRZ    = 0x05
	AbsHat0X = 0x10
	AbsHat0Y = 0x11
	AbsCount = 0x40
)

const (
	BtnLeft   = 0x110
	BtnRight  = 0x111
	BtnMiddle = 0x112
	BtnSide   = 0x113
	BtnExtra  = 0x114

	BtnSouth  = 0x130
	BtnEast   = 0x131
	BtnNorth  = 0x133
	BtnWest   = 0x134
	BtnTL     = 0x136
	BtnTR     = 0x137
	BtnTL2    = 0x138
	BtnTR2    = 0x139
	BtnSelect = 0x13a
	BtnStart  = 0x13b
	BtnMode   = 0x13c
	BtnThumbL = 0x13d
	BtnThumbR = 0x13e

	BtnDpadUp    = 0x220
	BtnDpadDown  = 0x221
	BtnDpadLeft  = 0x222
	BtnDpadRight = 0x223

	KeyMax = 0x2ff
	KeyCnt = KeyMax + 1
)

// KeySet is the key state bitmask the kernel fills for EVIOCGKEY.
type KeySet [KeyCnt / 8]byte

func (k *KeySet) Has(code uint16) bool {
	if int(code) >= KeyCnt {
		return false
	}
	return k[code/8]&(1<<(code%8)) != 0
}

func (k *KeySet) Set(code uint16, on bool) {
	if int(code) >= KeyCnt {
		return
	}
	if on {
		k[code/8] |= 1 << (code % 8)
	} else {
		k[code/8] &^= 1 << (code % 8)
	}
}

// AbsInfo mirrors struct input_absinfo.
type AbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}
