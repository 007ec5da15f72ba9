//go:build !console && (ebiten || !linux)

package ebitenwin

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"hostwin/internal/input"
)

func TestMapKey(t *testing.T) {
	cases := []struct {
		key  ebiten.Key
		want input.Code
	}{
		{ebiten.KeyA, input.KeyA},
		{ebiten.KeyZ, input.KeyZ},
		{ebiten.KeyDigit7, input.Key7},
		{ebiten.KeyNumpad3, input.KP3},
		{ebiten.KeyF11, input.F11},
		{ebiten.KeyF24, input.F24},
		{ebiten.KeyBackquote, input.Tilde},
		{ebiten.KeyMetaRight, input.RWin},
		{ebiten.KeyNumpadEqual, input.None},
	}
	for _, tc := range cases {
		if got := mapKey(tc.key); got != tc.want {
			t.Fatalf("unexpected code for %s: %v", tc.key, got)
		}
	}
}

func TestKeyMappingIsInjective(t *testing.T) {
	seen := make(map[input.Code]ebiten.Key)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		code := mapKey(k)
		if code == input.None {
			continue
		}
		if prev, ok := seen[code]; ok {
			t.Fatalf("%s and %s both map to %v", prev, k, code)
		}
		seen[code] = k
	}
}

func TestAxisValueDeadZone(t *testing.T) {
	if v := axisValue(0.005); v != 0 {
		t.Fatalf("unexpected value inside dead zone: %v", v)
	}
	if v := axisValue(-1); v != -1 {
		t.Fatalf("unexpected full deflection: %v", v)
	}
	if v := axisValue(0.5); v != 0.5 {
		t.Fatalf("unexpected half deflection: %v", v)
	}
}
