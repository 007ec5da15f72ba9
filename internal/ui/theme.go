package ui

import "image/color"

type Theme struct {
	Background  color.RGBA
	TopBar      color.RGBA
	TopBarText  color.RGBA
	Viewport    color.RGBA
	Horizon     color.RGBA
	Ground      color.RGBA
	Border      color.RGBA
	StatusBar   color.RGBA
	Text        color.RGBA
	Accent      color.RGBA
	Crosshair   color.RGBA
	TopBarDp    int
	StatusDp    int
	MarginDp    int
	LineSpaceDp int
}

func DefaultTheme() Theme {
	return Theme{
		Background:  color.RGBA{0xF3, 0xF5, 0xF8, 0xFF},
		TopBar:      color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		TopBarText:  color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		Viewport:    color.RGBA{0x8F, 0xB8, 0xE8, 0xFF},
		Horizon:     color.RGBA{0xE2, 0xE7, 0xEF, 0xFF},
		Ground:      color.RGBA{0x5D, 0x7A, 0x4A, 0xFF},
		Border:      color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		StatusBar:   color.RGBA{0xEA, 0xEF, 0xF6, 0xFF},
		Text:        color.RGBA{0x2A, 0x38, 0x50, 0xFF},
		Accent:      color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		Crosshair:   color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		TopBarDp:    28,
		StatusDp:    22,
		MarginDp:    12,
		LineSpaceDp: 16,
	}
}
