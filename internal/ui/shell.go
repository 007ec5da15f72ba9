package ui

import (
	"math"

	"hostwin/internal/render"
)

type Layout struct {
	TopBarH int
	StatusH int
	StatusY int
	ViewX   int
	ViewY   int
	ViewW   int
	ViewH   int
	PanelX  int
	PanelY  int
	PanelW  int
	PanelH  int
}

// Frame is what one HUD frame shows.
type Frame struct {
	Title     string
	Status    string
	Yaw       float64 // degrees, any range
	Pitch     float64 // degrees, clamped to +/-90
	Lines     []string
	Crosshair bool
}

func ComputeLayout(w, h int, theme Theme, scale float32) Layout {
	if scale <= 0 {
		scale = 1
	}
	dp := func(v int) int { return int(float32(v) * scale) }

	topH := dp(theme.TopBarDp)
	statusH := dp(theme.StatusDp)
	margin := dp(theme.MarginDp)

	bodyY := topH + margin
	bodyH := max(0, h-topH-statusH-margin*2)
	panelW := max(dp(160), w/3)
	viewW := max(0, w-panelW-margin*3)
	if viewW < dp(120) {
		// too narrow for a side panel
		panelW = 0
		viewW = max(0, w-margin*2)
	}

	return Layout{
		TopBarH: topH,
		StatusH: statusH,
		StatusY: h - statusH,
		ViewX:   margin,
		ViewY:   bodyY,
		ViewW:   viewW,
		ViewH:   bodyH,
		PanelX:  margin*2 + viewW,
		PanelY:  bodyY,
		PanelW:  panelW,
		PanelH:  bodyH,
	}
}

// DrawShell paints the whole HUD into fb and returns its layout.
func DrawShell(fb *render.FrameBuffer, f Frame, theme Theme, faces Faces, scale float32) Layout {
	layout := ComputeLayout(fb.W, fb.H, theme, scale)

	fb.Clear(theme.Background)

	fb.FillRect(0, 0, fb.W, layout.TopBarH, theme.TopBar)
	DrawText(fb, faces.Title, layout.ViewX, baseline(faces.Title, 0, layout.TopBarH), theme.TopBarText, f.Title)

	drawViewport(fb, layout, f, theme)

	if layout.PanelW > 0 {
		fb.FillRect(layout.PanelX, layout.PanelY, layout.PanelW, layout.PanelH, theme.StatusBar)
		fb.StrokeRect(layout.PanelX, layout.PanelY, layout.PanelW, layout.PanelH, 1, theme.Border)
		line := int(float32(theme.LineSpaceDp) * scale)
		y := layout.PanelY + line
		for _, s := range f.Lines {
			if y > layout.PanelY+layout.PanelH-4 {
				break
			}
			DrawText(fb, faces.Body, layout.PanelX+6, y, theme.Text, s)
			y += line
		}
	}

	fb.FillRect(0, layout.StatusY, fb.W, layout.StatusH, theme.StatusBar)
	fb.StrokeRect(0, layout.StatusY, fb.W, layout.StatusH, 1, theme.Border)
	DrawText(fb, faces.Body, layout.ViewX, baseline(faces.Body, layout.StatusY, layout.StatusH), theme.Text, f.Status)
	return layout
}

// HorizonY is where the horizon crosses the viewport for a pitch.
func HorizonY(l Layout, pitch float64) int {
	pitch = math.Max(-90, math.Min(90, pitch))
	return l.ViewY + l.ViewH/2 + int(pitch/90*float64(l.ViewH)/2)
}

// markerStep is the spacing of the heading marks in degrees.
const markerStep = 45

func drawViewport(fb *render.FrameBuffer, l Layout, f Frame, theme Theme) {
	if l.ViewW <= 0 || l.ViewH <= 0 {
		return
	}
	hy := HorizonY(l, f.Pitch)
	fb.FillRect(l.ViewX, l.ViewY, l.ViewW, hy-l.ViewY, theme.Viewport)
	fb.FillRect(l.ViewX, hy, l.ViewW, l.ViewY+l.ViewH-hy, theme.Ground)
	fb.FillRect(l.ViewX, hy, l.ViewW, 1, theme.Horizon)

	// a 90 degree field of view across the viewport
	pxPerDeg := float64(l.ViewW) / 90
	cx := l.ViewX + l.ViewW/2
	yaw := math.Mod(f.Yaw, 360)
	for a := -180; a < 180+markerStep; a += markerStep {
		off := float64(a) - yaw
		for off > 180 {
			off -= 360
		}
		for off < -180 {
			off += 360
		}
		x := cx + int(off*pxPerDeg)
		if x < l.ViewX || x >= l.ViewX+l.ViewW {
			continue
		}
		h := 6
		if a%90 == 0 {
			h = 12
		}
		fb.FillRect(x, hy-h, 1, h*2, theme.Horizon)
	}
	fb.StrokeRect(l.ViewX, l.ViewY, l.ViewW, l.ViewH, 1, theme.Border)

	if f.Crosshair {
		cy := l.ViewY + l.ViewH/2
		fb.FillRect(cx-6, cy, 13, 1, theme.Crosshair)
		fb.FillRect(cx, cy-6, 1, 13, theme.Crosshair)
	}
}
