package view

import (
	"math"

	"airmap/internal/graph"
)

// Web Mercator cannot show the poles.
const maxMercatorLat = 85.05112878

// Viewport is a rectangle of the screen showing a Web Mercator map.
type Viewport struct {
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Center graph.Location `json:"center"`
	// Zoom 1 fits the full width of the world into Width.
	Zoom float64 `json:"zoom"`
}

// NewViewport returns a viewport centred on 0,0 at zoom 1.
func NewViewport(x, y, width, height float64) Viewport {
	return Viewport{X: x, Y: y, Width: width, Height: height, Zoom: 1}
}

// ScreenPosition projects loc to screen coordinates.
func (v Viewport) ScreenPosition(loc graph.Location) (float64, float64) {
	scale := v.worldSize()
	wx, wy := mercator(loc)
	cx, cy := mercator(v.Center)
	return v.X + v.Width/2 + (wx-cx)*scale, v.Y + v.Height/2 + (wy-cy)*scale
}

// LocationAt is the inverse of ScreenPosition.
func (v Viewport) LocationAt(x, y float64) graph.Location {
	scale := v.worldSize()
	cx, cy := mercator(v.Center)
	wx := cx + (x-v.X-v.Width/2)/scale
	wy := cy + (y-v.Y-v.Height/2)/scale
	lat := math.Atan(math.Sinh(math.Pi*(1-2*wy))) * 180 / math.Pi
	return graph.Location{Lat: lat, Lon: wx*360 - 180}
}

// Contains reports whether the screen point lies inside the map area.
func (v Viewport) Contains(x, y float64) bool {
	return x >= v.X && x <= v.X+v.Width && y >= v.Y && y <= v.Y+v.Height
}

// PanTo recentres the map on loc.
func (v *Viewport) PanTo(loc graph.Location) {
	v.Center = loc
}

// ZoomBy multiplies the zoom level, never going below 1.
func (v *Viewport) ZoomBy(factor float64) {
	v.Zoom = math.Max(1, v.zoom()*factor)
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

func (v Viewport) worldSize() float64 {
	return v.Width * v.zoom()
}

// mercator returns normalised Web Mercator coordinates in [0, 1].
func mercator(loc graph.Location) (float64, float64) {
	lat := math.Max(-maxMercatorLat, math.Min(maxMercatorLat, loc.Lat))
	rad := lat * math.Pi / 180
	x := (loc.Lon + 180) / 360
	y := (1 - math.Log(math.Tan(rad)+1/math.Cos(rad))/math.Pi) / 2
	return x, y
}
