package marker

import (
	"fmt"
	"math"

	"airmap/internal/graph"
)

// Projector maps a geographic location to screen coordinates.
type Projector interface {
	ScreenPosition(loc graph.Location) (x, y float64)
}

// Marker is an entity drawn on the map that can be hit-tested and styled.
type Marker interface {
	Location() graph.Location
	IsInside(p Projector, x, y float64) bool
	Style() Style
	Hidden() bool
	SetHidden(hidden bool)
	Selected() bool
	SetSelected(selected bool)
}

// RGB is a display colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Style is everything a renderer needs to draw a marker.
type Style struct {
	Color    RGB           `json:"color"`
	Size     float64       `json:"size"` // diameter in pixels
	Altitude AltitudeClass `json:"altitude_class"`
}

// Elevation thresholds in feet.
const (
	AltitudeHigh    = 528
	AltitudeExtreme = 5282 // one mile
)

// AltitudeClass buckets airports by field elevation.
type AltitudeClass int

const (
	AltitudeLow AltitudeClass = iota
	AltitudeMid
	AltitudeTop
)

// ClassifyAltitude returns the elevation band for ft.
func ClassifyAltitude(ft float64) AltitudeClass {
	switch {
	case ft < AltitudeHigh:
		return AltitudeLow
	case ft < AltitudeExtreme:
		return AltitudeMid
	default:
		return AltitudeTop
	}
}

// Color returns the marker fill for the band.
func (c AltitudeClass) Color() RGB {
	switch c {
	case AltitudeLow:
		return RGB{255, 255, 0}
	case AltitudeMid:
		return RGB{0, 0, 255}
	default:
		return RGB{255, 0, 0}
	}
}

// Label is the legend text for the band.
func (c AltitudeClass) Label() string {
	switch c {
	case AltitudeLow:
		return "Up to 528ft"
	case AltitudeMid:
		return "528ft to 5282ft"
	default:
		return "Over 5282ft"
	}
}

func (c AltitudeClass) String() string {
	switch c {
	case AltitudeLow:
		return "low"
	case AltitudeMid:
		return "mid"
	default:
		return "high"
	}
}

// MarshalText encodes the band by name.
func (c AltitudeClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a band name written by MarshalText.
func (c *AltitudeClass) UnmarshalText(b []byte) error {
	switch string(b) {
	case "low":
		*c = AltitudeLow
	case "mid":
		*c = AltitudeMid
	case "high":
		*c = AltitudeTop
	default:
		return fmt.Errorf("unknown altitude class %q", b)
	}
	return nil
}

// SizeForDegree returns the marker diameter for an airport with n outgoing
// connections.
func SizeForDegree(n int) float64 {
	switch {
	case n < 25:
		return 4
	case n < 150:
		return 8
	default:
		return float64(10 + n/25)
	}
}

// LegendEntry is one row of the map key.
type LegendEntry struct {
	Label string `json:"label"`
	Color RGB    `json:"color"`
}

// Legend returns the elevation key, lowest band first.
func Legend() []LegendEntry {
	classes := []AltitudeClass{AltitudeLow, AltitudeMid, AltitudeTop}
	out := make([]LegendEntry, len(classes))
	for i, c := range classes {
		out[i] = LegendEntry{Label: c.Label(), Color: c.Color()}
	}
	return out
}

func within(p Projector, loc graph.Location, x, y, radius float64) bool {
	mx, my := p.ScreenPosition(loc)
	return math.Hypot(mx-x, my-y) <= radius
}
