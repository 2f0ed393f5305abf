package marker

import (
	"fmt"
	"strconv"
	"strings"

	"airmap/internal/graph"
)

// AirportMarker is the map marker for one airport.
type AirportMarker struct {
	airport     graph.Airport
	connectedTo graph.Set

	hidden   bool
	selected bool

	// Filled the first time the marker is clicked.
	coverage    graph.Coverage
	hasCoverage bool
}

// NewAirportMarker returns a visible marker for a. connectedTo is the set of
// airports a has outgoing routes to; it may be nil.
func NewAirportMarker(a graph.Airport, connectedTo graph.Set) *AirportMarker {
	return &AirportMarker{airport: a, connectedTo: connectedTo}
}

var _ Marker = (*AirportMarker)(nil)

func (m *AirportMarker) Airport() graph.Airport   { return m.airport }
func (m *AirportMarker) ID() int32                { return m.airport.ID }
func (m *AirportMarker) Location() graph.Location { return m.airport.Location }
func (m *AirportMarker) ConnectedTo() graph.Set   { return m.connectedTo }
func (m *AirportMarker) Hidden() bool             { return m.hidden }
func (m *AirportMarker) SetHidden(hidden bool)    { m.hidden = hidden }
func (m *AirportMarker) Selected() bool           { return m.selected }
func (m *AirportMarker) SetSelected(selected bool) {
	m.selected = selected
}

// Style sizes the marker by connectivity and colours it by elevation.
func (m *AirportMarker) Style() Style {
	class := ClassifyAltitude(m.airport.Altitude)
	return Style{
		Color:    class.Color(),
		Size:     SizeForDegree(len(m.connectedTo)),
		Altitude: class,
	}
}

// IsInside reports whether the screen point lies within the drawn marker.
func (m *AirportMarker) IsInside(p Projector, x, y float64) bool {
	return within(p, m.airport.Location, x, y, m.Style().Size/2)
}

// Connections returns the number of connected airports, or "NA" when no
// connection set was attached.
func (m *AirportMarker) Connections() string {
	if m.connectedTo == nil {
		return "NA"
	}
	return strconv.Itoa(len(m.connectedTo))
}

// Title is the hover text.
func (m *AirportMarker) Title() string {
	title := fmt.Sprintf("%s - %s\nis connected to %s other airports.\nElevation: %sft.",
		m.airport.Code, m.airport.Name, m.Connections(), formatFeet(m.airport.Altitude))
	return strings.ReplaceAll(title, `"`, "")
}

// HasCoverage reports whether coverage has been computed.
func (m *AirportMarker) HasCoverage() bool { return m.hasCoverage }

// SetCoverage stores the coverage shown by Info.
func (m *AirportMarker) SetCoverage(c graph.Coverage) {
	m.coverage = c
	m.hasCoverage = true
}

// Coverage returns the cached coverage and whether it has been computed.
func (m *AirportMarker) Coverage() (graph.Coverage, bool) { return m.coverage, m.hasCoverage }

// OneHop returns the cached one-hop coverage text.
func (m *AirportMarker) OneHop() string { return m.coverage.OneHopRatio }

// TwoHop returns the cached two-hop coverage text.
func (m *AirportMarker) TwoHop() string { return m.coverage.TwoHopRatio }

// Info is the text of the info panel shown while the marker is clicked.
func (m *AirportMarker) Info() string {
	info := fmt.Sprintf("%s - %s\nOne-Hop coverage: %s\nTwo-Hop coverage: %s",
		m.airport.Code, m.airport.Name, m.OneHop(), m.TwoHop())
	return strings.ReplaceAll(info, `"`, "")
}

func formatFeet(ft float64) string {
	return strconv.FormatFloat(ft, 'f', -1, 64)
}
