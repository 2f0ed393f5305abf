package view

import (
	"cmp"
	"slices"

	"airmap/internal/feed"
	"airmap/internal/graph"
	"airmap/internal/marker"
)

// State names the controller's selection state.
type State string

const (
	StateIdle    State = "idle"
	StateHovered State = "hovered"
	StateClicked State = "clicked"
)

// Controller holds the selection and visibility state of the airport map.
// It is not safe for concurrent use.
type Controller struct {
	markers   []*marker.AirportMarker
	byID      map[int32]*marker.AirportMarker
	adjacency graph.AdjacencyMap
	index     *graph.RouteIndex
	airports  graph.Set
	symmetric bool

	Viewport Viewport

	hovered *marker.AirportMarker
	clicked *marker.AirportMarker
	routes  map[graph.RouteKey]graph.Path // revealed route paths
}

// NewController creates markers for the active airports of data. With
// symmetric set, a route stored only as B->A is revealed for A->B.
func NewController(data *feed.Data, vp Viewport, symmetric bool) *Controller {
	c := &Controller{
		markers:   make([]*marker.AirportMarker, 0, len(data.Active)),
		byID:      make(map[int32]*marker.AirportMarker, len(data.Active)),
		adjacency: data.Adjacency,
		index:     data.Index,
		airports:  data.AirportSet(),
		symmetric: symmetric,
		Viewport:  vp,
		routes:    make(map[graph.RouteKey]graph.Path),
	}
	for _, a := range data.Active {
		m := marker.NewAirportMarker(a, data.Adjacency.OneHop(a.ID))
		c.markers = append(c.markers, m)
		c.byID[a.ID] = m
	}
	return c
}

// State reports the current selection state. A click outranks a hover.
func (c *Controller) State() State {
	switch {
	case c.clicked != nil:
		return StateClicked
	case c.hovered != nil:
		return StateHovered
	default:
		return StateIdle
	}
}

// Markers returns every airport marker in load order.
func (c *Controller) Markers() []*marker.AirportMarker { return c.markers }

// Marker returns the marker for an active airport.
func (c *Controller) Marker(id int32) (*marker.AirportMarker, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// Symmetric reports whether route paths fall back to the reverse direction.
func (c *Controller) Symmetric() bool { return c.symmetric }

// SetSymmetric changes the route direction policy. Routes already revealed
// are looked up again under the new policy.
func (c *Controller) SetSymmetric(symmetric bool) {
	c.symmetric = symmetric
	if c.clicked != nil {
		c.selectMarker(c.clicked)
	}
}

// Hovered returns the marker under the cursor, or nil.
func (c *Controller) Hovered() *marker.AirportMarker { return c.hovered }

// Clicked returns the locked selection, or nil.
func (c *Controller) Clicked() *marker.AirportMarker { return c.clicked }

// MouseMoved clears the previous hover and selects the first visible marker
// under the cursor.
func (c *Controller) MouseMoved(x, y float64) *marker.AirportMarker {
	if c.hovered != nil {
		c.hovered.SetSelected(false)
		c.hovered = nil
	}
	if !c.Viewport.Contains(x, y) {
		return nil
	}
	for _, m := range c.markers {
		if !m.Hidden() && m.IsInside(c.Viewport, x, y) {
			m.SetSelected(true)
			c.hovered = m
			return m
		}
	}
	return nil
}

// MouseClicked selects the marker under the cursor, or clears the selection
// when the click hits no marker.
func (c *Controller) MouseClicked(x, y float64) *marker.AirportMarker {
	var hit *marker.AirportMarker
	if c.Viewport.Contains(x, y) {
		for _, m := range c.markers {
			if m.IsInside(c.Viewport, x, y) {
				hit = m
				break
			}
		}
	}
	if hit == nil {
		c.Reset()
		return nil
	}
	c.selectMarker(hit)
	return hit
}

// Select clicks the marker of an airport by ID.
func (c *Controller) Select(id int32) (*marker.AirportMarker, error) {
	m, ok := c.byID[id]
	if !ok {
		return nil, graph.ErrUnknownAirport
	}
	c.selectMarker(m)
	return m, nil
}

// Reset returns to the idle state with every marker shown and every route hidden.
func (c *Controller) Reset() {
	c.clicked = nil
	c.clearRoutes()
	for _, m := range c.markers {
		m.SetHidden(false)
	}
}

func (c *Controller) selectMarker(m *marker.AirportMarker) {
	c.hideAll()
	c.clicked = m
	m.SetHidden(false)

	if !m.HasCoverage() {
		m.SetCoverage(c.adjacency.Coverage(m.ID(), c.airports))
	}

	conn := m.ConnectedTo()
	for _, other := range c.markers {
		if !conn.Has(other.ID()) {
			continue
		}
		other.SetHidden(false)
		if p, ok := c.route(m.ID(), other.ID()); ok {
			c.routes[p.Key] = p
		}
	}
}

func (c *Controller) route(src, dst int32) (graph.Path, bool) {
	if c.symmetric {
		return c.index.LookupEither(src, dst)
	}
	return c.index.Lookup(src, dst)
}

func (c *Controller) hideAll() {
	for _, m := range c.markers {
		m.SetHidden(true)
	}
	c.clearRoutes()
}

func (c *Controller) clearRoutes() {
	clear(c.routes)
}

// VisibleMarkers returns the markers currently shown.
func (c *Controller) VisibleMarkers() []*marker.AirportMarker {
	var out []*marker.AirportMarker
	for _, m := range c.markers {
		if !m.Hidden() {
			out = append(out, m)
		}
	}
	return out
}

// VisibleRoutes returns the revealed route paths ordered by key.
func (c *Controller) VisibleRoutes() []graph.Path {
	out := make([]graph.Path, 0, len(c.routes))
	for _, p := range c.routes {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b graph.Path) int {
		if a.Key.Source != b.Key.Source {
			return cmp.Compare(a.Key.Source, b.Key.Source)
		}
		return cmp.Compare(a.Key.Destination, b.Key.Destination)
	})
	return out
}
