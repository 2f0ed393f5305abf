package view

import (
	"testing"

	"airmap/internal/feed"
	"airmap/internal/graph"
)

// Airports spread along the equator so their markers never overlap.
func testData() *feed.Data {
	airports := []graph.Airport{
		{ID: 1, Code: "AAA", Name: "Alpha", Location: graph.Location{Lon: -60}},
		{ID: 2, Code: "BBB", Name: "Bravo", Location: graph.Location{Lon: -20}},
		{ID: 3, Code: "CCC", Name: "Charlie", Location: graph.Location{Lon: 20}},
		{ID: 4, Code: "DDD", Name: "Delta", Location: graph.Location{Lon: 60}},
	}
	routes := []graph.Route{
		{Source: 1, Destination: 2},
		{Source: 1, Destination: 3},
		{Source: 2, Destination: 4},
		{Source: 3, Destination: 2},
		{Source: 2, Destination: 1},
	}
	return feed.NewData(airports, routes)
}

func newTestController(symmetric bool) *Controller {
	return NewController(testData(), NewViewport(0, 0, 900, 600), symmetric)
}

func screen(c *Controller, id int32) (float64, float64) {
	m, _ := c.Marker(id)
	return c.Viewport.ScreenPosition(m.Location())
}

func TestController_OnlyActiveAirportsHaveMarkers(t *testing.T) {
	c := newTestController(true)
	if len(c.Markers()) != 3 {
		t.Fatalf("markers = %d, want 3", len(c.Markers()))
	}
	if _, ok := c.Marker(4); ok {
		t.Error("airport 4 has no outgoing routes but got a marker")
	}
}

func TestController_HoverTransitions(t *testing.T) {
	c := newTestController(true)
	if c.State() != StateIdle {
		t.Fatalf("initial state = %s", c.State())
	}

	x, y := screen(c, 1)
	m := c.MouseMoved(x, y)
	if m == nil || m.ID() != 1 || !m.Selected() {
		t.Fatalf("hover over 1 = %v", m)
	}
	if c.State() != StateHovered {
		t.Errorf("state = %s, want hovered", c.State())
	}

	x, y = screen(c, 2)
	c.MouseMoved(x, y)
	first, _ := c.Marker(1)
	if first.Selected() {
		t.Error("previous hover still selected")
	}
	if c.Hovered().ID() != 2 {
		t.Errorf("hovered = %d, want 2", c.Hovered().ID())
	}

	c.MouseMoved(5, 5)
	if c.Hovered() != nil || c.State() != StateIdle {
		t.Errorf("hover over empty map: hovered=%v state=%s", c.Hovered(), c.State())
	}
}

func TestController_ClickRevealsConnections(t *testing.T) {
	c := newTestController(true)
	x, y := screen(c, 1)
	m := c.MouseClicked(x, y)
	if m == nil || m.ID() != 1 {
		t.Fatalf("click on 1 = %v", m)
	}
	if c.State() != StateClicked {
		t.Errorf("state = %s, want clicked", c.State())
	}

	visible := map[int32]bool{}
	for _, vm := range c.VisibleMarkers() {
		visible[vm.ID()] = true
	}
	if len(visible) != 3 || !visible[1] || !visible[2] || !visible[3] {
		t.Errorf("visible markers = %v, want 1,2,3", visible)
	}

	routes := c.VisibleRoutes()
	if len(routes) != 2 || routes[0].Key.String() != "1-2" || routes[1].Key.String() != "1-3" {
		t.Errorf("visible routes = %v", routes)
	}

	// 1 -> {2,3}; 2 -> {4,1}; 3 -> {2}: two-hop {2,3,4} out of 4 airports
	if m.Info() != "AAA - Alpha\nOne-Hop coverage: 50%\nTwo-Hop coverage: 75%" {
		t.Errorf("Info() = %q", m.Info())
	}
}

func TestController_ClickHidesUnconnected(t *testing.T) {
	c := newTestController(true)
	m, err := c.Select(3)
	if err != nil {
		t.Fatalf("Select(3): %v", err)
	}
	if m.Hidden() {
		t.Error("clicked marker hidden")
	}
	one, _ := c.Marker(1)
	if !one.Hidden() {
		t.Error("airport 1 is not a destination of 3 but stayed visible")
	}
	routes := c.VisibleRoutes()
	if len(routes) != 1 || routes[0].Key.String() != "3-2" {
		t.Errorf("visible routes = %v, want [3-2]", routes)
	}
}

func TestController_SymmetricRouteLookup(t *testing.T) {
	data := feed.NewData(
		[]graph.Airport{{ID: 1, Location: graph.Location{Lon: -50}}, {ID: 2, Location: graph.Location{Lon: 50}}},
		[]graph.Route{{Source: 1, Destination: 2}, {Source: 2, Destination: 1}},
	)
	// Drop 2->1 from the index so only the reverse key exists.
	data.Index = graph.NewRouteIndex([]graph.Route{{Source: 1, Destination: 2}}, data.Locations())

	sym := NewController(data, NewViewport(0, 0, 900, 600), true)
	sym.Select(2)
	if got := sym.VisibleRoutes(); len(got) != 1 || got[0].Key.String() != "1-2" {
		t.Errorf("symmetric routes = %v, want [1-2]", got)
	}

	dir := NewController(data, NewViewport(0, 0, 900, 600), false)
	dir.Select(2)
	if got := dir.VisibleRoutes(); len(got) != 0 {
		t.Errorf("directional routes = %v, want none", got)
	}
}

func TestController_SetSymmetricRelooksRoutes(t *testing.T) {
	data := feed.NewData(
		[]graph.Airport{{ID: 1, Location: graph.Location{Lon: -50}}, {ID: 2, Location: graph.Location{Lon: 50}}},
		[]graph.Route{{Source: 1, Destination: 2}, {Source: 2, Destination: 1}},
	)
	data.Index = graph.NewRouteIndex([]graph.Route{{Source: 1, Destination: 2}}, data.Locations())

	c := NewController(data, NewViewport(0, 0, 900, 600), true)
	c.Select(2)
	c.SetSymmetric(false)
	if c.Symmetric() || len(c.VisibleRoutes()) != 0 {
		t.Errorf("after SetSymmetric(false) routes = %v", c.VisibleRoutes())
	}
	if c.State() != StateClicked {
		t.Errorf("state = %s, want clicked", c.State())
	}
	c.SetSymmetric(true)
	if got := c.VisibleRoutes(); len(got) != 1 {
		t.Errorf("after SetSymmetric(true) routes = %v, want [1-2]", got)
	}
}

func TestController_ClickEmptyResets(t *testing.T) {
	c := newTestController(true)
	c.Select(3)
	if c.MouseClicked(5, 5) != nil {
		t.Fatal("click on empty map hit a marker")
	}
	if c.State() != StateIdle {
		t.Errorf("state = %s, want idle", c.State())
	}
	if len(c.VisibleMarkers()) != 3 {
		t.Errorf("visible markers = %d, want 3", len(c.VisibleMarkers()))
	}
	if len(c.VisibleRoutes()) != 0 {
		t.Errorf("visible routes = %d, want 0", len(c.VisibleRoutes()))
	}
}

func TestController_CoverageComputedOnce(t *testing.T) {
	c := newTestController(true)
	m, _ := c.Select(1)
	first := m.OneHop()
	m.SetCoverage(graph.Coverage{OneHopRatio: "cached", TwoHopRatio: "cached"})
	c.Reset()
	c.Select(1)
	if m.OneHop() != "cached" {
		t.Errorf("coverage recomputed: %q (first %q)", m.OneHop(), first)
	}
}

func TestController_SelectUnknown(t *testing.T) {
	c := newTestController(true)
	if _, err := c.Select(4); err == nil {
		t.Error("Select(4) returned nil error")
	}
}
