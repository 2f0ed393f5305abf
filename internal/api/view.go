package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"airmap/internal/feed"
	"airmap/internal/graph"
	"airmap/internal/marker"
	"airmap/internal/view"
)

type viewMarker struct {
	ID       int32          `json:"id"`
	Code     string         `json:"code"`
	Title    string         `json:"title"`
	Info     string         `json:"info,omitempty"`
	Location graph.Location `json:"location"`
	Style    marker.Style   `json:"style"`
}

func newViewMarker(m *marker.AirportMarker) *viewMarker {
	if m == nil {
		return nil
	}
	vm := &viewMarker{
		ID:       m.ID(),
		Code:     m.Airport().Code,
		Title:    m.Title(),
		Location: m.Location(),
		Style:    m.Style(),
	}
	if m.HasCoverage() {
		vm.Info = m.Info()
	}
	return vm
}

type viewState struct {
	State    view.State    `json:"state"`
	Hovered  *viewMarker   `json:"hovered,omitempty"`
	Clicked  *viewMarker   `json:"clicked,omitempty"`
	Visible  []int32       `json:"visible"`
	Routes   []routeJSON   `json:"routes"`
	Viewport view.Viewport `json:"viewport"`
	// Cursor is the map location under the last hover or click point.
	Cursor *graph.Location `json:"cursor,omitempty"`
}

// stateOf snapshots the controller. Callers hold viewMu.
func stateOf(c *view.Controller) viewState {
	st := viewState{
		State:    c.State(),
		Hovered:  newViewMarker(c.Hovered()),
		Clicked:  newViewMarker(c.Clicked()),
		Visible:  []int32{},
		Routes:   []routeJSON{},
		Viewport: c.Viewport,
	}
	for _, m := range c.VisibleMarkers() {
		st.Visible = append(st.Visible, m.ID())
	}
	for _, p := range c.VisibleRoutes() {
		st.Routes = append(st.Routes, routeJSON{Key: p.Key.String(), Path: p})
	}
	return st
}

// withController runs fn against the current controller and writes the
// resulting view state.
func (s *Server) withController(w http.ResponseWriter, fn func(data *feed.Data, c *view.Controller) error) {
	s.withControllerAt(w, nil, fn)
}

// withControllerAt is withController for pointer events; the state reports
// the map location under p.
func (s *Server) withControllerAt(w http.ResponseWriter, p *pointRequest, fn func(data *feed.Data, c *view.Controller) error) {
	data, ok := s.requireData(w)
	if !ok {
		return
	}
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	if err := fn(data, s.controller); err != nil {
		if errors.Is(err, graph.ErrUnknownAirport) {
			writeError(w, 404, err.Error())
			return
		}
		writeError(w, 400, err.Error())
		return
	}
	st := stateOf(s.controller)
	if p != nil && s.controller.Viewport.Contains(p.X, p.Y) {
		loc := s.controller.Viewport.LocationAt(p.X, p.Y)
		st.Cursor = &loc
	}
	writeJSON(w, st)
}

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func decodePoint(r *http.Request) (pointRequest, error) {
	var p pointRequest
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return p, errors.New("invalid json")
	}
	return p, nil
}

func (s *Server) handleViewState(w http.ResponseWriter, r *http.Request) {
	s.withController(w, func(*feed.Data, *view.Controller) error { return nil })
}

// POST /api/view/hover
// Body: {"x": 410, "y": 220}
func (s *Server) handleViewHover(w http.ResponseWriter, r *http.Request) {
	p, err := decodePoint(r)
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}
	s.withControllerAt(w, &p, func(_ *feed.Data, c *view.Controller) error {
		c.MouseMoved(p.X, p.Y)
		return nil
	})
}

// POST /api/view/click
// Body: {"x": 410, "y": 220}
func (s *Server) handleViewClick(w http.ResponseWriter, r *http.Request) {
	p, err := decodePoint(r)
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}
	s.withControllerAt(w, &p, func(data *feed.Data, c *view.Controller) error {
		if m := c.MouseClicked(p.X, p.Y); m != nil {
			s.inspected(data, m)
		}
		return nil
	})
}

// POST /api/view/select
// Body: {"id": 5}
func (s *Server) handleViewSelect(w http.ResponseWriter, r *http.Request) {
	s.withController(w, func(data *feed.Data, c *view.Controller) error {
		var req struct {
			ID int32 `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return errors.New("invalid json")
		}
		m, err := c.Select(req.ID)
		if err != nil {
			return err
		}
		s.inspected(data, m)
		return nil
	})
}

func (s *Server) handleViewReset(w http.ResponseWriter, r *http.Request) {
	s.withController(w, func(_ *feed.Data, c *view.Controller) error {
		c.Reset()
		return nil
	})
}

// POST /api/view/viewport
// Body: {"center": {"lat": 0, "lon": 0}, "zoom_by": 2}
func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	s.withController(w, func(_ *feed.Data, c *view.Controller) error {
		var req struct {
			Center *graph.Location `json:"center"`
			ZoomBy float64         `json:"zoom_by"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return errors.New("invalid json")
		}
		if req.Center != nil {
			c.Viewport.PanTo(*req.Center)
		}
		if req.ZoomBy > 0 {
			c.Viewport.ZoomBy(req.ZoomBy)
		}
		return nil
	})
}

// inspected records a clicked marker in the history, sharing the coverage
// cache with the coverage endpoint.
func (s *Server) inspected(data *feed.Data, m *marker.AirportMarker) {
	c, err := s.coverageFor(data, m.ID())
	if err != nil {
		return
	}
	s.recordInspect(data, c)
}
