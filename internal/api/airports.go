package api

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"airmap/internal/db"
	"airmap/internal/feed"
	"airmap/internal/graph"
	"airmap/internal/marker"
)

type airportJSON struct {
	graph.Airport
	Connections int          `json:"connections"`
	Active      bool         `json:"active"`
	Style       marker.Style `json:"style"`
}

func newAirportJSON(data *feed.Data, a graph.Airport) airportJSON {
	degree := data.Adjacency.Degree(a.ID)
	return airportJSON{
		Airport:     a,
		Connections: degree,
		Active:      degree > 0,
		Style:       marker.NewAirportMarker(a, data.Adjacency.OneHop(a.ID)).Style(),
	}
}

// handleAirports lists airports. By default only airports with outgoing
// routes are returned; ?all=1 includes the rest. ?q= filters by code, name
// or city.
func (s *Server) handleAirports(w http.ResponseWriter, r *http.Request) {
	data, ok := s.requireData(w)
	if !ok {
		return
	}
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	limit := queryInt(r, "limit", 0)

	var source []graph.Airport
	if r.URL.Query().Get("all") == "1" {
		source = make([]graph.Airport, 0, len(data.Order))
		for _, id := range data.Order {
			source = append(source, *data.Airports[id])
		}
	} else {
		source = data.Active
	}

	out := make([]airportJSON, 0, len(source))
	for _, a := range source {
		if q != "" && !matchAirport(a, q) {
			continue
		}
		out = append(out, newAirportJSON(data, a))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	writeJSON(w, out)
}

func matchAirport(a graph.Airport, q string) bool {
	return strings.HasPrefix(strings.ToLower(a.Code), q) ||
		strings.Contains(strings.ToLower(a.Name), q) ||
		strings.Contains(strings.ToLower(a.City), q)
}

func (s *Server) handleAirport(w http.ResponseWriter, r *http.Request) {
	data, ok := s.requireData(w)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	a, found := data.Airport(id)
	if !found {
		writeError(w, 404, fmt.Sprintf("airport %d not found", id))
		return
	}
	conn := data.Adjacency.OneHop(id)
	m := marker.NewAirportMarker(*a, conn)
	writeJSON(w, map[string]interface{}{
		"airport":      newAirportJSON(data, *a),
		"title":        m.Title(),
		"connected_to": conn.Sorted(),
	})
}

// coverageFor returns cached coverage for id, computing it at most once per
// airport even under concurrent requests. Requests still holding a replaced
// dataset compute directly and never touch the current cache.
func (s *Server) coverageFor(data *feed.Data, id int32) (graph.Coverage, error) {
	s.mu.RLock()
	cache, gen, current := s.coverage, s.gen, s.data
	s.mu.RUnlock()
	if data != current {
		return data.Coverage(id)
	}

	if c, ok := cache.Get(id); ok {
		return c, nil
	}
	key := strconv.FormatUint(gen, 10) + "/" + strconv.Itoa(int(id))
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		c, err := data.Coverage(id)
		if err != nil {
			return nil, err
		}
		cache.Add(id, c)
		return c, nil
	})
	if err != nil {
		return graph.Coverage{}, err
	}
	return v.(graph.Coverage), nil
}

func (s *Server) recordInspect(data *feed.Data, c graph.Coverage) {
	if s.db == nil {
		return
	}
	a, ok := data.Airport(c.AirportID)
	if !ok {
		return
	}
	s.db.InsertInspect(db.InspectRecord{
		AirportID:   a.ID,
		Code:        a.Code,
		Name:        a.Name,
		OneHop:      c.OneHopRatio,
		TwoHop:      c.TwoHopRatio,
		OneHopCount: len(c.OneHop),
		TwoHopCount: len(c.TwoHop),
	})
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	data, ok := s.requireData(w)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := s.coverageFor(data, id)
	if errors.Is(err, graph.ErrUnknownAirport) {
		writeError(w, 404, err.Error())
		return
	}
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	s.recordInspect(data, c)
	writeJSON(w, c)
}

type neighborJSON struct {
	ID   int32  `json:"id"`
	Code string `json:"code"`
	Hops int    `json:"hops"`
}

// handleNeighbors lists airports reachable within ?hops= segments (default 2,
// capped at max_hops), nearest first.
func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	data, ok := s.requireData(w)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, found := data.Airport(id); !found {
		writeError(w, 404, fmt.Sprintf("airport %d not found", id))
		return
	}
	hops := queryInt(r, "hops", 2)
	if hops < 1 {
		writeError(w, 400, "hops must be at least 1")
		return
	}
	s.mu.RLock()
	hops = min(hops, s.cfg.MaxHops)
	s.mu.RUnlock()

	reach := data.Adjacency.WithinHops(id, hops)
	out := make([]neighborJSON, 0, len(reach))
	for nid, n := range reach {
		if nid == id {
			continue
		}
		nb := neighborJSON{ID: nid, Hops: n}
		if a, found := data.Airport(nid); found {
			nb.Code = a.Code
		}
		out = append(out, nb)
	}
	slices.SortFunc(out, func(a, b neighborJSON) int {
		if c := cmp.Compare(a.Hops, b.Hops); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	writeJSON(w, map[string]interface{}{
		"airport_id": id,
		"hops":       hops,
		"neighbors":  out,
	})
}

// handleRoutes pages through the indexed route keys, or resolves a single
// "{src}-{dst}" key given as ?key=.
func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	data, ok := s.requireData(w)
	if !ok {
		return
	}
	if raw := r.URL.Query().Get("key"); raw != "" {
		k, err := graph.ParseRouteKey(raw)
		if err != nil {
			writeError(w, 400, err.Error())
			return
		}
		p, found := data.Index.Lookup(k.Source, k.Destination)
		if !found {
			writeError(w, 404, fmt.Sprintf("no route %s", k))
			return
		}
		writeJSON(w, routeJSON{Key: k.String(), Path: p})
		return
	}

	keys := data.Index.Keys()
	offset := max(queryInt(r, "offset", 0), 0)
	limit := queryInt(r, "limit", 100)
	if limit <= 0 {
		limit = 100
	}
	offset = min(offset, len(keys))
	end := min(offset+limit, len(keys))
	page := make([]string, 0, end-offset)
	for _, k := range keys[offset:end] {
		page = append(page, k.String())
	}
	writeJSON(w, map[string]interface{}{
		"total": len(keys),
		"keys":  page,
	})
}

type routeJSON struct {
	Key string `json:"key"`
	graph.Path
}

// handleRouteLookup resolves the drawable path for src -> dst. When routes
// are symmetric the reverse direction is tried too, unless ?directed=1.
func (s *Server) handleRouteLookup(w http.ResponseWriter, r *http.Request) {
	data, ok := s.requireData(w)
	if !ok {
		return
	}
	src, ok := pathID(w, r, "src")
	if !ok {
		return
	}
	dst, ok := pathID(w, r, "dst")
	if !ok {
		return
	}
	s.mu.RLock()
	symmetric := s.cfg.SymmetricRoutes
	s.mu.RUnlock()
	if r.URL.Query().Get("directed") == "1" {
		symmetric = false
	}

	var p graph.Path
	var found bool
	if symmetric {
		p, found = data.Index.LookupEither(src, dst)
	} else {
		p, found = data.Index.Lookup(src, dst)
	}
	if !found {
		writeError(w, 404, fmt.Sprintf("no route %d-%d", src, dst))
		return
	}
	writeJSON(w, routeJSON{Key: p.Key.String(), Path: p})
}

// handleRouteFind finds the shortest connection by great-circle distance.
// POST /api/route/find
// Body: {"from": 1, "to": 2}
func (s *Server) handleRouteFind(w http.ResponseWriter, r *http.Request) {
	data, ok := s.requireData(w)
	if !ok {
		return
	}
	var req struct {
		From int32 `json:"from"`
		To   int32 `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	for _, id := range []int32{req.From, req.To} {
		if _, found := data.Airport(id); !found {
			writeError(w, 404, fmt.Sprintf("airport %d not found", id))
			return
		}
	}

	ids, km, found := data.Adjacency.ShortestRoute(req.From, req.To, data.Locations())
	if !found {
		writeError(w, 404, "no route found")
		return
	}
	stops := make([]airportJSON, 0, len(ids))
	for _, id := range ids {
		if a, ok := data.Airport(id); ok {
			stops = append(stops, newAirportJSON(data, *a))
		}
	}
	writeJSON(w, map[string]interface{}{
		"airports":    stops,
		"hops":        len(ids) - 1,
		"fewest_hops": data.Adjacency.HopCount(req.From, req.To),
		"distance_km": km,
	})
}

func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, marker.Legend())
}
