package graph

import (
	"errors"
	"math"
	"strconv"
)

// AdjacencyMap maps an airport ID to the set of airports it has direct
// outgoing routes to. Every key has a non-empty set. It is built once and
// treated as read-only afterwards.
type AdjacencyMap map[int32]Set

// AddRoute records a directed connection. Duplicate routes collapse and
// self-loops are kept.
func (a AdjacencyMap) AddRoute(source, dest int32) {
	tos, ok := a[source]
	if !ok {
		tos = make(Set)
		a[source] = tos
	}
	tos[dest] = true
}

// Build parses route records and returns their adjacency map. It stops at
// the first malformed record and returns its *ParseError with Line set to
// the record's 1-based position.
func Build(records []RouteRecord) (AdjacencyMap, error) {
	adj := make(AdjacencyMap)
	for i, rec := range records {
		r, err := rec.Parse()
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) && pe.Line == 0 {
				pe.Line = i + 1
			}
			return nil, err
		}
		adj.AddRoute(r.Source, r.Destination)
	}
	return adj, nil
}

// FromRoutes builds the adjacency map for already parsed routes.
func FromRoutes(routes []Route) AdjacencyMap {
	adj := make(AdjacencyMap)
	for _, r := range routes {
		adj.AddRoute(r.Source, r.Destination)
	}
	return adj
}

// OneHop returns the airports directly reachable from id, or an empty set.
// The returned set belongs to the map and must not be modified.
func (a AdjacencyMap) OneHop(id int32) Set {
	if s, ok := a[id]; ok {
		return s
	}
	return Set{}
}

// TwoHop returns the airports reachable from id in one or two segments.
// Only neighbors present in airports are expanded; a nil airports set
// expands every neighbor. The origin is not re-added by a return leg
// (id -> n -> id), so it appears only when id has a self-loop.
func (a AdjacencyMap) TwoHop(id int32, airports Set) Set {
	out := make(Set)
	for n := range a[id] {
		out[n] = true
		if airports != nil && !airports[n] {
			continue
		}
		for m := range a[n] {
			if m != id {
				out[m] = true
			}
		}
	}
	return out
}

// Degree returns the number of distinct destinations of id.
func (a AdjacencyMap) Degree(id int32) int {
	return len(a[id])
}

// CoverageRatio formats count/total as a whole percentage, rounding half up.
// A non-positive total yields "0%".
func CoverageRatio(count, total int) string {
	if total <= 0 {
		return "0%"
	}
	pct := math.Floor(float64(count)/float64(total)*100 + 0.5)
	return strconv.Itoa(int(pct)) + "%"
}

// Coverage summarises how much of the airport set one airport reaches.
type Coverage struct {
	AirportID   int32   `json:"airport_id"`
	OneHop      []int32 `json:"one_hop"`
	TwoHop      []int32 `json:"two_hop"`
	OneHopRatio string  `json:"one_hop_ratio"`
	TwoHopRatio string  `json:"two_hop_ratio"`
	Total       int     `json:"total"`
}

// Coverage computes one-hop and two-hop coverage of id against airports.
// Ratios are relative to the size of airports.
func (a AdjacencyMap) Coverage(id int32, airports Set) Coverage {
	one := a.OneHop(id)
	two := a.TwoHop(id, airports)
	total := len(airports)
	return Coverage{
		AirportID:   id,
		OneHop:      one.Sorted(),
		TwoHop:      two.Sorted(),
		OneHopRatio: CoverageRatio(len(one), total),
		TwoHopRatio: CoverageRatio(len(two), total),
		Total:       total,
	}
}
