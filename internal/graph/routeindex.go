package graph

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/umahmood/haversine"
)

// RouteKey identifies a directed route. A->B and B->A are distinct keys.
type RouteKey struct {
	Source      int32
	Destination int32
}

// String returns the "{source}-{destination}" form of the key.
func (k RouteKey) String() string {
	return fmt.Sprintf("%d-%d", k.Source, k.Destination)
}

// Reverse returns the key for the opposite direction.
func (k RouteKey) Reverse() RouteKey {
	return RouteKey{Source: k.Destination, Destination: k.Source}
}

// ParseRouteKey parses a "{source}-{destination}" key.
func ParseRouteKey(s string) (RouteKey, error) {
	src, dst, ok := strings.Cut(s, "-")
	if !ok {
		return RouteKey{}, &ParseError{Field: "route key", Value: s, Err: ErrMissingField}
	}
	source, err := ParseID("source", src)
	if err != nil {
		return RouteKey{}, err
	}
	dest, err := ParseID("destination", dst)
	if err != nil {
		return RouteKey{}, err
	}
	return RouteKey{Source: source, Destination: dest}, nil
}

// Path is the drawable line for a route: its two endpoint locations.
type Path struct {
	Key        RouteKey   `json:"-"`
	Locations  []Location `json:"locations"`
	DistanceKm float64    `json:"distance_km"`
	DistanceMi float64    `json:"distance_mi"`
}

// RouteIndex resolves a directed (source, destination) pair to its path.
// It is read-only after construction.
type RouteIndex struct {
	paths   map[RouteKey]Path
	skipped int
}

// NewRouteIndex builds the index from routes. Routes with an endpoint that
// has no known location are skipped and counted. When several routes share
// a key (different airlines) the first one is kept.
func NewRouteIndex(routes []Route, locations map[int32]Location) *RouteIndex {
	ri := &RouteIndex{paths: make(map[RouteKey]Path)}
	for _, r := range routes {
		from, okFrom := locations[r.Source]
		to, okTo := locations[r.Destination]
		if !okFrom || !okTo {
			ri.skipped++
			continue
		}
		key := RouteKey{Source: r.Source, Destination: r.Destination}
		if _, dup := ri.paths[key]; dup {
			continue
		}
		mi, km := haversine.Distance(
			haversine.Coord{Lat: from.Lat, Lon: from.Lon},
			haversine.Coord{Lat: to.Lat, Lon: to.Lon},
		)
		ri.paths[key] = Path{
			Key:        key,
			Locations:  []Location{from, to},
			DistanceKm: km,
			DistanceMi: mi,
		}
	}
	return ri
}

// Lookup returns the path stored for exactly source -> dest.
func (ri *RouteIndex) Lookup(source, dest int32) (Path, bool) {
	p, ok := ri.paths[RouteKey{Source: source, Destination: dest}]
	return p, ok
}

// LookupEither tries source -> dest, then dest -> source.
func (ri *RouteIndex) LookupEither(source, dest int32) (Path, bool) {
	key := RouteKey{Source: source, Destination: dest}
	if p, ok := ri.paths[key]; ok {
		return p, true
	}
	p, ok := ri.paths[key.Reverse()]
	return p, ok
}

// Len returns the number of indexed routes.
func (ri *RouteIndex) Len() int { return len(ri.paths) }

// Skipped returns how many routes had an endpoint without a location.
func (ri *RouteIndex) Skipped() int { return ri.skipped }

// Keys returns every indexed key, ordered by source then destination.
func (ri *RouteIndex) Keys() []RouteKey {
	keys := make([]RouteKey, 0, len(ri.paths))
	for k := range ri.paths {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b RouteKey) int {
		if a.Source != b.Source {
			return cmp.Compare(a.Source, b.Source)
		}
		return cmp.Compare(a.Destination, b.Destination)
	})
	return keys
}

// DistanceKm returns the great-circle distance between two locations.
func DistanceKm(a, b Location) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Lon},
		haversine.Coord{Lat: b.Lat, Lon: b.Lon},
	)
	return km
}
