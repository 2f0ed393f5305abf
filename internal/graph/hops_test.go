package graph

import (
	"math"
	"testing"
)

func chain() AdjacencyMap {
	return FromRoutes([]Route{
		{Source: 1, Destination: 2},
		{Source: 2, Destination: 3},
		{Source: 3, Destination: 4},
		{Source: 1, Destination: 4},
		{Source: 4, Destination: 5},
	})
}

func TestWithinHops(t *testing.T) {
	got := chain().WithinHops(1, 2)
	want := map[int32]int{1: 0, 2: 1, 4: 1, 3: 2, 5: 2}
	if len(got) != len(want) {
		t.Fatalf("WithinHops(1, 2) = %v, want %v", got, want)
	}
	for id, d := range want {
		if got[id] != d {
			t.Errorf("hops to %d = %d, want %d", id, got[id], d)
		}
	}
}

func TestWithinHops_ZeroIsOriginOnly(t *testing.T) {
	got := chain().WithinHops(1, 0)
	if len(got) != 1 || got[1] != 0 {
		t.Errorf("WithinHops(1, 0) = %v, want {1:0}", got)
	}
}

func TestHopCount(t *testing.T) {
	adj := chain()
	tests := []struct {
		from, to int32
		want     int
	}{
		{1, 1, 0},
		{1, 4, 1},
		{1, 5, 2},
		{2, 5, 3},
		{5, 1, -1},
	}
	for _, tt := range tests {
		if got := adj.HopCount(tt.from, tt.to); got != tt.want {
			t.Errorf("HopCount(%d, %d) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestShortestRoute_PrefersShorterDistance(t *testing.T) {
	// Both itineraries have two legs; the one through 4 detours far north.
	locations := map[int32]Location{
		1: {Lat: 0, Lon: 0},
		2: {Lat: 0, Lon: 10},
		3: {Lat: 0, Lon: 20},
		4: {Lat: 60, Lon: 10},
	}
	adj := FromRoutes([]Route{
		{Source: 1, Destination: 2}, {Source: 2, Destination: 3},
		{Source: 1, Destination: 4}, {Source: 4, Destination: 3},
	})
	path, km, ok := adj.ShortestRoute(1, 3, locations)
	if !ok {
		t.Fatal("ShortestRoute found no itinerary")
	}
	if len(path) != 3 || path[0] != 1 || path[1] != 2 || path[2] != 3 {
		t.Fatalf("path = %v, want [1 2 3]", path)
	}
	want := DistanceKm(locations[1], locations[2]) + DistanceKm(locations[2], locations[3])
	if math.Abs(km-want) > 1e-6 {
		t.Errorf("distance = %v, want %v", km, want)
	}
}

func TestShortestRoute_Unreachable(t *testing.T) {
	locations := map[int32]Location{1: {}, 2: {Lat: 1}, 3: {Lat: 2}}
	adj := FromRoutes([]Route{{Source: 1, Destination: 2}})
	if _, _, ok := adj.ShortestRoute(1, 3, locations); ok {
		t.Error("expected no itinerary from 1 to 3")
	}
	if _, _, ok := adj.ShortestRoute(1, 42, locations); ok {
		t.Error("expected no itinerary to an airport without a location")
	}
}
