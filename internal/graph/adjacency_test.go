package graph

import (
	"errors"
	"math/rand"
	"testing"
)

func scenarioRoutes() []RouteRecord {
	return []RouteRecord{
		{Source: "1", Destination: "2"},
		{Source: "1", Destination: "3"},
		{Source: "2", Destination: "4"},
	}
}

func TestBuild_Scenario(t *testing.T) {
	adj, err := Build(scenarioRoutes())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	airports := NewSet(1, 2, 3, 4)

	if got := adj.OneHop(1); !got.Equal(NewSet(2, 3)) {
		t.Errorf("OneHop(1) = %v, want {2,3}", got.Sorted())
	}
	if got := adj.TwoHop(1, airports); !got.Equal(NewSet(2, 3, 4)) {
		t.Errorf("TwoHop(1) = %v, want {2,3,4}", got.Sorted())
	}

	all := []Airport{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	active := FilterReachableAirports(all, adj)
	if len(active) != 2 || active[0].ID != 1 || active[1].ID != 2 {
		t.Errorf("FilterReachableAirports = %+v, want airports 1 and 2", active)
	}
}

func TestBuild_OrderIndependentAndIdempotent(t *testing.T) {
	records := []RouteRecord{
		{"10", "20"}, {"10", "30"}, {"10", "20"}, {"20", "10"},
		{"30", "40"}, {"30", "40"}, {"40", "10"}, {"10", "40"},
	}
	want, err := Build(records)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := want.OneHop(10); !got.Equal(NewSet(20, 30, 40)) {
		t.Fatalf("OneHop(10) = %v, want {20,30,40}", got.Sorted())
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]RouteRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := Build(shuffled)
		if err != nil {
			t.Fatalf("Build(shuffled): %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("len = %d, want %d", len(got), len(want))
		}
		for k, v := range want {
			if !got[k].Equal(v) {
				t.Fatalf("adjacency[%d] = %v, want %v", k, got[k].Sorted(), v.Sorted())
			}
		}
	}
}

func TestBuild_KeepsSelfLoops(t *testing.T) {
	adj, err := Build([]RouteRecord{{"5", "5"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !adj.OneHop(5).Has(5) {
		t.Error("self-loop 5->5 was dropped")
	}
}

func TestBuild_MalformedRecord(t *testing.T) {
	tests := []struct {
		name      string
		records   []RouteRecord
		wantField string
		wantLine  int
	}{
		{name: "bad source", records: []RouteRecord{{"1", "2"}, {"x", "2"}}, wantField: "source", wantLine: 2},
		{name: "null destination", records: []RouteRecord{{"1", `\N`}}, wantField: "destination", wantLine: 1},
		{name: "empty source", records: []RouteRecord{{"1", "2"}, {"1", "3"}, {"", "3"}}, wantField: "source", wantLine: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj, err := Build(tt.records)
			if err == nil {
				t.Fatalf("Build returned nil error, adjacency %v", adj)
			}
			if adj != nil {
				t.Errorf("Build returned partial adjacency %v", adj)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %v is not a *ParseError", err)
			}
			if pe.Field != tt.wantField || pe.Line != tt.wantLine {
				t.Errorf("ParseError field/line = %s/%d, want %s/%d", pe.Field, pe.Line, tt.wantField, tt.wantLine)
			}
		})
	}
}

func TestOneHop_UnknownIsEmptyNotNil(t *testing.T) {
	adj := FromRoutes([]Route{{Source: 1, Destination: 2}})
	got := adj.OneHop(99)
	if got == nil {
		t.Fatal("OneHop(99) returned nil")
	}
	if got.Len() != 0 {
		t.Errorf("OneHop(99) = %v, want empty", got.Sorted())
	}
}

func TestTwoHop_SupersetOfOneHop(t *testing.T) {
	adj := FromRoutes([]Route{
		{Source: 1, Destination: 2}, {Source: 1, Destination: 3},
		{Source: 2, Destination: 5}, {Source: 3, Destination: 6}, {Source: 3, Destination: 2},
	})
	one := adj.OneHop(1)
	two := adj.TwoHop(1, nil)
	for id := range one {
		if !two.Has(id) {
			t.Errorf("TwoHop(1) missing one-hop neighbor %d", id)
		}
	}
	if !two.Equal(NewSet(2, 3, 5, 6)) {
		t.Errorf("TwoHop(1) = %v, want {2,3,5,6}", two.Sorted())
	}
}

func TestTwoHop_SkipsAbsentNeighborsAndReturnLegs(t *testing.T) {
	adj := FromRoutes([]Route{
		{Source: 1, Destination: 2}, {Source: 1, Destination: 9},
		{Source: 2, Destination: 1}, {Source: 2, Destination: 3},
		{Source: 9, Destination: 4},
	})
	// 9 is not a loaded airport, so its routes are not followed.
	got := adj.TwoHop(1, NewSet(1, 2, 3, 4))
	if !got.Equal(NewSet(2, 9, 3)) {
		t.Errorf("TwoHop(1) = %v, want {2,3,9}", got.Sorted())
	}
}

func TestCoverageRatio(t *testing.T) {
	tests := []struct {
		count, total int
		want         string
	}{
		{25, 100, "25%"},
		{1, 3, "33%"},
		{2, 3, "67%"},
		{1, 8, "13%"}, // 12.5 rounds half up
		{3, 8, "38%"}, // 37.5 rounds half up
		{0, 10, "0%"},
		{10, 10, "100%"},
		{5, 0, "0%"},
		{0, 0, "0%"},
	}
	for _, tt := range tests {
		if got := CoverageRatio(tt.count, tt.total); got != tt.want {
			t.Errorf("CoverageRatio(%d, %d) = %q, want %q", tt.count, tt.total, got, tt.want)
		}
	}
}

func TestCoverage_Scenario(t *testing.T) {
	adj, _ := Build(scenarioRoutes())
	c := adj.Coverage(1, NewSet(1, 2, 3, 4))
	if c.OneHopRatio != "50%" || c.TwoHopRatio != "75%" {
		t.Errorf("ratios = %s/%s, want 50%%/75%%", c.OneHopRatio, c.TwoHopRatio)
	}
	if c.Total != 4 {
		t.Errorf("Total = %d, want 4", c.Total)
	}
	if len(c.TwoHop) != 3 || c.TwoHop[0] != 2 || c.TwoHop[2] != 4 {
		t.Errorf("TwoHop = %v, want [2 3 4]", c.TwoHop)
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("id", " 3797 "); err != nil || id != 3797 {
		t.Errorf("ParseID(3797) = %d, %v", id, err)
	}
	for _, bad := range []string{"", `\N`, "12a", "1.5", "99999999999"} {
		if _, err := ParseID("id", bad); err == nil {
			t.Errorf("ParseID(%q) returned nil error", bad)
		}
	}
	_, err := ParseID("id", `\N`)
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("ParseID(\\N) error = %v, want ErrMissingField", err)
	}
}
