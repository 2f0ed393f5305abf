package graph

// Location is a geographic position in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Airport is a single airport record. Records are immutable once loaded.
type Airport struct {
	ID       int32    `json:"id"`
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	City     string   `json:"city"`
	Country  string   `json:"country"`
	Altitude float64  `json:"altitude"` // feet
	Location Location `json:"location"`
}

// Route is a parsed, directed route between two airports. Airline and
// Equipment are informational only.
type Route struct {
	Source      int32  `json:"source"`
	Destination int32  `json:"destination"`
	Airline     string `json:"airline,omitempty"`
	Equipment   string `json:"equipment,omitempty"`
}

// RouteRecord is a route as it appears in source data, before its airport
// identifiers have been parsed.
type RouteRecord struct {
	Source      string
	Destination string
}

// Parse converts the record's identifiers to a Route.
func (rec RouteRecord) Parse() (Route, error) {
	src, err := ParseID("source", rec.Source)
	if err != nil {
		return Route{}, err
	}
	dst, err := ParseID("destination", rec.Destination)
	if err != nil {
		return Route{}, err
	}
	return Route{Source: src, Destination: dst}, nil
}

// FilterReachableAirports keeps the airports that have at least one outgoing
// route in adj. Input order is preserved.
func FilterReachableAirports(airports []Airport, adj AdjacencyMap) []Airport {
	out := make([]Airport, 0, len(airports))
	for _, a := range airports {
		if _, ok := adj[a.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}
