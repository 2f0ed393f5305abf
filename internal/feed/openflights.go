package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"airmap/internal/graph"
)

// Column positions in the OpenFlights airports.dat and routes.dat files.
// See https://openflights.org/data.html.
const (
	airportColID       = 0
	airportColName     = 1
	airportColCity     = 2
	airportColCountry  = 3
	airportColIATA     = 4
	airportColICAO     = 5
	airportColLat      = 6
	airportColLon      = 7
	airportColAltitude = 8
	airportMinCols     = 9

	routeColAirline   = 0
	routeColSourceID  = 3
	routeColDestID    = 5
	routeColEquipment = 8
	routeMinCols      = 6
)

var errShortRecord = errors.New("too few fields")

// ReadAirports parses OpenFlights airports.dat rows. In strict mode the
// first malformed row aborts the read with a *graph.ParseError; otherwise
// malformed rows are skipped and counted.
func ReadAirports(r io.Reader, strict bool) ([]graph.Airport, int, error) {
	var airports []graph.Airport
	skipped := 0
	err := readCSV(r, func(line int, rec []string) error {
		a, err := parseAirport(rec)
		if err != nil {
			return withLine(err, line)
		}
		airports = append(airports, a)
		return nil
	}, strict, &skipped)
	return airports, skipped, err
}

// ReadRoutes parses OpenFlights routes.dat rows. Only the source and
// destination airport IDs are required.
func ReadRoutes(r io.Reader, strict bool) ([]graph.Route, int, error) {
	var routes []graph.Route
	skipped := 0
	err := readCSV(r, func(line int, rec []string) error {
		rt, err := parseRoute(rec)
		if err != nil {
			return withLine(err, line)
		}
		routes = append(routes, rt)
		return nil
	}, strict, &skipped)
	return routes, skipped, err
}

func parseAirport(rec []string) (graph.Airport, error) {
	if len(rec) < airportMinCols {
		return graph.Airport{}, &graph.ParseError{
			Field: "airport record",
			Value: strings.Join(rec, ","),
			Err:   fmt.Errorf("%w: want at least %d, got %d", errShortRecord, airportMinCols, len(rec)),
		}
	}
	id, err := graph.ParseID("id", rec[airportColID])
	if err != nil {
		return graph.Airport{}, err
	}
	lat, err := graph.ParseFloat("latitude", rec[airportColLat])
	if err != nil {
		return graph.Airport{}, err
	}
	lon, err := graph.ParseFloat("longitude", rec[airportColLon])
	if err != nil {
		return graph.Airport{}, err
	}
	alt, err := graph.ParseFloat("altitude", rec[airportColAltitude])
	if err != nil {
		return graph.Airport{}, err
	}
	code := rec[airportColIATA]
	if graph.IsNull(code) {
		code = rec[airportColICAO]
	}
	if graph.IsNull(code) {
		code = ""
	}
	return graph.Airport{
		ID:       id,
		Code:     strings.TrimSpace(code),
		Name:     strings.TrimSpace(rec[airportColName]),
		City:     strings.TrimSpace(rec[airportColCity]),
		Country:  strings.TrimSpace(rec[airportColCountry]),
		Altitude: alt,
		Location: graph.Location{Lat: lat, Lon: lon},
	}, nil
}

func parseRoute(rec []string) (graph.Route, error) {
	if len(rec) < routeMinCols {
		return graph.Route{}, &graph.ParseError{
			Field: "route record",
			Value: strings.Join(rec, ","),
			Err:   fmt.Errorf("%w: want at least %d, got %d", errShortRecord, routeMinCols, len(rec)),
		}
	}
	rt, err := graph.RouteRecord{Source: rec[routeColSourceID], Destination: rec[routeColDestID]}.Parse()
	if err != nil {
		return graph.Route{}, err
	}
	rt.Airline = strings.TrimSpace(rec[routeColAirline])
	if len(rec) > routeColEquipment {
		rt.Equipment = strings.TrimSpace(rec[routeColEquipment])
	}
	return rt, nil
}

func withLine(err error, line int) error {
	var pe *graph.ParseError
	if errors.As(err, &pe) && pe.Line == 0 {
		pe.Line = line
	}
	return err
}

// readCSV feeds each row to fn. Rows whose fn returns a *graph.ParseError
// are skipped unless strict is set.
func readCSV(r io.Reader, fn func(line int, rec []string) error, strict bool, skipped *int) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line, _ := cr.FieldPos(0)
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if err := fn(line, rec); err != nil {
			var pe *graph.ParseError
			if strict || !errors.As(err, &pe) {
				return err
			}
			*skipped++
		}
	}
}
