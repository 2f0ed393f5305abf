package feed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"

	"airmap/internal/graph"
)

// Attribute names accepted for each airport field, first match wins.
var shapefileFields = map[string][]string{
	"id":       {"id", "airport_id", "of_id"},
	"code":     {"code", "iata_code", "iata", "gps_code", "icao"},
	"name":     {"name"},
	"city":     {"city", "municipali"},
	"country":  {"country", "iso_countr"},
	"altitude": {"altitude", "elevation", "elev_ft"},
}

// LoadAirportsShapefile reads airports from a point shapefile whose
// attribute table carries at least id and altitude columns. Shapes that are not points
// are ignored.
func LoadAirportsShapefile(path string, strict bool) ([]graph.Airport, int, error) {
	shapeFile, err := shp.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open airport shapefile: %w", err)
	}
	defer shapeFile.Close()

	cols := make(map[string]int)
	for i, f := range shapeFile.Fields() {
		cols[strings.ToLower(strings.TrimSpace(f.String()))] = i
	}
	col := func(field string) int {
		for _, name := range shapefileFields[field] {
			if i, ok := cols[name]; ok {
				return i
			}
		}
		return -1
	}
	idCol, altCol := col("id"), col("altitude")
	for field, c := range map[string]int{"id": idCol, "altitude": altCol} {
		if c < 0 {
			return nil, 0, &graph.ParseError{Field: field + " column", Value: path, Err: graph.ErrMissingField}
		}
	}
	codeCol, nameCol, cityCol, countryCol := col("code"), col("name"), col("city"), col("country")

	attr := func(row, c int) string {
		if c < 0 {
			return ""
		}
		return strings.TrimSpace(shapeFile.ReadAttribute(row, c))
	}

	var airports []graph.Airport
	skipped := 0
	for shapeFile.Next() {
		row, shape := shapeFile.Shape()
		point, ok := shape.(*shp.Point)
		if !ok {
			continue
		}
		a, err := func() (graph.Airport, error) {
			id, err := graph.ParseID("id", attr(row, idCol))
			if err != nil {
				return graph.Airport{}, err
			}
			alt, err := graph.ParseFloat("altitude", attr(row, altCol))
			if err != nil {
				return graph.Airport{}, err
			}
			return graph.Airport{
				ID:       id,
				Code:     attr(row, codeCol),
				Name:     attr(row, nameCol),
				City:     attr(row, cityCol),
				Country:  attr(row, countryCol),
				Altitude: alt,
				Location: graph.Location{Lat: point.Y, Lon: point.X},
			}, nil
		}()
		if err != nil {
			var pe *graph.ParseError
			if errors.As(err, &pe) {
				pe.Line = row + 1
			}
			if strict {
				return nil, skipped, err
			}
			skipped++
			continue
		}
		airports = append(airports, a)
	}
	if err := shapeFile.Err(); err != nil {
		return nil, skipped, err
	}

	if len(airports) == 0 {
		return nil, skipped, fmt.Errorf("no airport points found in shapefile: %s", path)
	}
	return airports, skipped, nil
}
