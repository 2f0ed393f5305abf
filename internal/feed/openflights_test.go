package feed

import (
	"errors"
	"strings"
	"testing"

	"airmap/internal/graph"
)

const sampleAirports = `1,"Goroka Airport","Goroka","Papua New Guinea","GKA","AYGA",-6.081689834590001,145.391998291,5282,10,"U","Pacific/Port_Moresby","airport","OurAirports"
2,"Madang Airport","Madang","Papua New Guinea","MAG","AYMD",-5.20707988739,145.789001465,20,10,"U","Pacific/Port_Moresby","airport","OurAirports"
3,"Mount Hagen Kagamuga Airport","Mount Hagen","Papua New Guinea",\N,"AYMH",-5.826789855957031,144.29600524902344,5388,10,"U","Pacific/Port_Moresby","airport","OurAirports"
4,"Nadzab Airport","Nadzab","Papua New Guinea","LAE","AYNZ",-6.569803,146.725977,239,10,"U","Pacific/Port_Moresby","airport","OurAirports"
`

const sampleRoutes = `2B,410,AER,2965,KZN,2990,,0,CR2
2B,410,GKA,1,MAG,2,,0,CR2
2B,410,GKA,1,LAE,4,,0,CR2
5Q,\N,MAG,2,HGU,3,,0,DH8
5Q,\N,MAG,2,GKA,1,Y,0,DH8
`

func TestReadAirports(t *testing.T) {
	airports, skipped, err := ReadAirports(strings.NewReader(sampleAirports), true)
	if err != nil {
		t.Fatalf("ReadAirports: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(airports) != 4 {
		t.Fatalf("len = %d, want 4", len(airports))
	}
	gka := airports[0]
	if gka.ID != 1 || gka.Code != "GKA" || gka.Name != "Goroka Airport" || gka.Country != "Papua New Guinea" {
		t.Errorf("airport 1 = %+v", gka)
	}
	if gka.Altitude != 5282 {
		t.Errorf("altitude = %v, want 5282", gka.Altitude)
	}
	if gka.Location.Lat > -6 || gka.Location.Lon < 145 {
		t.Errorf("location = %+v", gka.Location)
	}
	if airports[2].Code != "AYMH" {
		t.Errorf("code with null IATA = %q, want ICAO AYMH", airports[2].Code)
	}
}

func TestReadAirports_MalformedStrictAndLenient(t *testing.T) {
	data := sampleAirports + `5,"Broken","X","Y","BRK","XXXX",1.0,2.0,high,10,"U","UTC","airport","OurAirports"
6,"Short","X"
`
	_, _, err := ReadAirports(strings.NewReader(data), true)
	var pe *graph.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("strict error = %v, want *graph.ParseError", err)
	}
	if pe.Field != "altitude" || pe.Line != 5 {
		t.Errorf("ParseError field/line = %s/%d, want altitude/5", pe.Field, pe.Line)
	}

	airports, skipped, err := ReadAirports(strings.NewReader(data), false)
	if err != nil {
		t.Fatalf("lenient ReadAirports: %v", err)
	}
	if len(airports) != 4 || skipped != 2 {
		t.Errorf("got %d airports, %d skipped; want 4, 2", len(airports), skipped)
	}
}

func TestReadRoutes(t *testing.T) {
	routes, skipped, err := ReadRoutes(strings.NewReader(sampleRoutes), true)
	if err != nil {
		t.Fatalf("ReadRoutes: %v", err)
	}
	if skipped != 0 || len(routes) != 5 {
		t.Fatalf("got %d routes, %d skipped; want 5, 0", len(routes), skipped)
	}
	r := routes[1]
	if r.Source != 1 || r.Destination != 2 || r.Airline != "2B" || r.Equipment != "CR2" {
		t.Errorf("route = %+v", r)
	}
}

func TestReadRoutes_NullAirportID(t *testing.T) {
	data := sampleRoutes + `ZZ,1,XXX,\N,GKA,1,,0,737
`
	_, _, err := ReadRoutes(strings.NewReader(data), true)
	var pe *graph.ParseError
	if !errors.As(err, &pe) || pe.Field != "source" || pe.Line != 6 {
		t.Fatalf("strict error = %v, want source ParseError on line 6", err)
	}
	if !errors.Is(err, graph.ErrMissingField) {
		t.Errorf("error %v does not wrap ErrMissingField", err)
	}

	routes, skipped, err := ReadRoutes(strings.NewReader(data), false)
	if err != nil {
		t.Fatalf("lenient ReadRoutes: %v", err)
	}
	if len(routes) != 5 || skipped != 1 {
		t.Errorf("got %d routes, %d skipped; want 5, 1", len(routes), skipped)
	}
}
