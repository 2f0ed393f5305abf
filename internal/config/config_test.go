package config

import (
	"testing"
)

func TestDefault_Values(t *testing.T) {
	c := Default()
	if c == nil {
		t.Fatal("Default() returned nil")
	}
	if c.AirportFormat != FormatOpenFlights {
		t.Errorf("AirportFormat = %q, want %q", c.AirportFormat, FormatOpenFlights)
	}
	if !c.SymmetricRoutes {
		t.Error("SymmetricRoutes = false, want true")
	}
	if !c.StrictParse {
		t.Error("StrictParse = false, want true")
	}
	if c.CoverageCacheSize != 512 {
		t.Errorf("CoverageCacheSize = %v, want 512", c.CoverageCacheSize)
	}
	if c.MaxHops != 6 {
		t.Errorf("MaxHops = %v, want 6", c.MaxHops)
	}
	if c.MapWidth != 900 || c.MapHeight != 600 {
		t.Errorf("Map = %vx%v, want 900x600", c.MapWidth, c.MapHeight)
	}
}
