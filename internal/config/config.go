package config

// Airport data formats understood by the feed loader.
const (
	FormatOpenFlights = "openflights"
	FormatShapefile   = "shapefile"
)

// Config holds application settings (in-memory representation).
// Persistence is handled by internal/db package.
type Config struct {
	AirportsPath  string `json:"airports_path"`
	RoutesPath    string `json:"routes_path"`
	AirportFormat string `json:"airport_format"` // openflights | shapefile

	// Download sources for missing OpenFlights files. Empty disables fetching.
	AirportsURL string `json:"airports_url"`
	RoutesURL   string `json:"routes_url"`

	// StrictParse fails the load on the first malformed row; otherwise
	// malformed rows are logged and skipped.
	StrictParse bool `json:"strict_parse"`
	// UseSnapshot caches the parsed dataset beside the data files.
	UseSnapshot bool `json:"use_snapshot"`

	// SymmetricRoutes reveals a route path stored as B->A when A->B is asked for.
	SymmetricRoutes bool `json:"symmetric_routes"`

	CoverageCacheSize int `json:"coverage_cache_size"`
	MaxHops           int `json:"max_hops"`

	// Map viewport used by the view controller.
	MapX      float64 `json:"map_x"`
	MapY      float64 `json:"map_y"`
	MapWidth  float64 `json:"map_width"`
	MapHeight float64 `json:"map_height"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		AirportsPath:      "data/airports.dat",
		RoutesPath:        "data/routes.dat",
		AirportFormat:     FormatOpenFlights,
		StrictParse:       true,
		UseSnapshot:       true,
		SymmetricRoutes:   true,
		CoverageCacheSize: 512,
		MaxHops:           6,
		MapX:              200,
		MapY:              50,
		MapWidth:          900,
		MapHeight:         600,
	}
}
