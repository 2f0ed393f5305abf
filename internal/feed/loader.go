package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"airmap/internal/config"
	"airmap/internal/graph"
	"airmap/internal/logger"
)

// Options selects the data sources for Load.
type Options struct {
	AirportsPath  string
	RoutesPath    string
	AirportFormat string // config.FormatOpenFlights or config.FormatShapefile
	Strict        bool
	// AirportsURL and RoutesURL are fetched when the file is missing.
	AirportsURL string
	RoutesURL   string
	// SnapshotDir enables the parsed-data snapshot when non-empty.
	SnapshotDir string
}

// OptionsFromConfig maps the persisted config onto loader options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		AirportsPath:  cfg.AirportsPath,
		RoutesPath:    cfg.RoutesPath,
		AirportFormat: cfg.AirportFormat,
		Strict:        cfg.StrictParse,
		AirportsURL:   cfg.AirportsURL,
		RoutesURL:     cfg.RoutesURL,
	}
	if cfg.UseSnapshot {
		opts.SnapshotDir = filepath.Dir(cfg.RoutesPath)
	}
	return opts
}

// Data holds the loaded airports and routes plus the structures derived
// from them. It is read-only once Load returns.
type Data struct {
	Airports map[int32]*graph.Airport // airportID -> airport
	Order    []int32                  // airport IDs in file order
	Routes   []graph.Route

	Adjacency graph.AdjacencyMap
	Index     *graph.RouteIndex
	// Active holds the airports with at least one outgoing route.
	Active []graph.Airport

	all       graph.Set
	locations map[int32]graph.Location

	SkippedAirports int
	SkippedRoutes   int
}

// Load reads airports and routes, concurrently, and builds the connectivity
// model from them.
func Load(ctx context.Context, opts Options) (*Data, error) {
	if err := FetchMissing(ctx, opts); err != nil {
		return nil, err
	}

	snapPath := ""
	source := sourceOf(opts)
	if opts.SnapshotDir != "" {
		snapPath = snapshotPath(opts.SnapshotDir)
		if snapshotFresh(snapPath, opts.AirportsPath, opts.RoutesPath) {
			snap, err := retrieveSnapshot(snapPath)
			switch {
			case err != nil:
				logger.Warn("FEED", fmt.Sprintf("Snapshot unreadable, reparsing: %v", err))
			case snap.Source != source:
				logger.Info("FEED", "Snapshot was built from other sources, reparsing")
			default:
				logger.Info("FEED", "Using snapshot "+snapPath)
				data := newData(snap.Airports, snap.Routes)
				data.SkippedAirports = snap.SkippedAirports
				data.SkippedRoutes = snap.SkippedRoutes
				return data, nil
			}
		}
	}

	var (
		airports           []graph.Airport
		routes             []graph.Route
		skippedA, skippedR int
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("FEED", "Loading airports...")
		var err error
		switch opts.AirportFormat {
		case config.FormatShapefile:
			airports, skippedA, err = LoadAirportsShapefile(opts.AirportsPath, opts.Strict)
		case config.FormatOpenFlights, "":
			airports, skippedA, err = loadFile(ctx, opts.AirportsPath, func(f *os.File) ([]graph.Airport, int, error) {
				return ReadAirports(f, opts.Strict)
			})
		default:
			err = fmt.Errorf("unknown airport format %q", opts.AirportFormat)
		}
		if err != nil {
			return fmt.Errorf("load airports: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("FEED", "Loading routes...")
		var err error
		routes, skippedR, err = loadFile(ctx, opts.RoutesPath, func(f *os.File) ([]graph.Route, int, error) {
			return ReadRoutes(f, opts.Strict)
		})
		if err != nil {
			return fmt.Errorf("load routes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if skippedA > 0 {
		logger.Warn("FEED", fmt.Sprintf("Skipped %d malformed airport rows", skippedA))
	}
	if skippedR > 0 {
		logger.Warn("FEED", fmt.Sprintf("Skipped %d malformed route rows", skippedR))
	}

	data := newData(airports, routes)
	data.SkippedAirports = skippedA
	data.SkippedRoutes = skippedR

	if snapPath != "" {
		snap := &snapshot{
			Version:         snapshotVersion,
			Source:          source,
			Airports:        airports,
			Routes:          routes,
			SkippedAirports: skippedA,
			SkippedRoutes:   skippedR,
		}
		if err := storeSnapshot(snapPath, snap); err != nil {
			logger.Warn("FEED", fmt.Sprintf("Snapshot not written: %v", err))
		}
	}

	logger.Section("Dataset Statistics")
	logger.Stats("Airports", len(data.Airports))
	logger.Stats("Active airports", len(data.Active))
	logger.Stats("Routes", len(data.Routes))
	logger.Stats("Route paths", data.Index.Len())
	logger.Stats("Routes without path", data.Index.Skipped())
	return data, nil
}

func loadFile[T any](ctx context.Context, path string, read func(*os.File) ([]T, int, error)) ([]T, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return read(f)
}

// NewData builds a Data from already parsed records.
func NewData(airports []graph.Airport, routes []graph.Route) *Data {
	return newData(airports, routes)
}

func newData(airports []graph.Airport, routes []graph.Route) *Data {
	d := &Data{
		Airports:  make(map[int32]*graph.Airport, len(airports)),
		Order:     make([]int32, 0, len(airports)),
		Routes:    routes,
		all:       make(graph.Set, len(airports)),
		locations: make(map[int32]graph.Location, len(airports)),
	}
	for i := range airports {
		a := &airports[i]
		if _, dup := d.Airports[a.ID]; dup {
			continue
		}
		d.Airports[a.ID] = a
		d.Order = append(d.Order, a.ID)
		d.all.Add(a.ID)
		d.locations[a.ID] = a.Location
	}

	d.Adjacency = graph.FromRoutes(routes)
	ordered := make([]graph.Airport, 0, len(d.Order))
	for _, id := range d.Order {
		ordered = append(ordered, *d.Airports[id])
	}
	d.Active = graph.FilterReachableAirports(ordered, d.Adjacency)
	d.Index = graph.NewRouteIndex(routes, d.locations)
	return d
}

// Airport returns the airport with the given ID.
func (d *Data) Airport(id int32) (*graph.Airport, bool) {
	a, ok := d.Airports[id]
	return a, ok
}

// AirportSet returns the IDs of every loaded airport. It must not be modified.
func (d *Data) AirportSet() graph.Set { return d.all }

// Locations returns airportID -> location for every loaded airport.
func (d *Data) Locations() map[int32]graph.Location { return d.locations }

// Total is the size of the full airport set, the denominator of coverage ratios.
func (d *Data) Total() int { return len(d.Airports) }

// Coverage returns one-hop and two-hop coverage for a loaded airport.
func (d *Data) Coverage(id int32) (graph.Coverage, error) {
	if _, ok := d.Airports[id]; !ok {
		return graph.Coverage{}, fmt.Errorf("airport %d: %w", id, graph.ErrUnknownAirport)
	}
	return d.Adjacency.Coverage(id, d.all), nil
}
