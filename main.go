package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"airmap/internal/api"
	"airmap/internal/config"
	"airmap/internal/db"
	"airmap/internal/feed"
	"airmap/internal/logger"
	"airmap/internal/panel"
	"airmap/internal/view"
)

var version = "dev"

func main() {
	port := flag.Int("port", 13380, "HTTP server port")
	dbPath := flag.String("db", envOrDefault("AIRMAP_DB", db.DefaultPath()), "SQLite database path")
	logPath := flag.String("log", os.Getenv("AIRMAP_LOG"), "also write the log to this file")
	airports := flag.String("airports", "", "airports file (overrides stored config)")
	routes := flag.String("routes", "", "routes file (overrides stored config)")
	format := flag.String("format", "", "airports file format: openflights or shapefile")
	lenient := flag.Bool("lenient", false, "skip malformed rows instead of failing")
	inspect := flag.String("inspect", "", "print the panel for one airport (ID or code) and exit")
	flag.Parse()

	logger.Banner(version)
	if *logPath != "" {
		logger.SetFile(*logPath)
		defer logger.Close()
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	cfg := database.LoadConfig()
	if *airports != "" {
		cfg.AirportsPath = *airports
	}
	if *routes != "" {
		cfg.RoutesPath = *routes
	}
	if *format != "" {
		cfg.AirportFormat = *format
	}
	if *lenient {
		cfg.StrictParse = false
	}

	if *inspect != "" {
		if err := runInspect(cfg, database, *inspect); err != nil {
			logger.Error("INSPECT", err.Error())
			os.Exit(1)
		}
		return
	}

	srv := api.NewServer(cfg, database)

	// Load the dataset in background
	go srv.Reload(context.Background())

	addr := fmt.Sprintf("127.0.0.1:%d", *port)
	logger.Server(addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
}

// runInspect loads the dataset, clicks the requested airport and prints
// its info panel.
func runInspect(cfg *config.Config, database *db.DB, query string) error {
	data, err := feed.Load(context.Background(), feed.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	id, err := resolveAirport(data, query)
	if err != nil {
		return err
	}

	vp := view.NewViewport(cfg.MapX, cfg.MapY, cfg.MapWidth, cfg.MapHeight)
	ctrl := view.NewController(data, vp, cfg.SymmetricRoutes)
	m, err := ctrl.Select(id)
	if err != nil {
		return fmt.Errorf("airport %s has no outgoing routes: %w", query, err)
	}

	c, ok := m.Coverage()
	if !ok {
		return fmt.Errorf("airport %s: coverage not computed", query)
	}
	database.InsertInspect(db.InspectRecord{
		AirportID:   id,
		Code:        m.Airport().Code,
		Name:        m.Airport().Name,
		OneHop:      c.OneHopRatio,
		TwoHop:      c.TwoHopRatio,
		OneHopCount: len(c.OneHop),
		TwoHopCount: len(c.TwoHop),
	})

	fmt.Println(panel.Render(m))
	fmt.Printf("%d routes shown\n", len(ctrl.VisibleRoutes()))
	return nil
}

// resolveAirport accepts a numeric airport ID or an airport code.
func resolveAirport(data *feed.Data, query string) (int32, error) {
	if n, err := strconv.ParseInt(query, 10, 32); err == nil {
		if _, ok := data.Airport(int32(n)); ok {
			return int32(n), nil
		}
	}
	for _, id := range data.Order {
		if strings.EqualFold(data.Airports[id].Code, query) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown airport %q", query)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
