package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"airmap/internal/config"
	"airmap/internal/db"
	"airmap/internal/feed"
	"airmap/internal/graph"
	"airmap/internal/logger"
	"airmap/internal/view"
)

// Server is the HTTP API over the loaded airport network.
type Server struct {
	cfg  *config.Config
	db   *db.DB
	mu   sync.RWMutex
	data *feed.Data

	ready    bool
	loading  bool
	loadErr  string
	loadedAt time.Time

	// The view controller is single-threaded; viewMu serialises requests.
	viewMu     sync.Mutex
	controller *view.Controller

	// Coverage per airport of the current dataset. SetData installs a fresh
	// cache and bumps gen, which also scopes the singleflight keys.
	coverage *lru.Cache[int32, graph.Coverage]
	gen      uint64
	group    singleflight.Group
}

// NewServer creates a Server. database may be nil, in which case nothing is
// persisted.
func NewServer(cfg *config.Config, database *db.DB) *Server {
	return &Server{
		cfg:      cfg,
		db:       database,
		coverage: newCoverageCache(cfg.CoverageCacheSize),
	}
}

func newCoverageCache(size int) *lru.Cache[int32, graph.Coverage] {
	if size <= 0 {
		size = config.Default().CoverageCacheSize
	}
	c, _ := lru.New[int32, graph.Coverage](size)
	return c
}

// SetData installs a loaded dataset and resets everything derived from the
// previous one.
func (s *Server) SetData(data *feed.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.ready = true
	s.loadErr = ""
	s.loadedAt = time.Now()
	s.coverage = newCoverageCache(s.cfg.CoverageCacheSize)
	s.gen++

	vp := view.NewViewport(s.cfg.MapX, s.cfg.MapY, s.cfg.MapWidth, s.cfg.MapHeight)
	s.viewMu.Lock()
	s.controller = view.NewController(data, vp, s.cfg.SymmetricRoutes)
	s.viewMu.Unlock()
}

// Reload loads the dataset named by the current config and installs it.
// Concurrent calls while a load is running return immediately.
func (s *Server) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	opts := feed.OptionsFromConfig(s.cfg)
	s.mu.Unlock()

	data, err := feed.Load(ctx, opts)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.loadErr = err.Error()
		s.mu.Unlock()
		logger.Error("FEED", fmt.Sprintf("Load failed: %v", err))
		return err
	}
	s.mu.Unlock()

	s.SetData(data)
	logger.Success("FEED", "Dataset ready")
	return nil
}

func (s *Server) snapshot() (*feed.Data, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data, s.ready
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("POST /api/config", s.handleSetConfig)
	mux.HandleFunc("POST /api/reload", s.handleReload)
	mux.HandleFunc("GET /api/legend", s.handleLegend)
	// Airports and routes
	mux.HandleFunc("GET /api/airports", s.handleAirports)
	mux.HandleFunc("GET /api/airports/{id}", s.handleAirport)
	mux.HandleFunc("GET /api/airports/{id}/coverage", s.handleCoverage)
	mux.HandleFunc("GET /api/airports/{id}/neighbors", s.handleNeighbors)
	mux.HandleFunc("GET /api/routes", s.handleRoutes)
	mux.HandleFunc("GET /api/routes/{src}/{dst}", s.handleRouteLookup)
	mux.HandleFunc("POST /api/route/find", s.handleRouteFind)
	// View controller
	mux.HandleFunc("GET /api/view", s.handleViewState)
	mux.HandleFunc("POST /api/view/hover", s.handleViewHover)
	mux.HandleFunc("POST /api/view/click", s.handleViewClick)
	mux.HandleFunc("POST /api/view/select", s.handleViewSelect)
	mux.HandleFunc("POST /api/view/reset", s.handleViewReset)
	mux.HandleFunc("POST /api/view/viewport", s.handleViewport)
	// History
	mux.HandleFunc("GET /api/history", s.handleGetHistory)
	mux.HandleFunc("POST /api/history/clear", s.handleClearHistory)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// requireData returns the dataset or writes 503 when it is not loaded yet.
func (s *Server) requireData(w http.ResponseWriter) (*feed.Data, bool) {
	data, ready := s.snapshot()
	if !ready {
		writeError(w, 503, "dataset not loaded yet")
		return nil, false
	}
	return data, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	id, err := graph.ParseID(name, r.PathValue(name))
	if err != nil {
		writeError(w, 400, err.Error())
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	result := map[string]interface{}{
		"loaded":  s.ready,
		"loading": s.loading,
	}
	if s.loadErr != "" {
		result["error"] = s.loadErr
	}
	if d := s.data; d != nil {
		result["airports"] = d.Total()
		result["active_airports"] = len(d.Active)
		result["routes"] = len(d.Routes)
		result["route_paths"] = d.Index.Len()
		result["routes_without_path"] = d.Index.Skipped()
		result["skipped_airport_rows"] = d.SkippedAirports
		result["skipped_route_rows"] = d.SkippedRoutes
		result["loaded_at"] = s.loadedAt.Unix()
	}
	s.mu.RUnlock()
	writeJSON(w, result)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, s.cfg)
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, 400, "invalid json")
		return
	}

	s.mu.Lock()
	if v, ok := patch["airports_path"]; ok {
		json.Unmarshal(v, &s.cfg.AirportsPath)
	}
	if v, ok := patch["routes_path"]; ok {
		json.Unmarshal(v, &s.cfg.RoutesPath)
	}
	if v, ok := patch["airports_url"]; ok {
		json.Unmarshal(v, &s.cfg.AirportsURL)
	}
	if v, ok := patch["routes_url"]; ok {
		json.Unmarshal(v, &s.cfg.RoutesURL)
	}
	if v, ok := patch["airport_format"]; ok {
		var format string
		json.Unmarshal(v, &format)
		if format != config.FormatOpenFlights && format != config.FormatShapefile {
			s.mu.Unlock()
			writeError(w, 400, fmt.Sprintf("unknown airport_format %q", format))
			return
		}
		s.cfg.AirportFormat = format
	}
	if v, ok := patch["strict_parse"]; ok {
		json.Unmarshal(v, &s.cfg.StrictParse)
	}
	if v, ok := patch["use_snapshot"]; ok {
		json.Unmarshal(v, &s.cfg.UseSnapshot)
	}
	if v, ok := patch["symmetric_routes"]; ok {
		json.Unmarshal(v, &s.cfg.SymmetricRoutes)
	}
	if v, ok := patch["coverage_cache_size"]; ok {
		json.Unmarshal(v, &s.cfg.CoverageCacheSize)
		if s.cfg.CoverageCacheSize < 1 {
			s.cfg.CoverageCacheSize = config.Default().CoverageCacheSize
		}
		s.coverage.Resize(s.cfg.CoverageCacheSize)
	}
	if v, ok := patch["max_hops"]; ok {
		json.Unmarshal(v, &s.cfg.MaxHops)
		if s.cfg.MaxHops < 1 {
			s.cfg.MaxHops = 1
		}
	}
	cfg := *s.cfg
	s.mu.Unlock()

	if _, ok := patch["symmetric_routes"]; ok {
		s.viewMu.Lock()
		if s.controller != nil {
			s.controller.SetSymmetric(cfg.SymmetricRoutes)
		}
		s.viewMu.Unlock()
	}

	if s.db != nil {
		if err := s.db.SaveConfig(&cfg); err != nil {
			log.Printf("[API] SaveConfig error: %v", err)
			writeError(w, 500, "failed to save config")
			return
		}
	}
	writeJSON(w, cfg)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	go s.Reload(context.Background())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]bool{"reloading": true})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, []db.InspectRecord{})
		return
	}
	writeJSON(w, s.db.GetInspectHistory(queryInt(r, "limit", 50)))
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	var removed int64
	if s.db != nil {
		removed = s.db.ClearInspectHistory()
	}
	writeJSON(w, map[string]int64{"removed": removed})
}
