package feed

import (
	"compress/flate"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"airmap/internal/config"
	"airmap/internal/graph"
)

const snapshotVersion = 2

// snapshotSource identifies the inputs a snapshot was parsed from. A
// snapshot is only reused by a load with an identical source.
type snapshotSource struct {
	AirportsPath  string
	RoutesPath    string
	AirportFormat string
	Strict        bool
}

type snapshot struct {
	Version  int
	Source   snapshotSource
	Airports []graph.Airport
	Routes   []graph.Route

	SkippedAirports int
	SkippedRoutes   int
}

func sourceOf(opts Options) snapshotSource {
	src := snapshotSource{
		AirportsPath:  absPath(opts.AirportsPath),
		RoutesPath:    absPath(opts.RoutesPath),
		AirportFormat: opts.AirportFormat,
		Strict:        opts.Strict,
	}
	if src.AirportFormat == "" {
		src.AirportFormat = config.FormatOpenFlights
	}
	return src
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func snapshotPath(dir string) string {
	return filepath.Join(dir, "airmap.snapshot")
}

// snapshotFresh reports whether the snapshot exists and is newer than
// every source file.
func snapshotFresh(path string, sources ...string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	for _, src := range sources {
		si, err := os.Stat(src)
		if err != nil || !fi.ModTime().After(si.ModTime()) {
			return false
		}
	}
	return true
}

func storeSnapshot(path string, s *snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	fw, err := flate.NewWriter(f, flate.BestSpeed)
	if err != nil {
		f.Close()
		return err
	}
	if err := msgpack.NewEncoder(fw).Encode(s); err != nil {
		f.Close()
		return err
	}
	if err := fw.Close(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func retrieveSnapshot(path string) (*snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fr := flate.NewReader(f)
	defer fr.Close()

	var s snapshot
	if err := msgpack.NewDecoder(fr).Decode(&s); err != nil {
		return nil, err
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", s.Version, snapshotVersion)
	}
	return &s, nil
}
