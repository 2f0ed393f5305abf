package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"airmap/internal/config"
	"airmap/internal/logger"
)

const userAgent = "airmap/1.0"

var httpClient = &http.Client{Timeout: 2 * time.Minute}

// FetchMissing downloads each data file that does not exist locally and has
// a source URL. Shapefiles are never fetched since they span several files.
func FetchMissing(ctx context.Context, opts Options) error {
	g, ctx := errgroup.WithContext(ctx)
	if opts.AirportFormat != config.FormatShapefile {
		fetchIfMissing(ctx, g, opts.AirportsPath, opts.AirportsURL)
	}
	fetchIfMissing(ctx, g, opts.RoutesPath, opts.RoutesURL)
	return g.Wait()
}

func fetchIfMissing(ctx context.Context, g *errgroup.Group, path, url string) {
	if url == "" || path == "" {
		return
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return
	}
	g.Go(func() error {
		logger.Info("FEED", fmt.Sprintf("Downloading %s...", filepath.Base(path)))
		if err := downloadFile(ctx, path, url); err != nil {
			return fmt.Errorf("download %s: %w", filepath.Base(path), err)
		}
		return nil
	})
}

// downloadFile writes url to dst. The body goes to a temporary file first so
// an interrupted download never leaves a truncated dst behind.
func downloadFile(ctx context.Context, dst, url string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	tmp := dst + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
