package db

import (
	"encoding/json"
	"fmt"
	"strconv"

	"airmap/internal/config"
)

// LoadConfig reads config from SQLite. If empty, returns defaults.
func (d *DB) LoadConfig() *config.Config {
	cfg := config.Default()

	rows, err := d.sql.Query("SELECT key, value FROM config")
	if err != nil {
		return cfg
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		rows.Scan(&k, &v)
		m[k] = v
	}

	if len(m) == 0 {
		return cfg
	}

	if v, ok := m["airports_path"]; ok {
		cfg.AirportsPath = v
	}
	if v, ok := m["routes_path"]; ok {
		cfg.RoutesPath = v
	}
	if v, ok := m["airport_format"]; ok {
		cfg.AirportFormat = v
	}
	if v, ok := m["airports_url"]; ok {
		cfg.AirportsURL = v
	}
	if v, ok := m["routes_url"]; ok {
		cfg.RoutesURL = v
	}
	if v, ok := m["strict_parse"]; ok {
		cfg.StrictParse, _ = strconv.ParseBool(v)
	}
	if v, ok := m["use_snapshot"]; ok {
		cfg.UseSnapshot, _ = strconv.ParseBool(v)
	}
	if v, ok := m["symmetric_routes"]; ok {
		cfg.SymmetricRoutes, _ = strconv.ParseBool(v)
	}
	if v, ok := m["coverage_cache_size"]; ok {
		cfg.CoverageCacheSize, _ = strconv.Atoi(v)
	}
	if v, ok := m["max_hops"]; ok {
		cfg.MaxHops, _ = strconv.Atoi(v)
	}
	if v, ok := m["map_x"]; ok {
		cfg.MapX, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["map_y"]; ok {
		cfg.MapY, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["map_width"]; ok {
		cfg.MapWidth, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["map_height"]; ok {
		cfg.MapHeight, _ = strconv.ParseFloat(v, 64)
	}

	return cfg
}

// SaveConfig writes all config fields to SQLite.
func (d *DB) SaveConfig(cfg *config.Config) error {
	// Round-trip through JSON so the keys match the json tags.
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}

	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for k, v := range fields {
		if _, err := stmt.Exec(k, formatValue(v)); err != nil {
			return fmt.Errorf("save config %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
