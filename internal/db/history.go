package db

import (
	"time"
)

// InspectRecord is one entry of the inspected-airport history.
type InspectRecord struct {
	ID          int64  `json:"id"`
	Timestamp   string `json:"timestamp"`
	AirportID   int32  `json:"airport_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	OneHop      string `json:"one_hop"`
	TwoHop      string `json:"two_hop"`
	OneHopCount int    `json:"one_hop_count"`
	TwoHopCount int    `json:"two_hop_count"`
}

// InsertInspect records that an airport's coverage was viewed and returns the row ID.
func (d *DB) InsertInspect(r InspectRecord) int64 {
	if r.Timestamp == "" {
		r.Timestamp = time.Now().Format(time.RFC3339)
	}
	result, err := d.sql.Exec(
		`INSERT INTO inspect_history (timestamp, airport_id, code, name, one_hop, two_hop, one_hop_count, two_hop_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Timestamp, r.AirportID, r.Code, r.Name, r.OneHop, r.TwoHop, r.OneHopCount, r.TwoHopCount,
	)
	if err != nil {
		return 0
	}
	id, _ := result.LastInsertId()
	return id
}

// GetInspectHistory returns the last N inspections (newest first).
func (d *DB) GetInspectHistory(limit int) []InspectRecord {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(
		`SELECT id, timestamp, airport_id, code, name, one_hop, two_hop,
		 one_hop_count, two_hop_count
		 FROM inspect_history ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return []InspectRecord{}
	}
	defer rows.Close()

	var records []InspectRecord
	for rows.Next() {
		var r InspectRecord
		rows.Scan(&r.ID, &r.Timestamp, &r.AirportID, &r.Code, &r.Name, &r.OneHop, &r.TwoHop, &r.OneHopCount, &r.TwoHopCount)
		records = append(records, r)
	}
	if records == nil {
		return []InspectRecord{}
	}
	return records
}

// ClearInspectHistory deletes all inspections and returns how many were removed.
func (d *DB) ClearInspectHistory() int64 {
	result, err := d.sql.Exec("DELETE FROM inspect_history")
	if err != nil {
		return 0
	}
	n, _ := result.RowsAffected()
	return n
}
