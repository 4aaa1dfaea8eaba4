package repository

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	"github.com/nmishr/geo-dashboard/internal/models"
)

// csvHeader names the SearchRecord fields in their canonical order.
var csvHeader = []string{
	"id", "query_text", "place_name", "lat", "lon",
	"temperature_c", "humidity_pct", "wind_speed_ms",
	"aqi_index", "traffic_speed_kmh", "created_at",
}

// SQLiteHistory implements SearchHistory on SQLite. The AUTOINCREMENT
// primary key serializes identifier assignment under concurrent appends.
type SQLiteHistory struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewSQLiteHistory opens (or creates) the database at path and runs the
// schema migration. A nil clock selects the real clock; tests inject a fake
// for deterministic timestamps.
func NewSQLiteHistory(path string, clock clockwork.Clock) (*SQLiteHistory, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// SQLite allows a single writer; one pooled connection also keeps
	// :memory: databases from fragmenting across connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteHistory{
		db:    db,
		clock: clock,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteHistory) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS search_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query_text TEXT NOT NULL,
			place_name TEXT NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			temperature_c REAL,
			humidity_pct REAL,
			wind_speed_ms REAL,
			aqi INTEGER,
			traffic_speed_kmh REAL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_search_history_created_at ON search_history(created_at);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}

// Append inserts the record with a store-assigned id and creation timestamp.
func (s *SQLiteHistory) Append(ctx context.Context, rec *models.SearchRecord) error {
	createdAt := s.clock.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO search_history
		(query_text, place_name, lat, lon, temperature_c, humidity_pct, wind_speed_ms, aqi, traffic_speed_kmh, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.QueryText, rec.PlaceName, rec.Coord.Lat, rec.Coord.Lon,
		rec.TemperatureC, rec.HumidityPct, rec.WindSpeedMS,
		rec.AQIIndex, rec.TrafficSpeedKMH, createdAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading inserted id: %w", err)
	}

	rec.ID = id
	rec.CreatedAt = createdAt
	return nil
}

// Recent returns up to limit records, newest first.
func (s *SQLiteHistory) Recent(ctx context.Context, limit int) ([]models.SearchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query_text, place_name, lat, lon,
		       temperature_c, humidity_pct, wind_speed_ms, aqi, traffic_speed_kmh,
		       created_at
		FROM search_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying records: %w", err)
	}
	defer rows.Close()

	records := make([]models.SearchRecord, 0, limit)
	for rows.Next() {
		var (
			rec     models.SearchRecord
			temp    sql.NullFloat64
			hum     sql.NullFloat64
			wind    sql.NullFloat64
			aqiIdx  sql.NullInt64
			traffic sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.ID, &rec.QueryText, &rec.PlaceName, &rec.Coord.Lat, &rec.Coord.Lon,
			&temp, &hum, &wind, &aqiIdx, &traffic, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning record: %w", err)
		}

		rec.TemperatureC = nullFloat(temp)
		rec.HumidityPct = nullFloat(hum)
		rec.WindSpeedMS = nullFloat(wind)
		rec.TrafficSpeedKMH = nullFloat(traffic)
		if aqiIdx.Valid {
			rec.AQIIndex = models.IntPtr(int(aqiIdx.Int64))
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

// DailyStats aggregates records created since the store clock's current day
// began (UTC midnight). Averages skip NULL values; they come back nil when
// no row had the value.
func (s *SQLiteHistory) DailyStats(ctx context.Context) (models.DailyStats, error) {
	now := s.clock.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var (
		stats   models.DailyStats
		avgTemp sql.NullFloat64
		avgAQI  sql.NullFloat64
		maxAQI  sql.NullInt64
		avgSpd  sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(temperature_c), AVG(aqi), MAX(aqi), AVG(traffic_speed_kmh)
		FROM search_history
		WHERE created_at >= ?`, startOfDay,
	).Scan(&stats.Count, &avgTemp, &avgAQI, &maxAQI, &avgSpd)
	if err != nil {
		return models.DailyStats{}, fmt.Errorf("error querying daily stats: %w", err)
	}

	stats.AvgTemperatureC = nullFloat(avgTemp)
	stats.AvgAQI = nullFloat(avgAQI)
	stats.AvgTrafficSpeedKMH = nullFloat(avgSpd)
	if maxAQI.Valid {
		stats.MaxAQI = models.IntPtr(int(maxAQI.Int64))
	}

	return stats, nil
}

// ExportCSV streams the same rows as Recent, newest first.
func (s *SQLiteHistory) ExportCSV(ctx context.Context, limit int, w io.Writer) error {
	records, err := s.Recent(ctx, limit)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("error writing csv header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.QueryText,
			rec.PlaceName,
			formatFloat(&rec.Coord.Lat),
			formatFloat(&rec.Coord.Lon),
			formatFloat(rec.TemperatureC),
			formatFloat(rec.HumidityPct),
			formatFloat(rec.WindSpeedMS),
			formatInt(rec.AQIIndex),
			formatFloat(rec.TrafficSpeedKMH),
			rec.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return models.FloatPtr(v.Float64)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
