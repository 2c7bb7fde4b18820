package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/db"
)

var sqliteSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		plan_file TEXT NOT NULL,
		warehouse_node_id TEXT NOT NULL,
		couriers_number INTEGER NOT NULL,
		points_count INTEGER NOT NULL,
		total_length REAL NOT NULL,
		status TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_runs_created_at
	ON runs(created_at);
	`,
}

var postgresSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		plan_file TEXT NOT NULL,
		warehouse_node_id TEXT NOT NULL,
		couriers_number INTEGER NOT NULL,
		points_count INTEGER NOT NULL,
		total_length DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL,
		duration_ms BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_runs_created_at
	ON runs(created_at);
	`,
}

// InitSchema creates the run history tables for the given driver
// (db.DriverSQLite or db.DriverPostgres).
func InitSchema(conn *sql.DB, driver string) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	var statements []string
	switch driver {
	case db.DriverSQLite:
		statements = sqliteSchema
	case db.DriverPostgres:
		statements = postgresSchema
	default:
		return fmt.Errorf("init schema: unsupported driver %q", driver)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type RunSeed struct {
	ID              string  `json:"id"`
	PlanFile        string  `json:"plan_file"`
	WarehouseNodeID string  `json:"warehouse_node_id"`
	CouriersNumber  int     `json:"couriers_number"`
	PointsCount     int     `json:"points_count"`
	TotalLength     float64 `json:"total_length"`
	Status          string  `json:"status"`
	DurationMs      int64   `json:"duration_ms"`
	CreatedAt       string  `json:"created_at"` // RFC 3339
}

// ReadRunSeeds loads and checks run records from a JSON export so history
// can be moved between databases.
func ReadRunSeeds(jsonPath string) ([]domain.RunRecord, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed runs: read %q: %w", jsonPath, err)
	}

	// Either a bare array or the {"runs": [...]} object served by the API.
	var data []RunSeed
	if trimmed := strings.TrimSpace(string(bytes)); strings.HasPrefix(trimmed, "{") {
		var wrapped struct {
			Runs []RunSeed `json:"runs"`
		}
		if err := json.Unmarshal(bytes, &wrapped); err != nil {
			return nil, fmt.Errorf("seed runs: parse json: %w", err)
		}
		data = wrapped.Runs
	} else if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed runs: parse json: %w", err)
	}

	runs := make([]domain.RunRecord, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, fmt.Errorf("seed runs: item at index %d: id cannot be empty", i+1)
		}

		created, err := time.Parse(time.RFC3339, item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("seed runs: item %q: created_at: %w", id, err)
		}

		runs = append(runs, domain.RunRecord{
			ID:              id,
			PlanFile:        item.PlanFile,
			WarehouseNodeID: item.WarehouseNodeID,
			CouriersNumber:  item.CouriersNumber,
			PointsCount:     item.PointsCount,
			TotalLength:     item.TotalLength,
			Status:          domain.RunStatus(item.Status),
			DurationMs:      item.DurationMs,
			CreatedAt:       created.UTC(),
		})
	}

	return runs, nil
}
