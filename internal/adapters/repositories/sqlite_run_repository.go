package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/obs"
)

// SQLite-backed implementation of the RunRepository port.
// created_at is stored as Unix milliseconds.
type SqliteRunRepository struct{ DB *sql.DB }

func NewSqliteRunRepository(db *sql.DB) *SqliteRunRepository {
	return &SqliteRunRepository{DB: db}
}

func (s *SqliteRunRepository) SaveRun(ctx context.Context, run domain.RunRecord) (err error) {
	defer obs.Time(ctx, "runs.sqlite.SaveRun")(&err)

	if s.DB == nil {
		return errors.New("sqlite run repository: DB is nil")
	}
	if run.ID == "" {
		return errors.New("save run: id must not be empty")
	}

	query := `
	INSERT OR REPLACE INTO runs (
		id,
		plan_file,
		warehouse_node_id,
		couriers_number,
		points_count,
		total_length,
		status,
		duration_ms,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = s.DB.ExecContext(ctx, query,
		run.ID,
		run.PlanFile,
		run.WarehouseNodeID,
		run.CouriersNumber,
		run.PointsCount,
		run.TotalLength,
		string(run.Status),
		run.DurationMs,
		run.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save run id=%q: %w", run.ID, err)
	}

	return nil
}

// SaveRuns inserts runs in one transaction.
func (s *SqliteRunRepository) SaveRuns(ctx context.Context, runs []domain.RunRecord) error {
	if s.DB == nil {
		return errors.New("sqlite run repository: DB is nil")
	}
	if len(runs) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save runs: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO runs (id, plan_file, warehouse_node_id, couriers_number, points_count, total_length, status, duration_ms, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("save runs: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range runs {
		if _, err := stmt.ExecContext(ctx, r.ID, r.PlanFile, r.WarehouseNodeID, r.CouriersNumber,
			r.PointsCount, r.TotalLength, string(r.Status), r.DurationMs, r.CreatedAt.UTC().UnixMilli()); err != nil {
			return fmt.Errorf("save runs: insert id=%q: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save runs: commit tx: %w", err)
	}
	return nil
}

func (s *SqliteRunRepository) ListRuns(ctx context.Context, limit int) (_ []domain.RunRecord, err error) {
	defer obs.Time(ctx, "runs.sqlite.ListRuns")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite run repository: DB is nil")
	}
	if limit <= 0 {
		return []domain.RunRecord{}, nil
	}

	query := `
	SELECT
		id,
		plan_file,
		warehouse_node_id,
		couriers_number,
		points_count,
		total_length,
		status,
		duration_ms,
		created_at
	FROM runs
	ORDER BY created_at DESC, id
	LIMIT ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query runs table: %w", err)
	}
	defer rows.Close()

	runs := make([]domain.RunRecord, 0, limit)
	for rows.Next() {
		var r domain.RunRecord
		var status string
		var createdMs int64
		if err := rows.Scan(&r.ID, &r.PlanFile, &r.WarehouseNodeID, &r.CouriersNumber,
			&r.PointsCount, &r.TotalLength, &status, &r.DurationMs, &createdMs); err != nil {
			return nil, fmt.Errorf("list runs: scan row: %w", err)
		}
		r.Status = domain.RunStatus(status)
		r.CreatedAt = time.UnixMilli(createdMs).UTC()
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return runs, nil
}

func (s *SqliteRunRepository) PruneRuns(ctx context.Context, before time.Time) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("sqlite run repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?;`, before.UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: rows affected: %w", err)
	}
	return n, nil
}
