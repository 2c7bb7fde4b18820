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

// SQLRunRepository is the Postgres (pgx) implementation of the RunRepository port.
type SQLRunRepository struct {
	DB *sql.DB
}

func NewSQLRunRepository(db *sql.DB) *SQLRunRepository {
	return &SQLRunRepository{DB: db}
}

func (s *SQLRunRepository) SaveRun(ctx context.Context, run domain.RunRecord) (err error) {
	defer obs.Time(ctx, "runs.sql.SaveRun")(&err)

	if s.DB == nil {
		return errors.New("run repository: db is nil")
	}
	if run.ID == "" {
		return errors.New("save run: id must not be empty")
	}

	q := `
	INSERT INTO runs (id, plan_file, warehouse_node_id, couriers_number, points_count, total_length, status, duration_ms, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE
	SET status = EXCLUDED.status,
		total_length = EXCLUDED.total_length,
		duration_ms = EXCLUDED.duration_ms;
	`
	_, err = s.DB.ExecContext(ctx, q,
		run.ID,
		run.PlanFile,
		run.WarehouseNodeID,
		run.CouriersNumber,
		run.PointsCount,
		run.TotalLength,
		string(run.Status),
		run.DurationMs,
		run.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save run id=%q: %w", run.ID, err)
	}
	return nil
}

// SaveRuns inserts runs in one transaction.
func (s *SQLRunRepository) SaveRuns(ctx context.Context, runs []domain.RunRecord) error {
	if s.DB == nil {
		return errors.New("run repository: db is nil")
	}
	if len(runs) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save runs: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO runs (id, plan_file, warehouse_node_id, couriers_number, points_count, total_length, status, duration_ms, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("save runs: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range runs {
		if _, err := stmt.ExecContext(ctx, r.ID, r.PlanFile, r.WarehouseNodeID, r.CouriersNumber,
			r.PointsCount, r.TotalLength, string(r.Status), r.DurationMs, r.CreatedAt.UTC()); err != nil {
			return fmt.Errorf("save runs id=%q: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save runs commit: %w", err)
	}
	return nil
}

func (s *SQLRunRepository) ListRuns(ctx context.Context, limit int) (_ []domain.RunRecord, err error) {
	defer obs.Time(ctx, "runs.sql.ListRuns")(&err)

	if s.DB == nil {
		return nil, errors.New("run repository: db is nil")
	}
	if limit <= 0 {
		return []domain.RunRecord{}, nil
	}

	q := `
	SELECT id, plan_file, warehouse_node_id, couriers_number, points_count, total_length, status, duration_ms, created_at
	FROM runs
	ORDER BY created_at DESC, id
	LIMIT $1;
	`
	rows, err := s.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query runs table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RunRecord, 0, limit)
	for rows.Next() {
		var r domain.RunRecord
		var status string
		if err := rows.Scan(&r.ID, &r.PlanFile, &r.WarehouseNodeID, &r.CouriersNumber,
			&r.PointsCount, &r.TotalLength, &status, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("list runs: scan rows: %w", err)
		}
		r.Status = domain.RunStatus(status)
		r.CreatedAt = r.CreatedAt.UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return out, nil
}

func (s *SQLRunRepository) PruneRuns(ctx context.Context, before time.Time) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("run repository: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM runs WHERE created_at < $1;`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: rows affected: %w", err)
	}
	return n, nil
}
