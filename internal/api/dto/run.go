package dto

import (
	"courier-route-service/internal/domain"
	"time"
)

type RunResponse struct {
	ID              string    `json:"id"`
	PlanFile        string    `json:"plan_file"`
	WarehouseNodeID string    `json:"warehouse_node_id"`
	CouriersNumber  int       `json:"couriers_number"`
	PointsCount     int       `json:"points_count"`
	TotalLength     float64   `json:"total_length"`
	Status          string    `json:"status"`
	DurationMs      int64     `json:"duration_ms"`
	CreatedAt       time.Time `json:"created_at"`
}

type ListRunsResponse struct {
	Runs []RunResponse `json:"runs"`
}

func FromRuns(runs []domain.RunRecord) ListRunsResponse {
	res := ListRunsResponse{Runs: make([]RunResponse, 0, len(runs))}
	for _, r := range runs {
		res.Runs = append(res.Runs, RunResponse{
			ID:              r.ID,
			PlanFile:        r.PlanFile,
			WarehouseNodeID: r.WarehouseNodeID,
			CouriersNumber:  r.CouriersNumber,
			PointsCount:     r.PointsCount,
			TotalLength:     r.TotalLength,
			Status:          string(r.Status),
			DurationMs:      r.DurationMs,
			CreatedAt:       r.CreatedAt,
		})
	}
	return res
}
