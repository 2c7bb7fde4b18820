package domain

import "time"

// Outcome of a routing run as stored in the run history.
type RunStatus string

const (
	RunStatusOK         RunStatus = "ok"
	RunStatusInvalid    RunStatus = "invalid"
	RunStatusGraphError RunStatus = "graph_error"
	RunStatusInfeasible RunStatus = "infeasible"
	RunStatusFault      RunStatus = "fault"
)

// RunRecord summarizes one routing request for the history store.
type RunRecord struct {
	ID              string
	PlanFile        string
	WarehouseNodeID string
	CouriersNumber  int
	PointsCount     int
	TotalLength     float64
	Status          RunStatus
	DurationMs      int64
	CreatedAt       time.Time
}
