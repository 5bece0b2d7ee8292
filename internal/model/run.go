package model

import "time"

// RunStatus tracks a discovery run's lifecycle.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunParams captures what a discovery run searched.
type RunParams struct {
	Verticals      []string `json:"verticals"`
	Countries      []string `json:"countries"`
	CitiesSearched int      `json:"cities_searched"`
}

// Run is one end-to-end discovery run.
type Run struct {
	ID        string    `json:"id"`
	Params    RunParams `json:"params"`
	Status    RunStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CheckpointPayload is the pipeline state snapshotted after a stage. Early
// stages carry brand groups, post-conversion stages carry leads.
type CheckpointPayload struct {
	Places []RawPlace    `json:"places,omitempty"`
	Groups []*BrandGroup `json:"groups,omitempty"`
	Leads  []*Lead       `json:"leads,omitempty"`
}

// Checkpoint is a per-stage snapshot of a run, used to resume after a
// failure without repeating completed stages.
type Checkpoint struct {
	ID        string            `json:"id"`
	RunID     string            `json:"run_id"`
	Stage     string            `json:"stage"`
	Payload   CheckpointPayload `json:"payload"`
	CreatedAt time.Time         `json:"created_at"`
}
