package model

import "time"

// RunStatus tracks the lifecycle of a persisted extraction run.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// ExtractionRun records one extraction against a located disclosure.
type ExtractionRun struct {
	ID        string            `json:"id"`
	Company   string            `json:"company"`
	DocID     string            `json:"doc_id"`
	Status    RunStatus         `json:"status"`
	Result    *NormalizedResult `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
