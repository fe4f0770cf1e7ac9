package api

import (
	"github.com/example/taskflow/internal/store"
)

// SnoozeRequest moves a task's due date. Preset wins over Days when set.
type SnoozeRequest struct {
	Days   *int   `json:"days,omitempty"`
	Preset string `json:"preset,omitempty"`
}

// BatchRequest addresses several tasks at once.
type BatchRequest struct {
	IDs  []string `json:"ids"`
	Days int      `json:"days,omitempty"`
}

// BatchResponse reports a batch operation item by item.
type BatchResponse struct {
	Applied int          `json:"applied"`
	Failed  []FailedItem `json:"failed"`
}

// FailedItem is one rejected item of a batch.
type FailedItem struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

func toBatchResponse(res store.BulkResult) BatchResponse {
	out := BatchResponse{Applied: res.Applied, Failed: []FailedItem{}}
	for _, f := range res.Failed {
		out.Failed = append(out.Failed, FailedItem{ID: f.ID, Error: f.Err.Error()})
	}
	return out
}

// UpdateSubtaskRequest patches a subtask. Nil fields are left unchanged.
type UpdateSubtaskRequest struct {
	Title           *string `json:"title,omitempty"`
	EstimateMinutes *int    `json:"estimateMinutes,omitempty"`
	Completed       *bool   `json:"completed,omitempty"`
}

// HealthResponse is the HTTP response for the health check.
type HealthResponse struct {
	Status    string `json:"status"`
	Backend   string `json:"backend"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the HTTP response for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
