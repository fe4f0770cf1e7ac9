package taskflow

import (
	"fmt"
	"strings"
	"time"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/aggregate"
)

// SnapshotRequest is the request for reading the full snapshot.
type SnapshotRequest struct{}

// SnapshotResponse is every stored entity plus the active backend.
type SnapshotResponse struct {
	Backend    string             `json:"backend"`
	Workspaces []domain.Workspace `json:"workspaces"`
	Projects   []domain.Project   `json:"projects"`
	Tasks      []domain.Task      `json:"tasks"`
	Subtasks   []domain.Subtask   `json:"subtasks"`
	LoadedAt   time.Time          `json:"loadedAt"`
}

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	WorkspaceID     string           `json:"workspaceId"`
	Title           string           `json:"title"`
	EstimateMinutes *int             `json:"estimateMinutes,omitempty"`
	Priority        *domain.Priority `json:"priority,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	DueDate         *string          `json:"dueDate,omitempty"`
	DueTime         *string          `json:"dueTime,omitempty"`
	StartDate       *string          `json:"startDate,omitempty"`
	ProjectID       *string          `json:"projectId,omitempty"`
}

// Task converts the request to a draft task.
func (r CreateTaskRequest) Task() domain.Task {
	return domain.Task{
		WorkspaceID:     r.WorkspaceID,
		Title:           r.Title,
		EstimateMinutes: r.EstimateMinutes,
		Priority:        r.Priority,
		Notes:           r.Notes,
		Tags:            r.Tags,
		DueDate:         r.DueDate,
		DueTime:         r.DueTime,
		StartDate:       r.StartDate,
		ProjectID:       r.ProjectID,
	}
}

// UpdateTaskRequest patches a task. Nil fields are left unchanged; an empty
// string clears an optional text or date field and priority 0 clears the
// priority.
type UpdateTaskRequest struct {
	ID              string           `json:"id"`
	Title           *string          `json:"title,omitempty"`
	EstimateMinutes *int             `json:"estimateMinutes,omitempty"`
	Priority        *domain.Priority `json:"priority,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	Tags            *[]string        `json:"tags,omitempty"`
	DueDate         *string          `json:"dueDate,omitempty"`
	DueTime         *string          `json:"dueTime,omitempty"`
	StartDate       *string          `json:"startDate,omitempty"`
	ProjectID       *string          `json:"projectId,omitempty"`
	WorkspaceID     *string          `json:"workspaceId,omitempty"`
}

// Apply writes the patch onto t.
func (r UpdateTaskRequest) Apply(t *domain.Task) error {
	if r.Title != nil {
		t.Title = strings.TrimSpace(*r.Title)
	}
	if r.EstimateMinutes != nil {
		if *r.EstimateMinutes < 0 {
			return fmt.Errorf("%w: estimateMinutes must be non-negative", domain.ErrInvalidInput)
		}
		t.EstimateMinutes = domain.Ptr(*r.EstimateMinutes)
	}
	if r.Priority != nil {
		if *r.Priority == 0 {
			t.Priority = nil
		} else {
			t.Priority = domain.Ptr(*r.Priority)
		}
	}
	if r.Tags != nil {
		t.Tags = append([]string(nil), (*r.Tags)...)
	}
	if r.WorkspaceID != nil && *r.WorkspaceID != "" {
		t.WorkspaceID = *r.WorkspaceID
	}
	t.Notes = patchOptional(t.Notes, r.Notes)
	t.DueDate = patchOptional(t.DueDate, r.DueDate)
	t.DueTime = patchOptional(t.DueTime, r.DueTime)
	t.StartDate = patchOptional(t.StartDate, r.StartDate)
	t.ProjectID = patchOptional(t.ProjectID, r.ProjectID)
	return nil
}

func patchOptional(current, patch *string) *string {
	switch {
	case patch == nil:
		return current
	case *patch == "":
		return nil
	default:
		return domain.Ptr(*patch)
	}
}

// TaskIDRequest addresses a single task.
type TaskIDRequest struct {
	ID string `json:"id"`
}

// DeleteTasksRequest is the request for soft-deleting tasks.
type DeleteTasksRequest struct {
	IDs []string `json:"ids"`
}

// DeleteTasksResponse lists the tombstoned tasks and the undo deadline.
type DeleteTasksResponse struct {
	Deleted   []string  `json:"deleted"`
	UndoUntil time.Time `json:"undoUntil"`
}

// RestoreRequest restores a single task by id, or the pending undo batch
// when ID is empty.
type RestoreRequest struct {
	ID string `json:"id,omitempty"`
}

// RestoreResponse lists the restored task ids.
type RestoreResponse struct {
	Restored []string `json:"restored"`
}

// CreateProjectRequest is the request for creating a project.
type CreateProjectRequest struct {
	WorkspaceID string  `json:"workspaceId"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CreateSubtaskRequest is the request for creating a subtask.
type CreateSubtaskRequest struct {
	TaskID          string `json:"taskId"`
	Title           string `json:"title"`
	EstimateMinutes *int   `json:"estimateMinutes,omitempty"`
}

// WorkspaceRequest addresses a workspace view.
type WorkspaceRequest struct {
	WorkspaceID string `json:"workspaceId"`
}

// PlannedResponse is the planned view of a workspace.
type PlannedResponse struct {
	Groups []aggregate.DateGroup `json:"groups"`
}

// TimelineRequest is the request for a project's Gantt layout.
type TimelineRequest struct {
	ProjectID string `json:"projectId"`
}

// ExportRequest is the request for exporting all data.
type ExportRequest struct{}
