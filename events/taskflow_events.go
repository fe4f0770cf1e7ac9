package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted when a new task is created.
type TaskCreatedEvent struct {
	TaskID      string    `json:"task_id"`
	WorkspaceID string    `json:"workspace_id"`
	Title       string    `json:"title"`
	ProjectID   string    `json:"project_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.taskflow.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"taskflow", "TaskCreated", "v1",
)

// TaskCompletedEvent is emitted when a task is marked complete.
type TaskCompletedEvent struct {
	TaskID      string    `json:"task_id"`
	WorkspaceID string    `json:"workspace_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// TaskCompletedV1 is the typed event definition for task completion.
// Subject: events.taskflow.v1.task-completed
var TaskCompletedV1 = helper.EventDefinition[TaskCompletedEvent](
	"taskflow", "TaskCompleted", "v1",
)

// TasksDeletedEvent is emitted when a batch of tasks is tombstoned.
type TasksDeletedEvent struct {
	TaskIDs   []string  `json:"task_ids"`
	DeletedAt time.Time `json:"deleted_at"`
	UndoUntil time.Time `json:"undo_until"`
}

// TasksDeletedV1 is the typed event definition for soft deletion.
// Subject: events.taskflow.v1.tasks-deleted
var TasksDeletedV1 = helper.EventDefinition[TasksDeletedEvent](
	"taskflow", "TasksDeleted", "v1",
)

// TasksRestoredEvent is emitted when tombstoned tasks are restored.
type TasksRestoredEvent struct {
	TaskIDs    []string  `json:"task_ids"`
	RestoredAt time.Time `json:"restored_at"`
}

// TasksRestoredV1 is the typed event definition for restores.
// Subject: events.taskflow.v1.tasks-restored
var TasksRestoredV1 = helper.EventDefinition[TasksRestoredEvent](
	"taskflow", "TasksRestored", "v1",
)

// DocumentImportedEvent is emitted after a bulk import.
type DocumentImportedEvent struct {
	Applied    int       `json:"applied"`
	Failed     int       `json:"failed"`
	Skipped    []string  `json:"skipped_kinds,omitempty"`
	ImportedAt time.Time `json:"imported_at"`
}

// DocumentImportedV1 is the typed event definition for imports.
// Subject: events.taskflow.v1.document-imported
var DocumentImportedV1 = helper.EventDefinition[DocumentImportedEvent](
	"taskflow", "DocumentImported", "v1",
)
