package taskflow

import (
	"log"
	"time"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/events"
)

// Event publishing is best-effort; failures are logged, never returned.

func (e *Engine) publishTaskCreated(t domain.Task) {
	if e.eventBus == nil {
		return
	}
	evt := events.TaskCreatedEvent{
		TaskID:      t.ID,
		WorkspaceID: t.WorkspaceID,
		Title:       t.Title,
		CreatedAt:   time.UnixMilli(t.CreatedAt).UTC(),
	}
	if t.ProjectID != nil {
		evt.ProjectID = *t.ProjectID
	}
	if err := events.TaskCreatedV1.Publish(e.eventBus, evt, nil); err != nil {
		log.Printf("[taskflow] Warning: failed to publish TaskCreated event for task %s: %v", t.ID, err)
	}
}

func (e *Engine) publishTaskCompleted(t domain.Task) {
	if e.eventBus == nil || t.CompletedAt == nil {
		return
	}
	evt := events.TaskCompletedEvent{
		TaskID:      t.ID,
		WorkspaceID: t.WorkspaceID,
		CompletedAt: time.UnixMilli(*t.CompletedAt).UTC(),
	}
	if err := events.TaskCompletedV1.Publish(e.eventBus, evt, nil); err != nil {
		log.Printf("[taskflow] Warning: failed to publish TaskCompleted event for task %s: %v", t.ID, err)
	}
}

func (e *Engine) publishTasksDeleted(ids []string, at, undoUntil time.Time) {
	if e.eventBus == nil || len(ids) == 0 {
		return
	}
	evt := events.TasksDeletedEvent{TaskIDs: ids, DeletedAt: at.UTC(), UndoUntil: undoUntil.UTC()}
	if err := events.TasksDeletedV1.Publish(e.eventBus, evt, nil); err != nil {
		log.Printf("[taskflow] Warning: failed to publish TasksDeleted event: %v", err)
	}
}

func (e *Engine) publishTasksRestored(ids []string, at time.Time) {
	if e.eventBus == nil || len(ids) == 0 {
		return
	}
	evt := events.TasksRestoredEvent{TaskIDs: ids, RestoredAt: at.UTC()}
	if err := events.TasksRestoredV1.Publish(e.eventBus, evt, nil); err != nil {
		log.Printf("[taskflow] Warning: failed to publish TasksRestored event: %v", err)
	}
}

func (e *Engine) publishImported(r ImportReport, at time.Time) {
	if e.eventBus == nil {
		return
	}
	evt := events.DocumentImportedEvent{
		Applied:    r.Applied,
		Failed:     len(r.Failed),
		ImportedAt: at.UTC(),
	}
	for _, s := range r.Skipped {
		evt.Skipped = append(evt.Skipped, string(s.Kind))
	}
	if err := events.DocumentImportedV1.Publish(e.eventBus, evt, nil); err != nil {
		log.Printf("[taskflow] Warning: failed to publish DocumentImported event: %v", err)
	}
}
