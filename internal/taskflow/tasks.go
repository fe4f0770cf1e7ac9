package taskflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/store"
	"github.com/example/taskflow/internal/undo"
)

// SnoozePreset names a fixed reschedule target relative to today.
type SnoozePreset string

const (
	SnoozeToday    SnoozePreset = "today"
	SnoozeTomorrow SnoozePreset = "tomorrow"
	SnoozeNextWeek SnoozePreset = "nextweek"
)

func (p SnoozePreset) offset() (int, error) {
	switch p {
	case SnoozeToday:
		return 0, nil
	case SnoozeTomorrow:
		return 1, nil
	case SnoozeNextWeek:
		return 7, nil
	default:
		return 0, fmt.Errorf("%w: unknown snooze preset %q", domain.ErrInvalidInput, p)
	}
}

// CreateTask validates and stores a new task. Id and createdAt are assigned.
func (e *Engine) CreateTask(ctx context.Context, draft domain.Task) (domain.Task, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return domain.Task{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if draft.WorkspaceID == "" {
		return domain.Task{}, fmt.Errorf("%w: workspaceId is required", domain.ErrInvalidInput)
	}
	if err := normalizeDates(&draft); err != nil {
		return domain.Task{}, err
	}
	draft.CompletedAt = nil
	draft.Deleted = false
	draft.DeletedAt = nil

	var created domain.Task
	err := e.mutate(ctx, func(ctx context.Context) error {
		t, err := e.store.CreateTask(ctx, draft)
		if err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	e.publishTaskCreated(created)
	return created, nil
}

// QuickAdd creates a task with only a title.
func (e *Engine) QuickAdd(ctx context.Context, workspaceID, title string) (domain.Task, error) {
	return e.CreateTask(ctx, domain.Task{WorkspaceID: workspaceID, Title: title})
}

// UpdateTask applies fn to the latest stored version of the task and writes
// it back. Id and createdAt cannot be changed. An error from fn aborts the
// update without writing.
func (e *Engine) UpdateTask(ctx context.Context, id string, fn func(*domain.Task) error) (domain.Task, error) {
	var updated domain.Task
	err := e.mutate(ctx, func(ctx context.Context) error {
		t, err := e.updateTask(ctx, id, fn)
		updated = t
		return err
	})
	return updated, err
}

func (e *Engine) updateTask(ctx context.Context, id string, fn func(*domain.Task) error) (domain.Task, error) {
	current, err := e.store.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	next := current.Clone()
	if err := fn(&next); err != nil {
		return domain.Task{}, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	if strings.TrimSpace(next.Title) == "" {
		return domain.Task{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if err := normalizeDates(&next); err != nil {
		return domain.Task{}, err
	}
	if err := e.store.PutTask(ctx, next); err != nil {
		return domain.Task{}, err
	}
	return next, nil
}

// CompleteTask marks the task done. Completing a done task keeps its
// original completion time.
func (e *Engine) CompleteTask(ctx context.Context, id string) (domain.Task, error) {
	var newlyDone bool
	t, err := e.UpdateTask(ctx, id, func(t *domain.Task) error {
		if t.CompletedAt == nil {
			t.CompletedAt = domain.Ptr(e.nowMillis())
			newlyDone = true
		}
		return nil
	})
	if err == nil && newlyDone {
		e.publishTaskCompleted(t)
	}
	return t, err
}

// ToggleComplete flips the completion state. Reopening clears completedAt.
func (e *Engine) ToggleComplete(ctx context.Context, id string) (domain.Task, error) {
	t, err := e.UpdateTask(ctx, id, func(t *domain.Task) error {
		if t.CompletedAt != nil {
			t.CompletedAt = nil
		} else {
			t.CompletedAt = domain.Ptr(e.nowMillis())
		}
		return nil
	})
	if err == nil && t.Done() {
		e.publishTaskCompleted(t)
	}
	return t, err
}

// Snooze moves the due date by days, counting from today when unscheduled.
func (e *Engine) Snooze(ctx context.Context, id string, days int) (domain.Task, error) {
	return e.UpdateTask(ctx, id, func(t *domain.Task) error {
		return e.snooze(t, days)
	})
}

// SnoozeTo sets the due date to a preset relative to today.
func (e *Engine) SnoozeTo(ctx context.Context, id string, preset SnoozePreset) (domain.Task, error) {
	days, err := preset.offset()
	if err != nil {
		return domain.Task{}, err
	}
	return e.UpdateTask(ctx, id, func(t *domain.Task) error {
		due, err := domain.AddDays(e.Today(), days)
		if err != nil {
			return err
		}
		t.DueDate = &due
		return nil
	})
}

func (e *Engine) snooze(t *domain.Task, days int) error {
	base := e.Today()
	if t.DueDate != nil && *t.DueDate != "" {
		base = *t.DueDate
	}
	due, err := domain.AddDays(base, days)
	if err != nil {
		return err
	}
	t.DueDate = &due
	return nil
}

// BatchComplete marks each task done, continuing past failures.
func (e *Engine) BatchComplete(ctx context.Context, ids []string) (store.BulkResult, error) {
	completed, res, err := e.batch(ctx, ids, func(t *domain.Task) error {
		t.CompletedAt = domain.Ptr(e.nowMillis())
		return nil
	})
	for _, t := range completed {
		e.publishTaskCompleted(t)
	}
	return res, err
}

// BatchSnooze moves each task's due date by days, continuing past failures.
func (e *Engine) BatchSnooze(ctx context.Context, ids []string, days int) (store.BulkResult, error) {
	_, res, err := e.batch(ctx, ids, func(t *domain.Task) error {
		return e.snooze(t, days)
	})
	return res, err
}

// batch applies fn to each task as an independent write and returns the
// tasks that were written.
func (e *Engine) batch(ctx context.Context, ids []string, fn func(*domain.Task) error) ([]domain.Task, store.BulkResult, error) {
	var (
		res     store.BulkResult
		written []domain.Task
	)
	err := e.mutate(ctx, func(ctx context.Context) error {
		for i, id := range ids {
			t, err := e.updateTask(ctx, id, fn)
			if err != nil {
				res.Failed = append(res.Failed, store.ItemError{Kind: domain.KindTasks, Index: i, ID: id, Err: err})
				continue
			}
			written = append(written, t)
			res.Applied++
		}
		return nil
	})
	return written, res, err
}

// SoftDeleteTasks tombstones the given tasks and records them as the undo
// batch, replacing any earlier batch. Unknown or already deleted ids are
// skipped; ErrNotFound is returned when nothing was deleted.
func (e *Engine) SoftDeleteTasks(ctx context.Context, ids []string) (undo.Batch, error) {
	var (
		batch undo.Batch
		now   = e.now()
	)
	err := e.mutate(ctx, func(ctx context.Context) error {
		var (
			before []domain.Task
			errs   []error
		)
		for _, id := range ids {
			t, err := e.store.GetTask(ctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if t.Deleted {
				continue
			}

			tomb := t.Clone()
			tomb.Deleted = true
			tomb.DeletedAt = domain.Ptr(domain.Millis(now))
			if err := e.store.PutTask(ctx, tomb); err != nil {
				errs = append(errs, err)
				continue
			}
			before = append(before, t)
		}

		if len(before) > 0 {
			batch = e.undo.Record(before, now)
		}
		if len(errs) > 0 {
			return errors.Join(errs...)
		}
		if len(before) == 0 {
			return fmt.Errorf("%w: no live task among %v", domain.ErrNotFound, ids)
		}
		return nil
	})
	if len(batch.Tasks) > 0 {
		e.publishTasksDeleted(batch.IDs(), now, batch.ExpiresAt)
	}
	return batch, err
}

// SoftDeleteTask tombstones a single task.
func (e *Engine) SoftDeleteTask(ctx context.Context, id string) (undo.Batch, error) {
	return e.SoftDeleteTasks(ctx, []string{id})
}

// Undo restores the most recent delete batch while it is inside the undo
// window. The buffer is emptied either way.
func (e *Engine) Undo(ctx context.Context) (undo.Batch, error) {
	now := e.now()
	batch, err := e.undo.Take(now)
	if err != nil {
		return undo.Batch{}, err
	}

	err = e.mutate(ctx, func(ctx context.Context) error {
		var errs []error
		for _, t := range batch.Tasks {
			restored := t.Clone()
			restored.Deleted = false
			restored.DeletedAt = nil
			if err := e.store.PutTask(ctx, restored); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
	if err == nil {
		e.publishTasksRestored(batch.IDs(), now)
	}
	return batch, err
}

// RestoreTask clears the tombstone of a single task regardless of the undo
// window.
func (e *Engine) RestoreTask(ctx context.Context, id string) (domain.Task, error) {
	t, err := e.UpdateTask(ctx, id, func(t *domain.Task) error {
		t.Deleted = false
		t.DeletedAt = nil
		return nil
	})
	if err == nil {
		e.publishTasksRestored([]string{id}, e.now())
	}
	return t, err
}

// normalizeDates turns empty date strings into absent values and rejects
// anything that is not YYYY-MM-DD.
func normalizeDates(t *domain.Task) error {
	for _, d := range []**string{&t.DueDate, &t.StartDate} {
		if *d == nil {
			continue
		}
		if **d == "" {
			*d = nil
			continue
		}
		if _, err := domain.ParseDate(**d); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	}
	return nil
}
