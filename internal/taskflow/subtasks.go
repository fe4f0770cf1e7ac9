package taskflow

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/example/taskflow/domain/taskflow"
)

// CreateSubtask stores a new subtask. The parent task is not required to
// exist.
func (e *Engine) CreateSubtask(ctx context.Context, draft domain.Subtask) (domain.Subtask, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return domain.Subtask{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if draft.TaskID == "" {
		return domain.Subtask{}, fmt.Errorf("%w: taskId is required", domain.ErrInvalidInput)
	}
	draft.CompletedAt = nil

	var created domain.Subtask
	err := e.mutate(ctx, func(ctx context.Context) error {
		st, err := e.store.CreateSubtask(ctx, draft)
		created = st
		return err
	})
	return created, err
}

// UpdateSubtask applies fn to the latest stored subtask and writes it back.
func (e *Engine) UpdateSubtask(ctx context.Context, id string, fn func(*domain.Subtask) error) (domain.Subtask, error) {
	var updated domain.Subtask
	err := e.mutate(ctx, func(ctx context.Context) error {
		current, err := e.store.GetSubtask(ctx, id)
		if err != nil {
			return err
		}
		next := current
		if current.EstimateMinutes != nil {
			next.EstimateMinutes = domain.Ptr(*current.EstimateMinutes)
		}
		if current.CompletedAt != nil {
			next.CompletedAt = domain.Ptr(*current.CompletedAt)
		}
		if err := fn(&next); err != nil {
			return err
		}
		next.ID = current.ID
		if strings.TrimSpace(next.Title) == "" {
			return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
		}
		if err := e.store.PutSubtask(ctx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	return updated, err
}

// ToggleSubtask flips the subtask's completion state.
func (e *Engine) ToggleSubtask(ctx context.Context, id string) (domain.Subtask, error) {
	return e.UpdateSubtask(ctx, id, func(st *domain.Subtask) error {
		if st.CompletedAt != nil {
			st.CompletedAt = nil
		} else {
			st.CompletedAt = domain.Ptr(e.nowMillis())
		}
		return nil
	})
}

// DeleteSubtask removes the subtask permanently. Missing ids are a no-op.
func (e *Engine) DeleteSubtask(ctx context.Context, id string) error {
	return e.mutate(ctx, func(ctx context.Context) error {
		return e.store.DeleteSubtask(ctx, id)
	})
}
