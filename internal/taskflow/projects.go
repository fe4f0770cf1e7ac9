package taskflow

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/example/taskflow/domain/taskflow"
)

// CreateProject validates and stores a new project.
func (e *Engine) CreateProject(ctx context.Context, draft domain.Project) (domain.Project, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		return domain.Project{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if draft.WorkspaceID == "" {
		draft.WorkspaceID = string(domain.WorkspaceWork)
	}

	var created domain.Project
	err := e.mutate(ctx, func(ctx context.Context) error {
		p, err := e.store.CreateProject(ctx, draft)
		created = p
		return err
	})
	return created, err
}

// UpdateProject applies fn to the latest stored project and writes it back.
func (e *Engine) UpdateProject(ctx context.Context, id string, fn func(*domain.Project) error) (domain.Project, error) {
	var updated domain.Project
	err := e.mutate(ctx, func(ctx context.Context) error {
		current, err := e.store.GetProject(ctx, id)
		if err != nil {
			return err
		}
		next := current
		if current.Description != nil {
			next.Description = domain.Ptr(*current.Description)
		}
		if err := fn(&next); err != nil {
			return err
		}
		next.ID = current.ID
		next.CreatedAt = current.CreatedAt
		if strings.TrimSpace(next.Name) == "" {
			return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
		}
		if err := e.store.PutProject(ctx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	return updated, err
}
