package taskflow

import (
	"context"
	"errors"
	"fmt"
	"log"

	domain "github.com/example/taskflow/domain/taskflow"
)

// EnsureWorkspaces creates the private and work workspaces if missing.
func (e *Engine) EnsureWorkspaces(ctx context.Context) error {
	return e.mutate(ctx, e.ensureWorkspaces)
}

func (e *Engine) ensureWorkspaces(ctx context.Context) error {
	for _, ws := range []domain.WorkspaceType{domain.WorkspacePrivate, domain.WorkspaceWork} {
		_, err := e.store.GetWorkspace(ctx, string(ws))
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := e.store.PutWorkspace(ctx, domain.Workspace{ID: string(ws), Type: ws}); err != nil {
			return fmt.Errorf("failed to create workspace %s: %w", ws, err)
		}
	}
	return nil
}

// Seed writes sample data on first run, when no task has ever been stored.
// It reports whether anything was written.
func (e *Engine) Seed(ctx context.Context) (bool, error) {
	var seeded bool
	err := e.mutate(ctx, func(ctx context.Context) error {
		tasks, err := e.store.Tasks(ctx)
		if err != nil {
			return err
		}
		if len(tasks) > 0 {
			return nil
		}
		if err := e.ensureWorkspaces(ctx); err != nil {
			return err
		}
		if err := e.seed(ctx); err != nil {
			return fmt.Errorf("failed to seed sample data: %w", err)
		}
		seeded = true
		return nil
	})
	if seeded {
		log.Println("[taskflow] Seeded sample data")
	}
	return seeded, err
}

func (e *Engine) seed(ctx context.Context) error {
	today := e.Today()
	tomorrow, err := domain.AddDays(today, 1)
	if err != nil {
		return err
	}
	work := string(domain.WorkspaceWork)
	private := string(domain.WorkspacePrivate)

	acme, err := e.store.CreateProject(ctx, domain.Project{
		WorkspaceID: work, Name: "ACME Möbel GmbH", Description: domain.Ptr("Flyer Q4"),
	})
	if err != nil {
		return err
	}
	hagebau, err := e.store.CreateProject(ctx, domain.Project{
		WorkspaceID: work, Name: "Hagebau Schneider", Description: domain.Ptr("Prospekt KW40"),
	})
	if err != nil {
		return err
	}

	if _, err := e.store.CreateTask(ctx, domain.Task{
		WorkspaceID: private, Title: "Einkaufen", EstimateMinutes: domain.Ptr(30), DueDate: domain.Ptr(today),
	}); err != nil {
		return err
	}
	if _, err := e.store.CreateTask(ctx, domain.Task{
		WorkspaceID: private, Title: "Laufen 5km", EstimateMinutes: domain.Ptr(45),
	}); err != nil {
		return err
	}

	briefing, err := e.store.CreateTask(ctx, domain.Task{
		WorkspaceID: work, Title: "Briefing finalisieren", EstimateMinutes: domain.Ptr(60),
		ProjectID: domain.Ptr(acme.ID), DueDate: domain.Ptr(today),
	})
	if err != nil {
		return err
	}
	for _, st := range []domain.Subtask{
		{TaskID: briefing.ID, Title: "Korrektur lesen", EstimateMinutes: domain.Ptr(20)},
		{TaskID: briefing.ID, Title: "Freigabe einholen", EstimateMinutes: domain.Ptr(10)},
	} {
		if _, err := e.store.CreateSubtask(ctx, st); err != nil {
			return err
		}
	}

	_, err = e.store.CreateTask(ctx, domain.Task{
		WorkspaceID: work, Title: "Druckerei anfragen", EstimateMinutes: domain.Ptr(30),
		ProjectID: domain.Ptr(hagebau.ID), DueDate: domain.Ptr(tomorrow),
	})
	return err
}
