package taskflow

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/aggregate"
	engine "github.com/example/taskflow/internal/taskflow"
	"github.com/example/taskflow/internal/timeline"
	"github.com/go-monolith/mono"
)

// snapshot handles the taskflow.snapshot service request.
func (m *Module) snapshot(_ context.Context, _ SnapshotRequest, _ *mono.Msg) (SnapshotResponse, error) {
	snap := m.engine.Snapshot()
	return SnapshotResponse{
		Backend:    m.engine.BackendName(),
		Workspaces: snap.Workspaces,
		Projects:   snap.Projects,
		Tasks:      snap.Tasks,
		Subtasks:   snap.Subtasks,
		LoadedAt:   snap.LoadedAt,
	}, nil
}

// createTask handles the taskflow.create-task service request.
func (m *Module) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (engine.TaskView, error) {
	t, err := m.engine.CreateTask(ctx, req.Task())
	if err != nil {
		return engine.TaskView{}, err
	}
	return m.engine.Task(t.ID)
}

// updateTask handles the taskflow.update-task service request.
func (m *Module) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (engine.TaskView, error) {
	if req.ID == "" {
		return engine.TaskView{}, fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}
	t, err := m.engine.UpdateTask(ctx, req.ID, req.Apply)
	if err != nil {
		return engine.TaskView{}, err
	}
	return m.engine.Task(t.ID)
}

// completeTask handles the taskflow.complete-task service request.
func (m *Module) completeTask(ctx context.Context, req TaskIDRequest, _ *mono.Msg) (engine.TaskView, error) {
	t, err := m.engine.CompleteTask(ctx, req.ID)
	if err != nil {
		return engine.TaskView{}, err
	}
	return m.engine.Task(t.ID)
}

// deleteTasks handles the taskflow.delete-tasks service request.
func (m *Module) deleteTasks(ctx context.Context, req DeleteTasksRequest, _ *mono.Msg) (DeleteTasksResponse, error) {
	if len(req.IDs) == 0 {
		return DeleteTasksResponse{}, fmt.Errorf("%w: ids are required", domain.ErrInvalidInput)
	}
	batch, err := m.engine.SoftDeleteTasks(ctx, req.IDs)
	if err != nil && len(batch.Tasks) == 0 {
		return DeleteTasksResponse{}, err
	}
	return DeleteTasksResponse{Deleted: batch.IDs(), UndoUntil: batch.ExpiresAt}, nil
}

// restore handles the taskflow.restore service request.
func (m *Module) restore(ctx context.Context, req RestoreRequest, _ *mono.Msg) (RestoreResponse, error) {
	if req.ID != "" {
		t, err := m.engine.RestoreTask(ctx, req.ID)
		if err != nil {
			return RestoreResponse{}, err
		}
		return RestoreResponse{Restored: []string{t.ID}}, nil
	}
	batch, err := m.engine.Undo(ctx)
	if err != nil {
		return RestoreResponse{}, err
	}
	return RestoreResponse{Restored: batch.IDs()}, nil
}

// createProject handles the taskflow.create-project service request.
func (m *Module) createProject(ctx context.Context, req CreateProjectRequest, _ *mono.Msg) (domain.Project, error) {
	return m.engine.CreateProject(ctx, domain.Project{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Description: req.Description,
	})
}

// createSubtask handles the taskflow.create-subtask service request.
func (m *Module) createSubtask(ctx context.Context, req CreateSubtaskRequest, _ *mono.Msg) (domain.Subtask, error) {
	return m.engine.CreateSubtask(ctx, domain.Subtask{
		TaskID:          req.TaskID,
		Title:           req.Title,
		EstimateMinutes: req.EstimateMinutes,
	})
}

// today handles the taskflow.today service request.
func (m *Module) today(_ context.Context, req WorkspaceRequest, _ *mono.Msg) (aggregate.TodaySummary, error) {
	if req.WorkspaceID == "" {
		return aggregate.TodaySummary{}, fmt.Errorf("%w: workspaceId is required", domain.ErrInvalidInput)
	}
	return m.engine.TodayView(req.WorkspaceID), nil
}

// planned handles the taskflow.planned service request.
func (m *Module) planned(_ context.Context, req WorkspaceRequest, _ *mono.Msg) (PlannedResponse, error) {
	if req.WorkspaceID == "" {
		return PlannedResponse{}, fmt.Errorf("%w: workspaceId is required", domain.ErrInvalidInput)
	}
	return PlannedResponse{Groups: m.engine.Planned(req.WorkspaceID)}, nil
}

// timeline handles the taskflow.timeline service request.
func (m *Module) timeline(_ context.Context, req TimelineRequest, _ *mono.Msg) (timeline.Chart, error) {
	return m.engine.LayoutTimeline(req.ProjectID)
}

// export handles the taskflow.export service request.
func (m *Module) export(ctx context.Context, _ ExportRequest, _ *mono.Msg) (domain.Document, error) {
	return m.engine.Export(ctx), nil
}

// importDocument handles the taskflow.import service request. Skipped
// arrays are listed in the report; the request only fails when nothing
// could be applied.
func (m *Module) importDocument(ctx context.Context, doc domain.Document, _ *mono.Msg) (engine.ImportReport, error) {
	report, err := m.engine.Import(ctx, doc)
	if err != nil && (report.Applied == 0 || !errors.Is(err, domain.ErrMalformedImportDocument)) {
		return engine.ImportReport{}, err
	}
	return report, nil
}
