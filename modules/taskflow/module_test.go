package taskflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/backend"
)

func setupModule(t *testing.T, seed bool) *Module {
	t.Helper()

	dir := t.TempDir()
	cfg := backend.DefaultConfig()
	cfg.DBPath = filepath.Join(dir, "taskflow.db")
	cfg.KVPath = filepath.Join(dir, "taskflow-kv.json")

	m := NewModule(Config{Backend: cfg, Seed: seed})
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("failed to start module: %v", err)
	}
	t.Cleanup(func() { _ = m.Stop(context.Background()) })
	return m
}

func TestModuleStartSeedsAndReportsHealth(t *testing.T) {
	m := setupModule(t, true)

	status := m.Health(context.Background())
	if !status.Healthy {
		t.Fatalf("expected healthy module, got %q", status.Message)
	}
	if got := status.Details["backend"]; got != "sqlite" {
		t.Errorf("expected sqlite backend, got %v", got)
	}
	if got := status.Details["tasks"]; got != 4 {
		t.Errorf("expected 4 seeded tasks, got %v", got)
	}
}

func TestModuleFallsBackToFileStore(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := backend.DefaultConfig()
	cfg.DBPath = filepath.Join(blocker, "nested", "taskflow.db")
	cfg.KVPath = filepath.Join(dir, "kv.json")

	m := NewModule(Config{Backend: cfg})
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("failed to start module: %v", err)
	}
	defer m.Stop(context.Background())

	if got := m.GetEngine().BackendName(); got != "kv-file" {
		t.Errorf("expected kv-file backend, got %s", got)
	}
	if got := len(m.GetEngine().Snapshot().Workspaces); got != 2 {
		t.Errorf("expected 2 workspaces, got %d", got)
	}
}

func TestHealthBeforeStart(t *testing.T) {
	m := NewModule(Config{})
	if m.Health(context.Background()).Healthy {
		t.Error("module must not be healthy before Start")
	}
	if err := m.Stop(context.Background()); err != nil {
		t.Errorf("Stop before Start should be a no-op, got %v", err)
	}
}

func TestTaskServices(t *testing.T) {
	m := setupModule(t, false)
	ctx := context.Background()

	created, err := m.createTask(ctx, CreateTaskRequest{
		WorkspaceID:     "work",
		Title:           "Briefing finalisieren",
		EstimateMinutes: domain.Ptr(60),
		DueDate:         domain.Ptr("2024-10-01"),
		Notes:           domain.Ptr("draft"),
	}, nil)
	if err != nil {
		t.Fatalf("create-task failed: %v", err)
	}
	if created.Progress != nil {
		t.Errorf("expected no progress without subtasks, got %d", *created.Progress)
	}

	if _, err := m.createSubtask(ctx, CreateSubtaskRequest{TaskID: created.ID, Title: "Korrektur lesen", EstimateMinutes: domain.Ptr(20)}, nil); err != nil {
		t.Fatalf("create-subtask failed: %v", err)
	}

	updated, err := m.updateTask(ctx, UpdateTaskRequest{
		ID:       created.ID,
		Title:    domain.Ptr("Briefing final"),
		Notes:    domain.Ptr(""),
		Priority: domain.Ptr(domain.Priority(2)),
	}, nil)
	if err != nil {
		t.Fatalf("update-task failed: %v", err)
	}
	if updated.Title != "Briefing final" {
		t.Errorf("expected new title, got %q", updated.Title)
	}
	if updated.Notes != nil {
		t.Errorf("expected notes cleared, got %q", *updated.Notes)
	}
	if updated.DueDate == nil || *updated.DueDate != "2024-10-01" {
		t.Errorf("untouched due date changed: %v", updated.DueDate)
	}
	if updated.TotalEstimate != 80 {
		t.Errorf("expected total estimate 80, got %d", updated.TotalEstimate)
	}

	done, err := m.completeTask(ctx, TaskIDRequest{ID: created.ID}, nil)
	if err != nil {
		t.Fatalf("complete-task failed: %v", err)
	}
	if !done.Done() {
		t.Error("expected task to be done")
	}

	if _, err := m.completeTask(ctx, TaskIDRequest{ID: "missing"}, nil); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAndRestoreServices(t *testing.T) {
	m := setupModule(t, false)
	ctx := context.Background()

	a, err := m.createTask(ctx, CreateTaskRequest{WorkspaceID: "private", Title: "Einkaufen"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.createTask(ctx, CreateTaskRequest{WorkspaceID: "private", Title: "Laufen 5km"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := m.deleteTasks(ctx, DeleteTasksRequest{IDs: []string{a.ID, b.ID}}, nil)
	if err != nil {
		t.Fatalf("delete-tasks failed: %v", err)
	}
	if len(resp.Deleted) != 2 {
		t.Fatalf("expected 2 deleted, got %d", len(resp.Deleted))
	}

	restored, err := m.restore(ctx, RestoreRequest{}, nil)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if len(restored.Restored) != 2 {
		t.Errorf("expected 2 restored, got %d", len(restored.Restored))
	}

	if _, err := m.restore(ctx, RestoreRequest{}, nil); !errors.Is(err, domain.ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}

	if _, err := m.deleteTasks(ctx, DeleteTasksRequest{IDs: []string{a.ID}}, nil); err != nil {
		t.Fatal(err)
	}
	single, err := m.restore(ctx, RestoreRequest{ID: a.ID}, nil)
	if err != nil {
		t.Fatalf("restore by id failed: %v", err)
	}
	if len(single.Restored) != 1 || single.Restored[0] != a.ID {
		t.Errorf("unexpected restore response: %+v", single)
	}

	if _, err := m.deleteTasks(ctx, DeleteTasksRequest{}, nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty ids, got %v", err)
	}
}

func TestViewServices(t *testing.T) {
	m := setupModule(t, true)
	ctx := context.Background()

	snap, err := m.snapshot(ctx, SnapshotRequest{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Backend != "sqlite" || len(snap.Projects) != 2 {
		t.Fatalf("unexpected snapshot: backend=%s projects=%d", snap.Backend, len(snap.Projects))
	}

	today, err := m.today(ctx, WorkspaceRequest{WorkspaceID: "work"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(today.Tasks) != 1 {
		t.Errorf("expected 1 task today, got %d", len(today.Tasks))
	}

	planned, err := m.planned(ctx, WorkspaceRequest{WorkspaceID: "work"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(planned.Groups) != 2 {
		t.Errorf("expected 2 date groups, got %d", len(planned.Groups))
	}

	if _, err := m.today(ctx, WorkspaceRequest{}, nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	for _, p := range snap.Projects {
		chart, err := m.timeline(ctx, TimelineRequest{ProjectID: p.ID}, nil)
		if err != nil {
			t.Fatalf("timeline for %s failed: %v", p.Name, err)
		}
		if len(chart.Bars) != 1 {
			t.Errorf("expected 1 bar for %s, got %d", p.Name, len(chart.Bars))
		}
	}
}

func TestExportImportServices(t *testing.T) {
	source := setupModule(t, true)
	target := setupModule(t, false)
	ctx := context.Background()

	doc, err := source.export(ctx, ExportRequest{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	report, err := target.importDocument(ctx, doc, nil)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if report.Applied != 10 {
		t.Errorf("expected 10 applied entities, got %d", report.Applied)
	}
	if got := len(target.GetEngine().Snapshot().Tasks); got != 4 {
		t.Errorf("expected 4 tasks after import, got %d", got)
	}

	if _, err := target.importDocument(ctx, domain.Document{}, nil); !errors.Is(err, domain.ErrMalformedImportDocument) {
		t.Errorf("expected ErrMalformedImportDocument for an empty document, got %v", err)
	}
}
