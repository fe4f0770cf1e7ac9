package snapshot

import (
	"context"
	"errors"
	"sync"
	"testing"

	domain "github.com/example/taskflow/domain/taskflow"
)

type stubSource struct {
	mu       sync.Mutex
	tasks    []domain.Task
	tasksErr error
}

func (s *stubSource) Workspaces(context.Context) ([]domain.Workspace, error) {
	return []domain.Workspace{{ID: "work", Type: domain.WorkspaceWork}, {ID: "private", Type: domain.WorkspacePrivate}}, nil
}

func (s *stubSource) Projects(context.Context) ([]domain.Project, error) {
	return []domain.Project{{ID: "p1", WorkspaceID: "work", Name: "ACME"}}, nil
}

func (s *stubSource) Tasks(context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tasksErr != nil {
		return nil, s.tasksErr
	}
	return append([]domain.Task(nil), s.tasks...), nil
}

func (s *stubSource) Subtasks(context.Context) ([]domain.Subtask, error) {
	return []domain.Subtask{{ID: "s1", TaskID: "t1"}, {ID: "s0", TaskID: "t2"}}, nil
}

func TestCurrentBeforeRefresh(t *testing.T) {
	c := New(&stubSource{})
	snap := c.Current()
	if snap == nil {
		t.Fatal("Current() returned nil")
	}
	if len(snap.Tasks) != 0 || c.Loads() != 0 {
		t.Errorf("expected empty snapshot before first refresh")
	}
}

func TestRefreshLoadsAndSorts(t *testing.T) {
	src := &stubSource{tasks: []domain.Task{
		{ID: "b", CreatedAt: 2},
		{ID: "a", CreatedAt: 2},
		{ID: "c", CreatedAt: 1},
	}}
	c := New(src)

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	snap := c.Current()
	got := []string{snap.Tasks[0].ID, snap.Tasks[1].ID, snap.Tasks[2].ID}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("task order = %v, want %v", got, want)
		}
	}
	if snap.Workspaces[0].ID != "private" {
		t.Errorf("workspaces not sorted: %+v", snap.Workspaces)
	}
	if snap.Subtasks[0].ID != "s1" {
		t.Errorf("subtasks should keep storage order")
	}
	if c.Loads() != 1 {
		t.Errorf("Loads() = %d", c.Loads())
	}
}

func TestRefreshFailureKeepsPrevious(t *testing.T) {
	src := &stubSource{tasks: []domain.Task{{ID: "t1"}}}
	c := New(src)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	before := c.Current()

	src.mu.Lock()
	src.tasksErr = errors.New("disk gone")
	src.mu.Unlock()

	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if c.Current() != before {
		t.Error("failed refresh replaced the snapshot")
	}
}

func TestSnapshotLookups(t *testing.T) {
	c := New(&stubSource{tasks: []domain.Task{{ID: "t1", Title: "x"}}})
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	snap := c.Current()

	if task, ok := snap.Task("t1"); !ok || task.Title != "x" {
		t.Errorf("Task lookup = %+v, %v", task, ok)
	}
	if _, ok := snap.Task("missing"); ok {
		t.Error("unexpected task")
	}
	if _, ok := snap.Project("p1"); !ok {
		t.Error("project not found")
	}
	if subs := snap.SubtasksOf("t1"); len(subs) != 1 {
		t.Errorf("SubtasksOf = %+v", subs)
	}
}

func TestConcurrentReadsDuringRefresh(t *testing.T) {
	c := New(&stubSource{tasks: []domain.Task{{ID: "t1"}, {ID: "t2"}}})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = c.Refresh(ctx)
		}()
		go func() {
			defer wg.Done()
			snap := c.Current()
			if n := len(snap.Tasks); n != 0 && n != 2 {
				t.Errorf("observed partial snapshot with %d tasks", n)
			}
		}()
	}
	wg.Wait()
}
