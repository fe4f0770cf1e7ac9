// Package snapshot keeps a full in-memory copy of every collection. All
// reads are served from the current snapshot; Refresh replaces it whole.
package snapshot

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	domain "github.com/example/taskflow/domain/taskflow"
	"golang.org/x/sync/errgroup"
)

// Snapshot is an immutable view of all stored entities. Callers must not
// modify the slices.
type Snapshot struct {
	Workspaces []domain.Workspace `json:"workspaces"`
	Projects   []domain.Project   `json:"projects"`
	Tasks      []domain.Task      `json:"tasks"`
	Subtasks   []domain.Subtask   `json:"subtasks"`
	LoadedAt   time.Time          `json:"loadedAt"`
}

// Task returns the task with id and whether it exists.
func (s *Snapshot) Task(id string) (domain.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

// Project returns the project with id and whether it exists.
func (s *Snapshot) Project(id string) (domain.Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Project{}, false
}

// SubtasksOf returns the subtasks referencing taskID.
func (s *Snapshot) SubtasksOf(taskID string) []domain.Subtask {
	var out []domain.Subtask
	for _, st := range s.Subtasks {
		if st.TaskID == taskID {
			out = append(out, st)
		}
	}
	return out
}

// Source supplies the four collections. *store.Store satisfies it.
type Source interface {
	Workspaces(ctx context.Context) ([]domain.Workspace, error)
	Projects(ctx context.Context) ([]domain.Project, error)
	Tasks(ctx context.Context) ([]domain.Task, error)
	Subtasks(ctx context.Context) ([]domain.Subtask, error)
}

// Cache holds the current snapshot.
type Cache struct {
	source  Source
	current atomic.Pointer[Snapshot]
	loads   atomic.Uint64
}

// New creates a cache with an empty snapshot.
func New(source Source) *Cache {
	c := &Cache{source: source}
	c.current.Store(&Snapshot{})
	return c
}

// Current returns the latest snapshot. It is never nil.
func (c *Cache) Current() *Snapshot {
	return c.current.Load()
}

// Loads returns how many refreshes have completed.
func (c *Cache) Loads() uint64 {
	return c.loads.Load()
}

// Refresh fetches all collections and swaps them in together. On error the
// previous snapshot is kept.
func (c *Cache) Refresh(ctx context.Context) error {
	next := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ws, err := c.source.Workspaces(gctx)
		if err != nil {
			return fmt.Errorf("failed to load workspaces: %w", err)
		}
		next.Workspaces = ws
		return nil
	})
	g.Go(func() error {
		ps, err := c.source.Projects(gctx)
		if err != nil {
			return fmt.Errorf("failed to load projects: %w", err)
		}
		next.Projects = ps
		return nil
	})
	g.Go(func() error {
		ts, err := c.source.Tasks(gctx)
		if err != nil {
			return fmt.Errorf("failed to load tasks: %w", err)
		}
		next.Tasks = ts
		return nil
	})
	g.Go(func() error {
		ss, err := c.source.Subtasks(gctx)
		if err != nil {
			return fmt.Errorf("failed to load subtasks: %w", err)
		}
		next.Subtasks = ss
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	next.sort()
	next.LoadedAt = time.Now()
	c.current.Store(next)
	c.loads.Add(1)
	return nil
}

// sort orders workspaces, projects and tasks so reads are stable regardless
// of backend. Subtasks keep storage order.
func (s *Snapshot) sort() {
	slices.SortStableFunc(s.Workspaces, func(a, b domain.Workspace) int {
		return cmp.Compare(a.ID, b.ID)
	})
	slices.SortStableFunc(s.Projects, func(a, b domain.Project) int {
		return cmp.Or(cmp.Compare(a.CreatedAt, b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	slices.SortStableFunc(s.Tasks, func(a, b domain.Task) int {
		return cmp.Or(cmp.Compare(a.CreatedAt, b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
}
