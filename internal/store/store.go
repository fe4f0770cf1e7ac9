// Package store provides typed CRUD over the backend: id generation,
// creation timestamps and sequential bulk writes.
package store

import (
	"context"
	"fmt"
	"time"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/backend"
	"github.com/google/uuid"
)

// Store is the typed entry point to persisted entities.
type Store struct {
	backend backend.Backend
	now     func() time.Time
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates a store on top of b.
func New(b backend.Backend, opts ...Option) *Store {
	s := &Store{
		backend: b,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying backend.
func (s *Store) Backend() backend.Backend {
	return s.backend
}

// CreateProject assigns an id and createdAt, then stores the project.
func (s *Store) CreateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	p.ID = s.newID()
	p.CreatedAt = domain.Millis(s.now())
	return p, s.put(ctx, &p)
}

// CreateTask assigns an id and createdAt, then stores the task.
func (s *Store) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	t.ID = s.newID()
	t.CreatedAt = domain.Millis(s.now())
	return t, s.put(ctx, &t)
}

// CreateSubtask assigns an id, then stores the subtask.
func (s *Store) CreateSubtask(ctx context.Context, st domain.Subtask) (domain.Subtask, error) {
	st.ID = s.newID()
	return st, s.put(ctx, &st)
}

// PutWorkspace stores w as is.
func (s *Store) PutWorkspace(ctx context.Context, w domain.Workspace) error {
	return s.update(ctx, &w)
}

// PutProject stores p as is. It never touches id or createdAt.
func (s *Store) PutProject(ctx context.Context, p domain.Project) error {
	return s.update(ctx, &p)
}

// PutTask stores t as is. It never touches id or createdAt.
func (s *Store) PutTask(ctx context.Context, t domain.Task) error {
	return s.update(ctx, &t)
}

// PutSubtask stores st as is.
func (s *Store) PutSubtask(ctx context.Context, st domain.Subtask) error {
	return s.update(ctx, &st)
}

// DeleteSubtask removes a subtask permanently.
func (s *Store) DeleteSubtask(ctx context.Context, id string) error {
	return s.backend.Delete(ctx, domain.KindSubtasks, id)
}

// GetTask returns the stored task or ErrNotFound.
func (s *Store) GetTask(ctx context.Context, id string) (domain.Task, error) {
	return getOne[domain.Task](ctx, s.backend, domain.KindTasks, id)
}

// GetProject returns the stored project or ErrNotFound.
func (s *Store) GetProject(ctx context.Context, id string) (domain.Project, error) {
	return getOne[domain.Project](ctx, s.backend, domain.KindProjects, id)
}

// GetSubtask returns the stored subtask or ErrNotFound.
func (s *Store) GetSubtask(ctx context.Context, id string) (domain.Subtask, error) {
	return getOne[domain.Subtask](ctx, s.backend, domain.KindSubtasks, id)
}

// GetWorkspace returns the stored workspace or ErrNotFound.
func (s *Store) GetWorkspace(ctx context.Context, id string) (domain.Workspace, error) {
	return getOne[domain.Workspace](ctx, s.backend, domain.KindWorkspaces, id)
}

func (s *Store) Workspaces(ctx context.Context) ([]domain.Workspace, error) {
	return getAll[domain.Workspace](ctx, s.backend, domain.KindWorkspaces)
}

func (s *Store) Projects(ctx context.Context) ([]domain.Project, error) {
	return getAll[domain.Project](ctx, s.backend, domain.KindProjects)
}

func (s *Store) Tasks(ctx context.Context) ([]domain.Task, error) {
	return getAll[domain.Task](ctx, s.backend, domain.KindTasks)
}

func (s *Store) Subtasks(ctx context.Context) ([]domain.Subtask, error) {
	return getAll[domain.Subtask](ctx, s.backend, domain.KindSubtasks)
}

func (s *Store) put(ctx context.Context, e domain.Entity) error {
	if _, err := s.backend.Put(ctx, e.EntityKind(), e); err != nil {
		return err
	}
	return nil
}

func (s *Store) update(ctx context.Context, e domain.Entity) error {
	if e.EntityID() == "" {
		return fmt.Errorf("%w: %s", domain.ErrMissingID, e.EntityKind())
	}
	return s.put(ctx, e)
}

func getOne[T any](ctx context.Context, b backend.Backend, kind domain.Kind, id string) (T, error) {
	var zero T
	e, err := b.Get(ctx, kind, id)
	if err != nil {
		return zero, err
	}
	if e == nil {
		return zero, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, kind, id)
	}
	v, ok := any(e).(*T)
	if !ok {
		return zero, fmt.Errorf("unexpected %T in %s", e, kind)
	}
	return *v, nil
}

func getAll[T any](ctx context.Context, b backend.Backend, kind domain.Kind) ([]T, error) {
	entities, err := b.GetAll(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(entities))
	for _, e := range entities {
		v, ok := any(e).(*T)
		if !ok {
			return nil, fmt.Errorf("unexpected %T in %s", e, kind)
		}
		out = append(out, *v)
	}
	return out, nil
}
