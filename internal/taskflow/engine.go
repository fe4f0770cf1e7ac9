// Package taskflow is the facade the UI layer drives: every mutation writes
// through the store and refreshes the snapshot before returning, and every
// read is served from the snapshot.
package taskflow

import (
	"context"
	"log"
	"sync"
	"time"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/aggregate"
	"github.com/example/taskflow/internal/snapshot"
	"github.com/example/taskflow/internal/store"
	"github.com/example/taskflow/internal/undo"
	"github.com/go-monolith/mono"
)

// Engine wires the store, snapshot cache and undo buffer together.
type Engine struct {
	store *store.Store
	cache *snapshot.Cache
	undo  *undo.Buffer

	now        func() time.Time
	capacities aggregate.Capacities
	eventBus   mono.EventBus

	// mu serialises mutations so each write and its refresh complete before
	// the next mutation reads stored state.
	mu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithCapacities sets the daily capacity per workspace.
func WithCapacities(c aggregate.Capacities) Option {
	return func(e *Engine) { e.capacities = c }
}

// WithEventBus enables event publishing.
func WithEventBus(bus mono.EventBus) Option {
	return func(e *Engine) { e.eventBus = bus }
}

// New creates an engine. The cache should be backed by st.
func New(st *store.Store, cache *snapshot.Cache, buf *undo.Buffer, opts ...Option) *Engine {
	e := &Engine{
		store:      st,
		cache:      cache,
		undo:       buf,
		now:        time.Now,
		capacities: aggregate.DefaultCapacities(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot returns the current read-only snapshot.
func (e *Engine) Snapshot() *snapshot.Snapshot {
	return e.cache.Current()
}

// Refresh reloads the snapshot from storage.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache.Refresh(ctx)
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Today returns the current UTC calendar date.
func (e *Engine) Today() string {
	return domain.FormatDate(e.now())
}

// PendingUndo returns the restorable batch, if any.
func (e *Engine) PendingUndo() (undo.Batch, bool) {
	return e.undo.Pending(e.now())
}

// BackendName reports which storage backend is active.
func (e *Engine) BackendName() string {
	return e.store.Backend().Name()
}

// Ping checks the storage backend.
func (e *Engine) Ping(ctx context.Context) error {
	return e.store.Backend().Ping(ctx)
}

// mutate runs fn under the mutation lock and refreshes the snapshot
// afterwards, even when fn fails part-way.
func (e *Engine) mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := fn(ctx)
	if refreshErr := e.cache.Refresh(ctx); refreshErr != nil {
		if err != nil {
			log.Printf("[taskflow] Warning: refresh after failed mutation: %v", refreshErr)
			return err
		}
		return refreshErr
	}
	return err
}

func (e *Engine) nowMillis() int64 {
	return domain.Millis(e.now())
}
