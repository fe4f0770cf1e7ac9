package taskflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/taskflow/events"
	"github.com/example/taskflow/internal/aggregate"
	"github.com/example/taskflow/internal/backend"
	"github.com/example/taskflow/internal/snapshot"
	"github.com/example/taskflow/internal/store"
	engine "github.com/example/taskflow/internal/taskflow"
	"github.com/example/taskflow/internal/undo"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Config configures the taskflow module.
type Config struct {
	Backend    backend.Config
	UndoWindow time.Duration
	Seed       bool
	Capacities aggregate.Capacities
}

// Module owns the storage backend and the engine built on top of it.
type Module struct {
	cfg      Config
	backend  backend.Backend
	engine   *engine.Engine
	eventBus mono.EventBus
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
)

// NewModule creates a new taskflow module.
func NewModule(cfg Config) *Module {
	if cfg.Capacities == nil {
		cfg.Capacities = aggregate.DefaultCapacities()
	}
	return &Module{cfg: cfg}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "taskflow"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskCompletedV1.ToBase(),
		events.TasksDeletedV1.ToBase(),
		events.TasksRestoredV1.ToBase(),
		events.DocumentImportedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
// The framework prefixes service names with "services.taskflow.".
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	register := []struct {
		name string
		fn   func(mono.ServiceContainer, string) error
	}{
		{"snapshot", typed(m.snapshot)},
		{"create-task", typed(m.createTask)},
		{"update-task", typed(m.updateTask)},
		{"complete-task", typed(m.completeTask)},
		{"delete-tasks", typed(m.deleteTasks)},
		{"restore", typed(m.restore)},
		{"create-project", typed(m.createProject)},
		{"create-subtask", typed(m.createSubtask)},
		{"today", typed(m.today)},
		{"planned", typed(m.planned)},
		{"timeline", typed(m.timeline)},
		{"export", typed(m.export)},
		{"import", typed(m.importDocument)},
	}
	for _, r := range register {
		if err := r.fn(container, r.name); err != nil {
			return fmt.Errorf("failed to register %s service: %w", r.name, err)
		}
	}

	log.Printf("[taskflow] Registered %d services under services.taskflow.*", len(register))
	return nil
}

func typed[Req, Resp any](handler func(context.Context, Req, *mono.Msg) (Resp, error)) func(mono.ServiceContainer, string) error {
	return func(container mono.ServiceContainer, name string) error {
		return helper.RegisterTypedRequestReplyService(container, name, json.Unmarshal, json.Marshal, handler)
	}
}

// Start opens the storage backend and loads the first snapshot.
func (m *Module) Start(ctx context.Context) error {
	b, err := backend.Open(ctx, m.cfg.Backend)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	m.backend = b

	st := store.New(b)
	opts := []engine.Option{engine.WithCapacities(m.cfg.Capacities)}
	if m.eventBus != nil {
		opts = append(opts, engine.WithEventBus(m.eventBus))
	}
	m.engine = engine.New(st, snapshot.New(st), undo.New(m.cfg.UndoWindow), opts...)

	if err := m.engine.EnsureWorkspaces(ctx); err != nil {
		return fmt.Errorf("failed to ensure workspaces: %w", err)
	}
	if m.cfg.Seed {
		if _, err := m.engine.Seed(ctx); err != nil {
			return err
		}
	}
	if err := m.engine.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	snap := m.engine.Snapshot()
	log.Printf("[taskflow] Module started on %s (%d tasks, %d projects)",
		b.Name(), len(snap.Tasks), len(snap.Projects))
	return nil
}

// Stop closes the storage backend.
func (m *Module) Stop(_ context.Context) error {
	if m.backend == nil {
		return nil
	}
	log.Println("[taskflow] Closing storage...")
	if err := m.backend.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	log.Println("[taskflow] Storage closed")
	return nil
}

// Health reports the active backend and snapshot sizes.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.engine == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "storage not initialized",
		}
	}

	if err := m.engine.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("storage ping failed: %v", err),
			Details: map[string]any{"backend": m.engine.BackendName()},
		}
	}

	snap := m.engine.Snapshot()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"backend":    m.engine.BackendName(),
			"workspaces": len(snap.Workspaces),
			"projects":   len(snap.Projects),
			"tasks":      len(snap.Tasks),
			"subtasks":   len(snap.Subtasks),
			"loaded_at":  snap.LoadedAt.UTC().Format(time.RFC3339),
		},
	}
}

// GetEngine returns the engine, or nil before Start.
func (m *Module) GetEngine() *engine.Engine {
	return m.engine
}
