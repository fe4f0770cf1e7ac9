package api

import (
	"context"
	"fmt"
	"log"

	engine "github.com/example/taskflow/internal/taskflow"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Module provides the HTTP API over the taskflow engine.
type Module struct {
	app      *fiber.App
	handlers *Handlers
	port     int
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)

// NewModule creates a new API module.
func NewModule(port int) *Module {
	return &Module{
		handlers: NewHandlers(nil),
		port:     port,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// SetEngine sets the taskflow engine dependency. Requests under /api/v1
// answer 503 until it is set.
func (m *Module) SetEngine(e *engine.Engine) {
	m.handlers.SetEngine(e)
}

// Start initializes the Fiber app and starts the HTTP server.
func (m *Module) Start(_ context.Context) error {
	m.app = newApp(m.handlers)

	go func() {
		addr := fmt.Sprintf(":%d", m.port)
		log.Printf("[api] Starting HTTP server on %s", addr)
		if err := m.app.Listen(addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Println("[api] Module started")
	return nil
}

// newApp builds the Fiber app with middleware and routes.
func newApp(h *Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Taskflow",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())

	setupRoutes(app, h)
	return app
}

// setupRoutes configures all HTTP routes.
func setupRoutes(app *fiber.App, h *Handlers) {
	app.Get("/health", h.HealthCheck)

	api := app.Group("/api/v1", h.requireEngine)
	api.Get("/snapshot", h.GetSnapshot)
	api.Post("/undo", h.Undo)

	tasks := api.Group("/tasks")
	tasks.Post("/", h.CreateTask)
	tasks.Post("/delete", h.DeleteTasks)
	tasks.Post("/batch/complete", h.BatchComplete)
	tasks.Post("/batch/snooze", h.BatchSnooze)
	tasks.Get("/:id", h.GetTask)
	tasks.Patch("/:id", h.UpdateTask)
	tasks.Post("/:id/complete", h.CompleteTask)
	tasks.Post("/:id/toggle", h.ToggleTask)
	tasks.Post("/:id/snooze", h.SnoozeTask)
	tasks.Post("/:id/restore", h.RestoreTask)
	tasks.Post("/:id/subtasks", h.CreateSubtask)

	subtasks := api.Group("/subtasks")
	subtasks.Patch("/:id", h.UpdateSubtask)
	subtasks.Delete("/:id", h.DeleteSubtask)

	projects := api.Group("/projects")
	projects.Post("/", h.CreateProject)
	projects.Get("/:id", h.GetProject)
	projects.Get("/:id/timeline.svg", h.GetTimelineSVG)
	projects.Get("/:id/timeline", h.GetTimeline)

	workspaces := api.Group("/workspaces/:ws")
	workspaces.Get("/inbox", h.Inbox)
	workspaces.Get("/today", h.Today)
	workspaces.Get("/planned", h.Planned)
	workspaces.Get("/search", h.Search)
	workspaces.Get("/capacity", h.Capacity)
	workspaces.Get("/projects", h.ListProjects)

	api.Get("/export", h.Export)
	api.Post("/import", h.Import)
	api.Get("/diagnostics/orphans", h.Orphans)
}

// Stop stops the HTTP server gracefully.
func (m *Module) Stop(_ context.Context) error {
	if m.app != nil {
		log.Println("[api] Shutting down HTTP server...")
		if err := m.app.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}
	log.Println("[api] Module stopped")
	return nil
}

// errorHandler handles errors from Fiber routes.
func errorHandler(c *fiber.Ctx, err error) error {
	e, ok := err.(*fiber.Error)
	if !ok {
		e = fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	return c.Status(e.Code).JSON(fiber.Map{
		"error":  e.Message,
		"code":   e.Code,
		"path":   c.Path(),
		"method": c.Method(),
	})
}

// GetApp returns the Fiber app (for testing).
func (m *Module) GetApp() *fiber.App {
	return m.app
}
