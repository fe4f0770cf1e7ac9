package api

import (
	"errors"
	"log"
	"sync/atomic"
	"time"

	domain "github.com/example/taskflow/domain/taskflow"
	engine "github.com/example/taskflow/internal/taskflow"
	taskflowmod "github.com/example/taskflow/modules/taskflow"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// Handlers provides HTTP handlers for the API.
type Handlers struct {
	eng atomic.Pointer[engine.Engine]
}

// NewHandlers creates a new handlers instance.
func NewHandlers(e *engine.Engine) *Handlers {
	h := &Handlers{}
	h.SetEngine(e)
	return h
}

// SetEngine swaps the engine the handlers serve from.
func (h *Handlers) SetEngine(e *engine.Engine) {
	h.eng.Store(e)
}

func (h *Handlers) current() *engine.Engine {
	return h.eng.Load()
}

// requireEngine rejects requests until the engine is wired.
func (h *Handlers) requireEngine(c *fiber.Ctx) error {
	if h.current() == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "Service Unavailable",
			Message: "Storage is still starting",
		})
	}
	return c.Next()
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrMissingID),
		errors.Is(err, domain.ErrUnknownKind),
		errors.Is(err, domain.ErrMalformedImportDocument):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNothingToUndo),
		errors.Is(err, domain.ErrUndoExpired):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrTransactionFailed),
		errors.Is(err, domain.ErrBackendUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes err as a JSON error response.
func fail(c *fiber.Ctx, action string, err error) error {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case fiber.StatusInternalServerError:
		log.Printf("[api] Error %s: %v", action, err)
		msg = "Failed " + action
	case fiber.StatusServiceUnavailable:
		log.Printf("[api] Storage error %s: %v", action, err)
		msg = "Could not save, please try again"
	}
	return c.Status(status).JSON(ErrorResponse{
		Error:   utils.StatusMessage(status),
		Message: msg,
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "Bad Request",
		Message: "Invalid request body",
	})
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	e := h.current()
	if e == nil {
		resp.Status = "starting"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	resp.Backend = e.BackendName()
	if err := e.Ping(c.Context()); err != nil {
		log.Printf("[api] Health check failed: %v", err)
		resp.Status = "unhealthy"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

// GetSnapshot handles GET /api/v1/snapshot.
func (h *Handlers) GetSnapshot(c *fiber.Ctx) error {
	e := h.current()
	snap := e.Snapshot()
	return c.JSON(taskflowmod.SnapshotResponse{
		Backend:    e.BackendName(),
		Workspaces: snap.Workspaces,
		Projects:   snap.Projects,
		Tasks:      snap.Tasks,
		Subtasks:   snap.Subtasks,
		LoadedAt:   snap.LoadedAt,
	})
}

// CreateTask handles POST /api/v1/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var req taskflowmod.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	e := h.current()
	t, err := e.CreateTask(c.Context(), req.Task())
	if err != nil {
		return fail(c, "creating task", err)
	}
	view, err := e.Task(t.ID)
	if err != nil {
		return fail(c, "reading task", err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetTask handles GET /api/v1/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	view, err := h.current().Task(c.Params("id"))
	if err != nil {
		return fail(c, "reading task", err)
	}
	return c.JSON(view)
}

// UpdateTask handles PATCH /api/v1/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var req taskflowmod.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	req.ID = c.Params("id")
	return h.respondTask(c, "updating task", func(e *engine.Engine) (domain.Task, error) {
		return e.UpdateTask(c.Context(), req.ID, req.Apply)
	})
}

// CompleteTask handles POST /api/v1/tasks/:id/complete.
func (h *Handlers) CompleteTask(c *fiber.Ctx) error {
	return h.respondTask(c, "completing task", func(e *engine.Engine) (domain.Task, error) {
		return e.CompleteTask(c.Context(), c.Params("id"))
	})
}

// ToggleTask handles POST /api/v1/tasks/:id/toggle.
func (h *Handlers) ToggleTask(c *fiber.Ctx) error {
	return h.respondTask(c, "toggling task", func(e *engine.Engine) (domain.Task, error) {
		return e.ToggleComplete(c.Context(), c.Params("id"))
	})
}

// SnoozeTask handles POST /api/v1/tasks/:id/snooze.
func (h *Handlers) SnoozeTask(c *fiber.Ctx) error {
	var req SnoozeRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	return h.respondTask(c, "snoozing task", func(e *engine.Engine) (domain.Task, error) {
		if req.Preset != "" {
			return e.SnoozeTo(c.Context(), c.Params("id"), engine.SnoozePreset(req.Preset))
		}
		days := 1
		if req.Days != nil {
			days = *req.Days
		}
		return e.Snooze(c.Context(), c.Params("id"), days)
	})
}

// RestoreTask handles POST /api/v1/tasks/:id/restore.
func (h *Handlers) RestoreTask(c *fiber.Ctx) error {
	return h.respondTask(c, "restoring task", func(e *engine.Engine) (domain.Task, error) {
		return e.RestoreTask(c.Context(), c.Params("id"))
	})
}

func (h *Handlers) respondTask(c *fiber.Ctx, action string, fn func(*engine.Engine) (domain.Task, error)) error {
	e := h.current()
	t, err := fn(e)
	if err != nil {
		return fail(c, action, err)
	}
	view, err := e.Task(t.ID)
	if err != nil {
		return fail(c, action, err)
	}
	return c.JSON(view)
}

// DeleteTasks handles POST /api/v1/tasks/delete.
func (h *Handlers) DeleteTasks(c *fiber.Ctx) error {
	var req taskflowmod.DeleteTasksRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return badBody(c)
	}
	batch, err := h.current().SoftDeleteTasks(c.Context(), req.IDs)
	if err != nil && len(batch.Tasks) == 0 {
		return fail(c, "deleting tasks", err)
	}
	if err != nil {
		log.Printf("[api] Partial delete: %v", err)
	}
	return c.JSON(taskflowmod.DeleteTasksResponse{Deleted: batch.IDs(), UndoUntil: batch.ExpiresAt})
}

// Undo handles POST /api/v1/undo.
func (h *Handlers) Undo(c *fiber.Ctx) error {
	batch, err := h.current().Undo(c.Context())
	if err != nil {
		return fail(c, "undoing delete", err)
	}
	return c.JSON(taskflowmod.RestoreResponse{Restored: batch.IDs()})
}

// BatchComplete handles POST /api/v1/tasks/batch/complete.
func (h *Handlers) BatchComplete(c *fiber.Ctx) error {
	var req BatchRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return badBody(c)
	}
	res, err := h.current().BatchComplete(c.Context(), req.IDs)
	if err != nil {
		return fail(c, "completing tasks", err)
	}
	return c.JSON(toBatchResponse(res))
}

// BatchSnooze handles POST /api/v1/tasks/batch/snooze.
func (h *Handlers) BatchSnooze(c *fiber.Ctx) error {
	var req BatchRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return badBody(c)
	}
	if req.Days == 0 {
		req.Days = 1
	}
	res, err := h.current().BatchSnooze(c.Context(), req.IDs, req.Days)
	if err != nil {
		return fail(c, "snoozing tasks", err)
	}
	return c.JSON(toBatchResponse(res))
}

// CreateSubtask handles POST /api/v1/tasks/:id/subtasks.
func (h *Handlers) CreateSubtask(c *fiber.Ctx) error {
	var req taskflowmod.CreateSubtaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	st, err := h.current().CreateSubtask(c.Context(), domain.Subtask{
		TaskID:          c.Params("id"),
		Title:           req.Title,
		EstimateMinutes: req.EstimateMinutes,
	})
	if err != nil {
		return fail(c, "creating subtask", err)
	}
	return c.Status(fiber.StatusCreated).JSON(st)
}

// UpdateSubtask handles PATCH /api/v1/subtasks/:id.
func (h *Handlers) UpdateSubtask(c *fiber.Ctx) error {
	var req UpdateSubtaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	e := h.current()
	st, err := e.UpdateSubtask(c.Context(), c.Params("id"), func(st *domain.Subtask) error {
		if req.Title != nil {
			st.Title = *req.Title
		}
		if req.EstimateMinutes != nil {
			st.EstimateMinutes = domain.Ptr(*req.EstimateMinutes)
		}
		if req.Completed != nil {
			switch {
			case !*req.Completed:
				st.CompletedAt = nil
			case st.CompletedAt == nil:
				st.CompletedAt = domain.Ptr(domain.Millis(e.Now()))
			}
		}
		return nil
	})
	if err != nil {
		return fail(c, "updating subtask", err)
	}
	return c.JSON(st)
}

// DeleteSubtask handles DELETE /api/v1/subtasks/:id.
func (h *Handlers) DeleteSubtask(c *fiber.Ctx) error {
	if err := h.current().DeleteSubtask(c.Context(), c.Params("id")); err != nil {
		return fail(c, "deleting subtask", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateProject handles POST /api/v1/projects.
func (h *Handlers) CreateProject(c *fiber.Ctx) error {
	var req taskflowmod.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	p, err := h.current().CreateProject(c.Context(), domain.Project{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return fail(c, "creating project", err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// GetProject handles GET /api/v1/projects/:id.
func (h *Handlers) GetProject(c *fiber.Ctx) error {
	view, err := h.current().Project(c.Params("id"))
	if err != nil {
		return fail(c, "reading project", err)
	}
	return c.JSON(view)
}

// GetTimeline handles GET /api/v1/projects/:id/timeline.
func (h *Handlers) GetTimeline(c *fiber.Ctx) error {
	chart, err := h.current().LayoutTimeline(c.Params("id"))
	if err != nil {
		return fail(c, "laying out timeline", err)
	}
	return c.JSON(chart)
}

// GetTimelineSVG handles GET /api/v1/projects/:id/timeline.svg.
func (h *Handlers) GetTimelineSVG(c *fiber.Ctx) error {
	chart, err := h.current().LayoutTimeline(c.Params("id"))
	if err != nil {
		return fail(c, "laying out timeline", err)
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendString(chart.SVG())
}

// ListProjects handles GET /api/v1/workspaces/:ws/projects.
func (h *Handlers) ListProjects(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"projects": h.current().Projects(c.Params("ws"))})
}

// Inbox handles GET /api/v1/workspaces/:ws/inbox.
func (h *Handlers) Inbox(c *fiber.Ctx) error {
	e := h.current()
	tasks := e.TaskViews(e.Inbox(c.Params("ws")))
	return c.JSON(fiber.Map{"tasks": tasks, "total": len(tasks)})
}

// Today handles GET /api/v1/workspaces/:ws/today.
func (h *Handlers) Today(c *fiber.Ctx) error {
	return c.JSON(h.current().TodayView(c.Params("ws")))
}

// Planned handles GET /api/v1/workspaces/:ws/planned.
func (h *Handlers) Planned(c *fiber.Ctx) error {
	return c.JSON(taskflowmod.PlannedResponse{Groups: h.current().Planned(c.Params("ws"))})
}

// Search handles GET /api/v1/workspaces/:ws/search?q=.
func (h *Handlers) Search(c *fiber.Ctx) error {
	e := h.current()
	tasks := e.TaskViews(e.Search(c.Params("ws"), c.Query("q")))
	return c.JSON(fiber.Map{"tasks": tasks, "total": len(tasks)})
}

// Capacity handles GET /api/v1/workspaces/:ws/capacity.
func (h *Handlers) Capacity(c *fiber.Ctx) error {
	return c.JSON(h.current().Capacity(c.Params("ws")))
}

// Export handles GET /api/v1/export.
func (h *Handlers) Export(c *fiber.Ctx) error {
	doc := h.current().Export(c.Context())
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="taskflow-export.json"`)
	return c.JSON(doc)
}

// Import handles POST /api/v1/import. A document with malformed arrays is
// still applied partially; it is rejected only when nothing was written.
func (h *Handlers) Import(c *fiber.Ctx) error {
	var doc domain.Document
	if err := c.BodyParser(&doc); err != nil {
		return badBody(c)
	}
	report, err := h.current().Import(c.Context(), doc)
	if err != nil && (report.Applied == 0 || !errors.Is(err, domain.ErrMalformedImportDocument)) {
		return fail(c, "importing document", err)
	}
	return c.JSON(report)
}

// Orphans handles GET /api/v1/diagnostics/orphans.
func (h *Handlers) Orphans(c *fiber.Ctx) error {
	return c.JSON(h.current().Orphans())
}
