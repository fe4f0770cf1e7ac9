// Package taskflow provides the domain types shared by the storage, cache,
// aggregation and timeline layers.
package taskflow

import (
	"fmt"
	"slices"
)

// Kind names one of the four stored collections.
type Kind string

const (
	KindWorkspaces Kind = "workspaces"
	KindProjects   Kind = "projects"
	KindTasks      Kind = "tasks"
	KindSubtasks   Kind = "subtasks"
)

// Kinds lists every collection in import order.
var Kinds = []Kind{KindWorkspaces, KindProjects, KindTasks, KindSubtasks}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// New returns a pointer to a zero value of the entity type stored under k.
func (k Kind) New() (Entity, error) {
	switch k {
	case KindWorkspaces:
		return &Workspace{}, nil
	case KindProjects:
		return &Project{}, nil
	case KindTasks:
		return &Task{}, nil
	case KindSubtasks:
		return &Subtask{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
}

// Entity is implemented by the pointer types of all stored records.
type Entity interface {
	EntityID() string
	EntityKind() Kind
}

// WorkspaceType distinguishes the two fixed workspaces.
type WorkspaceType string

const (
	WorkspacePrivate WorkspaceType = "private"
	WorkspaceWork    WorkspaceType = "work"
)

// Workspace is a top-level container. Exactly two exist.
type Workspace struct {
	ID   string        `gorm:"primarykey" json:"id"`
	Type WorkspaceType `gorm:"not null" json:"type"`
}

func (Workspace) TableName() string  { return "workspaces" }
func (w *Workspace) EntityID() string { return w.ID }
func (*Workspace) EntityKind() Kind   { return KindWorkspaces }

// Project groups tasks inside a workspace.
type Project struct {
	ID          string  `gorm:"primarykey" json:"id"`
	WorkspaceID string  `gorm:"index" json:"workspaceId"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CreatedAt   int64   `gorm:"autoCreateTime:false" json:"createdAt"`
}

func (Project) TableName() string  { return "projects" }
func (p *Project) EntityID() string { return p.ID }
func (*Project) EntityKind() Kind   { return KindProjects }

// Task is a unit of work. Timestamps are Unix milliseconds, dates are
// YYYY-MM-DD strings.
type Task struct {
	ID              string    `gorm:"primarykey" json:"id"`
	WorkspaceID     string    `gorm:"index" json:"workspaceId"`
	Title           string    `json:"title"`
	EstimateMinutes *int      `json:"estimateMinutes,omitempty"`
	Priority        *Priority `json:"priority,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	Tags            []string  `gorm:"serializer:json" json:"tags"`
	DueDate         *string   `gorm:"index" json:"dueDate,omitempty"`
	DueTime         *string   `json:"dueTime,omitempty"`
	StartDate       *string   `json:"startDate,omitempty"`
	ProjectID       *string   `gorm:"index" json:"projectId,omitempty"`
	CreatedAt       int64     `gorm:"autoCreateTime:false" json:"createdAt"`
	CompletedAt     *int64    `json:"completedAt,omitempty"`
	Deleted         bool      `gorm:"column:deleted" json:"_deleted,omitempty"`
	DeletedAt       *int64    `gorm:"column:deleted_at" json:"_deletedAt,omitempty"`
}

func (Task) TableName() string  { return "tasks" }
func (t *Task) EntityID() string { return t.ID }
func (*Task) EntityKind() Kind   { return KindTasks }

// Done reports whether the task carries a completion timestamp.
func (t *Task) Done() bool { return t.CompletedAt != nil }

// Live reports whether the task is not tombstoned.
func (t *Task) Live() bool { return !t.Deleted }

// Open reports whether the task is neither tombstoned nor completed.
func (t *Task) Open() bool { return !t.Deleted && t.CompletedAt == nil }

// Estimate returns the own estimate, treating an absent value as zero.
func (t *Task) Estimate() int { return deref(t.EstimateMinutes) }

// InProject reports whether the task references projectID.
func (t *Task) InProject(projectID string) bool {
	return t.ProjectID != nil && *t.ProjectID == projectID
}

// Clone returns a deep copy so callers can mutate it freely.
func (t Task) Clone() Task {
	c := t
	c.EstimateMinutes = clonePtr(t.EstimateMinutes)
	c.Priority = clonePtr(t.Priority)
	c.Notes = clonePtr(t.Notes)
	c.Tags = slices.Clone(t.Tags)
	c.DueDate = clonePtr(t.DueDate)
	c.DueTime = clonePtr(t.DueTime)
	c.StartDate = clonePtr(t.StartDate)
	c.ProjectID = clonePtr(t.ProjectID)
	c.CompletedAt = clonePtr(t.CompletedAt)
	c.DeletedAt = clonePtr(t.DeletedAt)
	return c
}

// Subtask is a checklist item under a task. Subtasks are hard-deleted.
type Subtask struct {
	ID              string `gorm:"primarykey" json:"id"`
	TaskID          string `gorm:"index" json:"taskId"`
	Title           string `json:"title"`
	EstimateMinutes *int   `json:"estimateMinutes,omitempty"`
	CompletedAt     *int64 `json:"completedAt,omitempty"`
}

func (Subtask) TableName() string  { return "subtasks" }
func (s *Subtask) EntityID() string { return s.ID }
func (*Subtask) EntityKind() Kind   { return KindSubtasks }

// Done reports whether the subtask is checked off.
func (s *Subtask) Done() bool { return s.CompletedAt != nil }

// Estimate returns the estimate, treating an absent value as zero.
func (s *Subtask) Estimate() int { return deref(s.EstimateMinutes) }

// Ptr returns a pointer to v. Handy for optional fields.
func Ptr[T any](v T) *T { return &v }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
