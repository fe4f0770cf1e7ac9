package taskflow

import (
	"fmt"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/aggregate"
	"github.com/example/taskflow/internal/timeline"
)

// TaskView is a task with its rollups. Progress is nil when the task has no
// subtasks.
type TaskView struct {
	domain.Task
	Subtasks      []domain.Subtask `json:"subtasks"`
	TotalEstimate int              `json:"totalEstimate"`
	Progress      *int             `json:"progress"`
}

// ProjectView is a project with its rollups and tasks.
type ProjectView struct {
	aggregate.ProjectSummary
	Tasks []TaskView `json:"tasks"`
}

// Task returns a task and its rollups from the snapshot.
func (e *Engine) Task(id string) (TaskView, error) {
	snap := e.cache.Current()
	t, ok := snap.Task(id)
	if !ok {
		return TaskView{}, fmt.Errorf("%w: tasks/%s", domain.ErrNotFound, id)
	}
	return e.taskView(t), nil
}

func (e *Engine) taskView(t domain.Task) TaskView {
	snap := e.cache.Current()
	v := TaskView{
		Task:          t,
		Subtasks:      snap.SubtasksOf(t.ID),
		TotalEstimate: aggregate.TaskTotalEstimate(snap, t),
	}
	if v.Subtasks == nil {
		v.Subtasks = []domain.Subtask{}
	}
	if p, ok := aggregate.TaskProgress(snap, t.ID); ok {
		v.Progress = &p
	}
	return v
}

// TaskViews decorates tasks with their rollups.
func (e *Engine) TaskViews(tasks []domain.Task) []TaskView {
	out := make([]TaskView, len(tasks))
	for i, t := range tasks {
		out[i] = e.taskView(t)
	}
	return out
}

// Project returns a project, its rollups and its live tasks, incomplete first.
func (e *Engine) Project(id string) (ProjectView, error) {
	snap := e.cache.Current()
	p, ok := snap.Project(id)
	if !ok {
		return ProjectView{}, fmt.Errorf("%w: projects/%s", domain.ErrNotFound, id)
	}
	tasks := aggregate.ProjectTasks(snap, id)
	open := 0
	for i := range tasks {
		if !tasks[i].Done() {
			open++
		}
	}
	return ProjectView{
		ProjectSummary: aggregate.ProjectSummary{
			Project:      p,
			TotalMinutes: aggregate.ProjectTotal(snap, id),
			Progress:     aggregate.ProjectProgress(snap, id),
			OpenTasks:    open,
		},
		Tasks: e.TaskViews(tasks),
	}, nil
}

// Projects lists the workspace's projects with rollups.
func (e *Engine) Projects(workspaceID string) []aggregate.ProjectSummary {
	return aggregate.Projects(e.cache.Current(), workspaceID)
}

// Inbox lists the workspace's open tasks, newest first.
func (e *Engine) Inbox(workspaceID string) []domain.Task {
	return aggregate.Inbox(e.cache.Current(), workspaceID)
}

// TodayView returns today's open tasks and minute totals.
func (e *Engine) TodayView(workspaceID string) aggregate.TodaySummary {
	return aggregate.Today(e.cache.Current(), workspaceID, e.Today())
}

// Planned returns the workspace's open, dated tasks grouped by due date.
func (e *Engine) Planned(workspaceID string) []aggregate.DateGroup {
	return aggregate.Planned(e.cache.Current(), workspaceID)
}

// Search finds open tasks in the workspace.
func (e *Engine) Search(workspaceID, term string) []domain.Task {
	return aggregate.Search(e.cache.Current(), workspaceID, term)
}

// Capacity compares today's plan with the workspace's daily capacity.
func (e *Engine) Capacity(workspaceID string) aggregate.CapacitySummary {
	return aggregate.Capacity(e.cache.Current(), workspaceID, e.Today(), e.capacities)
}

// Orphans lists dangling task and subtask references.
func (e *Engine) Orphans() aggregate.OrphanReport {
	return aggregate.Orphans(e.cache.Current())
}

// LayoutTimeline computes the Gantt layout for the project's live tasks in
// snapshot order.
func (e *Engine) LayoutTimeline(projectID string) (timeline.Chart, error) {
	snap := e.cache.Current()
	if _, ok := snap.Project(projectID); !ok {
		return timeline.Chart{}, fmt.Errorf("%w: projects/%s", domain.ErrNotFound, projectID)
	}
	var tasks []domain.Task
	for _, t := range snap.Tasks {
		if t.Live() && t.InProject(projectID) {
			tasks = append(tasks, t)
		}
	}
	return timeline.Layout(timeline.ItemsFromTasks(tasks), e.Today())
}
