package aggregate

import (
	"cmp"
	"slices"
	"strings"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/snapshot"
)

// DateGroup is one bucket of the planned view.
type DateGroup struct {
	Date         string        `json:"date"`
	Tasks        []domain.Task `json:"tasks"`
	TotalMinutes int           `json:"totalMinutes"`
}

// TodaySummary is the today view with its minute totals.
type TodaySummary struct {
	Date           string        `json:"date"`
	Tasks          []domain.Task `json:"tasks"`
	Done           []domain.Task `json:"done"`
	PlannedMinutes int           `json:"plannedMinutes"`
	DoneMinutes    int           `json:"doneMinutes"`
	OpenMinutes    int           `json:"openMinutes"`
}

// ProjectSummary is a project row with its rollups.
type ProjectSummary struct {
	Project      domain.Project `json:"project"`
	TotalMinutes int            `json:"totalMinutes"`
	Progress     int            `json:"progress"`
	OpenTasks    int            `json:"openTasks"`
}

// Planned groups the workspace's open, due-dated tasks by due date. Groups
// ascend by date; within a group tasks ascend by priority with unranked
// tasks last, keeping snapshot order for ties.
func Planned(s *snapshot.Snapshot, workspaceID string) []DateGroup {
	byDate := make(map[string][]domain.Task)
	for _, t := range s.Tasks {
		if t.WorkspaceID != workspaceID || !t.Open() || t.DueDate == nil {
			continue
		}
		byDate[*t.DueDate] = append(byDate[*t.DueDate], t)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	slices.Sort(dates)

	groups := make([]DateGroup, 0, len(dates))
	for _, d := range dates {
		tasks := byDate[d]
		sortByPriority(tasks)
		groups = append(groups, DateGroup{
			Date:         d,
			Tasks:        tasks,
			TotalMinutes: EstimateTotal(s, tasks),
		})
	}
	return groups
}

// Today returns the open tasks due today and the day's minute totals. Done
// covers live tasks due today or completed today (UTC date of completedAt).
func Today(s *snapshot.Snapshot, workspaceID, today string) TodaySummary {
	sum := TodaySummary{Date: today, Tasks: []domain.Task{}, Done: []domain.Task{}}
	for _, t := range s.Tasks {
		if t.WorkspaceID != workspaceID || !t.Live() {
			continue
		}
		due := t.DueDate != nil && *t.DueDate == today
		switch {
		case !t.Done() && due:
			sum.Tasks = append(sum.Tasks, t)
		case t.Done() && (due || domain.MillisDate(*t.CompletedAt) == today):
			sum.Done = append(sum.Done, t)
		}
	}
	sortByPriority(sum.Tasks)

	sum.PlannedMinutes = EstimateTotal(s, sum.Tasks)
	sum.DoneMinutes = EstimateTotal(s, sum.Done)
	sum.OpenMinutes = max(0, sum.PlannedMinutes-sum.DoneMinutes)
	return sum
}

// Inbox returns the workspace's open tasks, newest first.
func Inbox(s *snapshot.Snapshot, workspaceID string) []domain.Task {
	out := []domain.Task{}
	for _, t := range s.Tasks {
		if t.WorkspaceID == workspaceID && t.Open() {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Task) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
	return out
}

// Search returns the workspace's open tasks whose title, notes, tags or
// project name contain term, ignoring case. An empty term matches all.
func Search(s *snapshot.Snapshot, workspaceID, term string) []domain.Task {
	term = strings.ToLower(strings.TrimSpace(term))

	projectNames := make(map[string]string, len(s.Projects))
	for _, p := range s.Projects {
		projectNames[p.ID] = strings.ToLower(p.Name)
	}

	out := []domain.Task{}
	for _, t := range s.Tasks {
		if t.WorkspaceID != workspaceID || !t.Open() {
			continue
		}
		if term == "" || matches(t, term, projectNames) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t domain.Task, term string, projectNames map[string]string) bool {
	if strings.Contains(strings.ToLower(t.Title), term) {
		return true
	}
	if t.Notes != nil && strings.Contains(strings.ToLower(*t.Notes), term) {
		return true
	}
	if strings.Contains(strings.ToLower(strings.Join(t.Tags, " ")), term) {
		return true
	}
	if t.ProjectID != nil {
		if name, ok := projectNames[*t.ProjectID]; ok && strings.Contains(name, term) {
			return true
		}
	}
	return false
}

// ProjectTasks returns the project's live tasks, incomplete ones first.
func ProjectTasks(s *snapshot.Snapshot, projectID string) []domain.Task {
	out := []domain.Task{}
	for _, t := range s.Tasks {
		if t.Live() && t.InProject(projectID) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Task) int {
		return cmp.Compare(boolRank(a.Done()), boolRank(b.Done()))
	})
	return out
}

// Projects lists the workspace's projects with their rollups.
func Projects(s *snapshot.Snapshot, workspaceID string) []ProjectSummary {
	out := []ProjectSummary{}
	for _, p := range s.Projects {
		if p.WorkspaceID != workspaceID {
			continue
		}
		open := 0
		for i := range s.Tasks {
			if s.Tasks[i].Open() && s.Tasks[i].InProject(p.ID) {
				open++
			}
		}
		out = append(out, ProjectSummary{
			Project:      p,
			TotalMinutes: ProjectTotal(s, p.ID),
			Progress:     ProjectProgress(s, p.ID),
			OpenTasks:    open,
		})
	}
	return out
}

func sortByPriority(tasks []domain.Task) {
	slices.SortStableFunc(tasks, func(a, b domain.Task) int {
		return cmp.Compare(a.Rank(), b.Rank())
	})
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
