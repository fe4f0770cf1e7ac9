package aggregate

import (
	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/snapshot"
)

// OrphanReport lists references that point at nothing. Storage does not
// enforce them, so they can appear after partial imports or deletes.
type OrphanReport struct {
	Subtasks []domain.Subtask `json:"subtasks"`
	Tasks    []domain.Task    `json:"tasks"`
}

// Empty reports whether no orphans were found.
func (r OrphanReport) Empty() bool {
	return len(r.Subtasks) == 0 && len(r.Tasks) == 0
}

// Orphans finds subtasks whose task and tasks whose project do not exist.
// A tombstoned task still counts as existing.
func Orphans(s *snapshot.Snapshot) OrphanReport {
	tasks := make(map[string]struct{}, len(s.Tasks))
	for _, t := range s.Tasks {
		tasks[t.ID] = struct{}{}
	}
	projects := make(map[string]struct{}, len(s.Projects))
	for _, p := range s.Projects {
		projects[p.ID] = struct{}{}
	}

	report := OrphanReport{Subtasks: []domain.Subtask{}, Tasks: []domain.Task{}}
	for _, st := range s.Subtasks {
		if _, ok := tasks[st.TaskID]; !ok {
			report.Subtasks = append(report.Subtasks, st)
		}
	}
	for _, t := range s.Tasks {
		if t.ProjectID == nil {
			continue
		}
		if _, ok := projects[*t.ProjectID]; !ok {
			report.Tasks = append(report.Tasks, t)
		}
	}
	return report
}
