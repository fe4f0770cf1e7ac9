// Package aggregate derives estimates, progress and grouped views from a
// snapshot. All functions are pure; tombstoned tasks never contribute.
package aggregate

import (
	"math"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/snapshot"
)

// SubtaskEstimateTotal sums the estimates of all subtasks of taskID.
func SubtaskEstimateTotal(s *snapshot.Snapshot, taskID string) int {
	total := 0
	for i := range s.Subtasks {
		if s.Subtasks[i].TaskID == taskID {
			total += s.Subtasks[i].Estimate()
		}
	}
	return total
}

// TaskTotalEstimate is the task's own estimate plus its subtasks' estimates.
func TaskTotalEstimate(s *snapshot.Snapshot, t domain.Task) int {
	return t.Estimate() + SubtaskEstimateTotal(s, t.ID)
}

// EstimateTotal sums TaskTotalEstimate over tasks.
func EstimateTotal(s *snapshot.Snapshot, tasks []domain.Task) int {
	total := 0
	for _, t := range tasks {
		total += TaskTotalEstimate(s, t)
	}
	return total
}

// TaskProgress returns the rounded percentage of completed subtasks. ok is
// false when the task has no subtasks.
func TaskProgress(s *snapshot.Snapshot, taskID string) (percent int, ok bool) {
	total, done := 0, 0
	for i := range s.Subtasks {
		if s.Subtasks[i].TaskID != taskID {
			continue
		}
		total++
		if s.Subtasks[i].Done() {
			done++
		}
	}
	if total == 0 {
		return 0, false
	}
	return percentOf(done, total), true
}

// ProjectProgress returns the rounded percentage of completed live tasks in
// the project, or 0 when it has none.
func ProjectProgress(s *snapshot.Snapshot, projectID string) int {
	total, done := 0, 0
	for i := range s.Tasks {
		t := &s.Tasks[i]
		if !t.Live() || !t.InProject(projectID) {
			continue
		}
		total++
		if t.Done() {
			done++
		}
	}
	if total == 0 {
		return 0
	}
	return percentOf(done, total)
}

// ProjectTotal sums the total estimates of the project's live tasks.
func ProjectTotal(s *snapshot.Snapshot, projectID string) int {
	total := 0
	for i := range s.Tasks {
		t := s.Tasks[i]
		if t.Live() && t.InProject(projectID) {
			total += TaskTotalEstimate(s, t)
		}
	}
	return total
}

// percentOf rounds half away from zero, matching the UI's rounding.
func percentOf(part, whole int) int {
	return int(math.Floor(float64(part)/float64(whole)*100 + 0.5))
}
