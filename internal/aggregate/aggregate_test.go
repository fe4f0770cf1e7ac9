package aggregate

import (
	"testing"
	"time"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/snapshot"
)

const today = "2024-10-01"

var completedToday = time.Date(2024, 10, 1, 15, 0, 0, 0, time.UTC).UnixMilli()

func prio(p int) *domain.Priority {
	v := domain.Priority(p)
	return &v
}

func TestTaskTotalEstimate(t *testing.T) {
	s := &snapshot.Snapshot{
		Tasks: []domain.Task{{ID: "t1", EstimateMinutes: domain.Ptr(30)}},
		Subtasks: []domain.Subtask{
			{ID: "s1", TaskID: "t1", EstimateMinutes: domain.Ptr(20)},
			{ID: "s2", TaskID: "t1", EstimateMinutes: domain.Ptr(10)},
			{ID: "s3", TaskID: "t1"},
			{ID: "s4", TaskID: "other", EstimateMinutes: domain.Ptr(99)},
		},
	}

	if got := TaskTotalEstimate(s, s.Tasks[0]); got != 60 {
		t.Errorf("TaskTotalEstimate = %d, want 60", got)
	}
	if got := SubtaskEstimateTotal(s, "t1"); got != 30 {
		t.Errorf("SubtaskEstimateTotal = %d, want 30", got)
	}
	if got := TaskTotalEstimate(s, domain.Task{ID: "none"}); got != 0 {
		t.Errorf("missing estimate should count as 0, got %d", got)
	}
}

func TestTaskProgress(t *testing.T) {
	s := &snapshot.Snapshot{
		Subtasks: []domain.Subtask{
			{ID: "s1", TaskID: "t1", CompletedAt: domain.Ptr(int64(1))},
			{ID: "s2", TaskID: "t1"},
			{ID: "s3", TaskID: "t1"},
			{ID: "s4", TaskID: "t2", CompletedAt: domain.Ptr(int64(1))},
			{ID: "s5", TaskID: "t2", CompletedAt: domain.Ptr(int64(1))},
			{ID: "s6", TaskID: "t2"},
		},
	}

	tests := []struct {
		name   string
		taskID string
		want   int
		wantOK bool
	}{
		{"no subtasks is absent", "t0", 0, false},
		{"one of three", "t1", 33, true},
		{"two of three rounds up", "t2", 67, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TaskProgress(s, tt.taskID)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("TaskProgress = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestProjectProgress(t *testing.T) {
	s := &snapshot.Snapshot{
		Tasks: []domain.Task{
			{ID: "a", ProjectID: domain.Ptr("p1"), CompletedAt: domain.Ptr(int64(1))},
			{ID: "b", ProjectID: domain.Ptr("p1")},
			{ID: "c", ProjectID: domain.Ptr("p1"), Deleted: true},
			{ID: "d", ProjectID: domain.Ptr("p2"), Deleted: true, CompletedAt: domain.Ptr(int64(1))},
		},
	}

	if got := ProjectProgress(s, "empty"); got != 0 {
		t.Errorf("empty project = %d, want 0", got)
	}
	if got := ProjectProgress(s, "p1"); got != 50 {
		t.Errorf("p1 = %d, want 50", got)
	}
	if got := ProjectProgress(s, "p2"); got != 0 {
		t.Errorf("tombstoned tasks must not count, got %d", got)
	}
}

func TestPlanned(t *testing.T) {
	s := &snapshot.Snapshot{
		Tasks: []domain.Task{
			{ID: "late-none", WorkspaceID: "work", DueDate: domain.Ptr("2024-10-02"), EstimateMinutes: domain.Ptr(10)},
			{ID: "late-p2", WorkspaceID: "work", DueDate: domain.Ptr("2024-10-02"), Priority: prio(2), EstimateMinutes: domain.Ptr(20)},
			{ID: "early-p4", WorkspaceID: "work", DueDate: domain.Ptr("2024-09-30"), Priority: prio(4)},
			{ID: "late-p2b", WorkspaceID: "work", DueDate: domain.Ptr("2024-10-02"), Priority: prio(2)},
			{ID: "undated", WorkspaceID: "work"},
			{ID: "done", WorkspaceID: "work", DueDate: domain.Ptr("2024-10-02"), CompletedAt: domain.Ptr(int64(1))},
			{ID: "deleted", WorkspaceID: "work", DueDate: domain.Ptr("2024-10-02"), Deleted: true},
			{ID: "private", WorkspaceID: "private", DueDate: domain.Ptr("2024-10-02")},
		},
	}

	groups := Planned(s, "work")
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Date != "2024-09-30" || groups[1].Date != "2024-10-02" {
		t.Errorf("dates = %s, %s", groups[0].Date, groups[1].Date)
	}

	var ids []string
	for _, task := range groups[1].Tasks {
		ids = append(ids, task.ID)
	}
	want := []string{"late-p2", "late-p2b", "late-none"}
	if len(ids) != len(want) {
		t.Fatalf("group tasks = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("group tasks = %v, want %v", ids, want)
		}
	}
	if groups[1].TotalMinutes != 30 {
		t.Errorf("group total = %d, want 30", groups[1].TotalMinutes)
	}
}

func TestToday(t *testing.T) {
	s := &snapshot.Snapshot{
		Tasks: []domain.Task{
			{ID: "open", WorkspaceID: "work", DueDate: domain.Ptr(today), EstimateMinutes: domain.Ptr(60), Priority: prio(3)},
			{ID: "open-p1", WorkspaceID: "work", DueDate: domain.Ptr(today), EstimateMinutes: domain.Ptr(30), Priority: prio(1)},
			{ID: "done-due", WorkspaceID: "work", DueDate: domain.Ptr(today), EstimateMinutes: domain.Ptr(20), CompletedAt: domain.Ptr(int64(1))},
			{ID: "done-stamp", WorkspaceID: "work", DueDate: domain.Ptr("2024-09-01"), EstimateMinutes: domain.Ptr(15), CompletedAt: domain.Ptr(completedToday)},
			{ID: "deleted", WorkspaceID: "work", DueDate: domain.Ptr(today), EstimateMinutes: domain.Ptr(500), CompletedAt: domain.Ptr(completedToday), Deleted: true},
			{ID: "tomorrow", WorkspaceID: "work", DueDate: domain.Ptr("2024-10-02"), EstimateMinutes: domain.Ptr(45)},
		},
		Subtasks: []domain.Subtask{{ID: "s", TaskID: "open", EstimateMinutes: domain.Ptr(10)}},
	}

	sum := Today(s, "work", today)
	if len(sum.Tasks) != 2 || sum.Tasks[0].ID != "open-p1" {
		t.Fatalf("today tasks = %+v", sum.Tasks)
	}
	if sum.PlannedMinutes != 100 {
		t.Errorf("planned = %d, want 100", sum.PlannedMinutes)
	}
	if sum.DoneMinutes != 35 {
		t.Errorf("done = %d, want 35", sum.DoneMinutes)
	}
	if sum.OpenMinutes != 65 {
		t.Errorf("open = %d, want 65", sum.OpenMinutes)
	}

	t.Run("open minutes never negative", func(t *testing.T) {
		s := &snapshot.Snapshot{Tasks: []domain.Task{
			{ID: "d", WorkspaceID: "work", DueDate: domain.Ptr(today), EstimateMinutes: domain.Ptr(90), CompletedAt: domain.Ptr(int64(1))},
		}}
		if got := Today(s, "work", today).OpenMinutes; got != 0 {
			t.Errorf("open = %d, want 0", got)
		}
	})
}

func TestInboxAndSearch(t *testing.T) {
	s := &snapshot.Snapshot{
		Projects: []domain.Project{{ID: "p1", WorkspaceID: "work", Name: "Hagebau Schneider"}},
		Tasks: []domain.Task{
			{ID: "old", WorkspaceID: "work", Title: "Druckerei anfragen", CreatedAt: 1},
			{ID: "new", WorkspaceID: "work", Title: "Briefing", Notes: domain.Ptr("Rückfrage Kunde"), CreatedAt: 3},
			{ID: "tagged", WorkspaceID: "work", Title: "Layout", Tags: []string{"Print"}, CreatedAt: 2},
			{ID: "proj", WorkspaceID: "work", Title: "Prospekt KW40", ProjectID: domain.Ptr("p1"), CreatedAt: 0},
			{ID: "done", WorkspaceID: "work", Title: "Briefing alt", CompletedAt: domain.Ptr(int64(1))},
			{ID: "gone", WorkspaceID: "work", Title: "Briefing weg", Deleted: true},
		},
	}

	inbox := Inbox(s, "work")
	if len(inbox) != 4 || inbox[0].ID != "new" || inbox[3].ID != "proj" {
		t.Errorf("inbox order wrong: %+v", inbox)
	}

	tests := []struct {
		term string
		want []string
	}{
		{"briefing", []string{"new"}},
		{"KUNDE", []string{"new"}},
		{"print", []string{"tagged"}},
		{"schneider", []string{"proj"}},
		{"", []string{"old", "new", "tagged", "proj"}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := Search(s, "work", tt.term)
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) returned %d tasks, want %d", tt.term, len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].ID != tt.want[i] {
					t.Errorf("Search(%q)[%d] = %s, want %s", tt.term, i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestProjectsAndProjectTasks(t *testing.T) {
	s := &snapshot.Snapshot{
		Projects: []domain.Project{
			{ID: "p1", WorkspaceID: "work", Name: "ACME"},
			{ID: "p2", WorkspaceID: "private", Name: "Garten"},
		},
		Tasks: []domain.Task{
			{ID: "done", ProjectID: domain.Ptr("p1"), EstimateMinutes: domain.Ptr(30), CompletedAt: domain.Ptr(int64(1))},
			{ID: "open", ProjectID: domain.Ptr("p1"), EstimateMinutes: domain.Ptr(60)},
			{ID: "gone", ProjectID: domain.Ptr("p1"), EstimateMinutes: domain.Ptr(60), Deleted: true},
		},
	}

	tasks := ProjectTasks(s, "p1")
	if len(tasks) != 2 || tasks[0].ID != "open" {
		t.Errorf("ProjectTasks = %+v", tasks)
	}

	summaries := Projects(s, "work")
	if len(summaries) != 1 {
		t.Fatalf("Projects returned %d, want 1", len(summaries))
	}
	got := summaries[0]
	if got.TotalMinutes != 90 || got.Progress != 50 || got.OpenTasks != 1 {
		t.Errorf("summary = %+v", got)
	}
}

func TestCapacity(t *testing.T) {
	s := &snapshot.Snapshot{Tasks: []domain.Task{
		{ID: "a", WorkspaceID: "private", DueDate: domain.Ptr(today), EstimateMinutes: domain.Ptr(90)},
	}}

	got := Capacity(s, "private", today, DefaultCapacities())
	if got.Planned != 90 || got.Capacity != 240 || got.Left != 150 {
		t.Errorf("Capacity = %+v", got)
	}
	if got.Label != "1h 30m / 4h planned, 2h 30m left" {
		t.Errorf("Label = %q", got.Label)
	}

	over := Capacity(s, "private", today, Capacities{"private": 60})
	if over.Left != 0 {
		t.Errorf("Left = %d, want 0", over.Left)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := map[int]string{0: "0m", -5: "0m", 45: "45m", 60: "1h", 90: "1h 30m", 125: "2h 5m"}
	for in, want := range tests {
		if got := FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestOrphans(t *testing.T) {
	s := &snapshot.Snapshot{
		Projects: []domain.Project{{ID: "p1"}},
		Tasks: []domain.Task{
			{ID: "t1", ProjectID: domain.Ptr("p1")},
			{ID: "t2", ProjectID: domain.Ptr("ghost")},
			{ID: "t3", Deleted: true},
		},
		Subtasks: []domain.Subtask{
			{ID: "s1", TaskID: "t1"},
			{ID: "s2", TaskID: "t3"},
			{ID: "s3", TaskID: "ghost"},
		},
	}

	report := Orphans(s)
	if report.Empty() {
		t.Fatal("expected orphans")
	}
	if len(report.Tasks) != 1 || report.Tasks[0].ID != "t2" {
		t.Errorf("orphan tasks = %+v", report.Tasks)
	}
	if len(report.Subtasks) != 1 || report.Subtasks[0].ID != "s3" {
		t.Errorf("orphan subtasks = %+v", report.Subtasks)
	}
}
