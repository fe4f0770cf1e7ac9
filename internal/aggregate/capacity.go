package aggregate

import (
	"fmt"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/snapshot"
)

// Capacities maps workspace ids to daily capacity in minutes.
type Capacities map[string]int

// DefaultCapacities returns the default daily capacity per workspace.
func DefaultCapacities() Capacities {
	return Capacities{
		string(domain.WorkspacePrivate): 240,
		string(domain.WorkspaceWork):    360,
	}
}

// CapacitySummary compares today's planned minutes with the daily capacity.
type CapacitySummary struct {
	Planned  int    `json:"planned"`
	Capacity int    `json:"capacity"`
	Left     int    `json:"left"`
	Label    string `json:"label"`
}

// Capacity reports how much of the workspace's daily capacity remains after
// the open tasks due today.
func Capacity(s *snapshot.Snapshot, workspaceID, today string, caps Capacities) CapacitySummary {
	planned := Today(s, workspaceID, today).PlannedMinutes
	limit := caps[workspaceID]
	left := max(0, limit-planned)
	return CapacitySummary{
		Planned:  planned,
		Capacity: limit,
		Left:     left,
		Label:    fmt.Sprintf("%s / %s planned, %s left", FormatMinutes(planned), FormatMinutes(limit), FormatMinutes(left)),
	}
}

// FormatMinutes renders minutes as "45m", "2h" or "1h 30m".
func FormatMinutes(m int) string {
	if m <= 0 {
		return "0m"
	}
	h, rest := m/60, m%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", rest)
	case rest == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, rest)
	}
}
