package taskflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Priority ranks a task from 1 (highest) to 4.
type Priority int

const (
	PriorityHighest Priority = 1
	PriorityLowest  Priority = 4

	// unrankedPriority sorts tasks without a priority after every ranked one.
	unrankedPriority = 9
)

// UnmarshalJSON accepts both numbers and numeric strings ("2").
func (p *Priority) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*p = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid priority %q", s)
		}
		*p = Priority(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid priority: %w", err)
	}
	*p = Priority(n)
	return nil
}

// Rank returns the sort key for a task: its priority, or 9 when absent or
// outside 1..4.
func (t *Task) Rank() int {
	if t.Priority == nil || *t.Priority < PriorityHighest || *t.Priority > PriorityLowest {
		return unrankedPriority
	}
	return int(*t.Priority)
}
