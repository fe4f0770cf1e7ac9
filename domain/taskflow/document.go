package taskflow

import "fmt"

// Document is the JSON interchange format for export and import.
type Document struct {
	Workspaces []Workspace `json:"workspaces"`
	Projects   []Project   `json:"projects"`
	Tasks      []Task      `json:"tasks"`
	Subtasks   []Subtask   `json:"subtasks"`
	ExportedAt string      `json:"exportedAt,omitempty"`
}

// Entities returns the entities of one collection in document order, or an
// error if the collection is missing or contains an invalid record.
func (d *Document) Entities(kind Kind) ([]Entity, error) {
	switch kind {
	case KindWorkspaces:
		if d.Workspaces == nil {
			return nil, missingArray(kind)
		}
		out := make([]Entity, 0, len(d.Workspaces))
		for i := range d.Workspaces {
			w := d.Workspaces[i]
			if w.ID == "" {
				return nil, invalidItem(kind, i, "id")
			}
			out = append(out, &w)
		}
		return out, nil
	case KindProjects:
		if d.Projects == nil {
			return nil, missingArray(kind)
		}
		out := make([]Entity, 0, len(d.Projects))
		for i := range d.Projects {
			p := d.Projects[i]
			if p.ID == "" {
				return nil, invalidItem(kind, i, "id")
			}
			if p.WorkspaceID == "" {
				return nil, invalidItem(kind, i, "workspaceId")
			}
			out = append(out, &p)
		}
		return out, nil
	case KindTasks:
		if d.Tasks == nil {
			return nil, missingArray(kind)
		}
		out := make([]Entity, 0, len(d.Tasks))
		for i := range d.Tasks {
			t := d.Tasks[i].Clone()
			if t.ID == "" {
				return nil, invalidItem(kind, i, "id")
			}
			if t.WorkspaceID == "" {
				return nil, invalidItem(kind, i, "workspaceId")
			}
			out = append(out, &t)
		}
		return out, nil
	case KindSubtasks:
		if d.Subtasks == nil {
			return nil, missingArray(kind)
		}
		out := make([]Entity, 0, len(d.Subtasks))
		for i := range d.Subtasks {
			s := d.Subtasks[i]
			if s.ID == "" {
				return nil, invalidItem(kind, i, "id")
			}
			if s.TaskID == "" {
				return nil, invalidItem(kind, i, "taskId")
			}
			out = append(out, &s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func missingArray(kind Kind) error {
	return fmt.Errorf("%w: %s array is missing", ErrMalformedImportDocument, kind)
}

func invalidItem(kind Kind, index int, field string) error {
	return fmt.Errorf("%w: %s[%d] has no %s", ErrMalformedImportDocument, kind, index, field)
}
