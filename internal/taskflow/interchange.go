package taskflow

import (
	"context"
	"errors"
	"log"
	"slices"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/store"
)

// exportTimeLayout matches the ISO-8601 form used by the interchange format.
const exportTimeLayout = "2006-01-02T15:04:05.000Z"

// SkippedArray is a collection left out of an import because it failed
// validation.
type SkippedArray struct {
	Kind   domain.Kind `json:"kind"`
	Reason string      `json:"reason"`
}

// ImportReport summarises an import.
type ImportReport struct {
	Applied int               `json:"applied"`
	Failed  []store.ItemError `json:"failed,omitempty"`
	Skipped []SkippedArray    `json:"skipped,omitempty"`
}

// Export returns every stored entity, tombstoned tasks included.
func (e *Engine) Export(_ context.Context) domain.Document {
	snap := e.cache.Current()
	doc := domain.Document{
		Workspaces: slices.Clone(snap.Workspaces),
		Projects:   slices.Clone(snap.Projects),
		Tasks:      make([]domain.Task, len(snap.Tasks)),
		Subtasks:   slices.Clone(snap.Subtasks),
		ExportedAt: e.now().UTC().Format(exportTimeLayout),
	}
	for i, t := range snap.Tasks {
		doc.Tasks[i] = t.Clone()
	}
	if doc.Workspaces == nil {
		doc.Workspaces = []domain.Workspace{}
	}
	if doc.Projects == nil {
		doc.Projects = []domain.Project{}
	}
	if doc.Subtasks == nil {
		doc.Subtasks = []domain.Subtask{}
	}
	return doc
}

// Import upserts every collection of doc in order, keeping ids, so importing
// the same document twice converges to the same state. A collection that
// fails validation is skipped before any of its writes; the others are still
// applied. Item write failures do not stop the import. The returned error
// wraps ErrMalformedImportDocument when any collection was skipped.
func (e *Engine) Import(ctx context.Context, doc domain.Document) (ImportReport, error) {
	var report ImportReport
	var malformed []error

	err := e.mutate(ctx, func(ctx context.Context) error {
		for _, kind := range domain.Kinds {
			entities, err := doc.Entities(kind)
			if err != nil {
				report.Skipped = append(report.Skipped, SkippedArray{Kind: kind, Reason: err.Error()})
				malformed = append(malformed, err)
				continue
			}
			res := e.store.PutAll(ctx, kind, entities)
			report.Applied += res.Applied
			report.Failed = append(report.Failed, res.Failed...)
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	log.Printf("[taskflow] Import applied %d entities (%d failed, %d arrays skipped)",
		report.Applied, len(report.Failed), len(report.Skipped))
	e.publishImported(report, e.now())
	return report, errors.Join(malformed...)
}
