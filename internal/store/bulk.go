package store

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/example/taskflow/domain/taskflow"
)

// ItemError records a failed write inside a bulk operation.
type ItemError struct {
	Kind  domain.Kind `json:"kind"`
	Index int         `json:"index"`
	ID    string      `json:"id"`
	Err   error       `json:"-"`
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s[%d] %s: %v", e.Kind, e.Index, e.ID, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

// BulkResult summarises a sequential bulk write.
type BulkResult struct {
	Applied int         `json:"applied"`
	Failed  []ItemError `json:"failed,omitempty"`
}

// Err joins the item errors, or returns nil when every write succeeded.
func (r BulkResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	msgs := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		msgs[i] = f.Error()
	}
	return fmt.Errorf("%w: %d writes failed: %s", r.Failed[0].Err, len(r.Failed), strings.Join(msgs, "; "))
}

// PutAll writes entities one at a time in order. A failing item is recorded
// and the remaining items are still written. Entities are stored as given,
// ids included.
func (s *Store) PutAll(ctx context.Context, kind domain.Kind, entities []domain.Entity) BulkResult {
	var res BulkResult
	for i, e := range entities {
		if err := ctx.Err(); err != nil {
			res.Failed = append(res.Failed, ItemError{Kind: kind, Index: i, ID: e.EntityID(), Err: err})
			continue
		}
		if e.EntityID() == "" {
			res.Failed = append(res.Failed, ItemError{Kind: kind, Index: i, Err: domain.ErrMissingID})
			continue
		}
		if _, err := s.backend.Put(ctx, kind, e); err != nil {
			res.Failed = append(res.Failed, ItemError{Kind: kind, Index: i, ID: e.EntityID(), Err: err})
			continue
		}
		res.Applied++
	}
	return res
}
