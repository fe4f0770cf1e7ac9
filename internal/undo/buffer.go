// Package undo holds the most recent soft-delete batch so it can be restored.
package undo

import (
	"sync"
	"time"

	domain "github.com/example/taskflow/domain/taskflow"
)

// DefaultWindow is how long a batch stays restorable.
const DefaultWindow = 2500 * time.Millisecond

// Batch is one soft-delete action: the tasks as they were before deletion.
type Batch struct {
	Tasks      []domain.Task `json:"tasks"`
	RecordedAt time.Time     `json:"recordedAt"`
	ExpiresAt  time.Time     `json:"expiresAt"`
}

// IDs returns the ids of the batch's tasks.
func (b Batch) IDs() []string {
	ids := make([]string, len(b.Tasks))
	for i, t := range b.Tasks {
		ids[i] = t.ID
	}
	return ids
}

// Buffer keeps a single batch. A new Record replaces the previous one.
type Buffer struct {
	mu     sync.Mutex
	window time.Duration
	batch  *Batch
}

// New creates a buffer; a non-positive window uses DefaultWindow.
func New(window time.Duration) *Buffer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Buffer{window: window}
}

// Window returns the restore window.
func (b *Buffer) Window() time.Duration {
	return b.window
}

// Record stores tasks as the current batch, dropping any earlier one.
func (b *Buffer) Record(tasks []domain.Task, now time.Time) Batch {
	copied := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		copied[i] = t.Clone()
	}
	batch := Batch{Tasks: copied, RecordedAt: now, ExpiresAt: now.Add(b.window)}

	b.mu.Lock()
	b.batch = &batch
	b.mu.Unlock()
	return batch
}

// Pending returns the current batch if it is still inside the window.
func (b *Buffer) Pending(now time.Time) (Batch, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.batch == nil || now.After(b.batch.ExpiresAt) {
		return Batch{}, false
	}
	return *b.batch, true
}

// Take returns the current batch and clears the buffer. It fails with
// ErrNothingToUndo when empty and ErrUndoExpired once the window has passed;
// an expired batch is discarded.
func (b *Buffer) Take(now time.Time) (Batch, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.batch == nil {
		return Batch{}, domain.ErrNothingToUndo
	}
	batch := *b.batch
	b.batch = nil
	if now.After(batch.ExpiresAt) {
		return Batch{}, domain.ErrUndoExpired
	}
	return batch, nil
}

// Clear drops the current batch.
func (b *Buffer) Clear() {
	b.mu.Lock()
	b.batch = nil
	b.mu.Unlock()
}
