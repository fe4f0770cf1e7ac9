package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps all keys in a single JSON object on disk. The whole map is
// held in memory and rewritten atomically on every change.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	data   map[string]json.RawMessage
	closed bool
}

// OpenFile loads or creates the JSON document at path.
func OpenFile(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	s := &FileStore{
		path: path,
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := s.flush(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read file: %w", err)
	case len(raw) > 0:
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
	}

	return s, nil
}

func (s *FileStore) Name() string {
	return "file"
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, ErrClosed
	}
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %s is not valid JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	prev, had := s.data[key]
	s.data[key] = append(json.RawMessage(nil), value...)
	if err := s.flush(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	prev, had := s.data[key]
	if !had {
		return nil
	}
	delete(s.data, key)
	if err := s.flush(); err != nil {
		s.data[key] = prev
		return err
	}
	return nil
}

func (s *FileStore) Scan(_ context.Context, prefix string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	out := make(map[string][]byte)
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Len returns the number of stored keys.
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// flush writes the map to a temp file and renames it over the target.
// Caller must hold the write lock.
func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
