package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kv.json")
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedis(client, "taskflow:")
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStoreContract(t *testing.T) {
	fileStore, _ := setupFileStore(t)
	redisStore, _ := setupRedisStore(t)

	stores := map[string]Store{
		"file":  fileStore,
		"redis": redisStore,
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, ok, err := s.Get(ctx, "tasks:missing"); err != nil || ok {
				t.Fatalf("Get missing: ok=%v err=%v", ok, err)
			}

			if err := s.Set(ctx, "tasks:a", []byte(`{"id":"a"}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set(ctx, "tasks:b", []byte(`{"id":"b"}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set(ctx, "projects:p", []byte(`{"id":"p"}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}

			got, ok, err := s.Get(ctx, "tasks:a")
			if err != nil || !ok {
				t.Fatalf("Get: ok=%v err=%v", ok, err)
			}
			if string(got) != `{"id":"a"}` {
				t.Errorf("Get = %s", got)
			}

			tasks, err := s.Scan(ctx, "tasks:")
			if err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if len(tasks) != 2 {
				t.Errorf("Scan returned %d keys, want 2", len(tasks))
			}
			if _, ok := tasks["tasks:b"]; !ok {
				t.Errorf("Scan keys should not carry the store prefix: %v", tasks)
			}

			if err := s.Delete(ctx, "tasks:a"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := s.Delete(ctx, "tasks:a"); err != nil {
				t.Fatalf("Delete missing should be a no-op: %v", err)
			}
			if _, ok, _ := s.Get(ctx, "tasks:a"); ok {
				t.Error("key still present after Delete")
			}
		})
	}
}

func TestFileStorePersists(t *testing.T) {
	s, path := setupFileStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "workspaces:work", []byte(`{"id":"work","type":"work"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Len() != 1 {
		t.Errorf("reopened store has %d keys, want 1", reopened.Len())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestFileStoreRejectsInvalidJSON(t *testing.T) {
	s, _ := setupFileStore(t)
	if err := s.Set(context.Background(), "tasks:x", []byte("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON value")
	}
	if s.Len() != 0 {
		t.Errorf("invalid value was stored")
	}
}

func TestFileStoreClosed(t *testing.T) {
	s, _ := setupFileStore(t)
	_ = s.Close()
	if err := s.Set(context.Background(), "k", []byte(`1`)); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestRedisStoreUsesPrefix(t *testing.T) {
	s, mr := setupRedisStore(t)
	if err := s.Set(context.Background(), "tasks:a", []byte(`{}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("taskflow:tasks:a") {
		t.Errorf("expected prefixed key in redis, keys: %v", mr.Keys())
	}
}
