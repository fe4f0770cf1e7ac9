// Package backend stores the four entity collections behind a single
// contract, choosing between SQLite and a flat key-value store at startup.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/backend/kv"
)

// Backend is the storage contract shared by both concrete stores.
type Backend interface {
	// Name identifies the active store ("sqlite", "kv-file", "kv-redis").
	Name() string

	// Put upserts entity by id and returns it.
	Put(ctx context.Context, kind domain.Kind, entity domain.Entity) (domain.Entity, error)

	// GetAll returns every stored entity of kind.
	GetAll(ctx context.Context, kind domain.Kind) ([]domain.Entity, error)

	// Get returns the entity with id, or nil when it does not exist.
	Get(ctx context.Context, kind domain.Kind, id string) (domain.Entity, error)

	// Delete removes the entity with id. Deleting a missing id is a no-op.
	Delete(ctx context.Context, kind domain.Kind, id string) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection or file.
	Close() error
}

// Fallback drivers for the key-value store.
const (
	DriverFile  = "file"
	DriverRedis = "redis"
)

// Config selects and configures the storage backends.
type Config struct {
	DBPath         string
	DBDebug        bool
	FallbackDriver string
	KVPath         string
	RedisAddr      string
	RedisPrefix    string
	// ForceFallback skips the SQLite store entirely.
	ForceFallback bool
}

// DefaultConfig returns the default backend configuration.
func DefaultConfig() Config {
	return Config{
		DBPath:         "taskflow.db",
		FallbackDriver: DriverFile,
		KVPath:         "taskflow-kv.json",
		RedisAddr:      "localhost:6379",
		RedisPrefix:    "taskflow:",
	}
}

// Open selects a backend once. SQLite is preferred; if it cannot be opened
// the key-value store is used instead. ErrBackendUnavailable is returned when
// neither works.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	var primaryErr error
	if cfg.ForceFallback {
		primaryErr = errors.New("sqlite disabled by configuration")
	} else {
		sqlStore, err := OpenSQLite(cfg.DBPath, cfg.DBDebug)
		if err == nil {
			log.Printf("[backend] Using SQLite store at %s", cfg.DBPath)
			return sqlStore, nil
		}
		primaryErr = err
		log.Printf("[backend] Warning: SQLite unavailable (%v), falling back to %s key-value store", err, cfg.FallbackDriver)
	}

	store, err := openKV(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: sqlite: %w; kv: %w", domain.ErrBackendUnavailable, primaryErr, err)
	}
	log.Printf("[backend] Using %s key-value store", store.Name())
	return NewKV(store), nil
}

func openKV(ctx context.Context, cfg Config) (kv.Store, error) {
	switch cfg.FallbackDriver {
	case DriverFile, "":
		return kv.OpenFile(cfg.KVPath)
	case DriverRedis:
		return kv.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown fallback driver %q", cfg.FallbackDriver)
	}
}

func txError(op string, kind domain.Kind, id string, err error) error {
	if id == "" {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrTransactionFailed, op, kind, err)
	}
	return fmt.Errorf("%w: %s %s/%s: %w", domain.ErrTransactionFailed, op, kind, id, err)
}

func checkKind(kind domain.Kind, entity domain.Entity) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	if entity != nil && entity.EntityKind() != kind {
		return fmt.Errorf("%w: %s entity put into %s", domain.ErrUnknownKind, entity.EntityKind(), kind)
	}
	return nil
}
