package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	domain "github.com/example/taskflow/domain/taskflow"
	"github.com/example/taskflow/internal/backend/kv"
)

// KV stores entities as JSON under "<kind>:<id>" keys in a flat store.
type KV struct {
	store kv.Store
}

// NewKV wraps a key-value store.
func NewKV(store kv.Store) *KV {
	return &KV{store: store}
}

// Key builds the flat key for an entity.
func Key(kind domain.Kind, id string) string {
	return string(kind) + ":" + id
}

func (b *KV) Name() string {
	return "kv-" + b.store.Name()
}

func (b *KV) Put(ctx context.Context, kind domain.Kind, entity domain.Entity) (domain.Entity, error) {
	if err := checkKind(kind, entity); err != nil {
		return nil, err
	}
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, txError("put", kind, entity.EntityID(), err)
	}
	if err := b.store.Set(ctx, Key(kind, entity.EntityID()), data); err != nil {
		return nil, txError("put", kind, entity.EntityID(), err)
	}
	return entity, nil
}

func (b *KV) GetAll(ctx context.Context, kind domain.Kind) ([]domain.Entity, error) {
	if err := checkKind(kind, nil); err != nil {
		return nil, err
	}
	values, err := b.store.Scan(ctx, string(kind)+":")
	if err != nil {
		return nil, txError("getAll", kind, "", err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.Entity, 0, len(keys))
	for _, k := range keys {
		entity, err := decode(kind, values[k])
		if err != nil {
			return nil, txError("getAll", kind, "", fmt.Errorf("key %s: %w", k, err))
		}
		out = append(out, entity)
	}
	return out, nil
}

func (b *KV) Get(ctx context.Context, kind domain.Kind, id string) (domain.Entity, error) {
	if err := checkKind(kind, nil); err != nil {
		return nil, err
	}
	data, ok, err := b.store.Get(ctx, Key(kind, id))
	if err != nil {
		return nil, txError("get", kind, id, err)
	}
	if !ok {
		return nil, nil
	}
	entity, err := decode(kind, data)
	if err != nil {
		return nil, txError("get", kind, id, err)
	}
	return entity, nil
}

func (b *KV) Delete(ctx context.Context, kind domain.Kind, id string) error {
	if err := checkKind(kind, nil); err != nil {
		return err
	}
	if err := b.store.Delete(ctx, Key(kind, id)); err != nil {
		return txError("delete", kind, id, err)
	}
	return nil
}

func (b *KV) Ping(ctx context.Context) error {
	if p, ok := b.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (b *KV) Close() error {
	return b.store.Close()
}

func decode(kind domain.Kind, data []byte) (domain.Entity, error) {
	entity, err := kind.New()
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, entity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal: %w", err)
	}
	return entity, nil
}
