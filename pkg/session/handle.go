package session

import (
	"context"
	"slices"
	"sync"

	"github.com/iwvelando/calcdash/pkg/recordlog"
	"github.com/iwvelando/calcdash/pkg/storage"
	"go.uber.org/zap"
)

// Handle guards one record log. The stored collection is read on first use
// and cached until the next Append or Invalidate.
type Handle[T recordlog.Record] struct {
	mu     sync.Mutex
	log    *recordlog.Log[T]
	cached []T
	loaded bool
	logger *zap.Logger
}

func newHandle[T recordlog.Record](store storage.ByteStore, key string, logger *zap.Logger) *Handle[T] {
	return &Handle[T]{
		log:    recordlog.New[T](store, key, logger),
		logger: logger,
	}
}

// Key returns the storage key of the underlying log.
func (h *Handle[T]) Key() string {
	return h.log.Key()
}

// All returns a copy of the stored collection in append order.
func (h *Handle[T]) All(ctx context.Context) ([]T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.loaded {
		rs, err := h.log.Load(ctx)
		if err != nil {
			return []T{}, err
		}
		h.cached = rs
		h.loaded = true
	}
	return slices.Clone(h.cached), nil
}

// Append validates and persists record, then returns the updated collection.
func (h *Handle[T]) Append(ctx context.Context, record T) ([]T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rs, err := h.log.Append(ctx, record)
	if err != nil {
		return nil, err
	}
	h.cached = rs
	h.loaded = true
	return slices.Clone(rs), nil
}

// Invalidate drops the cached snapshot so the next All reads the store.
func (h *Handle[T]) Invalidate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cached = nil
	h.loaded = false
}
