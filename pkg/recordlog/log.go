package recordlog

import (
	"context"
	"fmt"

	"github.com/iwvelando/calcdash/pkg/storage"
	"go.uber.org/zap"
)

// Log is an ordered, append-only collection of records stored as a JSON
// array under one key.
type Log[T Record] struct {
	doc    *Document[records[T]]
	logger *zap.Logger
}

// records validates each element so Load rejects malformed entries. Elements
// that implement StoredRecord are held to their stored-copy rules instead of
// the append rules.
type records[T Record] []T

func (rs records[T]) Validate() error {
	for i, r := range rs {
		check := r.Validate
		if sr, ok := any(r).(StoredRecord); ok {
			check = sr.ValidateStored
		}
		if err := check(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// New returns the Log stored under key.
func New[T Record](store storage.ByteStore, key string, logger *zap.Logger) *Log[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log[T]{
		doc:    NewDocument(store, key, func() records[T] { return records[T]{} }, logger),
		logger: logger,
	}
}

// Key returns the storage key of the log.
func (l *Log[T]) Key() string {
	return l.doc.Key()
}

// Load returns the full stored collection in append order. A missing key
// yields an empty, non-nil slice.
func (l *Log[T]) Load(ctx context.Context) ([]T, error) {
	rs, err := l.doc.Load(ctx)
	if err != nil {
		return []T{}, err
	}
	if rs == nil {
		// A stored JSON null decodes to a nil slice.
		rs = records[T]{}
	}
	return []T(rs), nil
}

// Save overwrites the stored collection.
func (l *Log[T]) Save(ctx context.Context, rs []T) error {
	if rs == nil {
		rs = []T{}
	}
	return l.doc.Save(ctx, records[T](rs))
}

// Append validates record, adds it to the end of the stored collection and
// returns the updated collection. The load and save are separate operations.
func (l *Log[T]) Append(ctx context.Context, record T) ([]T, error) {
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	rs, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	rs = append(rs, record)
	if err := l.Save(ctx, rs); err != nil {
		return nil, err
	}
	l.logger.Debug("appended record",
		zap.String("op", "recordlog.Append"),
		zap.String("key", l.Key()),
		zap.Int("records", len(rs)),
	)
	return rs, nil
}
