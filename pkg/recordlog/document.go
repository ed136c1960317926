// Package recordlog persists ordered collections of immutable records on a
// storage.ByteStore. Every mutation loads the whole collection, changes it in
// memory and overwrites the stored copy.
package recordlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/iwvelando/calcdash/pkg/storage"
	"go.uber.org/zap"
)

// Record is implemented by every persisted record type. Validate guards
// Append.
type Record interface {
	Validate() error
}

// StoredRecord is implemented by records whose already-stored copies may hold
// values Append no longer accepts, such as files written by earlier versions.
// ValidateStored checks only the shape Load needs.
type StoredRecord interface {
	ValidateStored() error
}

// Document persists a single JSON value of type D under one key.
type Document[D any] struct {
	store  storage.ByteStore
	key    string
	empty  func() D
	logger *zap.Logger
}

// NewDocument returns a Document stored under key. empty builds the value
// returned when nothing has been stored yet.
func NewDocument[D any](store storage.ByteStore, key string, empty func() D, logger *zap.Logger) *Document[D] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if empty == nil {
		empty = func() D {
			var zero D
			return zero
		}
	}
	return &Document[D]{store: store, key: key, empty: empty, logger: logger}
}

// Key returns the storage key of the document.
func (d *Document[D]) Key() string {
	return d.key
}

// Load reads and decodes the document. A missing key yields the empty value.
// Content that is not valid JSON for D, carries unknown fields or fails
// validation yields a *StorageReadError.
func (d *Document[D]) Load(ctx context.Context) (D, error) {
	data, err := d.store.Read(ctx, d.key)
	if errors.Is(err, storage.ErrNotFound) {
		d.logger.Debug("no stored copy, starting empty",
			zap.String("op", "recordlog.Load"),
			zap.String("key", d.key),
		)
		return d.empty(), nil
	}
	if err != nil {
		return d.empty(), &StorageReadError{Key: d.key, Err: err}
	}

	doc, err := decode[D](data)
	if err != nil {
		return d.empty(), &StorageReadError{Key: d.key, Err: err}
	}
	if rec, ok := any(doc).(Record); ok {
		if err := rec.Validate(); err != nil {
			return d.empty(), &StorageReadError{Key: d.key, Err: err}
		}
	}

	d.logger.Debug("loaded document",
		zap.String("op", "recordlog.Load"),
		zap.String("key", d.key),
		zap.Int("bytes", len(data)),
	)
	return doc, nil
}

// Save overwrites the stored copy with doc.
func (d *Document[D]) Save(ctx context.Context, doc D) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return &StorageWriteError{Key: d.key, Err: err}
	}
	if err := d.store.Write(ctx, d.key, data); err != nil {
		return &StorageWriteError{Key: d.key, Err: err}
	}
	d.logger.Debug("saved document",
		zap.String("op", "recordlog.Save"),
		zap.String("key", d.key),
		zap.Int("bytes", len(data)),
	)
	return nil
}

func decode[D any](data []byte) (D, error) {
	var doc D
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return doc, fmt.Errorf("decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return doc, errors.New("decode: unexpected data after document")
	}
	return doc, nil
}
