package recordlog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iwvelando/calcdash/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type entry struct {
	Name   string   `json:"name"`
	Amount float64  `json:"amount"`
	Count  int      `json:"count"`
	Tags   []string `json:"tags"`
}

func (e entry) Validate() error {
	if e.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type failingStore struct {
	storage.ByteStore
	writeErr error
	readErr  error
}

func (s failingStore) Read(ctx context.Context, key string) ([]byte, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.ByteStore.Read(ctx, key)
}

func (s failingStore) Write(ctx context.Context, key string, data []byte) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	return s.ByteStore.Write(ctx, key, data)
}

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	log := New[entry](storage.NewMemoryStore(), "entries", zap.NewNop())

	got, err := log.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAppendPreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	log := New[entry](store, "entries", nil)

	var want []entry
	for i := 0; i < 25; i++ {
		rec := entry{Name: fmt.Sprintf("entry-%02d", i), Amount: float64(i) * 1.1, Count: i}
		want = append(want, rec)

		got, err := log.Append(ctx, rec)
		require.NoError(t, err)
		require.Len(t, got, i+1)
	}

	// A fresh Log over the same store sees exactly what was appended.
	got, err := New[entry](store, "entries", nil).Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	log := New[entry](storage.NewMemoryStore(), "entries", nil)

	want := []entry{
		{Name: "a", Amount: 0.1 + 0.2, Count: 3, Tags: []string{"x", "y"}},
		{Name: "b", Amount: 1e-9, Tags: []string{}},
		{Name: "c ₹ unicode", Amount: -2124.7040272},
	}
	require.NoError(t, log.Save(ctx, want))

	// Saving what was loaded leaves the collection unchanged.
	loaded, err := log.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, log.Save(ctx, loaded))

	got, err := log.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	log := New[entry](store, "entries", nil)

	require.NoError(t, log.Save(ctx, nil))
	data, err := store.Read(ctx, "entries")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Not JSON", "{{{"},
		{"Empty file", ""},
		{"Object instead of array", `{"name":"a"}`},
		{"Wrong field type", `[{"name":"a","amount":"ten"}]`},
		{"Unknown field", `[{"name":"a","amonut":1}]`},
		{"Invalid record", `[{"name":""}]`},
		{"Trailing data", `[] []`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemoryStore()
			require.NoError(t, store.Write(ctx, "entries", []byte(tt.content)))

			_, err := New[entry](store, "entries", nil).Load(ctx)
			var readErr *StorageReadError
			require.ErrorAs(t, err, &readErr)
			assert.Equal(t, "entries", readErr.Key)
		})
	}
}

func TestLoadNullIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Write(ctx, "entries", []byte("null")))

	got, err := New[entry](store, "entries", nil).Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAppendRejectsInvalidRecord(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	log := New[entry](store, "entries", nil)

	_, err := log.Append(ctx, entry{})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = store.Read(ctx, "entries")
	assert.ErrorIs(t, err, storage.ErrNotFound, "nothing should be written")
}

func TestStorageErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	writeFails := New[entry](failingStore{ByteStore: storage.NewMemoryStore(), writeErr: boom}, "entries", nil)
	_, err := writeFails.Append(ctx, entry{Name: "a"})
	var writeErr *StorageWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "entries")

	readFails := New[entry](failingStore{ByteStore: storage.NewMemoryStore(), readErr: boom}, "entries", nil)
	_, err = readFails.Append(ctx, entry{Name: "a"})
	var readErr *StorageReadError
	require.ErrorAs(t, err, &readErr)
	assert.ErrorIs(t, err, boom)
}

type ledger struct {
	Owner   string  `json:"owner"`
	Entries []entry `json:"entries"`
}

func TestDocumentDefaults(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	doc := NewDocument(store, "ledger", func() ledger {
		return ledger{Owner: "nobody", Entries: []entry{}}
	}, nil)

	got, err := doc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "nobody", got.Owner)

	got.Owner = "me"
	got.Entries = append(got.Entries, entry{Name: "a"})
	require.NoError(t, doc.Save(ctx, got))

	reloaded, err := doc.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(got, reloaded); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "ledger", doc.Key())
}
