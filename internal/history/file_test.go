package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"discountfinder/internal/product"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	store, err := NewFileStore(path, 100)
	assert.NoError(t, err)
	assert.False(t, store.Contains("B000000001"))

	store.Record("B000000001")
	store.Record("B000000002")
	assert.True(t, store.Contains("B000000001"))
	assert.NoError(t, store.Save())

	// A fresh store instance sees the persisted records
	reopened, err := NewFileStore(path, 100)
	assert.NoError(t, err)
	assert.True(t, reopened.Contains("B000000001"))
	assert.True(t, reopened.Contains("B000000002"))
	assert.False(t, reopened.Contains("B000000003"))
}

func TestFileStoreRecordIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	store, err := NewFileStore(path, 100)
	assert.NoError(t, err)

	store.Record("B000000001")
	store.Record("B000000001")
	assert.NoError(t, store.Save())

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	var records []product.PostRecord
	assert.NoError(t, json.Unmarshal(data, &records))
	assert.Len(t, records, 1)
	assert.Equal(t, "B000000001", records[0].ProductID)
	assert.False(t, records[0].PostedAt.IsZero())
}

func TestFileStoreCapsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	store, err := NewFileStore(path, 3)
	assert.NoError(t, err)

	store.Record("B1")
	store.Record("B2")
	store.Record("B3")
	store.Record("B4")
	store.Record("B5")
	assert.NoError(t, store.Save())

	reopened, err := NewFileStore(path, 3)
	assert.NoError(t, err)

	// Only the newest records survive
	assert.False(t, reopened.Contains("B1"))
	assert.False(t, reopened.Contains("B2"))
	assert.True(t, reopened.Contains("B3"))
	assert.True(t, reopened.Contains("B4"))
	assert.True(t, reopened.Contains("B5"))
}

func TestFileStoreCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0644))

	store, err := NewFileStore(path, 100)
	assert.NoError(t, err)
	assert.False(t, store.Contains("B000000001"))

	// The damaged file is kept aside for diagnosis
	broken, err := os.ReadFile(path + ".broken")
	assert.NoError(t, err)
	assert.Contains(t, string(broken), "not valid json")

	// The store is usable again
	store.Record("B000000001")
	assert.NoError(t, store.Save())

	reopened, err := NewFileStore(path, 100)
	assert.NoError(t, err)
	assert.True(t, reopened.Contains("B000000001"))
}

func TestFileStoreMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history.json")

	store, err := NewFileStore(path, 100)
	assert.NoError(t, err)

	store.Record("B000000001")
	assert.NoError(t, store.Save())

	reopened, err := NewFileStore(path, 100)
	assert.NoError(t, err)
	assert.True(t, reopened.Contains("B000000001"))
}
