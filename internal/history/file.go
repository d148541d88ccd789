package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"discountfinder/internal/product"
	"discountfinder/logger"
	apperrors "discountfinder/pkg/errors"
)

// FileStore keeps post records in a JSON file. The file is read once at
// construction and rewritten atomically by Save.
type FileStore struct {
	path    string
	limit   int
	records []product.PostRecord
	seen    map[string]struct{}
	now     func() time.Time
}

// NewFileStore creates a file-backed store and loads existing records.
// A missing file yields an empty store. A corrupted file is renamed aside
// and treated as empty so a bad write never blocks future runs.
func NewFileStore(path string, limit int) (*FileStore, error) {
	s := &FileStore{
		path:  path,
		limit: limit,
		seen:  make(map[string]struct{}),
		now:   time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, apperrors.NewHistory("failed to read history file", err)
	}

	var records []product.PostRecord
	if err := json.Unmarshal(data, &records); err != nil {
		// Keep the damaged file for diagnosis and start over
		brokenPath := path + ".broken"
		_ = os.WriteFile(brokenPath, data, 0644)
		logger.ForHistory().Warn().
			Str("path", path).
			Str("moved_to", brokenPath).
			Msg("History file is corrupted; starting with empty history")
		return s, nil
	}

	s.records = records
	for _, r := range records {
		s.seen[r.ProductID] = struct{}{}
	}
	return s, nil
}

// Contains reports whether the product was already published
func (s *FileStore) Contains(productID string) bool {
	_, ok := s.seen[productID]
	return ok
}

// Record marks a product as published
func (s *FileStore) Record(productID string) {
	if s.Contains(productID) {
		return
	}
	s.records = append(s.records, product.PostRecord{
		ProductID: productID,
		PostedAt:  s.now(),
	})
	s.seen[productID] = struct{}{}
}

// Save writes all records to the file atomically, keeping only the newest
// entries up to the configured limit
func (s *FileStore) Save() error {
	records := s.records
	if s.limit > 0 && len(records) > s.limit {
		records = records[len(records)-s.limit:]
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return apperrors.NewHistory("failed to marshal history", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewHistory("failed to create history directory", err)
		}
	}

	// Atomic write via temp file and rename
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return apperrors.NewHistory("failed to write temp history file", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.NewHistory("failed to rename temp history file", err)
	}

	s.records = records
	return nil
}

// Close implements Store; the file store holds no open resources
func (s *FileStore) Close() error {
	return nil
}
