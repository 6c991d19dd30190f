package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/webembed/coverframe/pkg/models"
)

// FSBlobStore stores thumbnail blobs as files under a root directory.
// It is the development backend and mirrors the service's original layout
// of loose .avif files on local disk.
type FSBlobStore struct {
	root string
}

// NewFSBlobStore creates an FSBlobStore rooted at dir.
func NewFSBlobStore(dir string) *FSBlobStore {
	return &FSBlobStore{root: dir}
}

// PutBlob writes the blob to <root>/<key>, creating parent directories as
// needed. The content type is implied by the key's extension on disk.
func (s *FSBlobStore) PutBlob(_ context.Context, key string, data []byte, _ string) error {
	path := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}

	return nil
}

// GetBlob reads the blob back from disk.
func (s *FSBlobStore) GetBlob(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

// FSRecordStore stores embed records as one JSON file per id.
type FSRecordStore struct {
	root string
}

// NewFSRecordStore creates an FSRecordStore rooted at dir.
func NewFSRecordStore(dir string) *FSRecordStore {
	return &FSRecordStore{root: dir}
}

func (s *FSRecordStore) recordPath(id string) string {
	return filepath.Join(s.root, id+".json")
}

// PutRecord writes the record to <root>/<id>.json.
func (s *FSRecordStore) PutRecord(_ context.Context, rec *models.EmbedRecord) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create record directory: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal embed record: %w", err)
	}

	if err := os.WriteFile(s.recordPath(rec.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write embed record %s: %w", rec.ID, err)
	}

	return nil
}

// GetRecord retrieves an embed record by its public identifier.
func (s *FSRecordStore) GetRecord(_ context.Context, id string) (*models.EmbedRecord, error) {
	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.ErrEmbedNotFound
		}
		return nil, fmt.Errorf("failed to read embed record %s: %w", id, err)
	}

	var rec models.EmbedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embed record %s: %w", id, err)
	}

	return &rec, nil
}
