// Package storage provides the pluggable persistence backends for the
// embed service: blob stores for transcoded thumbnails and record stores
// for embed metadata. Backends are selected by configuration and injected
// into the pipeline; each key is written at most once, so no backend needs
// multi-key transactions.
package storage

import (
	"context"

	"github.com/webembed/coverframe/pkg/models"
)

// BlobStore persists binary thumbnail data under an opaque key.
type BlobStore interface {
	PutBlob(ctx context.Context, key string, data []byte, contentType string) error
	GetBlob(ctx context.Context, key string) ([]byte, error)
}

// RecordStore persists embed metadata keyed by the public identifier.
// GetRecord returns models.ErrEmbedNotFound for unknown ids.
type RecordStore interface {
	PutRecord(ctx context.Context, rec *models.EmbedRecord) error
	GetRecord(ctx context.Context, id string) (*models.EmbedRecord, error)
}
