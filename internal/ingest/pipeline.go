// Package ingest implements the thumbnail ingestion pipeline: validate the
// request, resolve the YouTube video id, fetch the source image, transcode
// it to AVIF, store the blob, then write the metadata record. Steps run
// strictly in order and each is attempted exactly once per request.
package ingest

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/webembed/coverframe/internal/metrics"
	"github.com/webembed/coverframe/internal/storage"
	"github.com/webembed/coverframe/pkg/models"
)

var tracer = otel.Tracer("coverframe-ingest")

// DefaultBlobKeyPrefix is where thumbnail blobs live within the blob store.
const DefaultBlobKeyPrefix = "thumbnails"

// CreateRequest is the input to the ingestion pipeline.
type CreateRequest struct {
	YoutubeURL   string `json:"youtubeUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Title        string `json:"title"`
}

// Pipeline runs the create flow against injected stores.
type Pipeline struct {
	blobs     storage.BlobStore
	records   storage.RecordStore
	fetcher   *Fetcher
	keyPrefix string
	log       *slog.Logger
}

// PipelineConfig holds dependencies for the pipeline.
type PipelineConfig struct {
	Blobs     storage.BlobStore
	Records   storage.RecordStore
	Fetcher   *Fetcher
	KeyPrefix string
	Logger    *slog.Logger
}

// NewPipeline creates a Pipeline with the given configuration.
func NewPipeline(cfg *PipelineConfig) *Pipeline {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultBlobKeyPrefix
	}
	return &Pipeline{
		blobs:     cfg.Blobs,
		records:   cfg.Records,
		fetcher:   cfg.Fetcher,
		keyPrefix: prefix,
		log:       cfg.Logger,
	}
}

// Create runs the full ingestion pipeline and returns the persisted record.
// The blob write completes before the record write; a record failure after a
// successful blob write leaves an orphaned blob, which is logged and
// accepted rather than compensated.
func (p *Pipeline) Create(ctx context.Context, req CreateRequest) (*models.EmbedRecord, error) {
	ctx, span := tracer.Start(ctx, "ingest-create")
	defer span.End()

	if req.YoutubeURL == "" || req.ThumbnailURL == "" || req.Title == "" {
		metrics.RecordCreate("validation_error")
		return nil, models.ErrMissingFields
	}

	youtubeID, err := ExtractYoutubeID(req.YoutubeURL)
	if err != nil {
		metrics.RecordCreate("validation_error")
		return nil, err
	}

	id, err := newID()
	if err != nil {
		metrics.RecordCreate("internal_error")
		return nil, fmt.Errorf("failed to generate embed id: %w", err)
	}

	span.SetAttributes(
		attribute.String("embed.id", id),
		attribute.String("embed.youtube_id", youtubeID),
	)

	fetchStart := time.Now()
	raw, err := p.fetcher.Fetch(ctx, req.ThumbnailURL)
	metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		span.RecordError(err)
		metrics.RecordCreate("fetch_error")
		return nil, err
	}

	transcodeStart := time.Now()
	encoded, err := TranscodeAVIF(raw)
	metrics.TranscodeDuration.Observe(time.Since(transcodeStart).Seconds())
	if err != nil {
		span.RecordError(err)
		metrics.RecordCreate("transcode_error")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("thumbnail.source_bytes", len(raw)),
		attribute.Int("thumbnail.encoded_bytes", len(encoded)),
	)

	blobKey := path.Join(p.keyPrefix, uuid.New().String()+".avif")
	if err := p.blobs.PutBlob(ctx, blobKey, encoded, ContentTypeAVIF); err != nil {
		span.RecordError(err)
		metrics.RecordCreate("storage_error")
		return nil, fmt.Errorf("%w: %v", models.ErrBlobWrite, err)
	}

	rec := &models.EmbedRecord{
		ID:                id,
		YoutubeID:         youtubeID,
		ThumbnailLocation: blobKey,
		Title:             req.Title,
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
	}

	if err := p.records.PutRecord(ctx, rec); err != nil {
		span.RecordError(err)
		metrics.RecordCreate("storage_error")
		// The blob already exists; log its key so an operator can reap it.
		p.log.ErrorContext(ctx, "Record write failed after blob upload",
			"embedId", id,
			"orphanedBlob", blobKey,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", models.ErrRecordWrite, err)
	}

	metrics.RecordCreate("success")
	p.log.InfoContext(ctx, "Embed created",
		"embedId", id,
		"youtubeId", youtubeID,
		"blobKey", blobKey,
		"encodedBytes", len(encoded),
	)

	return rec, nil
}

// newID generates the public identifier: 8 bytes from a cryptographic
// source, hex encoded. Enough entropy that concurrent requests never need
// coordination and ids are not guessable.
func newID() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
