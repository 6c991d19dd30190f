package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the ingestion pipeline and lookup path. The create
// handler maps these to HTTP statuses with errors.Is: validation, fetch and
// transcode failures are client-facing 400s, storage failures are 500s.
var (
	// Validation errors
	ErrMissingFields     = errors.New("missing required fields")
	ErrInvalidYoutubeURL = errors.New("invalid youtube url")

	// Thumbnail retrieval and transcoding errors
	ErrFetchThumbnail     = errors.New("failed to fetch thumbnail")
	ErrTranscodeThumbnail = errors.New("failed to transcode thumbnail")

	// Storage errors
	ErrBlobWrite     = errors.New("failed to store thumbnail blob")
	ErrRecordWrite   = errors.New("failed to store embed record")
	ErrEmbedNotFound = errors.New("embed not found")
)

// FetchStatusError reports a non-success response from the thumbnail source.
// It unwraps to ErrFetchThumbnail so callers can match the class while still
// seeing the upstream status.
type FetchStatusError struct {
	Status int
}

func (e *FetchStatusError) Error() string {
	return fmt.Sprintf("failed to fetch thumbnail: upstream status %d", e.Status)
}

func (e *FetchStatusError) Unwrap() error {
	return ErrFetchThumbnail
}
