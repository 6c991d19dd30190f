package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/webembed/coverframe/internal/ingest"
	"github.com/webembed/coverframe/internal/metrics"
	"github.com/webembed/coverframe/internal/storage"
	"github.com/webembed/coverframe/pkg/models"
)

var tracer = otel.Tracer("coverframe-api")

// MaxRequestBodySize caps the create request body; the payload is three
// short strings, so 64 KB is generous.
const MaxRequestBodySize = 64 << 10

// Handlers contains all HTTP handlers for the API.
type Handlers struct {
	log      *slog.Logger
	pipeline *ingest.Pipeline
	blobs    storage.BlobStore
	records  storage.RecordStore
}

// HandlersConfig holds dependencies for handlers.
type HandlersConfig struct {
	Logger   *slog.Logger
	Pipeline *ingest.Pipeline
	Blobs    storage.BlobStore
	Records  storage.RecordStore
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg *HandlersConfig) *Handlers {
	return &Handlers{
		log:      cfg.Logger,
		pipeline: cfg.Pipeline,
		blobs:    cfg.Blobs,
		records:  cfg.Records,
	}
}

// writeJSON writes a JSON response.
func (h *Handlers) writeJSON(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.ErrorContext(ctx, "Failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response.
func (h *Handlers) writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	h.writeJSON(ctx, w, status, map[string]string{"error": message})
}

// CreateEmbedResponse is the success payload for embed creation.
type CreateEmbedResponse struct {
	IframeURL string `json:"iframeUrl"`
}

// CreateEmbedHandler runs the ingestion pipeline for one request.
func (h *Handlers) CreateEmbedHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.writeError(ctx, w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	requestID := uuid.New().String()
	ctx, span := tracer.Start(ctx, "create-embed-handler",
		trace.WithAttributes(
			attribute.String("handler", "create-embed"),
			attribute.String("request.id", requestID),
		))
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req ingest.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		span.RecordError(err)
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(ctx, w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.pipeline.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		status, message := errorResponse(err)
		if status >= http.StatusInternalServerError {
			h.log.ErrorContext(ctx, "Embed creation failed",
				"error", err,
				"requestId", requestID,
				"ip", GetClientIP(r),
			)
		} else {
			h.log.WarnContext(ctx, "Embed creation rejected",
				"error", err,
				"requestId", requestID,
				"ip", GetClientIP(r),
			)
		}
		h.writeError(ctx, w, status, message)
		return
	}

	span.SetAttributes(attribute.String("embed.id", rec.ID))

	h.writeJSON(ctx, w, http.StatusOK, CreateEmbedResponse{
		IframeURL: "/embed/" + rec.ID,
	})
}

// EmbedPageHandler resolves an embed id and renders the thumbnail page.
func (h *Handlers) EmbedPageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		h.writeError(ctx, w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/embed/")
	if id == "" || strings.Contains(id, "/") {
		metrics.RecordPageView("not_found")
		h.renderNotFound(w)
		return
	}

	ctx, span := tracer.Start(ctx, "embed-page-handler",
		trace.WithAttributes(attribute.String("embed.id", id)))
	defer span.End()

	rec, err := h.records.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrEmbedNotFound) {
			metrics.RecordPageView("not_found")
			h.renderNotFound(w)
			return
		}
		span.RecordError(err)
		metrics.RecordPageView("error")
		h.log.ErrorContext(ctx, "Failed to load embed record", "embedId", id, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	thumbnail, err := h.blobs.GetBlob(ctx, rec.ThumbnailLocation)
	if err != nil {
		span.RecordError(err)
		metrics.RecordPageView("error")
		h.log.ErrorContext(ctx, "Failed to load thumbnail blob",
			"embedId", id,
			"blobKey", rec.ThumbnailLocation,
			"error", err,
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	metrics.RecordPageView("ok")
	h.renderEmbedPage(ctx, w, rec, thumbnail)
}

// errorResponse maps a pipeline error to an HTTP status and a client-safe
// message. Internal detail never leaves the process.
func errorResponse(err error) (int, string) {
	var fetchErr *models.FetchStatusError
	switch {
	case errors.As(err, &fetchErr):
		return http.StatusBadRequest, fetchErr.Error()
	case errors.Is(err, models.ErrMissingFields):
		return http.StatusBadRequest, models.ErrMissingFields.Error()
	case errors.Is(err, models.ErrInvalidYoutubeURL):
		return http.StatusBadRequest, models.ErrInvalidYoutubeURL.Error()
	case errors.Is(err, models.ErrFetchThumbnail):
		return http.StatusBadRequest, models.ErrFetchThumbnail.Error()
	case errors.Is(err, models.ErrTranscodeThumbnail):
		return http.StatusBadRequest, models.ErrTranscodeThumbnail.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
