package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion metrics
var (
	// EmbedsCreated counts ingestion pipeline runs by outcome.
	EmbedsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coverframe",
			Name:      "embeds_created_total",
			Help:      "Total number of embed creation attempts by outcome",
		},
		[]string{"status"},
	)

	// FetchDuration tracks the time taken to fetch source thumbnails.
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "coverframe",
			Name:      "thumbnail_fetch_duration_seconds",
			Help:      "Time taken to fetch source thumbnail images",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
	)

	// TranscodeDuration tracks the time taken for AVIF transcoding.
	TranscodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "coverframe",
			Name:      "thumbnail_transcode_duration_seconds",
			Help:      "Time taken to transcode thumbnails to AVIF",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

// Render metrics
var (
	// EmbedPageViews counts embed page renders by result.
	EmbedPageViews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coverframe",
			Name:      "embed_page_views_total",
			Help:      "Total number of embed page requests by result",
		},
		[]string{"result"},
	)
)

// RecordCreate records an ingestion pipeline outcome.
func RecordCreate(status string) {
	EmbedsCreated.WithLabelValues(status).Inc()
}

// RecordPageView records an embed page render result.
func RecordPageView(result string) {
	EmbedPageViews.WithLabelValues(result).Inc()
}
