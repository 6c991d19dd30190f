package ingest

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/webembed/coverframe/pkg/models"
)

func TestFetch(t *testing.T) {
	payload := []byte("image payload")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("upstream received method %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, 0)
	data, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("Fetch() = %q, want %q", data, payload)
	}
}

func TestFetch_UpstreamStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"forbidden", http.StatusForbidden},
		{"server error", http.StatusInternalServerError},
		{"redirect not followed to success", http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			f := NewFetcher(5*time.Second, 0)
			_, err := f.Fetch(context.Background(), server.URL)
			if err == nil {
				t.Fatal("Fetch() expected error")
			}
			if !errors.Is(err, models.ErrFetchThumbnail) {
				t.Errorf("Fetch() error = %v, want ErrFetchThumbnail", err)
			}

			var statusErr *models.FetchStatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("Fetch() error = %v, want FetchStatusError", err)
			}
			if statusErr.Status != tt.status {
				t.Errorf("FetchStatusError.Status = %d, want %d", statusErr.Status, tt.status)
			}
		})
	}
}

func TestFetch_ResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 2048))
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, 1024)
	_, err := f.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Fetch() expected error for oversized response")
	}
	if !errors.Is(err, models.ErrFetchThumbnail) {
		t.Errorf("Fetch() error = %v, want ErrFetchThumbnail", err)
	}
}

func TestFetch_ExactlyAtLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 1024))
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, 1024)
	data, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v, want success at exactly the cap", err)
	}
	if len(data) != 1024 {
		t.Errorf("Fetch() returned %d bytes, want 1024", len(data))
	}
}

func TestFetch_UnreachableHost(t *testing.T) {
	f := NewFetcher(500*time.Millisecond, 0)
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/thumb.png")
	if err == nil {
		t.Fatal("Fetch() expected error for unreachable host")
	}
	if !errors.Is(err, models.ErrFetchThumbnail) {
		t.Errorf("Fetch() error = %v, want ErrFetchThumbnail", err)
	}
}
