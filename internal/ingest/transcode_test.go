package ingest

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/webembed/coverframe/pkg/models"
)

// pngBytes encodes a small solid-color PNG for use as thumbnail input.
func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestTranscodeAVIF(t *testing.T) {
	encoded, err := TranscodeAVIF(pngBytes(t))
	if err != nil {
		t.Fatalf("TranscodeAVIF() error = %v", err)
	}
	if len(encoded) == 0 {
		t.Error("TranscodeAVIF() returned empty output")
	}
	if bytes.Equal(encoded, pngBytes(t)) {
		t.Error("TranscodeAVIF() returned input unchanged")
	}
}

func TestTranscodeAVIF_NotAnImage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("definitely not an image")},
		{"truncated png header", []byte{0x89, 0x50, 0x4e, 0x47}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TranscodeAVIF(tt.data)
			if err == nil {
				t.Fatal("TranscodeAVIF() expected error")
			}
			if !errors.Is(err, models.ErrTranscodeThumbnail) {
				t.Errorf("TranscodeAVIF() error = %v, want ErrTranscodeThumbnail", err)
			}
			if errors.Is(err, models.ErrFetchThumbnail) {
				t.Error("transcode failure must not look like a fetch failure")
			}
		})
	}
}
