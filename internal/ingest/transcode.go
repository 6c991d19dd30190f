package ingest

import (
	"bytes"
	"fmt"
	"image"

	// Accepted input formats. AVIF input is registered by the avif import.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/gen2brain/avif"

	"github.com/webembed/coverframe/pkg/models"
)

// AVIF encoder settings. Quality matches the sharp default the service's
// previous incarnation used; speed trades a little compression for latency
// since the encode happens inline in the request.
const (
	avifQuality = 60
	avifSpeed   = 8
)

// ContentTypeAVIF is the content type every stored thumbnail blob carries.
const ContentTypeAVIF = "image/avif"

// TranscodeAVIF decodes the raw thumbnail bytes and re-encodes them as AVIF.
// Decode and encode failures both surface as ErrTranscodeThumbnail, distinct
// from fetch failures so callers can tell a bad URL from bad image data.
func TranscodeAVIF(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTranscodeThumbnail, err)
	}

	var buf bytes.Buffer
	if err := avif.Encode(&buf, img, avif.Options{Quality: avifQuality, Speed: avifSpeed}); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTranscodeThumbnail, err)
	}

	return buf.Bytes(), nil
}
