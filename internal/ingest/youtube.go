package ingest

import (
	"net/url"

	"github.com/webembed/coverframe/pkg/models"
)

// ExtractYoutubeID pulls the video id out of a watch URL's "v" query
// parameter. No further validation is performed; a parseable URL with a
// non-empty "v" is accepted as-is, short youtu.be links are rejected.
func ExtractYoutubeID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", models.ErrInvalidYoutubeURL
	}

	id := u.Query().Get("v")
	if id == "" {
		return "", models.ErrInvalidYoutubeURL
	}

	return id, nil
}
