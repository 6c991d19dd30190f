package api

import (
	"context"
	"encoding/base64"
	"html/template"
	"net/http"

	"github.com/webembed/coverframe/pkg/models"
)

// embedPageData feeds the embed page template. Thumbnail is a data URI so
// the page is self-contained; it is built from bytes the service itself
// encoded, never from user input.
type embedPageData struct {
	Title     string
	YoutubeID string
	Thumbnail template.URL
}

var embedPageTemplate = template.Must(template.New("embed").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}}</title>
    <meta property="og:title" content="{{.Title}}">
    <meta property="og:type" content="video.other">
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        html, body { width: 100%; height: 100%; background: #000; overflow: hidden; }
        .video-wrapper { position: relative; width: 100%; height: 100%; }
        #youtube-player { position: absolute; inset: 0; width: 100%; height: 100%; }
        .thumbnail {
            position: absolute;
            inset: 0;
            cursor: pointer;
            transition: opacity 0.5s ease;
        }
        .thumbnail img { width: 100%; height: 100%; object-fit: cover; }
        .thumbnail.hidden { opacity: 0; pointer-events: none; }
        .play-button {
            position: absolute;
            top: 50%;
            left: 50%;
            transform: translate(-50%, -50%);
            width: 68px;
            height: 48px;
            background: rgba(0, 0, 0, 0.7);
            border-radius: 12px;
        }
        .play-button::after {
            content: "";
            position: absolute;
            top: 50%;
            left: 55%;
            transform: translate(-50%, -50%);
            border-style: solid;
            border-width: 10px 0 10px 18px;
            border-color: transparent transparent transparent #fff;
        }
        .thumbnail:hover .play-button { background: #f00; }
    </style>
</head>
<body>
    <div class="video-wrapper">
        <div id="youtube-player"></div>
        <div class="thumbnail" id="thumbnail">
            <img src="{{.Thumbnail}}" alt="{{.Title}}">
            <div class="play-button"></div>
        </div>
    </div>
    <script>
        var videoId = {{.YoutubeID}};
        var thumbnail = document.getElementById("thumbnail");
        thumbnail.addEventListener("click", function () {
            var tag = document.createElement("script");
            tag.src = "https://www.youtube.com/iframe_api";
            var first = document.getElementsByTagName("script")[0];
            first.parentNode.insertBefore(tag, first);

            window.onYouTubeIframeAPIReady = function () {
                new YT.Player("youtube-player", {
                    height: "100%",
                    width: "100%",
                    videoId: videoId,
                    playerVars: { autoplay: 1, playsinline: 1 },
                    events: {
                        onReady: function (event) {
                            event.target.playVideo();
                            setTimeout(function () {
                                thumbnail.classList.add("hidden");
                            }, 500);
                        }
                    }
                });
            };
        });
    </script>
</body>
</html>
`))

var notFoundPageTemplate = template.Must(template.New("notfound").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>Embed not found</title>
    <style>
        body { background: #000; color: #fff; font-family: sans-serif;
               display: flex; align-items: center; justify-content: center;
               height: 100vh; margin: 0; }
    </style>
</head>
<body>
    <p>This embed does not exist.</p>
</body>
</html>
`))

// renderEmbedPage writes the click-to-play page. The title is stored
// verbatim but escaped here by html/template; the YouTube player is only
// loaded after user interaction.
func (h *Handlers) renderEmbedPage(ctx context.Context, w http.ResponseWriter, rec *models.EmbedRecord, thumbnail []byte) {
	data := embedPageData{
		Title:     rec.Title,
		YoutubeID: rec.YoutubeID,
		Thumbnail: template.URL("data:image/avif;base64," + base64.StdEncoding.EncodeToString(thumbnail)),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := embedPageTemplate.Execute(w, data); err != nil {
		h.log.ErrorContext(ctx, "Failed to render embed page", "embedId", rec.ID, "error", err)
	}
}

// renderNotFound writes the 404 page.
func (h *Handlers) renderNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_ = notFoundPageTemplate.Execute(w, nil)
}
