package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"datasetgen/internal/domain"
	"datasetgen/internal/refimage"
	"datasetgen/internal/studio"
)

type galleryItem struct {
	domain.GeneratedImage
	Href string `json:"href"`
}

func (a *App) ListGallery(w http.ResponseWriter, r *http.Request) {
	images := a.Studio.Gallery()
	items := make([]galleryItem, 0, len(images))
	for _, img := range images {
		img.URL = ""
		items = append(items, galleryItem{GeneratedImage: img, Href: "/v1/gallery/" + img.ID})
	}
	a.json(w, http.StatusOK, map[string]any{"images": items, "failed": a.Studio.Snapshot().Batch.Failed})
}

// GetGalleryImage serves the decoded image bytes.
func (a *App) GetGalleryImage(w http.ResponseWriter, r *http.Request) {
	img, err := a.Studio.Image(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	mime, data, err := refimage.DecodeDataURI(img.URL)
	if err != nil {
		a.Logger.Error().Err(err).Str("image_id", img.ID).Msg("http: stored image is not a data uri")
		a.error(w, http.StatusInternalServerError, "internal", "image payload unreadable")
		return
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (a *App) ClearGallery(w http.ResponseWriter, r *http.Request) {
	if err := a.Studio.ClearGallery(); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func withoutPayloads(state studio.State) studio.State {
	strip := func(images []domain.GeneratedImage) []domain.GeneratedImage {
		out := make([]domain.GeneratedImage, len(images))
		for i, img := range images {
			img.URL = ""
			out[i] = img
		}
		return out
	}
	state.Batch.Task.Images = strip(state.Batch.Task.Images)
	state.Batch.Gallery = strip(state.Batch.Gallery)
	return state
}
