package handlers

import (
	"net/http"

	"pressroom/internal/storage"
)

// maxUploadSize caps image uploads at 10 MB.
const maxUploadSize = 10 << 20

// Media groups the asset-host upload handlers.
type Media struct {
	assets *storage.Client // nil when storage is unconfigured
}

// NewMedia creates a new Media handler group.
func NewMedia(assets *storage.Client) *Media {
	return &Media{assets: assets}
}

// allowedImageTypes are the content types accepted for blog images.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/avif": true,
}

// Upload handles POST /media: stores an image on the asset host and returns
// its public URL for use as a blog image.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if h.assets == nil {
		respondError(w, http.StatusServiceUnavailable, "Media storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "File is too large or the form is malformed (max 10 MB)")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "A \"file\" form field is required.")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		respondError(w, http.StatusBadRequest, "File must be an image (JPEG, PNG, WebP, GIF, or AVIF).")
		return
	}

	url, err := h.assets.Upload(r.Context(), header.Filename, contentType, file, header.Size)
	if err != nil {
		respondInternal(w, "media upload failed", err)
		return
	}

	respond(w, http.StatusCreated, "File uploaded successfully", map[string]any{"url": url})
}
