package http

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/storage"
)

// PassImageHandler serves stored pass images.
type PassImageHandler struct {
	images storage.StorageInterface
}

func NewPassImageHandler(images storage.StorageInterface) *PassImageHandler {
	return &PassImageHandler{images: images}
}

// HandleDownload handles GET /passes/{file}
func (h *PassImageHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["file"]

	file, err := h.images.ReadFile(key)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", storage.ContentType(key))
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := io.Copy(w, file); err != nil {
		logger.Warn("Failed to stream pass image", "key", key, "error", err)
	}
}
