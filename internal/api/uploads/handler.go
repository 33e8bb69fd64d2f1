package uploads

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"

	"github.com/LiaoAnn/edgecalidraw/internal/models"
	"github.com/LiaoAnn/edgecalidraw/internal/storage"
)

// Uploaded assets are capped well above any realistic embedded image.
const maxUploadSize = 32 << 20

var unsafeIDChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// UploadHandler proxies binary assets referenced by drawing elements.
type UploadHandler struct {
	Store storage.UploadStore
}

func assetID(uploadID string) string {
	return unsafeIDChars.ReplaceAllString(uploadID, "_")
}

// PutUpload handles POST /api/uploads/{uploadID}. Assets are immutable:
// re-uploading an existing id is a conflict.
func (h *UploadHandler) PutUpload(w http.ResponseWriter, r *http.Request) {
	id := assetID(mux.Vars(r)["uploadID"])

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid content type"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		log.Printf("[Uploads] Error reading upload %s: %v", id, err)
		return
	}

	err = h.Store.Put(r.Context(), models.Upload{ID: id, ContentType: contentType, Body: body})
	if errors.Is(err, storage.ErrExists) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "Upload already exists"})
		return
	}
	if err != nil {
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		log.Printf("[Uploads] Error storing upload %s: %v", id, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	log.Printf("[Uploads] Stored upload: ID=%s, type=%s, size=%d", id, contentType, len(body))
}

// GetUpload handles GET /api/uploads/{uploadID}.
func (h *UploadHandler) GetUpload(w http.ResponseWriter, r *http.Request) {
	id := assetID(mux.Vars(r)["uploadID"])

	upload, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
		return
	}
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusInternalServerError)
		log.Printf("[Uploads] Error reading upload %s: %v", id, err)
		return
	}

	// Assets are immutable, so clients can cache them basically forever.
	w.Header().Set("Content-Type", upload.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write(upload.Body)
}
