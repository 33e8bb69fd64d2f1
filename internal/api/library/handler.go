package library

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/LiaoAnn/edgecalidraw/internal/models"
	"github.com/LiaoAnn/edgecalidraw/internal/storage"
)

// LibraryHandler syncs the shared shape library. The client always posts
// its complete item list; the store reconciles inserts and deletes.
type LibraryHandler struct {
	Store storage.LibraryStore
}

// ListItems handles GET /api/library.
func (h *LibraryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to list library items", http.StatusInternalServerError)
		log.Printf("[Library] Error listing items: %v", err)
		return
	}
	if items == nil {
		items = []models.LibraryItem{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"libraryItems": items})
}

// SyncItems handles POST /api/library.
func (h *LibraryHandler) SyncItems(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LibraryItems []models.LibraryItem `json:"libraryItems"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		log.Printf("[Library] Error decoding request body: %v", err)
		return
	}
	for _, item := range req.LibraryItems {
		if item.ID == "" || (item.Status != "published" && item.Status != "unpublished") {
			http.Error(w, "Invalid library item", http.StatusBadRequest)
			return
		}
	}

	inserted, deleted, err := h.Store.Sync(r.Context(), req.LibraryItems)
	if err != nil {
		http.Error(w, "Failed to sync library items", http.StatusInternalServerError)
		log.Printf("[Library] Error syncing items: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"inserted": inserted, "deleted": deleted})
	log.Printf("[Library] Synced items: inserted=%d, deleted=%d", inserted, deleted)
}
