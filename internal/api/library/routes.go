package library

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterLibraryRoutes attaches the shape library to the session-gated
// router.
func RegisterLibraryRoutes(protected *mux.Router, handler *LibraryHandler) {
	protected.HandleFunc("/library", handler.ListItems).Methods(http.MethodGet)
	protected.HandleFunc("/library", handler.SyncItems).Methods(http.MethodPost)
}
