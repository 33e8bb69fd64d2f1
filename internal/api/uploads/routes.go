package uploads

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterUploadRoutes attaches asset upload behind the session gate and
// asset reads to the public router (they are fetched by plain img tags).
func RegisterUploadRoutes(protected, public *mux.Router, handler *UploadHandler) {
	protected.HandleFunc("/uploads/{uploadID}", handler.PutUpload).Methods(http.MethodPost)
	public.HandleFunc("/uploads/{uploadID}", handler.GetUpload).Methods(http.MethodGet)
}
