package auth

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterAuthRoutes attaches the password gate to the public router.
func RegisterAuthRoutes(public *mux.Router, handler *AuthHandler) {
	public.HandleFunc("/auth/verify", handler.Verify).Methods(http.MethodPost)
	public.HandleFunc("/auth/validate", handler.Validate).Methods(http.MethodPost)
}
