package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/LiaoAnn/edgecalidraw/internal/session"
)

// RequireToken gates a handler behind a valid session token, taken from the
// Authorization bearer header.
func RequireToken(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" || !sessions.Validate(token) {
				log.Printf("[Auth] Rejected unauthenticated request: %s %s", r.Method, r.URL.Path)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
