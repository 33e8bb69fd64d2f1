package auth

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/LiaoAnn/edgecalidraw/internal/session"
)

// AuthHandler implements the single shared-password gate. A correct
// password yields a session token with a fixed 24h expiry; every
// authenticated request validates that token server-side.
type AuthHandler struct {
	Sessions *session.Manager
	// Password is the shared secret in plaintext. PasswordHash, when set,
	// takes precedence and holds a bcrypt hash of the secret instead.
	Password     string
	PasswordHash string
}

func (h *AuthHandler) checkPassword(candidate string) bool {
	if h.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.PasswordHash), []byte(candidate)) == nil
	}
	if h.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(h.Password), []byte(candidate)) == 1
}

// Verify handles POST /api/auth/verify.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Invalid request"})
		return
	}

	if h.Password == "" && h.PasswordHash == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Server misconfigured"})
		log.Println("[Auth] No system password configured")
		return
	}

	if !h.checkPassword(req.Password) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Wrong password"})
		return
	}

	token, err := h.Sessions.Issue()
	if err != nil {
		http.Error(w, "Failed to issue token", http.StatusInternalServerError)
		log.Printf("[Auth] Error issuing token: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "token": token})
}

// Validate handles POST /api/auth/validate.
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]bool{"valid": false})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !h.Sessions.Validate(req.Token) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]bool{"valid": false})
		return
	}
	json.NewEncoder(w).Encode(map[string]bool{"valid": true})
}
