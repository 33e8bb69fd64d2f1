package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config is read from the environment, with a .env file as a convenience
// for local development.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// ValkeyAddr points at the durable store. Empty means in-memory
	// stores only, i.e. nothing survives a restart.
	ValkeyAddr string
	// SystemPassword is the shared secret for the password gate.
	// SystemPasswordHash, when set, is a bcrypt hash used instead.
	SystemPassword     string
	SystemPasswordHash string
	// TokenSecret signs session tokens.
	TokenSecret string
	// CORSOrigin is the allowed frontend origin.
	CORSOrigin string
}

// Load reads the configuration. A missing .env file is fine; real
// deployments set the environment directly.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("[Config] Loaded environment from .env")
	}

	return Config{
		Addr:               getenv("ADDR", ":8080"),
		ValkeyAddr:         os.Getenv("VALKEY_ADDR"),
		SystemPassword:     os.Getenv("SYSTEM_PASSWORD"),
		SystemPasswordHash: os.Getenv("SYSTEM_PASSWORD_HASH"),
		TokenSecret:        getenv("TOKEN_SECRET", "dev-token-secret"),
		CORSOrigin:         getenv("CORS_ORIGIN", "http://127.0.0.1:5173"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
