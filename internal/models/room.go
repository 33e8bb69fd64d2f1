package models

import "time"

// Room is a named collaboration session. The id is a slug derived from the
// title plus a short random suffix, and doubles as the relay actor address.
type Room struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}
