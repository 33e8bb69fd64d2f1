package models

import "encoding/json"

// LibraryItem is a reusable shape collection saved from the editor. The
// elements payload is opaque to the backend, same as scene content.
type LibraryItem struct {
	ID       string          `json:"id"`
	Status   string          `json:"status"`
	Elements json.RawMessage `json:"elements"`
	Created  int64           `json:"created"`
	Name     *string         `json:"name,omitempty"`
	Error    *string         `json:"error,omitempty"`
}
