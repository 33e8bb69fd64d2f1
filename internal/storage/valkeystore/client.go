// Package valkeystore implements the storage interfaces on top of a Valkey
// instance, which is what lets room state survive a process restart.
package valkeystore

import (
	"fmt"

	"github.com/valkey-io/valkey-go"
)

const (
	roomKeyPrefix   = "room:"
	roomActivityKey = "rooms:by-activity"
	sceneKeyPrefix  = "scene:"
	uploadKeyPrefix = "upload:"
	libraryKey      = "library:items"
)

// NewClient connects to the Valkey instance at addr.
func NewClient(addr string) (valkey.Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to valkey at %s: %w", addr, err)
	}
	return client, nil
}
