package domain

import (
	"context"
	"errors"
)

type Service interface {
	// SetCustomName appends a new active mapping; prior rows for the key are
	// deactivated, never deleted.
	SetCustomName(ctx context.Context, req SetRequest) (*Response, error)
	// RemoveCustomName soft-deletes the mapping so the canonical name shows
	// again.
	RemoveCustomName(ctx context.Context, canonical string, scope Scope, room string) error
	// Resolve returns the display name for a canonical meter name as seen by
	// the room, falling back to the canonical name itself.
	Resolve(ctx context.Context, canonical, room string) (string, error)
	List(ctx context.Context) ([]Response, error)
}

type SetRequest struct {
	CanonicalName string `json:"canonical_name"`
	CustomName    string `json:"custom_name"`
	Scope         Scope  `json:"scope"`
	Room          string `json:"room,omitempty"`
}

type Response struct {
	ID            string `json:"id"`
	CanonicalName string `json:"canonical_name"`
	CustomName    string `json:"custom_name"`
	Scope         Scope  `json:"scope"`
	Room          string `json:"room,omitempty"`
	Active        bool   `json:"active"`
}

var (
	ErrInvalidCanonicalName = errors.New("invalid_canonical_name")
	ErrInvalidCustomName    = errors.New("invalid_custom_name")
	ErrInvalidScope         = errors.New("invalid_scope")
	ErrInvalidRoom          = errors.New("invalid_room")
)
