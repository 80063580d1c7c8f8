package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// Insert appends a new row; existing rows are never rewritten.
	Insert(ctx context.Context, db *gorm.DB, cfg *MeterNameConfig) error
	// Deactivate soft-deletes every active row for the key.
	Deactivate(ctx context.Context, db *gorm.DB, canonical string, scope Scope, room string) error
	// Resolve returns the winning custom name for the canonical name as seen
	// by the given room: latest active tenant-scoped row first, then latest
	// active global row, nil when neither exists.
	Resolve(ctx context.Context, db *gorm.DB, canonical, room string) (*MeterNameConfig, error)
	// ResolveAll returns canonical -> custom display name for the room.
	ResolveAll(ctx context.Context, db *gorm.DB, room string) (map[string]string, error)
	List(ctx context.Context, db *gorm.DB) ([]MeterNameConfig, error)
}
