package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// EnsureDefault returns the singleton row, inserting it with default
	// tariffs when the table is empty.
	EnsureDefault(ctx context.Context, db *gorm.DB) (*Price, error)
	Update(ctx context.Context, db *gorm.DB, price *Price) error
}
