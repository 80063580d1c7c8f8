package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	Update(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	// Delete removes the tenant and all of its bills and line items in one
	// transaction.
	Delete(ctx context.Context, db *gorm.DB, room string) error
	FindByRoom(ctx context.Context, db *gorm.DB, room string) (*Tenant, error)
	List(ctx context.Context, db *gorm.DB) ([]Tenant, error)
}
