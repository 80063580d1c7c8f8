package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Upsert writes the bill and its line items for (room, month) as one
	// atomic unit. An existing bill keeps its identity and gets its total
	// overwritten; all of its line items are deleted and the new ones
	// inserted in the same transaction. Returns the persisted bill.
	Upsert(ctx context.Context, db *gorm.DB, bill *Bill, details []BillDetail) (*Bill, error)
	FindByKey(ctx context.Context, db *gorm.DB, room, month string) (*Bill, error)
	ListByRoom(ctx context.Context, db *gorm.DB, room string) ([]Bill, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]Bill, error)
	ListDetails(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]BillDetail, error)
}
