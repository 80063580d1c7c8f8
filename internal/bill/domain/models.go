package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DetailKind classifies a bill line item.
type DetailKind string

const (
	KindWater       DetailKind = "water"
	KindElectricity DetailKind = "electricity"
	KindExtra       DetailKind = "extra"
)

// Metered reports whether amounts of this kind are derived from readings
// and rebuilt by the recalculation cascade.
func (k DetailKind) Metered() bool {
	return k == KindWater || k == KindElectricity
}

// Bill is the monthly aggregate for one room. At most one row exists per
// (room, month); it is only ever created or overwritten through Upsert.
type Bill struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Room      string       `json:"room" gorm:"type:text;not null;uniqueIndex:ux_bills_room_month,priority:1"`
	Month     string       `json:"month" gorm:"type:text;not null;uniqueIndex:ux_bills_room_month,priority:2"`
	Total     float64      `json:"total" gorm:"type:numeric;not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Bill) TableName() string { return "bills" }

// BillDetail is one line item. Line items exist only as children of a Bill
// and are wholly replaced on every resave of the parent; there is no
// partial-update path. Line items always carry the canonical meter name,
// never a user-facing custom display name.
type BillDetail struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	BillID    snowflake.ID `json:"bill_id" gorm:"not null;index"`
	Kind      DetailKind   `json:"kind" gorm:"type:text;not null"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Previous  *float64     `json:"previous,omitempty" gorm:"type:numeric"`
	Current   *float64     `json:"current,omitempty" gorm:"type:numeric"`
	Usage     *float64     `json:"usage,omitempty" gorm:"column:usage_value;type:numeric"`
	UnitPrice *float64     `json:"unit_price,omitempty" gorm:"type:numeric"`
	Amount    float64      `json:"amount" gorm:"type:numeric;not null"`
	Position  int          `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (BillDetail) TableName() string { return "bill_details" }
