package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tenant is one rented room. The room identifier is the stable key its
// bills hang off; rent is excluded from bill totals and only added at
// presentation time.
type Tenant struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Room      string       `json:"room" gorm:"type:text;not null;uniqueIndex:ux_tenants_room"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Rent      float64      `json:"rent" gorm:"type:numeric;not null;default:0"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }
