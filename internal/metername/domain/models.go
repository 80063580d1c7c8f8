package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Scope says whether a custom name applies to one tenant or everywhere.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeTenant Scope = "tenant"
)

// MeterNameConfig maps a canonical meter name to a user-facing display
// name. Rows are append-only and soft-deleted via the active flag; the
// most-recently-updated active row wins, tenant scope before global.
type MeterNameConfig struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	CanonicalName string       `json:"canonical_name" gorm:"type:text;not null;index:ix_meter_names_lookup,priority:1"`
	Scope         Scope        `json:"scope" gorm:"type:text;not null;index:ix_meter_names_lookup,priority:2"`
	Room          string       `json:"room" gorm:"type:text;not null;default:''"`
	CustomName    string       `json:"custom_name" gorm:"type:text;not null"`
	Active        bool         `json:"active" gorm:"not null;default:true"`
	CreatedAt     time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_meter_names_lookup,priority:3"`
}

// TableName sets the database table name.
func (MeterNameConfig) TableName() string { return "meter_name_configs" }
