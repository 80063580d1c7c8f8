package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Default tariffs used when the singleton row is lazily created.
const (
	DefaultWaterPrice       = 4.0
	DefaultElectricityPrice = 1.0
)

// Price is the global tariff record. Exactly one logical instance exists;
// it is created with defaults the first time anything asks for it.
type Price struct {
	ID               snowflake.ID   `json:"id" gorm:"primaryKey"`
	WaterPrice       float64        `json:"water_price" gorm:"type:numeric;not null"`
	ElectricityPrice float64        `json:"electricity_price" gorm:"type:numeric;not null"`
	PrivacyKeywords  datatypes.JSON `json:"privacy_keywords" gorm:"type:jsonb"`
	CreatedAt        time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Price) TableName() string { return "prices" }
