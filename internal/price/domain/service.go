package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Get(ctx context.Context) (*Response, error)
	UpdatePrices(ctx context.Context, req UpdateRequest) (*Response, error)
	UpdatePrivacyKeywords(ctx context.Context, keywords []string) (*Response, error)
}

type UpdateRequest struct {
	WaterPrice       *float64 `json:"water_price,omitempty"`
	ElectricityPrice *float64 `json:"electricity_price,omitempty"`
}

type Response struct {
	ID               string    `json:"id"`
	WaterPrice       float64   `json:"water_price"`
	ElectricityPrice float64   `json:"electricity_price"`
	PrivacyKeywords  []string  `json:"privacy_keywords"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

var (
	ErrInvalidWaterPrice       = errors.New("invalid_water_price")
	ErrInvalidElectricityPrice = errors.New("invalid_electricity_price")
)
