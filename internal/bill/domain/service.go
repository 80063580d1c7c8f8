package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// Save builds and atomically upserts the bill for (room, month),
	// wholesale-replacing any existing line items. Notifications and the
	// best-effort backup fire only after a successful commit.
	Save(ctx context.Context, req SaveRequest) (*SaveResponse, error)
	// GetBill returns the bill with its line items, custom display names
	// resolved, and the reconciled display total.
	GetBill(ctx context.Context, room, month string) (*BillResponse, error)
	// GetDisplayTotal reconciles the persisted total against both historical
	// encodings and returns the presentation value.
	GetDisplayTotal(ctx context.Context, room, month string) (float64, error)
}

// MeterInput is one meter line as submitted by the editing surface. Raw
// readings come as entered; usage and amount are carried over when the
// operator overrode them, and rederived otherwise.
type MeterInput struct {
	Name      string     `json:"name"`
	Kind      DetailKind `json:"kind"`
	Previous  string     `json:"previous"`
	Current   string     `json:"current"`
	Usage     *float64   `json:"usage,omitempty"`
	Amount    *float64   `json:"amount,omitempty"`
	UnitPrice *float64   `json:"unit_price,omitempty"`
}

type ExtraFeeInput struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type SaveRequest struct {
	Room      string          `json:"room"`
	Month     string          `json:"month"`
	Meters    []MeterInput    `json:"meters"`
	ExtraFees []ExtraFeeInput `json:"extra_fees"`
}

type SaveResponse struct {
	ID    string  `json:"id"`
	Room  string  `json:"room"`
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

type DetailResponse struct {
	ID          string     `json:"id"`
	Kind        DetailKind `json:"kind"`
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name"`
	Previous    *float64   `json:"previous,omitempty"`
	Current     *float64   `json:"current,omitempty"`
	Usage       *float64   `json:"usage,omitempty"`
	UnitPrice   *float64   `json:"unit_price,omitempty"`
	Amount      float64    `json:"amount"`
}

type BillResponse struct {
	ID           string           `json:"id"`
	Room         string           `json:"room"`
	Month        string           `json:"month"`
	Rent         float64          `json:"rent"`
	DisplayTotal float64          `json:"display_total"`
	Details      []DetailResponse `json:"details"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Backup is fired best-effort after a successful save; failures never roll
// back or block the primary write.
type Backup interface {
	Trigger(ctx context.Context)
}

var (
	ErrInvalidRoom       = errors.New("invalid_room")
	ErrInvalidMonth      = errors.New("invalid_month")
	ErrInvalidMeterName  = errors.New("invalid_meter_name")
	ErrInvalidDetailKind = errors.New("invalid_detail_kind")
	ErrNegativeAmount    = errors.New("negative_amount")
	ErrNegativeRent      = errors.New("negative_rent")
	ErrNegativeTotal     = errors.New("negative_total")
	ErrTenantNotFound    = errors.New("tenant_not_found")
	ErrNotFound          = errors.New("not_found")
)
