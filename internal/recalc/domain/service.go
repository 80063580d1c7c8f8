package domain

import (
	"context"
	"errors"
)

// Service rebuilds historical bill amounts after a tariff or rent change.
// Tenants are processed strictly sequentially and best-effort: a failure on
// one tenant is logged and the cascade moves on to the next.
type Service interface {
	RecalculateForTenant(ctx context.Context, room string) error
	RecalculateAll(ctx context.Context) error
}

var (
	ErrInvalidRoom    = errors.New("invalid_room")
	ErrTenantNotFound = errors.New("tenant_not_found")
)
