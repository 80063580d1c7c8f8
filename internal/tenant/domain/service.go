package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, room string) error
	GetByRoom(ctx context.Context, room string) (*Response, error)
	List(ctx context.Context) ([]Response, error)
}

type CreateRequest struct {
	Room string  `json:"room"`
	Name string  `json:"name"`
	Rent float64 `json:"rent"`
}

type UpdateRequest struct {
	Room string   `json:"room"`
	Name *string  `json:"name,omitempty"`
	Rent *float64 `json:"rent,omitempty"`
}

type Response struct {
	ID        string    `json:"id"`
	Room      string    `json:"room"`
	Name      string    `json:"name"`
	Rent      float64   `json:"rent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrInvalidRoom = errors.New("invalid_room")
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidRent = errors.New("invalid_rent")
	ErrRoomExists  = errors.New("room_exists")
	ErrNotFound    = errors.New("not_found")
)
