package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/rentledger/internal/bus"
	recalcdomain "github.com/smallbiznis/rentledger/internal/recalc/domain"
	tenantdomain "github.com/smallbiznis/rentledger/internal/tenant/domain"
	"github.com/smallbiznis/rentledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   tenantdomain.Repository
	Bus    *bus.Bus
	Recalc recalcdomain.Service
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   tenantdomain.Repository
	bus    *bus.Bus
	recalc recalcdomain.Service
}

func New(p Params) tenantdomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("tenant.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		bus:    p.Bus,
		recalc: p.Recalc,
	}
}

func (s *Service) Create(ctx context.Context, req tenantdomain.CreateRequest) (*tenantdomain.Response, error) {
	room := strings.TrimSpace(req.Room)
	if room == "" {
		return nil, tenantdomain.ErrInvalidRoom
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, tenantdomain.ErrInvalidName
	}
	if req.Rent < 0 {
		return nil, tenantdomain.ErrInvalidRent
	}

	now := time.Now().UTC()
	t := &tenantdomain.Tenant{
		ID:        s.genID.Generate(),
		Room:      room,
		Name:      name,
		Rent:      req.Rent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, t); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, tenantdomain.ErrRoomExists
		}
		return nil, err
	}

	s.bus.Tenant.Publish(bus.TenantChanged{Room: room})
	return toResponse(t), nil
}

func (s *Service) Update(ctx context.Context, req tenantdomain.UpdateRequest) (*tenantdomain.Response, error) {
	room := strings.TrimSpace(req.Room)
	if room == "" {
		return nil, tenantdomain.ErrInvalidRoom
	}

	item, err := s.repo.FindByRoom(ctx, s.db, room)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, tenantdomain.ErrNotFound
	}

	rentChanged := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, tenantdomain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Rent != nil {
		if *req.Rent < 0 {
			return nil, tenantdomain.ErrInvalidRent
		}
		rentChanged = item.Rent != *req.Rent
		item.Rent = *req.Rent
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	if rentChanged {
		// Rent changes cascade the same way tariff changes do. Best-effort:
		// the rent update itself has already committed.
		if err := s.recalc.RecalculateForTenant(ctx, room); err != nil {
			s.log.Warn("recalculation after rent change failed",
				zap.String("room", room),
				zap.Error(err),
			)
		}
	}

	s.bus.Tenant.Publish(bus.TenantChanged{Room: room})
	return toResponse(item), nil
}

func (s *Service) Delete(ctx context.Context, room string) error {
	room = strings.TrimSpace(room)
	if room == "" {
		return tenantdomain.ErrInvalidRoom
	}

	item, err := s.repo.FindByRoom(ctx, s.db, room)
	if err != nil {
		return err
	}
	if item == nil {
		return tenantdomain.ErrNotFound
	}

	if err := s.repo.Delete(ctx, s.db, room); err != nil {
		return err
	}

	s.bus.Tenant.Publish(bus.TenantChanged{Room: room})
	return nil
}

func (s *Service) GetByRoom(ctx context.Context, room string) (*tenantdomain.Response, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return nil, tenantdomain.ErrInvalidRoom
	}

	item, err := s.repo.FindByRoom(ctx, s.db, room)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, tenantdomain.ErrNotFound
	}
	return toResponse(item), nil
}

func (s *Service) List(ctx context.Context) ([]tenantdomain.Response, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]tenantdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func toResponse(t *tenantdomain.Tenant) *tenantdomain.Response {
	return &tenantdomain.Response{
		ID:        t.ID.String(),
		Room:      t.Room,
		Name:      t.Name,
		Rent:      t.Rent,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
