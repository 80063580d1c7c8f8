package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/rentledger/internal/bus"
	meternamedomain "github.com/smallbiznis/rentledger/internal/metername/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  meternamedomain.Repository
	Bus   *bus.Bus
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  meternamedomain.Repository
	bus   *bus.Bus
}

func New(p Params) meternamedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("metername.service"),
		genID: p.GenID,
		repo:  p.Repo,
		bus:   p.Bus,
	}
}

func (s *Service) SetCustomName(ctx context.Context, req meternamedomain.SetRequest) (*meternamedomain.Response, error) {
	canonical := strings.TrimSpace(req.CanonicalName)
	if canonical == "" {
		return nil, meternamedomain.ErrInvalidCanonicalName
	}
	custom := strings.TrimSpace(req.CustomName)
	if custom == "" {
		return nil, meternamedomain.ErrInvalidCustomName
	}
	scope, room, err := normalizeScope(req.Scope, req.Room)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cfg := &meternamedomain.MeterNameConfig{
		ID:            s.genID.Generate(),
		CanonicalName: canonical,
		Scope:         scope,
		Room:          room,
		CustomName:    custom,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Deactivate(ctx, tx, canonical, scope, room); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, cfg)
	})
	if err != nil {
		return nil, err
	}

	s.bus.MeterName.Publish(bus.MeterNameChanged{
		CanonicalName: canonical,
		CustomName:    custom,
		Scope:         string(scope),
		Room:          room,
	})
	return toResponse(cfg), nil
}

func (s *Service) RemoveCustomName(ctx context.Context, canonical string, scope meternamedomain.Scope, room string) error {
	canonical = strings.TrimSpace(canonical)
	if canonical == "" {
		return meternamedomain.ErrInvalidCanonicalName
	}
	scope, room, err := normalizeScope(scope, room)
	if err != nil {
		return err
	}

	if err := s.repo.Deactivate(ctx, s.db, canonical, scope, room); err != nil {
		return err
	}

	s.bus.MeterName.Publish(bus.MeterNameChanged{
		CanonicalName: canonical,
		Scope:         string(scope),
		Room:          room,
	})
	return nil
}

func (s *Service) Resolve(ctx context.Context, canonical, room string) (string, error) {
	canonical = strings.TrimSpace(canonical)
	if canonical == "" {
		return "", meternamedomain.ErrInvalidCanonicalName
	}

	cfg, err := s.repo.Resolve(ctx, s.db, canonical, strings.TrimSpace(room))
	if err != nil {
		return "", err
	}
	if cfg == nil {
		return canonical, nil
	}
	return cfg.CustomName, nil
}

func (s *Service) List(ctx context.Context) ([]meternamedomain.Response, error) {
	rows, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]meternamedomain.Response, 0, len(rows))
	for i := range rows {
		resp = append(resp, *toResponse(&rows[i]))
	}
	return resp, nil
}

func normalizeScope(scope meternamedomain.Scope, room string) (meternamedomain.Scope, string, error) {
	room = strings.TrimSpace(room)
	switch scope {
	case meternamedomain.ScopeGlobal:
		return meternamedomain.ScopeGlobal, "", nil
	case meternamedomain.ScopeTenant:
		if room == "" {
			return "", "", meternamedomain.ErrInvalidRoom
		}
		return meternamedomain.ScopeTenant, room, nil
	default:
		return "", "", meternamedomain.ErrInvalidScope
	}
}

func toResponse(cfg *meternamedomain.MeterNameConfig) *meternamedomain.Response {
	return &meternamedomain.Response{
		ID:            cfg.ID.String(),
		CanonicalName: cfg.CanonicalName,
		CustomName:    cfg.CustomName,
		Scope:         cfg.Scope,
		Room:          cfg.Room,
		Active:        cfg.Active,
	}
}
