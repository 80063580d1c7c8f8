package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/smallbiznis/rentledger/internal/bus"
	pricedomain "github.com/smallbiznis/rentledger/internal/price/domain"
	recalcdomain "github.com/smallbiznis/rentledger/internal/recalc/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Repo   pricedomain.Repository
	Bus    *bus.Bus
	Recalc recalcdomain.Service
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	repo   pricedomain.Repository
	bus    *bus.Bus
	recalc recalcdomain.Service
}

func New(p Params) pricedomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("price.service"),
		repo:   p.Repo,
		bus:    p.Bus,
		recalc: p.Recalc,
	}
}

func (s *Service) Get(ctx context.Context) (*pricedomain.Response, error) {
	price, err := s.repo.EnsureDefault(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return toResponse(price), nil
}

func (s *Service) UpdatePrices(ctx context.Context, req pricedomain.UpdateRequest) (*pricedomain.Response, error) {
	if req.WaterPrice != nil && *req.WaterPrice < 0 {
		return nil, pricedomain.ErrInvalidWaterPrice
	}
	if req.ElectricityPrice != nil && *req.ElectricityPrice < 0 {
		return nil, pricedomain.ErrInvalidElectricityPrice
	}

	price, err := s.repo.EnsureDefault(ctx, s.db)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.WaterPrice != nil && price.WaterPrice != *req.WaterPrice {
		price.WaterPrice = *req.WaterPrice
		changed = true
	}
	if req.ElectricityPrice != nil && price.ElectricityPrice != *req.ElectricityPrice {
		price.ElectricityPrice = *req.ElectricityPrice
		changed = true
	}

	if changed {
		price.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, s.db, price); err != nil {
			return nil, err
		}

		// The cascade rebuilds every historical bill against the new tariffs
		// and emits tenant-changed/price-changed per tenant. Its failures are
		// logged; the tariff update itself has already committed.
		if err := s.recalc.RecalculateAll(ctx); err != nil {
			s.log.Warn("recalculation after tariff change failed", zap.Error(err))
		}
	}

	return toResponse(price), nil
}

func (s *Service) UpdatePrivacyKeywords(ctx context.Context, keywords []string) (*pricedomain.Response, error) {
	price, err := s.repo.EnsureDefault(ctx, s.db)
	if err != nil {
		return nil, err
	}

	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		cleaned = append(cleaned, kw)
	}

	raw, err := json.Marshal(cleaned)
	if err != nil {
		return nil, err
	}
	price.PrivacyKeywords = datatypes.JSON(raw)
	price.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, price); err != nil {
		return nil, err
	}

	s.bus.PrivacyKeywords.Publish(bus.PrivacyKeywordsChanged{Keywords: cleaned})
	return toResponse(price), nil
}

func toResponse(p *pricedomain.Price) *pricedomain.Response {
	keywords := []string{}
	if len(p.PrivacyKeywords) > 0 {
		_ = json.Unmarshal(p.PrivacyKeywords, &keywords)
	}
	return &pricedomain.Response{
		ID:               p.ID.String(),
		WaterPrice:       p.WaterPrice,
		ElectricityPrice: p.ElectricityPrice,
		PrivacyKeywords:  keywords,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
