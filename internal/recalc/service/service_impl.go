package service

import (
	"context"
	"strings"

	billdomain "github.com/smallbiznis/rentledger/internal/bill/domain"
	"github.com/smallbiznis/rentledger/internal/bus"
	"github.com/smallbiznis/rentledger/internal/observability/metrics"
	pricedomain "github.com/smallbiznis/rentledger/internal/price/domain"
	recalcdomain "github.com/smallbiznis/rentledger/internal/recalc/domain"
	tenantdomain "github.com/smallbiznis/rentledger/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	TenantRepo tenantdomain.Repository
	PriceRepo  pricedomain.Repository
	BillRepo   billdomain.Repository
	Bus        *bus.Bus
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	tenantRepo tenantdomain.Repository
	priceRepo  pricedomain.Repository
	billRepo   billdomain.Repository
	bus        *bus.Bus
	metrics    *metrics.Metrics
}

func New(p Params) recalcdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("recalc.service"),
		tenantRepo: p.TenantRepo,
		priceRepo:  p.PriceRepo,
		billRepo:   p.BillRepo,
		bus:        p.Bus,
		metrics:    p.Metrics,
	}
}

func (s *Service) RecalculateForTenant(ctx context.Context, room string) error {
	room = strings.TrimSpace(room)
	if room == "" {
		return recalcdomain.ErrInvalidRoom
	}

	tenant, err := s.tenantRepo.FindByRoom(ctx, s.db, room)
	if err != nil {
		return err
	}
	if tenant == nil {
		return recalcdomain.ErrTenantNotFound
	}

	price, err := s.priceRepo.EnsureDefault(ctx, s.db)
	if err != nil {
		return err
	}

	s.metrics.RecalcRun(ctx)
	return s.recalcTenant(ctx, tenant, price)
}

func (s *Service) RecalculateAll(ctx context.Context) error {
	tenants, err := s.tenantRepo.List(ctx, s.db)
	if err != nil {
		return err
	}

	price, err := s.priceRepo.EnsureDefault(ctx, s.db)
	if err != nil {
		return err
	}

	s.metrics.RecalcRun(ctx)

	// Sequential and best-effort. One tenant failing must not stop the
	// cascade for the rest; each bill's upsert stays atomic on its own.
	for i := range tenants {
		tenant := &tenants[i]
		if err := s.recalcTenant(ctx, tenant, price); err != nil {
			s.log.Warn("tenant recalculation failed",
				zap.String("room", tenant.Room),
				zap.Error(err),
			)
			s.metrics.RecalcTenantFailure(ctx, tenant.Room)
		}
	}
	return nil
}

// recalcTenant rewrites every bill of one tenant at the current tariffs and
// emits the tenant's batched notifications once all of its bills are done.
func (s *Service) recalcTenant(ctx context.Context, tenant *tenantdomain.Tenant, price *pricedomain.Price) error {
	bills, err := s.billRepo.ListByRoom(ctx, s.db, tenant.Room)
	if err != nil {
		return err
	}

	for i := range bills {
		bill := &bills[i]
		details, err := s.billRepo.ListDetails(ctx, s.db, bill.ID)
		if err != nil {
			return err
		}

		total := 0.0
		for j := range details {
			detail := &details[j]
			// Only metered items with a persisted usage reprice. Extra
			// items and incomplete rows keep their stored amounts.
			if detail.Kind.Metered() && detail.Usage != nil {
				unit := unitPriceFor(detail.Kind, price)
				detail.Amount = billdomain.Round2(*detail.Usage * unit)
				detail.UnitPrice = &unit
			}
			total += detail.Amount
		}
		bill.Total = billdomain.Round2(total)

		if _, err := s.billRepo.Upsert(ctx, s.db, bill, details); err != nil {
			return err
		}
	}

	s.bus.Tenant.Publish(bus.TenantChanged{Room: tenant.Room})
	s.bus.Price.Publish(bus.PriceChanged{})
	return nil
}

func unitPriceFor(kind billdomain.DetailKind, price *pricedomain.Price) float64 {
	switch kind {
	case billdomain.KindWater:
		return price.WaterPrice
	case billdomain.KindElectricity:
		return price.ElectricityPrice
	default:
		return 0
	}
}
