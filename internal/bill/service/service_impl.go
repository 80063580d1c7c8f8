package service

import (
	"context"
	"strings"
	"sync"

	billdomain "github.com/smallbiznis/rentledger/internal/bill/domain"
	"github.com/smallbiznis/rentledger/internal/bus"
	meternamedomain "github.com/smallbiznis/rentledger/internal/metername/domain"
	"github.com/smallbiznis/rentledger/internal/observability/metrics"
	pricedomain "github.com/smallbiznis/rentledger/internal/price/domain"
	tenantdomain "github.com/smallbiznis/rentledger/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Repo       billdomain.Repository
	TenantRepo tenantdomain.Repository
	PriceRepo  pricedomain.Repository
	MeterNames meternamedomain.Repository
	Bus        *bus.Bus
	Metrics    *metrics.Metrics `optional:"true"`
	Backup     billdomain.Backup `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       billdomain.Repository
	tenantRepo tenantdomain.Repository
	priceRepo  pricedomain.Repository
	meterNames meternamedomain.Repository
	bus        *bus.Bus
	metrics    *metrics.Metrics
	backup     billdomain.Backup

	// No store-level lock guards the (room, month) key, so concurrent saves
	// for the same key are serialized here.
	keysMu sync.Mutex
	keys   map[string]*sync.Mutex
}

func New(p Params) billdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("bill.service"),
		repo:       p.Repo,
		tenantRepo: p.TenantRepo,
		priceRepo:  p.PriceRepo,
		meterNames: p.MeterNames,
		bus:        p.Bus,
		metrics:    p.Metrics,
		backup:     p.Backup,
		keys:       make(map[string]*sync.Mutex),
	}
}

func (s *Service) Save(ctx context.Context, req billdomain.SaveRequest) (*billdomain.SaveResponse, error) {
	room := strings.TrimSpace(req.Room)
	if room == "" {
		return nil, billdomain.ErrInvalidRoom
	}

	tenant, err := s.tenantRepo.FindByRoom(ctx, s.db, room)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, billdomain.ErrTenantNotFound
	}

	price, err := s.priceRepo.EnsureDefault(ctx, s.db)
	if err != nil {
		return nil, err
	}

	rows := make([]billdomain.MeterRow, 0, len(req.Meters))
	for _, in := range req.Meters {
		row := billdomain.MeterRow{
			Name:      in.Name,
			Kind:      in.Kind,
			Previous:  in.Previous,
			Current:   in.Current,
			UnitPrice: unitPriceFor(in, price),
		}
		switch {
		case in.Amount != nil:
			// Manual amount: fully decoupled, persisted as entered.
			amount := billdomain.Round2(*in.Amount)
			row.Usage = in.Usage
			row.Amount = &amount
		case in.Usage != nil:
			// Manual usage stays price-coupled.
			usage := *in.Usage
			amount := billdomain.Round2(usage * row.UnitPrice)
			row.Usage = &usage
			row.Amount = &amount
		default:
			row.Derive()
		}
		rows = append(rows, row)
	}

	fees := make([]billdomain.ExtraFee, 0, len(req.ExtraFees))
	for _, in := range req.ExtraFees {
		fees = append(fees, billdomain.ExtraFee{Name: in.Name, Amount: in.Amount})
	}

	bill, details, err := billdomain.BuildBill(room, req.Month, rows, fees)
	if err != nil {
		return nil, err
	}

	unlock := s.lockKey(bill.Room, bill.Month)
	saved, err := s.repo.Upsert(ctx, s.db, bill, details)
	unlock()
	if err != nil {
		return nil, err
	}

	// Side channels fire only after the commit and never affect it.
	s.metrics.BillSaved(ctx, saved.Room)
	s.bus.Bill.Publish(bus.BillChanged{Room: saved.Room, Month: saved.Month})
	if s.backup != nil {
		s.backup.Trigger(ctx)
	}

	return &billdomain.SaveResponse{
		ID:    saved.ID.String(),
		Room:  saved.Room,
		Month: saved.Month,
		Total: saved.Total,
	}, nil
}

func (s *Service) GetBill(ctx context.Context, room, month string) (*billdomain.BillResponse, error) {
	state, err := s.loadReconciled(ctx, room, month)
	if err != nil {
		return nil, err
	}

	names, err := s.meterNames.ResolveAll(ctx, s.db, state.bill.Room)
	if err != nil {
		// Display names are advisory; fall back to canonical names.
		s.log.Warn("custom name resolution failed", zap.Error(err))
		names = map[string]string{}
	}

	details := make([]billdomain.DetailResponse, 0, len(state.details))
	for i := range state.details {
		d := &state.details[i]
		display := d.Name
		if custom, ok := names[d.Name]; ok && d.Kind != billdomain.KindExtra {
			display = custom
		}
		details = append(details, billdomain.DetailResponse{
			ID:          d.ID.String(),
			Kind:        d.Kind,
			Name:        d.Name,
			DisplayName: display,
			Previous:    d.Previous,
			Current:     d.Current,
			Usage:       d.Usage,
			UnitPrice:   d.UnitPrice,
			Amount:      d.Amount,
		})
	}

	return &billdomain.BillResponse{
		ID:           state.bill.ID.String(),
		Room:         state.bill.Room,
		Month:        state.bill.Month,
		Rent:         state.rent,
		DisplayTotal: state.displayTotal,
		Details:      details,
		UpdatedAt:    state.bill.UpdatedAt,
	}, nil
}

func (s *Service) GetDisplayTotal(ctx context.Context, room, month string) (float64, error) {
	state, err := s.loadReconciled(ctx, room, month)
	if err != nil {
		return 0, err
	}
	return state.displayTotal, nil
}

type reconciledBill struct {
	bill         *billdomain.Bill
	details      []billdomain.BillDetail
	rent         float64
	displayTotal float64
}

func (s *Service) loadReconciled(ctx context.Context, room, month string) (*reconciledBill, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return nil, billdomain.ErrInvalidRoom
	}
	month = strings.TrimSpace(month)
	if month == "" {
		return nil, billdomain.ErrInvalidMonth
	}

	tenant, err := s.tenantRepo.FindByRoom(ctx, s.db, room)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, billdomain.ErrTenantNotFound
	}
	if tenant.Rent < 0 {
		return nil, billdomain.ErrNegativeRent
	}

	bill, err := s.repo.FindByKey(ctx, s.db, room, month)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billdomain.ErrNotFound
	}

	details, err := s.repo.ListDetails(ctx, s.db, bill.ID)
	if err != nil {
		return nil, err
	}

	detailsSum := 0.0
	for i := range details {
		if details[i].Amount < 0 {
			return nil, billdomain.ErrNegativeAmount
		}
		detailsSum += details[i].Amount
	}

	display, format := billdomain.ReconcileTotal(bill.Total, tenant.Rent, billdomain.Round2(detailsSum))
	if format == billdomain.FormatUnknown {
		s.log.Warn("persisted total matches neither encoding",
			zap.String("room", room),
			zap.String("month", month),
			zap.Float64("persisted", bill.Total),
			zap.Float64("details_sum", detailsSum),
			zap.Float64("rent", tenant.Rent),
		)
		s.metrics.ReconcileAnomaly(ctx, room, month)
	}
	if display < 0 {
		return nil, billdomain.ErrNegativeTotal
	}

	return &reconciledBill{
		bill:         bill,
		details:      details,
		rent:         tenant.Rent,
		displayTotal: display,
	}, nil
}

// lockKey serializes writers for one (room, month). Entries are kept for
// the life of the process; the key space is bounded by rooms x billed
// months, so the map stays small.
func (s *Service) lockKey(room, month string) func() {
	key := room + "\x00" + month
	s.keysMu.Lock()
	mu, ok := s.keys[key]
	if !ok {
		mu = &sync.Mutex{}
		s.keys[key] = mu
	}
	s.keysMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

func unitPriceFor(in billdomain.MeterInput, price *pricedomain.Price) float64 {
	if in.UnitPrice != nil {
		return *in.UnitPrice
	}
	switch in.Kind {
	case billdomain.KindWater:
		return price.WaterPrice
	case billdomain.KindElectricity:
		return price.ElectricityPrice
	default:
		return 0
	}
}
