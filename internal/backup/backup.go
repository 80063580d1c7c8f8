// Package backup exports the whole store as a JSON snapshot after every
// successful bill save, and can replay a snapshot into an empty or existing
// store. Exports are best-effort: a failed snapshot is logged and never
// surfaces to the write that triggered it.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	billdomain "github.com/smallbiznis/rentledger/internal/bill/domain"
	"github.com/smallbiznis/rentledger/internal/config"
	meternamedomain "github.com/smallbiznis/rentledger/internal/metername/domain"
	pricedomain "github.com/smallbiznis/rentledger/internal/price/domain"
	tenantdomain "github.com/smallbiznis/rentledger/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BillRecord pairs a bill with its line items for interchange.
type BillRecord struct {
	Bill    billdomain.Bill         `json:"bill"`
	Details []billdomain.BillDetail `json:"details"`
}

// Snapshot is the full-store interchange document.
type Snapshot struct {
	ExportedAt time.Time                         `json:"exported_at"`
	Tenants    []tenantdomain.Tenant             `json:"tenants"`
	Price      *pricedomain.Price                `json:"price,omitempty"`
	Bills      []BillRecord                      `json:"bills"`
	MeterNames []meternamedomain.MeterNameConfig `json:"meter_names"`
}

type Params struct {
	fx.In

	Config     config.Config
	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	TenantRepo tenantdomain.Repository
	PriceRepo  pricedomain.Repository
	BillRepo   billdomain.Repository
	MeterNames meternamedomain.Repository
}

type Service struct {
	dir        string
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	tenantRepo tenantdomain.Repository
	priceRepo  pricedomain.Repository
	billRepo   billdomain.Repository
	meterNames meternamedomain.Repository

	// One export at a time; Trigger calls arriving mid-export are dropped,
	// the running export already sees their data or the next save retries.
	exporting sync.Mutex
}

func New(p Params) *Service {
	return &Service{
		dir:        p.Config.BackupDir,
		db:         p.DB,
		log:        p.Log.Named("backup.service"),
		genID:      p.GenID,
		tenantRepo: p.TenantRepo,
		priceRepo:  p.PriceRepo,
		billRepo:   p.BillRepo,
		meterNames: p.MeterNames,
	}
}

// Trigger schedules a snapshot export without blocking the caller. Failures
// are logged and swallowed.
func (s *Service) Trigger(ctx context.Context) {
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if _, err := s.Export(ctx); err != nil {
			s.log.Warn("snapshot export failed", zap.Error(err))
		}
	}()
}

// Export writes a full snapshot into the backup directory and returns the
// file path.
func (s *Service) Export(ctx context.Context) (string, error) {
	s.exporting.Lock()
	defer s.exporting.Unlock()

	snapshot, err := s.collect(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("rentledger-%s-%s.json",
		snapshot.ExportedAt.UTC().Format("20060102T150405"),
		uuid.NewString(),
	)
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	s.log.Info("snapshot exported",
		zap.String("path", path),
		zap.Int("tenants", len(snapshot.Tenants)),
		zap.Int("bills", len(snapshot.Bills)),
	)
	return path, nil
}

func (s *Service) collect(ctx context.Context) (*Snapshot, error) {
	tenants, err := s.tenantRepo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	price, err := s.priceRepo.EnsureDefault(ctx, s.db)
	if err != nil {
		return nil, err
	}
	bills, err := s.billRepo.ListAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	records := make([]BillRecord, 0, len(bills))
	for i := range bills {
		details, err := s.billRepo.ListDetails(ctx, s.db, bills[i].ID)
		if err != nil {
			return nil, err
		}
		records = append(records, BillRecord{Bill: bills[i], Details: details})
	}
	names, err := s.meterNames.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		ExportedAt: time.Now().UTC(),
		Tenants:    tenants,
		Price:      price,
		Bills:      records,
		MeterNames: names,
	}, nil
}

// Import replays a snapshot into the store. Tenants are matched by room,
// bills by (room, month) with last write winning through the same upsert the
// editing path uses.
func (s *Service) Import(ctx context.Context, snapshot *Snapshot) error {
	for i := range snapshot.Tenants {
		incoming := &snapshot.Tenants[i]
		existing, err := s.tenantRepo.FindByRoom(ctx, s.db, incoming.Room)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.Name = incoming.Name
			existing.Rent = incoming.Rent
			if err := s.tenantRepo.Update(ctx, s.db, existing); err != nil {
				return err
			}
			continue
		}
		if incoming.ID == 0 {
			incoming.ID = s.genID.Generate()
		}
		if err := s.tenantRepo.Insert(ctx, s.db, incoming); err != nil {
			return err
		}
	}

	if snapshot.Price != nil {
		price, err := s.priceRepo.EnsureDefault(ctx, s.db)
		if err != nil {
			return err
		}
		price.WaterPrice = snapshot.Price.WaterPrice
		price.ElectricityPrice = snapshot.Price.ElectricityPrice
		price.PrivacyKeywords = snapshot.Price.PrivacyKeywords
		if err := s.priceRepo.Update(ctx, s.db, price); err != nil {
			return err
		}
	}

	for i := range snapshot.Bills {
		record := &snapshot.Bills[i]
		bill := record.Bill
		bill.ID = 0
		details := make([]billdomain.BillDetail, len(record.Details))
		copy(details, record.Details)
		for j := range details {
			details[j].ID = 0
		}
		if _, err := s.billRepo.Upsert(ctx, s.db, &bill, details); err != nil {
			return err
		}
	}

	for i := range snapshot.MeterNames {
		name := snapshot.MeterNames[i]
		if !name.Active {
			continue
		}
		if err := s.meterNames.Deactivate(ctx, s.db, name.CanonicalName, name.Scope, name.Room); err != nil {
			return err
		}
		name.ID = s.genID.Generate()
		if err := s.meterNames.Insert(ctx, s.db, &name); err != nil {
			return err
		}
	}

	s.log.Info("snapshot imported",
		zap.Int("tenants", len(snapshot.Tenants)),
		zap.Int("bills", len(snapshot.Bills)),
	)
	return nil
}

func provideBackup(s *Service) billdomain.Backup { return s }

// Module wires the snapshot service.
var Module = fx.Module("backup.service",
	fx.Provide(New),
	fx.Provide(provideBackup),
)
