package migration

import (
	billdomain "github.com/smallbiznis/rentledger/internal/bill/domain"
	"github.com/smallbiznis/rentledger/internal/config"
	meternamedomain "github.com/smallbiznis/rentledger/internal/metername/domain"
	pricedomain "github.com/smallbiznis/rentledger/internal/price/domain"
	tenantdomain "github.com/smallbiznis/rentledger/internal/tenant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// SQLite and MySQL run from the model definitions directly; the
		// versioned SQL is written for PostgreSQL.
		return conn.AutoMigrate(
			&tenantdomain.Tenant{},
			&pricedomain.Price{},
			&billdomain.Bill{},
			&billdomain.BillDetail{},
			&meternamedomain.MeterNameConfig{},
		)
	}),
)
