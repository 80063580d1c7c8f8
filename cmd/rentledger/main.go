package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/rentledger/internal/backup"
	"github.com/smallbiznis/rentledger/internal/bill"
	"github.com/smallbiznis/rentledger/internal/bus"
	"github.com/smallbiznis/rentledger/internal/config"
	"github.com/smallbiznis/rentledger/internal/logger"
	"github.com/smallbiznis/rentledger/internal/metername"
	"github.com/smallbiznis/rentledger/internal/migration"
	"github.com/smallbiznis/rentledger/internal/observability/metrics"
	"github.com/smallbiznis/rentledger/internal/price"
	"github.com/smallbiznis/rentledger/internal/recalc"
	"github.com/smallbiznis/rentledger/internal/server"
	"github.com/smallbiznis/rentledger/internal/tenant"
	"github.com/smallbiznis/rentledger/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		metrics.Module,
		migration.Module,
		bus.Module,

		// Functional domains
		tenant.Module,
		price.Module,
		bill.Module,
		recalc.Module,
		metername.Module,
		backup.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
