package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	billdomain "github.com/smallbiznis/rentledger/internal/bill/domain"
	billrepository "github.com/smallbiznis/rentledger/internal/bill/repository"
	"github.com/smallbiznis/rentledger/internal/bus"
	meternamedomain "github.com/smallbiznis/rentledger/internal/metername/domain"
	meternamerepository "github.com/smallbiznis/rentledger/internal/metername/repository"
	pricedomain "github.com/smallbiznis/rentledger/internal/price/domain"
	pricerepository "github.com/smallbiznis/rentledger/internal/price/repository"
	tenantdomain "github.com/smallbiznis/rentledger/internal/tenant/domain"
	tenantrepository "github.com/smallbiznis/rentledger/internal/tenant/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (billdomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&tenantdomain.Tenant{},
		&pricedomain.Price{},
		&billdomain.Bill{},
		&billdomain.BillDetail{},
		&meternamedomain.MeterNameConfig{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		Repo:       billrepository.Provide(node),
		TenantRepo: tenantrepository.Provide(),
		PriceRepo:  pricerepository.Provide(node),
		MeterNames: meternamerepository.Provide(),
		Bus:        bus.New(),
	})
	return svc, db, node
}

func seedTenant(t *testing.T, db *gorm.DB, node *snowflake.Node, room string, rent float64) {
	t.Helper()
	err := db.Create(&tenantdomain.Tenant{
		ID:   node.Generate(),
		Room: room,
		Name: "tenant " + room,
		Rent: rent,
	}).Error
	require.NoError(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	svc, db, node := setupService(t)
	seedTenant(t, db, node, "101", 1000)
	ctx := context.Background()

	resp, err := svc.Save(ctx, billdomain.SaveRequest{
		Room:  "101",
		Month: "2025-06",
		Meters: []billdomain.MeterInput{
			{Name: "water", Kind: billdomain.KindWater, Previous: "100", Current: "110", UnitPrice: ptr(5)},
			{Name: "electricity", Kind: billdomain.KindElectricity, Previous: "2000", Current: "2150", UnitPrice: ptr(1.2)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 230.0, resp.Total)

	bill, err := svc.GetBill(ctx, "101", "2025-06")
	require.NoError(t, err)
	require.Len(t, bill.Details, 2)
	assert.Equal(t, 10.0, *bill.Details[0].Usage)
	assert.Equal(t, 50.0, bill.Details[0].Amount)
	assert.Equal(t, 150.0, *bill.Details[1].Usage)
	assert.Equal(t, 180.0, bill.Details[1].Amount)

	// Stored total is the line-item sum; rent appears only in the display
	// total.
	assert.Equal(t, 1230.0, bill.DisplayTotal)

	total, err := svc.GetDisplayTotal(ctx, "101", "2025-06")
	require.NoError(t, err)
	assert.Equal(t, 1230.0, total)
}

func TestSave_DefaultTariffsFromPriceSingleton(t *testing.T) {
	svc, db, node := setupService(t)
	seedTenant(t, db, node, "101", 0)
	ctx := context.Background()

	resp, err := svc.Save(ctx, billdomain.SaveRequest{
		Room:  "101",
		Month: "2025-06",
		Meters: []billdomain.MeterInput{
			{Name: "water", Kind: billdomain.KindWater, Previous: "0", Current: "10"},
			{Name: "electricity", Kind: billdomain.KindElectricity, Previous: "0", Current: "100"},
		},
	})
	require.NoError(t, err)

	// Defaults are water 4.0, electricity 1.0, lazily created on first use.
	assert.Equal(t, 140.0, resp.Total)

	var price pricedomain.Price
	require.NoError(t, db.First(&price).Error)
	assert.Equal(t, 4.0, price.WaterPrice)
	assert.Equal(t, 1.0, price.ElectricityPrice)
}

func TestSave_UpsertReplacesLineItems(t *testing.T) {
	svc, db, node := setupService(t)
	seedTenant(t, db, node, "101", 0)
	ctx := context.Background()

	first, err := svc.Save(ctx, billdomain.SaveRequest{
		Room:  "101",
		Month: "2025-06",
		Meters: []billdomain.MeterInput{
			{Name: "water", Kind: billdomain.KindWater, Previous: "0", Current: "10", UnitPrice: ptr(5)},
		},
		ExtraFees: []billdomain.ExtraFeeInput{{Name: "internet", Amount: 30}},
	})
	require.NoError(t, err)

	second, err := svc.Save(ctx, billdomain.SaveRequest{
		Room:      "101",
		Month:     "2025-06",
		ExtraFees: []billdomain.ExtraFeeInput{{Name: "cleaning", Amount: 15}},
	})
	require.NoError(t, err)

	// Same key keeps the bill identity and wholesale-replaces the items.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 15.0, second.Total)

	var billCount, detailCount int64
	require.NoError(t, db.Model(&billdomain.Bill{}).Where("room = ? AND month = ?", "101", "2025-06").Count(&billCount).Error)
	require.NoError(t, db.Model(&billdomain.BillDetail{}).Count(&detailCount).Error)
	assert.Equal(t, int64(1), billCount)
	assert.Equal(t, int64(1), detailCount)
}

func TestSave_ManualOverrides(t *testing.T) {
	svc, db, node := setupService(t)
	seedTenant(t, db, node, "101", 0)
	ctx := context.Background()

	resp, err := svc.Save(ctx, billdomain.SaveRequest{
		Room:  "101",
		Month: "2025-06",
		Meters: []billdomain.MeterInput{
			// Manual usage: amount derives from it at the unit price.
			{Name: "water", Kind: billdomain.KindWater, Usage: ptr(20), UnitPrice: ptr(3)},
			// Manual amount: persisted exactly as entered.
			{Name: "electricity", Kind: billdomain.KindElectricity, Previous: "0", Current: "100", Amount: ptr(42), UnitPrice: ptr(1.2)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 102.0, resp.Total)

	bill, err := svc.GetBill(ctx, "101", "2025-06")
	require.NoError(t, err)
	assert.Equal(t, 60.0, bill.Details[0].Amount)
	assert.Equal(t, 42.0, bill.Details[1].Amount)
}

func TestSave_UnknownTenant(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Save(context.Background(), billdomain.SaveRequest{
		Room:  "404",
		Month: "2025-06",
	})
	assert.ErrorIs(t, err, billdomain.ErrTenantNotFound)
}

func TestSave_RejectsNegativeFee(t *testing.T) {
	svc, db, node := setupService(t)
	seedTenant(t, db, node, "101", 0)

	_, err := svc.Save(context.Background(), billdomain.SaveRequest{
		Room:      "101",
		Month:     "2025-06",
		ExtraFees: []billdomain.ExtraFeeInput{{Name: "refund", Amount: -10}},
	})
	assert.ErrorIs(t, err, billdomain.ErrNegativeAmount)
}

func TestGetBill_ResolvesCustomNames(t *testing.T) {
	svc, db, node := setupService(t)
	seedTenant(t, db, node, "101", 0)
	ctx := context.Background()

	_, err := svc.Save(ctx, billdomain.SaveRequest{
		Room:  "101",
		Month: "2025-06",
		Meters: []billdomain.MeterInput{
			{Name: "water", Kind: billdomain.KindWater, Previous: "0", Current: "10", UnitPrice: ptr(5)},
		},
		ExtraFees: []billdomain.ExtraFeeInput{{Name: "water", Amount: 5}},
	})
	require.NoError(t, err)

	require.NoError(t, db.Create(&meternamedomain.MeterNameConfig{
		ID:            node.Generate(),
		CanonicalName: "water",
		Scope:         meternamedomain.ScopeGlobal,
		CustomName:    "cold water",
		Active:        true,
	}).Error)

	bill, err := svc.GetBill(ctx, "101", "2025-06")
	require.NoError(t, err)

	// The line item keeps the canonical name; only the display name changes.
	assert.Equal(t, "water", bill.Details[0].Name)
	assert.Equal(t, "cold water", bill.Details[0].DisplayName)

	// Extra items never get meter display names, even on a name collision.
	assert.Equal(t, "water", bill.Details[1].DisplayName)
}

func TestGetDisplayTotal_ReconcilesBothEncodings(t *testing.T) {
	svc, db, node := setupService(t)
	seedTenant(t, db, node, "101", 1000)
	ctx := context.Background()

	_, err := svc.Save(ctx, billdomain.SaveRequest{
		Room:      "101",
		Month:     "2025-06",
		ExtraFees: []billdomain.ExtraFeeInput{{Name: "fee", Amount: 350}},
	})
	require.NoError(t, err)

	// Sum-only total gets rent re-added.
	total, err := svc.GetDisplayTotal(ctx, "101", "2025-06")
	require.NoError(t, err)
	assert.Equal(t, 1350.0, total)

	// Rent-inclusive total displays unmodified.
	require.NoError(t, db.Exec(`UPDATE bills SET total = 1350 WHERE room = ? AND month = ?`, "101", "2025-06").Error)
	total, err = svc.GetDisplayTotal(ctx, "101", "2025-06")
	require.NoError(t, err)
	assert.Equal(t, 1350.0, total)

	// Neither encoding: anomaly, fall back to the rent-inclusive candidate.
	require.NoError(t, db.Exec(`UPDATE bills SET total = 500 WHERE room = ? AND month = ?`, "101", "2025-06").Error)
	total, err = svc.GetDisplayTotal(ctx, "101", "2025-06")
	require.NoError(t, err)
	assert.Equal(t, 1350.0, total)
}

func TestGetBill_RejectsNegativeValues(t *testing.T) {
	svc, db, node := setupService(t)
	seedTenant(t, db, node, "101", 100)
	ctx := context.Background()

	_, err := svc.Save(ctx, billdomain.SaveRequest{
		Room:      "101",
		Month:     "2025-06",
		ExtraFees: []billdomain.ExtraFeeInput{{Name: "fee", Amount: 10}},
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`UPDATE bill_details SET amount = -5`).Error)
	_, err = svc.GetBill(ctx, "101", "2025-06")
	assert.ErrorIs(t, err, billdomain.ErrNegativeAmount)

	require.NoError(t, db.Exec(`UPDATE bill_details SET amount = 10`).Error)
	require.NoError(t, db.Exec(`UPDATE tenants SET rent = -1 WHERE room = ?`, "101").Error)
	_, err = svc.GetBill(ctx, "101", "2025-06")
	assert.ErrorIs(t, err, billdomain.ErrNegativeRent)
}

func TestGetBill_NotFound(t *testing.T) {
	svc, db, node := setupService(t)
	seedTenant(t, db, node, "101", 0)

	_, err := svc.GetBill(context.Background(), "101", "2025-06")
	assert.ErrorIs(t, err, billdomain.ErrNotFound)
}

func TestSave_UsageColumnName(t *testing.T) {
	svc, db, node := setupService(t)
	seedTenant(t, db, node, "115", 1000)

	_, err := svc.Save(context.Background(), billdomain.SaveRequest{
		Room:  "115",
		Month: "2025-06",
		Meters: []billdomain.MeterInput{
			{Name: "water", Kind: billdomain.KindWater, Previous: "100", Current: "110", UnitPrice: ptr(5)},
		},
	})
	require.NoError(t, err)

	// USAGE is a reserved word on some SQL dialects, so the schema carries
	// the figure as usage_value.
	var stored []float64
	err = db.Raw(`SELECT usage_value FROM bill_details ORDER BY position ASC`).Scan(&stored).Error
	require.NoError(t, err)
	assert.Equal(t, []float64{10}, stored)
}

func ptr(v float64) *float64 { return &v }
