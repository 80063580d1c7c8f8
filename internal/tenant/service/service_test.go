package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	billdomain "github.com/smallbiznis/rentledger/internal/bill/domain"
	"github.com/smallbiznis/rentledger/internal/bus"
	tenantdomain "github.com/smallbiznis/rentledger/internal/tenant/domain"
	tenantrepository "github.com/smallbiznis/rentledger/internal/tenant/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recalcStub struct {
	rooms   []string
	allRuns int
}

func (r *recalcStub) RecalculateForTenant(ctx context.Context, room string) error {
	r.rooms = append(r.rooms, room)
	return nil
}

func (r *recalcStub) RecalculateAll(ctx context.Context) error {
	r.allRuns++
	return nil
}

func setup(t *testing.T) (tenantdomain.Service, *gorm.DB, *recalcStub) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&tenantdomain.Tenant{},
		&billdomain.Bill{},
		&billdomain.BillDetail{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	stub := &recalcStub{}
	svc := New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   tenantrepository.Provide(),
		Bus:    bus.New(),
		Recalc: stub,
	})
	return svc, db, stub
}

func TestCreate_DuplicateRoomConflicts(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, tenantdomain.CreateRequest{Room: "101", Name: "a", Rent: 500})
	require.NoError(t, err)

	_, err = svc.Create(ctx, tenantdomain.CreateRequest{Room: "101", Name: "b", Rent: 600})
	assert.ErrorIs(t, err, tenantdomain.ErrRoomExists)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, tenantdomain.CreateRequest{Name: "a"})
	assert.ErrorIs(t, err, tenantdomain.ErrInvalidRoom)

	_, err = svc.Create(ctx, tenantdomain.CreateRequest{Room: "101"})
	assert.ErrorIs(t, err, tenantdomain.ErrInvalidName)

	_, err = svc.Create(ctx, tenantdomain.CreateRequest{Room: "101", Name: "a", Rent: -1})
	assert.ErrorIs(t, err, tenantdomain.ErrInvalidRent)
}

func TestUpdate_RentChangeTriggersRecalculation(t *testing.T) {
	svc, _, stub := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, tenantdomain.CreateRequest{Room: "101", Name: "a", Rent: 500})
	require.NoError(t, err)

	rent := 700.0
	_, err = svc.Update(ctx, tenantdomain.UpdateRequest{Room: "101", Rent: &rent})
	require.NoError(t, err)
	assert.Equal(t, []string{"101"}, stub.rooms)

	// Unchanged rent and name-only edits do not cascade.
	_, err = svc.Update(ctx, tenantdomain.UpdateRequest{Room: "101", Rent: &rent})
	require.NoError(t, err)
	name := "b"
	_, err = svc.Update(ctx, tenantdomain.UpdateRequest{Room: "101", Name: &name})
	require.NoError(t, err)
	assert.Equal(t, []string{"101"}, stub.rooms)
}

func TestDelete_CascadesToBills(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, tenantdomain.CreateRequest{Room: "101", Name: "a", Rent: 500})
	require.NoError(t, err)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	billID := node.Generate()
	require.NoError(t, db.Create(&billdomain.Bill{ID: billID, Room: "101", Month: "2025-06", Total: 100}).Error)
	require.NoError(t, db.Create(&billdomain.BillDetail{ID: node.Generate(), BillID: billID, Kind: billdomain.KindExtra, Name: "fee", Amount: 100}).Error)

	require.NoError(t, svc.Delete(ctx, "101"))

	var tenants, bills, details int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM tenants`).Scan(&tenants).Error)
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM bills`).Scan(&bills).Error)
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM bill_details`).Scan(&details).Error)
	assert.Zero(t, tenants)
	assert.Zero(t, bills)
	assert.Zero(t, details)
}

func TestDelete_UnknownRoom(t *testing.T) {
	svc, _, _ := setup(t)
	err := svc.Delete(context.Background(), "404")
	assert.ErrorIs(t, err, tenantdomain.ErrNotFound)
}
