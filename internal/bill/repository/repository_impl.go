package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	billdomain "github.com/smallbiznis/rentledger/internal/bill/domain"
	"gorm.io/gorm"
)

type repo struct {
	genID *snowflake.Node
}

func Provide(genID *snowflake.Node) billdomain.Repository {
	return &repo{genID: genID}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, bill *billdomain.Bill, details []billdomain.BillDetail) (*billdomain.Bill, error) {
	now := time.Now().UTC()

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.findByKey(ctx, tx, bill.Room, bill.Month)
		if err != nil {
			return err
		}

		if existing != nil {
			// Retain identity, overwrite the total, replace every line item.
			bill.ID = existing.ID
			bill.CreatedAt = existing.CreatedAt
			bill.UpdatedAt = now
			if err := tx.Exec(
				`UPDATE bills SET total = ?, updated_at = ? WHERE id = ?`,
				bill.Total,
				bill.UpdatedAt,
				bill.ID,
			).Error; err != nil {
				return err
			}
			if err := tx.Exec(
				`DELETE FROM bill_details WHERE bill_id = ?`,
				bill.ID,
			).Error; err != nil {
				return err
			}
		} else {
			if bill.ID == 0 {
				bill.ID = r.genID.Generate()
			}
			bill.CreatedAt = now
			bill.UpdatedAt = now
			if err := tx.Exec(
				`INSERT INTO bills (id, room, month, total, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				bill.ID,
				bill.Room,
				bill.Month,
				bill.Total,
				bill.CreatedAt,
				bill.UpdatedAt,
			).Error; err != nil {
				return err
			}
		}

		for i := range details {
			detail := &details[i]
			if detail.ID == 0 {
				detail.ID = r.genID.Generate()
			}
			detail.BillID = bill.ID
			detail.CreatedAt = now
			if err := tx.Exec(
				`INSERT INTO bill_details (id, bill_id, kind, name, previous, current, usage_value, unit_price, amount, position, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				detail.ID,
				detail.BillID,
				detail.Kind,
				detail.Name,
				detail.Previous,
				detail.Current,
				detail.Usage,
				detail.UnitPrice,
				detail.Amount,
				detail.Position,
				detail.CreatedAt,
			).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *repo) FindByKey(ctx context.Context, db *gorm.DB, room, month string) (*billdomain.Bill, error) {
	return r.findByKey(ctx, db, room, month)
}

func (r *repo) findByKey(ctx context.Context, db *gorm.DB, room, month string) (*billdomain.Bill, error) {
	var bill billdomain.Bill
	err := db.WithContext(ctx).Raw(
		`SELECT id, room, month, total, created_at, updated_at
		 FROM bills WHERE room = ? AND month = ?`,
		room,
		month,
	).Scan(&bill).Error
	if err != nil {
		return nil, err
	}
	if bill.ID == 0 {
		return nil, nil
	}
	return &bill, nil
}

func (r *repo) ListByRoom(ctx context.Context, db *gorm.DB, room string) ([]billdomain.Bill, error) {
	var bills []billdomain.Bill
	err := db.WithContext(ctx).Raw(
		`SELECT id, room, month, total, created_at, updated_at
		 FROM bills WHERE room = ? ORDER BY month ASC`,
		room,
	).Scan(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB) ([]billdomain.Bill, error) {
	var bills []billdomain.Bill
	err := db.WithContext(ctx).Raw(
		`SELECT id, room, month, total, created_at, updated_at
		 FROM bills ORDER BY room ASC, month ASC`,
	).Scan(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repo) ListDetails(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]billdomain.BillDetail, error) {
	var details []billdomain.BillDetail
	err := db.WithContext(ctx).Raw(
		`SELECT id, bill_id, kind, name, previous, current, usage_value, unit_price, amount, position, created_at
		 FROM bill_details WHERE bill_id = ? ORDER BY position ASC`,
		billID,
	).Scan(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}
