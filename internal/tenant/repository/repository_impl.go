package repository

import (
	"context"

	tenantdomain "github.com/smallbiznis/rentledger/internal/tenant/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() tenantdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, t *tenantdomain.Tenant) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tenants (id, room, name, rent, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.Room,
		t.Name,
		t.Rent,
		t.CreatedAt,
		t.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, t *tenantdomain.Tenant) error {
	return db.WithContext(ctx).Exec(
		`UPDATE tenants SET name = ?, rent = ?, updated_at = ? WHERE room = ?`,
		t.Name,
		t.Rent,
		t.UpdatedAt,
		t.Room,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, room string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM bill_details WHERE bill_id IN (SELECT id FROM bills WHERE room = ?)`,
			room,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM bills WHERE room = ?`, room).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM tenants WHERE room = ?`, room).Error
	})
}

func (r *repo) FindByRoom(ctx context.Context, db *gorm.DB, room string) (*tenantdomain.Tenant, error) {
	var tenant tenantdomain.Tenant
	err := db.WithContext(ctx).Raw(
		`SELECT id, room, name, rent, created_at, updated_at FROM tenants WHERE room = ?`,
		room,
	).Scan(&tenant).Error
	if err != nil {
		return nil, err
	}
	if tenant.ID == 0 {
		return nil, nil
	}
	return &tenant, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]tenantdomain.Tenant, error) {
	var tenants []tenantdomain.Tenant
	err := db.WithContext(ctx).Raw(
		`SELECT id, room, name, rent, created_at, updated_at FROM tenants ORDER BY room ASC`,
	).Scan(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}
