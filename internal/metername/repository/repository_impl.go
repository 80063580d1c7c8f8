package repository

import (
	"context"
	"time"

	meternamedomain "github.com/smallbiznis/rentledger/internal/metername/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() meternamedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, cfg *meternamedomain.MeterNameConfig) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO meter_name_configs (id, canonical_name, scope, room, custom_name, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		cfg.ID,
		cfg.CanonicalName,
		cfg.Scope,
		cfg.Room,
		cfg.CustomName,
		cfg.Active,
		cfg.CreatedAt,
		cfg.UpdatedAt,
	).Error
}

func (r *repo) Deactivate(ctx context.Context, db *gorm.DB, canonical string, scope meternamedomain.Scope, room string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE meter_name_configs SET active = ?, updated_at = ?
		 WHERE canonical_name = ? AND scope = ? AND room = ? AND active = ?`,
		false,
		time.Now().UTC(),
		canonical,
		scope,
		room,
		true,
	).Error
}

func (r *repo) Resolve(ctx context.Context, db *gorm.DB, canonical, room string) (*meternamedomain.MeterNameConfig, error) {
	var cfg meternamedomain.MeterNameConfig
	err := db.WithContext(ctx).Raw(
		`SELECT id, canonical_name, scope, room, custom_name, active, created_at, updated_at
		 FROM meter_name_configs
		 WHERE canonical_name = ? AND active = ?
		   AND ((scope = ? AND room = ?) OR scope = ?)
		 ORDER BY CASE scope WHEN ? THEN 0 ELSE 1 END, updated_at DESC
		 LIMIT 1`,
		canonical,
		true,
		meternamedomain.ScopeTenant,
		room,
		meternamedomain.ScopeGlobal,
		meternamedomain.ScopeTenant,
	).Scan(&cfg).Error
	if err != nil {
		return nil, err
	}
	if cfg.ID == 0 {
		return nil, nil
	}
	return &cfg, nil
}

func (r *repo) ResolveAll(ctx context.Context, db *gorm.DB, room string) (map[string]string, error) {
	var rows []meternamedomain.MeterNameConfig
	err := db.WithContext(ctx).Raw(
		`SELECT id, canonical_name, scope, room, custom_name, active, created_at, updated_at
		 FROM meter_name_configs
		 WHERE active = ? AND ((scope = ? AND room = ?) OR scope = ?)
		 ORDER BY CASE scope WHEN ? THEN 1 ELSE 0 END, updated_at ASC`,
		true,
		meternamedomain.ScopeTenant,
		room,
		meternamedomain.ScopeGlobal,
		meternamedomain.ScopeTenant,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// Rows arrive global-first then tenant-scoped, each oldest-first, so a
	// plain overwrite leaves the latest tenant-scoped winner in the map.
	resolved := make(map[string]string, len(rows))
	for _, row := range rows {
		resolved[row.CanonicalName] = row.CustomName
	}
	return resolved, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]meternamedomain.MeterNameConfig, error) {
	var rows []meternamedomain.MeterNameConfig
	err := db.WithContext(ctx).Raw(
		`SELECT id, canonical_name, scope, room, custom_name, active, created_at, updated_at
		 FROM meter_name_configs ORDER BY created_at ASC`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
