package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	pricedomain "github.com/smallbiznis/rentledger/internal/price/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct {
	genID *snowflake.Node
}

func Provide(genID *snowflake.Node) pricedomain.Repository {
	return &repo{genID: genID}
}

func (r *repo) EnsureDefault(ctx context.Context, db *gorm.DB) (*pricedomain.Price, error) {
	var price pricedomain.Price
	err := db.WithContext(ctx).Raw(
		`SELECT id, water_price, electricity_price, privacy_keywords, created_at, updated_at
		 FROM prices ORDER BY created_at ASC LIMIT 1`,
	).Scan(&price).Error
	if err != nil {
		return nil, err
	}
	if price.ID != 0 {
		return &price, nil
	}

	keywords, _ := json.Marshal([]string{})
	now := time.Now().UTC()
	price = pricedomain.Price{
		ID:               r.genID.Generate(),
		WaterPrice:       pricedomain.DefaultWaterPrice,
		ElectricityPrice: pricedomain.DefaultElectricityPrice,
		PrivacyKeywords:  datatypes.JSON(keywords),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err = db.WithContext(ctx).Exec(
		`INSERT INTO prices (id, water_price, electricity_price, privacy_keywords, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		price.ID,
		price.WaterPrice,
		price.ElectricityPrice,
		price.PrivacyKeywords,
		price.CreatedAt,
		price.UpdatedAt,
	).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, price *pricedomain.Price) error {
	return db.WithContext(ctx).Exec(
		`UPDATE prices SET water_price = ?, electricity_price = ?, privacy_keywords = ?, updated_at = ?
		 WHERE id = ?`,
		price.WaterPrice,
		price.ElectricityPrice,
		price.PrivacyKeywords,
		price.UpdatedAt,
		price.ID,
	).Error
}
