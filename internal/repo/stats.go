// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-recharge-backend/internal/domain"
)

// OperatorsStats returns the number of operators and the greatest operator
// ID. Both are zero for an empty table.
func OperatorsStats(ctx context.Context, db *gorm.DB) (count int64, maxID uint, err error) {
	return tableStats(ctx, db, &domain.Operator{})
}

// PlansStats returns the number of plans and the greatest plan ID. Both are
// zero for an empty table.
func PlansStats(ctx context.Context, db *gorm.DB) (count int64, maxID uint, err error) {
	return tableStats(ctx, db, &domain.RechargePlan{})
}

func tableStats(ctx context.Context, db *gorm.DB, model any) (int64, uint, error) {
	q := db.WithContext(ctx).Model(model)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var row struct{ ID uint }
	if err := db.WithContext(ctx).Model(model).Select("id").Order("id DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return count, row.ID, nil
}
