// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the catalog:
// operators and recharge plans.
//
// Catalog rows are reference data. They are written once by SeedCatalog and
// only read afterwards, so every function here except the Create* helpers is
// a pure query. Listings are ordered by primary key, which matches insertion
// order.
//
// Error semantics:
//   - Single-row lookups return ErrNotFound when the row does not exist.
//   - Listings return an empty slice (never ErrNotFound) when nothing matches.
//   - On DB errors, the raw gorm error is propagated.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-recharge-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ListOperators returns all operators in insertion order.
func ListOperators(ctx context.Context, db *gorm.DB) ([]domain.Operator, error) {
	out := []domain.Operator{}
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// GetOperator fetches an operator by ID, or ErrNotFound.
func GetOperator(ctx context.Context, db *gorm.DB, id uint) (*domain.Operator, error) {
	var op domain.Operator
	if err := db.WithContext(ctx).Where("id = ?", id).First(&op).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

// GetOperatorByCode fetches an operator by exact code match, or ErrNotFound.
func GetOperatorByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Operator, error) {
	var op domain.Operator
	if err := db.WithContext(ctx).Where("code = ?", code).First(&op).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

// CreateOperator inserts an operator and fills in its generated ID.
func CreateOperator(ctx context.Context, db *gorm.DB, op *domain.Operator) error {
	return db.WithContext(ctx).Create(op).Error
}

// ListPlans returns every plan regardless of IsActive, in insertion order.
func ListPlans(ctx context.Context, db *gorm.DB) ([]domain.RechargePlan, error) {
	out := []domain.RechargePlan{}
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// ListPlansByOperator returns the active plans of operatorID in insertion
// order. Inactive plans are never returned.
func ListPlansByOperator(ctx context.Context, db *gorm.DB, operatorID uint) ([]domain.RechargePlan, error) {
	out := []domain.RechargePlan{}
	err := db.WithContext(ctx).
		Where("operator_id = ? AND is_active = ?", operatorID, true).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// GetPlan fetches a plan by ID, or ErrNotFound. Inactive plans are returned.
func GetPlan(ctx context.Context, db *gorm.DB, id uint) (*domain.RechargePlan, error) {
	var p domain.RechargePlan
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePlan inserts a plan and fills in its generated ID.
func CreatePlan(ctx context.Context, db *gorm.DB, p *domain.RechargePlan) error {
	return db.WithContext(ctx).Omit("Operator").Create(p).Error
}
