// Package services – CatalogService
//
// CatalogService exposes read-only access to operators and recharge plans.
// Lookups translate repository absence into ErrOperatorNotFound or
// ErrPlanNotFound; listings never fail on an empty result.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-recharge-backend/internal/domain"
)

// CatalogRepo defines the repository contract required by CatalogService.
type CatalogRepo interface {
	ListOperators(ctx context.Context, db *gorm.DB) ([]domain.Operator, error)
	GetOperatorByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Operator, error)
	ListPlans(ctx context.Context, db *gorm.DB) ([]domain.RechargePlan, error)
	ListPlansByOperator(ctx context.Context, db *gorm.DB, operatorID uint) ([]domain.RechargePlan, error)
	GetPlan(ctx context.Context, db *gorm.DB, id uint) (*domain.RechargePlan, error)

	// OperatorsStats and PlansStats feed conditional GET validators.
	OperatorsStats(ctx context.Context, db *gorm.DB) (int64, uint, error)
	PlansStats(ctx context.Context, db *gorm.DB) (int64, uint, error)
}

// CatalogService serves operator and plan reads.
type CatalogService struct {
	DB   *gorm.DB
	Repo CatalogRepo
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB, r CatalogRepo) *CatalogService {
	return &CatalogService{DB: db, Repo: r}
}

// Operators returns every operator in insertion order.
func (s *CatalogService) Operators(ctx context.Context) ([]domain.Operator, error) {
	return s.Repo.ListOperators(ctx, s.DB)
}

// OperatorByCode returns the operator with the exact code.
func (s *CatalogService) OperatorByCode(ctx context.Context, code string) (*domain.Operator, error) {
	op, err := s.Repo.GetOperatorByCode(ctx, s.DB, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}
	return op, nil
}

// Plans returns every plan, active or not.
func (s *CatalogService) Plans(ctx context.Context) ([]domain.RechargePlan, error) {
	return s.Repo.ListPlans(ctx, s.DB)
}

// PlansByOperator returns the active plans of an operator. An unknown
// operator yields an empty list.
func (s *CatalogService) PlansByOperator(ctx context.Context, operatorID uint) ([]domain.RechargePlan, error) {
	return s.Repo.ListPlansByOperator(ctx, s.DB, operatorID)
}

// Plan returns a single plan by id.
func (s *CatalogService) Plan(ctx context.Context, id uint) (*domain.RechargePlan, error) {
	p, err := s.Repo.GetPlan(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return p, nil
}

// OperatorsVersion returns (count, max id) of the operators table.
func (s *CatalogService) OperatorsVersion(ctx context.Context) (int64, uint, error) {
	return s.Repo.OperatorsStats(ctx, s.DB)
}

// PlansVersion returns (count, max id) of the plans table.
func (s *CatalogService) PlansVersion(ctx context.Context) (int64, uint, error) {
	return s.Repo.PlansStats(ctx, s.DB)
}
