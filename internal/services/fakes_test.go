package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-recharge-backend/internal/domain"
	"github.com/tbourn/go-recharge-backend/internal/events"
	"github.com/tbourn/go-recharge-backend/internal/repo"
)

// ----- Fake repo -----

type fakeRepo struct {
	operators map[uint]*domain.Operator
	plans     map[uint]*domain.RechargePlan
	payments  map[string]*domain.Payment
	nextID    uint

	// forced errors
	getPlanErr error
	createErr  error
	updateErr  error

	// captured args
	created      []repo.NewPayment
	updateCalls  int
	updateStatus domain.PaymentStatus
	updateAt     *time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		operators: map[uint]*domain.Operator{
			1: {ID: 1, Name: "Jio", Code: "jio", BrandColor: "#0066CC"},
		},
		plans: map[uint]*domain.RechargePlan{
			1: {ID: 1, OperatorID: 1, OriginalPrice: 999, DiscountedPrice: 170, Type: "Popular", IsActive: true},
			2: {ID: 2, OperatorID: 7, OriginalPrice: 500, DiscountedPrice: 85, Type: "Orphan", IsActive: true},
		},
		payments: map[string]*domain.Payment{},
	}
}

func (r *fakeRepo) GetPlan(_ context.Context, _ *gorm.DB, id uint) (*domain.RechargePlan, error) {
	if r.getPlanErr != nil {
		return nil, r.getPlanErr
	}
	p, ok := r.plans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeRepo) GetOperator(_ context.Context, _ *gorm.DB, id uint) (*domain.Operator, error) {
	op, ok := r.operators[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return op, nil
}

func (r *fakeRepo) CreatePayment(_ context.Context, _ *gorm.DB, in repo.NewPayment) (*domain.Payment, error) {
	r.created = append(r.created, in)
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, dup := r.payments[in.TransactionID]; dup {
		return nil, repo.ErrDuplicate
	}
	r.nextID++
	p := &domain.Payment{
		ID: r.nextID, TransactionID: in.TransactionID, PlanID: in.PlanID, Amount: in.Amount,
		UpiID: in.UpiID, Status: domain.PaymentPending, MobileNumber: in.MobileNumber,
		CreatedAt: time.Now().UTC(),
	}
	r.payments[in.TransactionID] = p
	return p, nil
}

func (r *fakeRepo) GetPaymentByTransactionID(_ context.Context, _ *gorm.DB, txn string) (*domain.Payment, error) {
	p, ok := r.payments[txn]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeRepo) UpdatePaymentStatus(_ context.Context, _ *gorm.DB, id uint, status domain.PaymentStatus, completedAt *time.Time) (*domain.Payment, error) {
	r.updateCalls++
	r.updateStatus, r.updateAt = status, completedAt
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	for _, p := range r.payments {
		if p.ID == id {
			p.Status = status
			p.CompletedAt = completedAt
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ----- Fake publisher -----

type fakePublisher struct {
	events []events.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }
