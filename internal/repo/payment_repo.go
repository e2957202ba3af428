// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Payment
// model.
//
// The repository follows a "thin" approach: it performs persistence and simple
// query composition, leaving business rules (price integrity, allowed status
// values) to the services package. In particular UpdatePaymentStatus does not
// check that a transition is legal; any status may overwrite any other.
//
// Error semantics:
//   - Lookups and updates of unknown rows return ErrNotFound.
//   - A second payment with an existing transaction id returns ErrDuplicate.
//   - On other DB errors, the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-recharge-backend/internal/domain"
)

// ErrDuplicate indicates that a payment with the same transaction id
// already exists.
var ErrDuplicate = errors.New("duplicate")

// NewPayment carries the caller-supplied fields of a payment. ID, Status,
// CreatedAt and CompletedAt are always assigned by CreatePayment.
type NewPayment struct {
	TransactionID string
	PlanID        uint
	Amount        int
	UpiID         string
	MobileNumber  *string
}

// CreatePayment inserts a pending payment with CreatedAt set to now (UTC) and
// no CompletedAt. The transaction id must be unique; a clash returns
// ErrDuplicate.
func CreatePayment(ctx context.Context, db *gorm.DB, in NewPayment) (*domain.Payment, error) {
	p := &domain.Payment{
		TransactionID: in.TransactionID,
		PlanID:        in.PlanID,
		Amount:        in.Amount,
		UpiID:         in.UpiID,
		Status:        domain.PaymentPending,
		MobileNumber:  in.MobileNumber,
		CreatedAt:     time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Omit("Plan").Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return p, nil
}

// GetPayment fetches a payment by internal ID, or ErrNotFound.
func GetPayment(ctx context.Context, db *gorm.DB, id uint) (*domain.Payment, error) {
	var p domain.Payment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPaymentByTransactionID fetches a payment by exact transaction id, or
// ErrNotFound.
func GetPaymentByTransactionID(ctx context.Context, db *gorm.DB, transactionID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePaymentStatus overwrites the status of payment id and returns the
// updated row. CompletedAt becomes completedAt when given, otherwise now for
// a success, otherwise it is cleared. Unknown ids return ErrNotFound and
// leave the table untouched.
func UpdatePaymentStatus(ctx context.Context, db *gorm.DB, id uint, status domain.PaymentStatus, completedAt *time.Time) (*domain.Payment, error) {
	var completed any = gorm.Expr("NULL")
	switch {
	case completedAt != nil:
		completed = completedAt.UTC()
	case status == domain.PaymentSuccess:
		completed = time.Now().UTC()
	}

	var out domain.Payment
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Payment{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":       status,
				"completed_at": completed,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("id = ?", id).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// isUniqueViolation detects unique-constraint violations across drivers.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}
