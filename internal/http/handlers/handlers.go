// Package handlers exposes the recharge storefront over HTTP.
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-recharge-backend/internal/domain"
	"github.com/tbourn/go-recharge-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// CatalogService defines the catalog reads consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CatalogService interface {
	Operators(ctx context.Context) ([]domain.Operator, error)
	OperatorByCode(ctx context.Context, code string) (*domain.Operator, error)
	Plans(ctx context.Context) ([]domain.RechargePlan, error)
	PlansByOperator(ctx context.Context, operatorID uint) ([]domain.RechargePlan, error)
	Plan(ctx context.Context, id uint) (*domain.RechargePlan, error)

	// OperatorsVersion and PlansVersion return (row count, max id) for ETags.
	OperatorsVersion(ctx context.Context) (int64, uint, error)
	PlansVersion(ctx context.Context) (int64, uint, error)
}

// PaymentService defines payment lifecycle operations consumed by HTTP
// handlers.
type PaymentService interface {
	Create(ctx context.Context, in services.CreatePaymentInput) (*domain.Payment, error)
	Get(ctx context.Context, transactionID string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, transactionID string, status domain.PaymentStatus) (*domain.Payment, error)
	UPILink(ctx context.Context, transactionID string) (*services.UPILink, error)

	// Settle and VerifySignature back the gateway webhook.
	Settle(ctx context.Context, transactionID string, status domain.PaymentStatus) (*domain.Payment, error)
	VerifySignature(body []byte, signature string) error
}

// Handlers groups HTTP endpoints for the catalog and payments.
type Handlers struct {
	catalog  CatalogService
	payments PaymentService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(catalog CatalogService, payments PaymentService) *Handlers {
	useJSONFieldNames()
	return &Handlers{catalog: catalog, payments: payments}
}

var jsonNamesOnce sync.Once

// useJSONFieldNames makes validation errors report JSON keys instead of Go
// field names.
func useJSONFieldNames() {
	jsonNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}
