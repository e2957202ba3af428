// Package services – PaymentService
//
// PaymentService owns the payment lifecycle: creation with price integrity
// checks, lookups by transaction id, status updates (from clients or signed
// gateway callbacks) and UPI deep-link generation.
//
// Status transitions are permissive: any accepted status may replace any
// other. Gateway callbacks are limited to the settled states.
//
// Observability: public methods open OpenTelemetry spans; domain counters are
// exported through Prometheus. Event publishing is best effort and only logged
// on failure.
package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-recharge-backend/internal/domain"
	"github.com/tbourn/go-recharge-backend/internal/events"
	"github.com/tbourn/go-recharge-backend/internal/repo"
)

// PaymentRepo defines the repository contract required by PaymentService.
type PaymentRepo interface {
	GetPlan(ctx context.Context, db *gorm.DB, id uint) (*domain.RechargePlan, error)
	GetOperator(ctx context.Context, db *gorm.DB, id uint) (*domain.Operator, error)
	CreatePayment(ctx context.Context, db *gorm.DB, in repo.NewPayment) (*domain.Payment, error)
	GetPaymentByTransactionID(ctx context.Context, db *gorm.DB, transactionID string) (*domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, db *gorm.DB, id uint, status domain.PaymentStatus, completedAt *time.Time) (*domain.Payment, error)
}

// CreatePaymentInput is the client-controlled part of a new payment.
type CreatePaymentInput struct {
	PlanID        uint
	Amount        int
	MobileNumber  *string
	TransactionID string
}

// PaymentService coordinates payment persistence and presentation.
type PaymentService struct {
	DB   *gorm.DB
	Repo PaymentRepo

	// MerchantUPIID is the payee address; clients cannot override it.
	MerchantUPIID string
	// WebhookSecret signs gateway callbacks. Empty disables them.
	WebhookSecret []byte
	// Events receives lifecycle events.
	Events events.Publisher

	// Now is the clock; tests may replace it.
	Now func() time.Time
}

// NewPaymentService constructs a PaymentService with a no-op publisher and
// the default merchant id.
func NewPaymentService(db *gorm.DB, r PaymentRepo) *PaymentService {
	return &PaymentService{
		DB:            db,
		Repo:          r,
		MerchantUPIID: DefaultMerchantUPIID,
		Events:        events.NopPublisher{},
		Now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the plan and price, then stores a pending payment directed
// at the merchant UPI id.
func (s *PaymentService) Create(ctx context.Context, in CreatePaymentInput) (*domain.Payment, error) {
	ctx, span := otel.Tracer("services/PaymentService").Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("payment.transaction_id", in.TransactionID),
			attribute.Int64("plan.id", int64(in.PlanID)),
		),
	)
	defer span.End()

	plan, err := s.Repo.GetPlan(ctx, s.DB, in.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fail(span, err)
	}
	if in.Amount != plan.DiscountedPrice {
		span.SetAttributes(attribute.Int("payment.amount", in.Amount), attribute.Int("plan.price", plan.DiscountedPrice))
		return nil, ErrAmountMismatch
	}

	p, err := s.Repo.CreatePayment(ctx, s.DB, repo.NewPayment{
		TransactionID: in.TransactionID,
		PlanID:        plan.ID,
		Amount:        in.Amount,
		UpiID:         s.MerchantUPIID,
		MobileNumber:  normalizeMobile(in.MobileNumber),
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateTransaction
		}
		return nil, fail(span, err)
	}

	paymentsCreated.Inc()
	s.publish(ctx, events.TypePaymentCreated, p)
	return p, nil
}

// Get returns the payment with the given transaction id.
func (s *PaymentService) Get(ctx context.Context, transactionID string) (*domain.Payment, error) {
	p, err := s.Repo.GetPaymentByTransactionID(ctx, s.DB, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// UpdateStatus sets the status of a payment. The status is validated before
// the payment is looked up, so an invalid value never touches the store.
// CompletedAt is stamped for successes and cleared otherwise.
func (s *PaymentService) UpdateStatus(ctx context.Context, transactionID string, status domain.PaymentStatus) (*domain.Payment, error) {
	ctx, span := otel.Tracer("services/PaymentService").Start(ctx, "UpdateStatus",
		trace.WithAttributes(
			attribute.String("payment.transaction_id", transactionID),
			attribute.String("payment.status", string(status)),
		),
	)
	defer span.End()

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.setStatus(ctx, span, transactionID, status)
}

// Settle applies a gateway outcome. Only success and failed are accepted.
func (s *PaymentService) Settle(ctx context.Context, transactionID string, status domain.PaymentStatus) (*domain.Payment, error) {
	ctx, span := otel.Tracer("services/PaymentService").Start(ctx, "Settle",
		trace.WithAttributes(
			attribute.String("payment.transaction_id", transactionID),
			attribute.String("payment.status", string(status)),
		),
	)
	defer span.End()

	if !status.Terminal() {
		return nil, ErrInvalidStatus
	}
	return s.setStatus(ctx, span, transactionID, status)
}

func (s *PaymentService) setStatus(ctx context.Context, span trace.Span, transactionID string, status domain.PaymentStatus) (*domain.Payment, error) {
	cur, err := s.Get(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, ErrPaymentNotFound) {
			return nil, fail(span, err)
		}
		return nil, err
	}

	var completedAt *time.Time
	if status == domain.PaymentSuccess {
		now := s.now()
		completedAt = &now
	}
	p, err := s.Repo.UpdatePaymentStatus(ctx, s.DB, cur.ID, status, completedAt)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fail(span, err)
	}

	paymentStatusUpdates.WithLabelValues(string(status)).Inc()
	s.publish(ctx, events.TypePaymentStatusChanged, p)
	return p, nil
}

// UPILink resolves payment, plan and operator and formats the deep link.
// Nothing is persisted.
func (s *PaymentService) UPILink(ctx context.Context, transactionID string) (*UPILink, error) {
	ctx, span := otel.Tracer("services/PaymentService").Start(ctx, "UPILink",
		trace.WithAttributes(attribute.String("payment.transaction_id", transactionID)),
	)
	defer span.End()

	p, err := s.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	plan, err := s.Repo.GetPlan(ctx, s.DB, p.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fail(span, err)
	}
	op, err := s.Repo.GetOperator(ctx, s.DB, plan.OperatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, fail(span, err)
	}

	note := TransactionNote(op.Name, plan.Type, p.Amount)
	upiLinksGenerated.Inc()
	return &UPILink{
		UpiLink:  BuildUPILink(s.MerchantUPIID, p.Amount, note, p.TransactionID),
		Amount:   p.Amount,
		Operator: op.Name,
	}, nil
}

// VerifySignature checks a hex HMAC-SHA256 of body under WebhookSecret.
func (s *PaymentService) VerifySignature(body []byte, signature string) error {
	if len(s.WebhookSecret) == 0 {
		return ErrWebhookDisabled
	}
	got, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signature), "sha256="))
	if err != nil || len(got) == 0 {
		return ErrInvalidSignature
	}
	if !hmac.Equal(got, Sign(s.WebhookSecret, body)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign returns HMAC-SHA256(secret, body).
func Sign(secret, body []byte) []byte {
	m := hmac.New(sha256.New, secret)
	m.Write(body)
	return m.Sum(nil)
}

func (s *PaymentService) publish(ctx context.Context, typ string, p *domain.Payment) {
	if s.Events == nil {
		return
	}
	err := s.Events.Publish(ctx, events.Event{
		Type:          typ,
		TransactionID: p.TransactionID,
		Status:        string(p.Status),
		Amount:        p.Amount,
		PlanID:        p.PlanID,
		OccurredAt:    s.now(),
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("event", typ).
			Str("transaction_id", p.TransactionID).
			Msg("payment event not published")
	}
}

func (s *PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func normalizeMobile(m *string) *string {
	if m == nil {
		return nil
	}
	v := strings.TrimSpace(*m)
	if v == "" {
		return nil
	}
	return &v
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
