package checkout

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/tbourn/go-recharge-backend/internal/domain"
)

// Settlement is the outcome reported by a SettlementVerifier.
type Settlement struct {
	Status domain.PaymentStatus // success or failed
	// Recorded is true when the server already stored Status, so the
	// orchestrator must not write it again.
	Recorded bool
}

// SettlementVerifier decides how a launched payment ended. Implementations
// must return promptly with ctx.Err() when ctx is cancelled.
type SettlementVerifier interface {
	Verify(ctx context.Context, p *domain.Payment) (Settlement, error)
}

// Defaults for RandomVerifier.
const (
	DefaultSettleDelay = 3 * time.Second
	DefaultSuccessRate = 0.9
)

// RandomVerifier simulates the user finishing payment in their UPI app: it
// waits Delay and then draws success with probability SuccessRate. It is a
// demo and test stand-in for a gateway callback.
type RandomVerifier struct {
	Delay       time.Duration
	SuccessRate float64
	// Float64 returns values in [0,1); math/rand when nil.
	Float64 func() float64
}

// NewRandomVerifier returns a verifier with the default delay and rate.
func NewRandomVerifier() *RandomVerifier {
	return &RandomVerifier{Delay: DefaultSettleDelay, SuccessRate: DefaultSuccessRate}
}

func (v *RandomVerifier) Verify(ctx context.Context, _ *domain.Payment) (Settlement, error) {
	if err := sleep(ctx, v.Delay); err != nil {
		return Settlement{}, err
	}
	draw := rand.Float64
	if v.Float64 != nil {
		draw = v.Float64
	}
	if draw() < v.SuccessRate {
		return Settlement{Status: domain.PaymentSuccess}, nil
	}
	return Settlement{Status: domain.PaymentFailed}, nil
}

// PaymentReader fetches a payment by transaction id.
type PaymentReader interface {
	Payment(ctx context.Context, transactionID string) (*domain.Payment, error)
}

// ErrSettlementTimeout is returned when a payment stays pending past the
// polling deadline.
var ErrSettlementTimeout = errors.New("checkout: payment still pending")

// PollingVerifier waits for the server to record the outcome, as happens
// when the payment gateway calls the signed webhook.
type PollingVerifier struct {
	Payments PaymentReader
	Interval time.Duration // default 2s
	Timeout  time.Duration // default 5m
}

func (v *PollingVerifier) Verify(ctx context.Context, p *domain.Payment) (Settlement, error) {
	interval, timeout := v.Interval, v.Timeout
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		cur, err := v.Payments.Payment(ctx, p.TransactionID)
		if err != nil && ctx.Err() == nil {
			return Settlement{}, err
		}
		if err == nil && cur.Status.Terminal() {
			return Settlement{Status: cur.Status, Recorded: true}, nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return Settlement{}, ErrSettlementTimeout
			}
			return Settlement{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
