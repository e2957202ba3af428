package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-recharge-backend/internal/client"
	"github.com/tbourn/go-recharge-backend/internal/domain"
	"github.com/tbourn/go-recharge-backend/internal/utils"
)

// API is the subset of the recharge API the orchestrator needs.
// *client.Client satisfies it.
type API interface {
	CreatePayment(ctx context.Context, req client.CreatePaymentRequest) (*domain.Payment, error)
	UPILink(ctx context.Context, transactionID string) (*client.UPILink, error)
	UpdatePaymentStatus(ctx context.Context, transactionID string, status domain.PaymentStatus) (*domain.Payment, error)
}

// Outcome describes a finished payment attempt.
type Outcome struct {
	Payment *domain.Payment
	Link    *client.UPILink
	Launch  LaunchResult
}

// Succeeded reports whether the payment settled successfully.
func (o *Outcome) Succeeded() bool {
	return o != nil && o.Payment != nil && o.Payment.Status == domain.PaymentSuccess
}

// Orchestrator runs the pay sequence for a Flow at the payment step.
type Orchestrator struct {
	API      API
	Launcher *Launcher
	Verifier SettlementVerifier

	// NewTransactionID generates client correlation ids.
	NewTransactionID func() string
}

// Stage names the pay step that failed.
type Stage string

const (
	StageCreate Stage = "create payment"
	StageLink   Stage = "generate link"
	StageLaunch Stage = "launch app"
	StageVerify Stage = "verify settlement"
	StageRecord Stage = "record status"
)

// PayError wraps a failure with the stage it happened in. Payment is set
// once the server accepted the payment.
type PayError struct {
	Stage   Stage
	Payment *domain.Payment
	Err     error
}

func (e *PayError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *PayError) Unwrap() error { return e.Err }

// Pay creates the payment, obtains and launches its UPI link, waits for
// settlement and records the result.
//
// A successful payment resets f. A failed settlement returns the outcome
// with f left at the payment step so the user can retry with the same
// plan. Errors (including cancellation) leave f unchanged; no step is
// retried automatically.
func (o *Orchestrator) Pay(ctx context.Context, f *Flow, device DeviceClass) (*Outcome, error) {
	mobile, _, plan, err := f.ready()
	if err != nil {
		return nil, err
	}
	log := zerolog.Ctx(ctx)

	newID := o.NewTransactionID
	if newID == nil {
		newID = utils.NewTransactionID
	}
	req := client.CreatePaymentRequest{
		PlanID:        plan.ID,
		Amount:        plan.DiscountedPrice,
		TransactionID: newID(),
	}
	if mobile != "" {
		req.MobileNumber = &mobile
	}

	p, err := o.API.CreatePayment(ctx, req)
	if err != nil {
		return nil, &PayError{Stage: StageCreate, Err: err}
	}
	out := &Outcome{Payment: p}

	if out.Link, err = o.API.UPILink(ctx, p.TransactionID); err != nil {
		return out, &PayError{Stage: StageLink, Payment: p, Err: err}
	}

	if out.Launch, err = o.Launcher.Launch(ctx, device, out.Link.UpiLink); err != nil {
		return out, &PayError{Stage: StageLaunch, Payment: p, Err: err}
	}
	log.Debug().
		Str("transaction_id", p.TransactionID).
		Str("device", out.Launch.Device.String()).
		Str("uri", out.Launch.URI).
		Msg("payment link launched")

	s, err := o.Verifier.Verify(ctx, p)
	if err != nil {
		return out, &PayError{Stage: StageVerify, Payment: p, Err: err}
	}
	if !s.Status.Terminal() {
		return out, &PayError{Stage: StageVerify, Payment: p, Err: errors.New("verifier returned a non-terminal status")}
	}

	if s.Recorded {
		p.Status = s.Status
	} else if p, err = o.API.UpdatePaymentStatus(ctx, p.TransactionID, s.Status); err != nil {
		return out, &PayError{Stage: StageRecord, Payment: out.Payment, Err: err}
	}
	out.Payment = p

	if s.Status == domain.PaymentSuccess {
		f.Reset()
	}
	log.Info().
		Str("transaction_id", p.TransactionID).
		Str("status", string(s.Status)).
		Msg("payment settled")
	return out, nil
}
