// Package checkout drives a recharge purchase from the client side: the
// mobile → operator → plan → payment step flow, handing the UPI link to a
// payment app, and settling the payment through a pluggable verifier.
package checkout

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/tbourn/go-recharge-backend/internal/domain"
)

// Step is a stage of the checkout flow.
type Step int

const (
	StepMobile Step = iota + 1
	StepOperator
	StepPlan
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepMobile:
		return "mobile"
	case StepOperator:
		return "operator"
	case StepPlan:
		return "plan"
	case StepPayment:
		return "payment"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidMobile = errors.New("checkout: mobile number must be 10 digits")
	ErrWrongStep     = errors.New("checkout: action not allowed at this step")
	ErrPlanMismatch  = errors.New("checkout: plan does not belong to the selected operator")
	ErrPlanInactive  = errors.New("checkout: plan is not active")
)

var mobileRE = regexp.MustCompile(`^\d{10}$`)

// Flow is the per-session checkout state. It is safe for concurrent use so
// that a pending Pay can race with user navigation.
type Flow struct {
	mu       sync.Mutex
	step     Step
	mobile   string
	operator *domain.Operator
	plan     *domain.RechargePlan
}

// NewFlow returns a flow positioned at the mobile number step.
func NewFlow() *Flow { return &Flow{step: StepMobile} }

// Step returns the current step.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Mobile returns the accepted mobile number, if any.
func (f *Flow) Mobile() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mobile
}

// Operator returns a copy of the selected operator, or nil.
func (f *Flow) Operator() *domain.Operator {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.operator == nil {
		return nil
	}
	op := *f.operator
	return &op
}

// Plan returns a copy of the selected plan, or nil.
func (f *Flow) Plan() *domain.RechargePlan {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.plan == nil {
		return nil
	}
	p := *f.plan
	return &p
}

// SubmitMobile accepts a 10-digit number and advances to operator choice.
// Surrounding spaces are ignored.
func (f *Flow) SubmitMobile(number string) error {
	number = strings.TrimSpace(number)
	if !mobileRE.MatchString(number) {
		return ErrInvalidMobile
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepMobile {
		return ErrWrongStep
	}
	f.mobile = number
	f.step = StepOperator
	return nil
}

// SelectOperator records the operator and advances to plan choice.
func (f *Flow) SelectOperator(op domain.Operator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepOperator {
		return ErrWrongStep
	}
	f.operator = &op
	f.plan = nil
	f.step = StepPlan
	return nil
}

// SelectPlan records an active plan of the selected operator and advances
// to the payment step.
func (f *Flow) SelectPlan(p domain.RechargePlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepPlan {
		return ErrWrongStep
	}
	if p.OperatorID != f.operator.ID {
		return ErrPlanMismatch
	}
	if !p.IsActive {
		return ErrPlanInactive
	}
	f.plan = &p
	f.step = StepPayment
	return nil
}

// Back returns to the previous step and forgets the choice made there.
// It is a no-op on the first step.
func (f *Flow) Back() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.step {
	case StepOperator:
		f.mobile = ""
		f.step = StepMobile
	case StepPlan:
		f.operator = nil
		f.step = StepOperator
	case StepPayment:
		f.plan = nil
		f.step = StepPlan
	}
	return f.step
}

// Reset clears every choice and returns to the mobile step.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = StepMobile
	f.mobile = ""
	f.operator = nil
	f.plan = nil
}

// ready returns the selections needed to pay, or ErrWrongStep.
func (f *Flow) ready() (string, domain.Operator, domain.RechargePlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepPayment {
		return "", domain.Operator{}, domain.RechargePlan{}, ErrWrongStep
	}
	return f.mobile, *f.operator, *f.plan, nil
}
