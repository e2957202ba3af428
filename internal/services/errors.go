// Package services defines the business logic for the recharge catalog and
// UPI payments. This file centralizes service-level error values so that they
// can be consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Catalog errors.
var (
	// ErrOperatorNotFound indicates that no operator matches the given code or id.
	ErrOperatorNotFound = errors.New("operator not found")

	// ErrPlanNotFound indicates that no plan matches the given id.
	ErrPlanNotFound = errors.New("plan not found")
)

// Payment errors.
var (
	// ErrPaymentNotFound indicates that no payment matches the given
	// transaction id.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrAmountMismatch is returned when the submitted amount differs from the
	// plan's discounted price.
	ErrAmountMismatch = errors.New("amount does not match plan price")

	// ErrInvalidStatus is returned for a status outside the accepted set.
	ErrInvalidStatus = errors.New("invalid payment status")

	// ErrDuplicateTransaction is returned when a payment with the same
	// transaction id already exists.
	ErrDuplicateTransaction = errors.New("transaction id already used")

	// ErrInvalidSignature is returned when a gateway callback fails HMAC
	// verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrWebhookDisabled is returned when callbacks arrive but no secret is
	// configured.
	ErrWebhookDisabled = errors.New("webhook not configured")
)
