// Package events publishes payment lifecycle events to downstream consumers.
//
// Publishing is best effort: callers log failures and carry on, so a broker
// outage never fails a payment request. The default publisher is a no-op;
// KafkaPublisher is used when brokers are configured.
package events

import (
	"context"
	"time"
)

// Event types.
const (
	TypePaymentCreated       = "payment.created"
	TypePaymentStatusChanged = "payment.status_changed"
)

// Event is the JSON payload written for every payment create or status change.
type Event struct {
	Type          string    `json:"type"`
	TransactionID string    `json:"transactionId"`
	Status        string    `json:"status"`
	Amount        int       `json:"amount"`
	PlanID        uint      `json:"planId"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
