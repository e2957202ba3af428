// Package domain defines the persistence models for the recharge catalog
// (operators and plans) and for UPI payments. These types are mapped with
// GORM and serialized as camelCase JSON so existing storefront clients can
// consume them unchanged.
package domain

import "time"

// Operator is a telecom network provider. Operators are reference data:
// they are seeded once at startup and never mutated or deleted.
//
// Fields:
//   - ID: auto-incremented primary key; iteration order follows it.
//   - Name: display name (e.g. "Jio").
//   - Code: unique lookup code (e.g. "jio").
//   - BrandColor: hex color used by clients.
//   - LogoURL: optional logo (usually a data URI).
type Operator struct {
	ID         uint    `json:"id"         gorm:"primaryKey;autoIncrement"`
	Name       string  `json:"name"       gorm:"type:varchar(64);not null"`
	Code       string  `json:"code"       gorm:"type:varchar(32);not null;uniqueIndex:ux_operators_code"`
	BrandColor string  `json:"brandColor" gorm:"type:varchar(16);not null"`
	LogoURL    *string `json:"logoUrl"    gorm:"type:text"`
}

// TableName returns the database table name for Operator.
func (Operator) TableName() string { return "operators" }

// RechargePlan is a purchasable bundle of data, calls and validity tied to a
// single operator. Prices are whole rupees.
//
// Invariant: 0 < DiscountedPrice <= OriginalPrice. IsActive gates visibility
// in per-operator listings.
type RechargePlan struct {
	ID              uint   `json:"id"              gorm:"primaryKey;autoIncrement"`
	OperatorID      uint   `json:"operatorId"      gorm:"not null;index:idx_plans_operator"`
	OriginalPrice   int    `json:"originalPrice"   gorm:"not null;check:chk_plans_original_price,original_price > 0"`
	DiscountedPrice int    `json:"discountedPrice" gorm:"not null;check:chk_plans_discounted_price,discounted_price > 0 AND discounted_price <= original_price"`
	Data            string `json:"data"            gorm:"type:varchar(64);not null"`
	Validity        string `json:"validity"        gorm:"type:varchar(64);not null"`
	Calls           string `json:"calls"           gorm:"type:varchar(64);not null"`
	Type            string `json:"type"            gorm:"type:varchar(32);not null"`
	IsActive        bool   `json:"isActive"        gorm:"not null"`

	// Operator is the owning operator. Plans cannot outlive their operator.
	Operator Operator `json:"-" gorm:"foreignKey:OperatorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for RechargePlan.
func (RechargePlan) TableName() string { return "recharge_plans" }

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Valid reports whether s is one of pending, success or failed.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentSuccess, PaymentFailed:
		return true
	}
	return false
}

// Terminal reports whether s is a settled state (success or failed).
func (s PaymentStatus) Terminal() bool {
	return s == PaymentSuccess || s == PaymentFailed
}

// Payment records one checkout attempt. It is created pending and settled by
// a later status update, at which point CompletedAt is stamped for successes.
//
// Fields:
//   - ID: internal auto-incremented key.
//   - TransactionID: external correlation key (unique).
//   - PlanID: purchased plan.
//   - Amount: rupees; equals the plan's discounted price at creation time.
//   - UpiID: merchant UPI address the payment is directed to (server-set).
//   - Status: pending, success or failed.
//   - MobileNumber: optional number being recharged.
//   - CreatedAt / CompletedAt: lifecycle timestamps.
type Payment struct {
	ID            uint          `json:"id"            gorm:"primaryKey;autoIncrement"`
	TransactionID string        `json:"transactionId" gorm:"type:varchar(64);not null;uniqueIndex:ux_payments_transaction_id"`
	PlanID        uint          `json:"planId"        gorm:"not null;index"`
	Amount        int           `json:"amount"        gorm:"not null"`
	UpiID         string        `json:"upiId"         gorm:"type:varchar(128);not null"`
	Status        PaymentStatus `json:"status"        gorm:"type:varchar(16);not null;check:chk_payments_status,status IN ('pending','success','failed')"`
	MobileNumber  *string       `json:"mobileNumber"  gorm:"type:varchar(32)"`
	CreatedAt     time.Time     `json:"createdAt"     gorm:"not null"`
	CompletedAt   *time.Time    `json:"completedAt"`

	// Plan is the purchased plan.
	Plan RechargePlan `json:"-" gorm:"foreignKey:PlanID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Payment.
func (Payment) TableName() string { return "payments" }
