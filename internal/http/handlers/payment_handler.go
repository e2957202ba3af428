// Payment HTTP handlers.
//
// This file exposes REST endpoints for payments:
//   - POST  /payments                              (create)
//   - GET   /payments/{transactionId}              (fetch)
//   - PATCH /payments/{transactionId}/status       (set status)
//   - POST  /payments/{transactionId}/upi-link     (build deep link)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recharge-backend/internal/domain"
	"github.com/tbourn/go-recharge-backend/internal/services"
)

//
// DTOs
//

// CreatePaymentRequest is the JSON payload for creating a payment. The UPI id
// and status are always set by the server.
type CreatePaymentRequest struct {
	PlanID        uint    `json:"planId" binding:"required,gt=0" example:"1"`
	Amount        int     `json:"amount" binding:"required,gt=0" example:"170"`
	MobileNumber  *string `json:"mobileNumber" binding:"omitempty,max=20" example:"9876543210"`
	TransactionID string  `json:"transactionId" binding:"required,max=64" example:"TXN8K2M4Q7Z1B"`
}

// UpdateStatusRequest is the JSON payload for changing a payment status.
type UpdateStatusRequest struct {
	Status string `json:"status" enums:"pending,success,failed" example:"success"`
}

//
// Handlers
//

// CreatePayment godoc
// @ID          createPayment
// @Summary     Create a payment
// @Description Validates the plan and price and stores a pending payment directed at the merchant UPI id.
// @Tags        Payments
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreatePaymentRequest  true  "Payment payload"
//
// @Success     200  {object} domain.Payment
// @Failure     400  {object} handlers.ErrorResponse "Invalid payment data or amount mismatch"
// @Failure     404  {object} handlers.ErrorResponse "Plan not found"
// @Failure     409  {object} handlers.ErrorResponse "Transaction id already used"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /payments [post]
func (h *Handlers) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, "invalid payment data", err)
		return
	}

	p, err := h.payments.Create(c.Request.Context(), services.CreatePaymentInput{
		PlanID:        req.PlanID,
		Amount:        req.Amount,
		MobileNumber:  req.MobileNumber,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		h.failPayment(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// GetPayment godoc
// @ID          getPayment
// @Summary     Get payment by transaction id
// @Tags        Payments
// @Produce     json
//
// @Param       transactionId  path  string  true  "Transaction ID"  example(TXN8K2M4Q7Z1B)
//
// @Success     200  {object} domain.Payment
// @Failure     404  {object} handlers.ErrorResponse "Payment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /payments/{transactionId} [get]
func (h *Handlers) GetPayment(c *gin.Context) {
	p, err := h.payments.Get(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		h.failPayment(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdatePaymentStatus godoc
// @ID          updatePaymentStatus
// @Summary     Set payment status
// @Description Any of pending, success or failed may replace the current status. Success stamps completedAt.
// @Tags        Payments
// @Accept      json
// @Produce     json
//
// @Param       transactionId  path  string                        true  "Transaction ID"  example(TXN8K2M4Q7Z1B)
// @Param       body           body  handlers.UpdateStatusRequest  true  "New status"
//
// @Success     200  {object} domain.Payment
// @Failure     400  {object} handlers.ErrorResponse "Invalid payment status"
// @Failure     404  {object} handlers.ErrorResponse "Payment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /payments/{transactionId}/status [patch]
func (h *Handlers) UpdatePaymentStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidStatus, "invalid payment status")
		return
	}

	p, err := h.payments.UpdateStatus(c.Request.Context(), c.Param("transactionId"), domain.PaymentStatus(req.Status))
	if err != nil {
		h.failPayment(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// GenerateUPILink godoc
// @ID          generateUpiLink
// @Summary     Build the UPI deep link for a payment
// @Description Pure formatter; nothing is persisted.
// @Tags        Payments
// @Produce     json
//
// @Param       transactionId  path  string  true  "Transaction ID"  example(TXN8K2M4Q7Z1B)
//
// @Success     200  {object} services.UPILink
// @Failure     404  {object} handlers.ErrorResponse "Payment, plan or operator not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /payments/{transactionId}/upi-link [post]
func (h *Handlers) GenerateUPILink(c *gin.Context) {
	link, err := h.payments.UPILink(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		h.failPayment(c, err)
		return
	}
	ok(c, http.StatusOK, link)
}

// failPayment maps service errors to HTTP responses.
func (h *Handlers) failPayment(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPaymentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "payment not found")
	case errors.Is(err, services.ErrPlanNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "plan not found")
	case errors.Is(err, services.ErrOperatorNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "operator not found")
	case errors.Is(err, services.ErrAmountMismatch):
		fail(c, http.StatusBadRequest, ErrCodeAmountMismatch, "amount does not match plan price")
	case errors.Is(err, services.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, ErrCodeInvalidStatus, "invalid payment status")
	case errors.Is(err, services.ErrDuplicateTransaction):
		fail(c, http.StatusConflict, ErrCodeConflict, "transaction id already used")
	case errors.Is(err, services.ErrInvalidSignature):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid signature")
	case errors.Is(err, services.ErrWebhookDisabled):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "webhook not configured")
	default:
		failInternal(c, err)
	}
}
